package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/infrastructure/auth"
	"github.com/kargopanel/backend/internal/infrastructure/logger"
	"github.com/kargopanel/backend/internal/interfaces/http/handler"
	"github.com/kargopanel/backend/internal/interfaces/http/middleware"
)

// Config holds everything the router needs to assemble the HTTP surface
type Config struct {
	Logger      *zap.Logger
	Verifier    *auth.TokenVerifier
	CORS        *middleware.CORSConfig
	Fulfillment *handler.FulfillmentHandler
	Connection  *handler.ConnectionHandler
	System      *handler.SystemHandler
	// HeaderTenantEnabled allows X-Tenant-ID as a tenant source for
	// requests without a token. Meant for gateways and development.
	HeaderTenantEnabled bool
}

// New assembles the gin engine: recovery, request IDs, CORS, request
// logging, then authentication and tenant resolution guarding the
// /api/v1/fulfillment group. Probes stay outside the guarded group.
func New(cfg Config) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	if cfg.CORS != nil {
		engine.Use(middleware.CORSWithConfig(*cfg.CORS))
	} else {
		engine.Use(middleware.CORS())
	}
	engine.Use(logger.GinMiddleware(log))

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
		engine.GET("/healthz", cfg.System.Health)
		engine.GET("/ready", cfg.System.Ready)
	}

	api := engine.Group("/api/v1")
	if cfg.Verifier != nil {
		jwtCfg := middleware.DefaultJWTConfig(cfg.Verifier)
		jwtCfg.Optional = cfg.HeaderTenantEnabled
		jwtCfg.Logger = log
		api.Use(middleware.JWTAuthWithConfig(jwtCfg))
	}
	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.HeaderEnabled = cfg.HeaderTenantEnabled || cfg.Verifier == nil
	tenantCfg.Logger = log
	api.Use(middleware.TenantWithConfig(tenantCfg))

	ful := api.Group("/fulfillment")
	if cfg.Fulfillment != nil {
		ful.POST("/labels", cfg.Fulfillment.PrintLabels)
		ful.GET("/orders", cfg.Fulfillment.ListOrders)
		ful.GET("/orders/:id", cfg.Fulfillment.GetOrder)
		ful.GET("/orders/:id/tracking", cfg.Fulfillment.TrackShipment)
		ful.GET("/returns", cfg.Fulfillment.ListReturns)
	}
	if cfg.Connection != nil {
		ful.GET("/connection", cfg.Connection.Get)
		ful.PUT("/connection", cfg.Connection.Upsert)
		ful.DELETE("/connection", cfg.Connection.Deactivate)
	}

	return engine
}
