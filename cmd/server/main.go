package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfulfillment "github.com/kargopanel/backend/internal/application/fulfillment"
	domfulfillment "github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/infrastructure/auth"
	"github.com/kargopanel/backend/internal/infrastructure/cache"
	"github.com/kargopanel/backend/internal/infrastructure/carrier"
	"github.com/kargopanel/backend/internal/infrastructure/config"
	"github.com/kargopanel/backend/internal/infrastructure/labels"
	"github.com/kargopanel/backend/internal/infrastructure/logger"
	"github.com/kargopanel/backend/internal/infrastructure/persistence"
	"github.com/kargopanel/backend/internal/interfaces/http/handler"
	"github.com/kargopanel/backend/internal/interfaces/http/router"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting kargopanel backend",
		zap.String("version", version),
		zap.String("env", cfg.App.Env),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithGormLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	connectionRepo := persistence.NewGormCarrierConnectionRepository(db.DB)
	recordRepo := persistence.NewGormShipmentRecordRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)

	// Product lookups go through the tiered cache; Redis is optional and
	// the factory falls back to the in-memory tier when it is unreachable.
	cacheFactory := cache.NewProductCacheFactory(cfg.Redis, cache.WithLogger(log))
	productCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create product cache", zap.Error(err))
	}
	defer func() { _ = productCache.Close() }()
	cachedProducts := cache.NewCachedProductRepository(productRepo, productCache, log)

	// Carrier gateway factory, one endpoint shared by all tenants. Without
	// a configured endpoint, batches print labels with fallback barcodes.
	var gatewayFactory domfulfillment.CarrierGatewayFactory
	if cfg.Carrier.BaseURL != "" {
		gatewayFactory, err = carrier.NewFactory(&carrier.Config{
			BaseURL:        cfg.Carrier.BaseURL,
			Timeout:        cfg.Carrier.Timeout,
			AllowLegacyTLS: cfg.Carrier.AllowLegacyTLS,
		}, log)
		if err != nil {
			log.Fatal("Failed to create carrier factory", zap.Error(err))
		}
	} else {
		log.Warn("carrier.base_url not configured, shipments will not be created")
	}

	// Application service
	fulfillmentService := appfulfillment.NewService(
		orderRepo,
		connectionRepo,
		recordRepo,
		cachedProducts,
		gatewayFactory,
		labels.NewRenderer(),
		log,
	)

	// HTTP surface
	engine := router.New(router.Config{
		Logger:              log,
		Verifier:            auth.NewTokenVerifier(cfg.JWT),
		Fulfillment:         handler.NewFulfillmentHandler(fulfillmentService, log),
		Connection:          handler.NewConnectionHandler(fulfillmentService, log),
		System:              handler.NewSystemHandler(db.DB, version, log),
		HeaderTenantEnabled: cfg.App.Env != "production",
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
