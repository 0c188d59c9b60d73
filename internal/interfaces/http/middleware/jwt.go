package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/infrastructure/auth"
	"github.com/kargopanel/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTUserIDKey   = "jwt_user_id"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig holds configuration for the JWT middleware
type JWTMiddlewareConfig struct {
	// Verifier validates access tokens; required
	Verifier *auth.TokenVerifier
	// SkipPaths are paths served without a token
	SkipPaths []string
	// Optional makes a missing or invalid token non-fatal; the tenant
	// middleware then falls back to the X-Tenant-ID header
	Optional bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns the default JWT middleware configuration
func DefaultJWTConfig(verifier *auth.TokenVerifier) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		Verifier:  verifier,
		SkipPaths: []string{"/health", "/healthz", "/ready"},
	}
}

// JWTAuth creates JWT authentication middleware with defaults
func JWTAuth(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return JWTAuthWithConfig(DefaultJWTConfig(verifier))
}

// JWTAuthWithConfig creates JWT authentication middleware. On success the
// verified claims and the tenant ID land in the gin context for the
// tenant middleware and handlers to pick up.
func JWTAuthWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if path == skip {
				c.Next()
				return
			}
		}

		header := c.GetHeader(AuthHeaderKey)
		if header == "" {
			if cfg.Optional {
				c.Next()
				return
			}
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}

		tokenString := strings.TrimPrefix(header, BearerPrefix)
		claims, err := cfg.Verifier.Verify(tokenString)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Token verification failed",
					zap.String("path", path),
					zap.Error(err),
				)
			}
			if cfg.Optional {
				c.Next()
				return
			}
			abortUnauthorized(c, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTTenantIDKey, claims.TenantID)
		if claims.UserID != "" {
			c.Set(JWTUserIDKey, claims.UserID)
		}

		c.Next()
	}
}

// GetJWTClaims retrieves verified claims from the gin context, or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if v, exists := c.Get(JWTClaimsKey); exists {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetJWTTenantID returns the tenant ID from verified claims, or ""
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

// GetJWTUserID returns the user ID from verified claims, or ""
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

func abortUnauthorized(c *gin.Context, message string) {
	resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, c.GetString(RequestIDKey))
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}
