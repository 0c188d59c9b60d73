package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/kargopanel/backend/internal/infrastructure/auth"
	"github.com/kargopanel/backend/internal/infrastructure/config"
	"github.com/kargopanel/backend/internal/interfaces/http/handler"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouter_HealthOutsideAuth(t *testing.T) {
	engine := New(Config{
		Verifier: auth.NewTokenVerifier(config.JWTConfig{Secret: "s"}),
		System:   handler.NewSystemHandler(nil, "test", nil),
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRouter_APIRequiresAuth(t *testing.T) {
	engine := New(Config{
		Verifier:    auth.NewTokenVerifier(config.JWTConfig{Secret: "s"}),
		Fulfillment: handler.NewFulfillmentHandler(nil, nil),
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/fulfillment/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_RequestIDHeaderSet(t *testing.T) {
	engine := New(Config{System: handler.NewSystemHandler(nil, "test", nil)})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_UnknownRouteIs404(t *testing.T) {
	engine := New(Config{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
