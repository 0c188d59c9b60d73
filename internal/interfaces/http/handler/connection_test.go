package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	appfulfillment "github.com/kargopanel/backend/internal/application/fulfillment"
	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/interfaces/http/handler"
	"github.com/kargopanel/backend/internal/interfaces/http/middleware"
)

type MockConnectionService struct {
	mock.Mock
}

func (m *MockConnectionService) UpsertConnection(ctx context.Context, tenantID uuid.UUID, req appfulfillment.UpsertConnectionRequest) (*appfulfillment.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.ConnectionResponse), args.Error(1)
}

func (m *MockConnectionService) GetActiveConnection(ctx context.Context, tenantID uuid.UUID) (*appfulfillment.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.ConnectionResponse), args.Error(1)
}

func (m *MockConnectionService) DeactivateConnection(ctx context.Context, tenantID uuid.UUID) (*appfulfillment.ConnectionResponse, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.ConnectionResponse), args.Error(1)
}

func connectionTestRouter(svc handler.ConnectionService) *gin.Engine {
	h := handler.NewConnectionHandler(svc, nil)
	r := gin.New()
	r.Use(middleware.RequestID())
	grp := r.Group("/api/v1/fulfillment")
	grp.GET("/connection", h.Get)
	grp.PUT("/connection", h.Upsert)
	grp.DELETE("/connection", h.Deactivate)
	return r
}

func TestUpsertConnection_Success(t *testing.T) {
	svc := new(MockConnectionService)
	svc.On("UpsertConnection", mock.Anything, testTenant, mock.MatchedBy(func(req appfulfillment.UpsertConnectionRequest) bool {
		return req.CarrierName == "ArasKargo" && req.Username == "acct"
	})).Return(&appfulfillment.ConnectionResponse{
		ID:          uuid.NewString(),
		CarrierName: "ArasKargo",
		Username:    "acct",
		IsActive:    true,
	}, nil)
	r := connectionTestRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/api/v1/fulfillment/connection",
		gin.H{"carrier_name": "ArasKargo", "username": "acct", "password": "secret"}, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ArasKargo")
	assert.NotContains(t, w.Body.String(), "secret")
}

func TestUpsertConnection_MissingFields(t *testing.T) {
	svc := new(MockConnectionService)
	r := connectionTestRouter(svc)

	w := doJSON(t, r, http.MethodPut, "/api/v1/fulfillment/connection",
		gin.H{"carrier_name": "ArasKargo"}, true)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "UpsertConnection")
}

func TestGetConnection_NoneConfigured(t *testing.T) {
	svc := new(MockConnectionService)
	svc.On("GetActiveConnection", mock.Anything, testTenant).
		Return(nil, fulfillment.ErrCarrierUnconfigured)
	r := connectionTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/fulfillment/connection", nil, true)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_CARRIER_UNCONFIGURED")
}

func TestDeactivateConnection_Success(t *testing.T) {
	svc := new(MockConnectionService)
	svc.On("DeactivateConnection", mock.Anything, testTenant).
		Return(&appfulfillment.ConnectionResponse{CarrierName: "ArasKargo", IsActive: false}, nil)
	r := connectionTestRouter(svc)

	w := doJSON(t, r, http.MethodDelete, "/api/v1/fulfillment/connection", nil, true)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_active":false`)
}

func TestConnection_NoTenant(t *testing.T) {
	svc := new(MockConnectionService)
	r := connectionTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/api/v1/fulfillment/connection", nil, false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
