package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appfulfillment "github.com/kargopanel/backend/internal/application/fulfillment"
)

// ConnectionService manages the tenant's carrier connection settings
type ConnectionService interface {
	UpsertConnection(ctx context.Context, tenantID uuid.UUID, req appfulfillment.UpsertConnectionRequest) (*appfulfillment.ConnectionResponse, error)
	GetActiveConnection(ctx context.Context, tenantID uuid.UUID) (*appfulfillment.ConnectionResponse, error)
	DeactivateConnection(ctx context.Context, tenantID uuid.UUID) (*appfulfillment.ConnectionResponse, error)
}

// ConnectionHandler serves the carrier connection settings endpoints.
// Each tenant has at most one active connection.
type ConnectionHandler struct {
	BaseHandler
	service ConnectionService
}

// NewConnectionHandler creates a connection handler
func NewConnectionHandler(service ConnectionService, logger *zap.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Upsert handles PUT /fulfillment/connection
func (h *ConnectionHandler) Upsert(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var req appfulfillment.UpsertConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.UpsertConnection(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Get handles GET /fulfillment/connection
func (h *ConnectionHandler) Get(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetActiveConnection(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate handles DELETE /fulfillment/connection
func (h *ConnectionHandler) Deactivate(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	resp, err := h.service.DeactivateConnection(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
