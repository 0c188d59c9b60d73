package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	appfulfillment "github.com/kargopanel/backend/internal/application/fulfillment"
	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/interfaces/http/dto"
)

// FulfillmentService is the application surface the HTTP layer drives
type FulfillmentService interface {
	PrintLabels(ctx context.Context, tenantID uuid.UUID, req appfulfillment.PrintLabelsRequest) (*appfulfillment.PrintLabelsResponse, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, req appfulfillment.ListOrdersRequest) (*appfulfillment.ListOrdersResponse, error)
	GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*appfulfillment.OrderResponse, error)
	TrackShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*appfulfillment.TrackShipmentResponse, error)
	ListReturns(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*appfulfillment.ListReturnsResponse, error)
}

// FulfillmentHandler serves the label batch endpoint, order queries and
// the carrier read-only queries
type FulfillmentHandler struct {
	BaseHandler
	service FulfillmentService
}

// NewFulfillmentHandler creates a fulfillment handler
func NewFulfillmentHandler(service FulfillmentService, logger *zap.Logger) *FulfillmentHandler {
	return &FulfillmentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// PrintLabels handles POST /fulfillment/labels. An unforced batch that
// contains already-printed orders answers 409 with the conflicting order
// numbers; the client re-submits with force once the operator confirms.
func (h *FulfillmentHandler) PrintLabels(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var req appfulfillment.PrintLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.PrintLabels(c.Request.Context(), tenantID, req)
	if err != nil {
		var printed *fulfillment.AlreadyPrintedError
		if errors.As(err, &printed) {
			c.JSON(http.StatusConflict, dto.PrintConflict{
				Conflict:          true,
				ConflictingOrders: printed.OrderNumbers,
			})
			return
		}
		var validation *fulfillment.ValidationError
		if errors.As(err, &validation) {
			h.Error(c, dto.ErrCodeValidation, validation.Error())
			return
		}
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"document": resp.Document,
		"orders":   resp.Orders,
	})
}

// ListOrders handles GET /fulfillment/orders
func (h *FulfillmentHandler) ListOrders(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	var req appfulfillment.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.service.ListOrders(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, resp.Items, resp.Total, resp.Page, resp.Size)
}

// GetOrder handles GET /fulfillment/orders/:id
func (h *FulfillmentHandler) GetOrder(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	orderID, ok := h.bindOrderID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetOrder(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TrackShipment handles GET /fulfillment/orders/:id/tracking. The
// carrier's status answer is passed through untranslated.
func (h *FulfillmentHandler) TrackShipment(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	orderID, ok := h.bindOrderID(c)
	if !ok {
		return
	}

	resp, err := h.service.TrackShipment(c.Request.Context(), tenantID, orderID)
	if err != nil {
		h.handleCarrierError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListReturns handles GET /fulfillment/returns?start_date=&end_date=
func (h *FulfillmentHandler) ListReturns(c *gin.Context) {
	tenantID, ok := h.getTenantID(c)
	if !ok {
		return
	}

	start, ok := h.bindDate(c, "start_date")
	if !ok {
		return
	}
	end, ok := h.bindDate(c, "end_date")
	if !ok {
		return
	}

	resp, err := h.service.ListReturns(c.Request.Context(), tenantID, start, end)
	if err != nil {
		h.handleCarrierError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *FulfillmentHandler) bindOrderID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *FulfillmentHandler) bindDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		h.BadRequest(c, name+" is required (YYYY-MM-DD)")
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.BadRequest(c, name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return t, true
}

// handleCarrierError maps carrier failures onto 502 before falling back
// to the generic error mapping
func (h *FulfillmentHandler) handleCarrierError(c *gin.Context, err error) {
	var carrierErr *fulfillment.CarrierError
	if errors.As(err, &carrierErr) {
		h.Error(c, dto.ErrCodeCarrierFailure, carrierErr.Message)
		return
	}
	h.HandleError(c, err)
}
