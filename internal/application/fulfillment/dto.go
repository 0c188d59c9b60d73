package fulfillment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
)

// =============================================================================
// Label batch DTOs
// =============================================================================

// PrintLabelsRequest is the batch entry point's input
type PrintLabelsRequest struct {
	OrderIDs []uuid.UUID `json:"order_ids" binding:"required"`
	Force    bool        `json:"force"`
	// Scenario optionally overrides the batch default shipment scenario.
	// Individual orders may still override it via their payload.
	Scenario string `json:"scenario"`
}

// OrderPrintResult describes one order's outcome within a batch
type OrderPrintResult struct {
	OrderID        string `json:"order_id"`
	OrderNumber    string `json:"order_number"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	// Barcode is the value encoded on the label: the tracking number when
	// present, otherwise the order number
	Barcode          string          `json:"barcode"`
	OfficialTracking bool            `json:"official_tracking"`
	TotalDesi        decimal.Decimal `json:"total_desi"`
	MissingInfo      bool            `json:"missing_info"`
	// CarrierError carries the per-order failure message when the carrier
	// call did not succeed; the order still receives a label
	CarrierError string `json:"carrier_error,omitempty"`
}

// PrintLabelsResponse is the batch result: the printable document plus
// per-order outcomes
type PrintLabelsResponse struct {
	Document string             `json:"document"`
	Orders   []OrderPrintResult `json:"orders"`
}

// =============================================================================
// Order listing DTOs
// =============================================================================

// ListOrdersRequest represents a request to list orders
type ListOrdersRequest struct {
	Page      int      `form:"page" binding:"omitempty,min=1"`
	PageSize  int      `form:"page_size" binding:"omitempty,min=1,max=100"`
	Statuses  []string `form:"status"`
	Platform  string   `form:"platform"`
	DateFrom  string   `form:"date_from"`
	DateTo    string   `form:"date_to"`
	Search    string   `form:"search"`
	IsPrinted *bool    `form:"is_printed"`
	SortBy    string   `form:"sort_by"`
	SortDir   string   `form:"sort_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// OrderResponse represents one order in API responses
type OrderResponse struct {
	ID                  string          `json:"id"`
	Platform            string          `json:"platform"`
	OrderNumber         string          `json:"order_number"`
	Status              string          `json:"status"`
	CustomerName        string          `json:"customer_name"`
	Address             string          `json:"address"`
	City                string          `json:"city"`
	District            string          `json:"district"`
	Phone               string          `json:"phone"`
	ProductCode         string          `json:"product_code"`
	ProductName         string          `json:"product_name"`
	DeclaredDesi        decimal.Decimal `json:"declared_desi"`
	CargoTrackingNumber *string         `json:"cargo_tracking_number"`
	CargoProvider       *string         `json:"cargo_provider"`
	IsPrinted           bool            `json:"is_printed"`
	PrintedAt           *time.Time      `json:"printed_at"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ListOrdersResponse represents a paginated order list
type ListOrdersResponse struct {
	Items []OrderResponse `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
}

// =============================================================================
// Carrier connection DTOs
// =============================================================================

// UpsertConnectionRequest creates or replaces the tenant's carrier connection
type UpsertConnectionRequest struct {
	CarrierName string `json:"carrier_name" binding:"required,min=1,max=100"`
	Username    string `json:"username" binding:"required,min=1,max=200"`
	Password    string `json:"password" binding:"required,min=1,max=200"`
}

// ConnectionResponse represents a carrier connection. The password is never
// echoed back.
type ConnectionResponse struct {
	ID          string    `json:"id"`
	CarrierName string    `json:"carrier_name"`
	Username    string    `json:"username"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// =============================================================================
// Carrier query DTOs
// =============================================================================

// TrackShipmentResponse wraps the carrier's raw status blob for one order
type TrackShipmentResponse struct {
	OrderNumber string `json:"order_number"`
	Raw         string `json:"raw"`
}

// ListReturnsResponse wraps the carrier's raw returned-shipments blob
type ListReturnsResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Raw       string `json:"raw"`
}

// =============================================================================
// Mappers
// =============================================================================

func toOrderResponse(o *fulfillment.Order) OrderResponse {
	return OrderResponse{
		ID:                  o.ID.String(),
		Platform:            o.Platform,
		OrderNumber:         o.OrderNumber,
		Status:              string(o.Status),
		CustomerName:        o.CustomerName,
		Address:             o.Address,
		City:                o.City,
		District:            o.District,
		Phone:               o.Phone,
		ProductCode:         o.ProductCode,
		ProductName:         o.ProductName,
		DeclaredDesi:        o.DeclaredDesi,
		CargoTrackingNumber: o.CargoTrackingNumber,
		CargoProvider:       o.CargoProvider,
		IsPrinted:           o.IsPrinted,
		PrintedAt:           o.PrintedAt,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
}

func toConnectionResponse(c *fulfillment.CarrierConnection) *ConnectionResponse {
	return &ConnectionResponse{
		ID:          c.ID.String(),
		CarrierName: c.CarrierName,
		Username:    c.Username,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
