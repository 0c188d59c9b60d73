package fulfillment

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// OrderStatus represents the marketplace-facing status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// FallbackProductCode is attached when neither the order nor its line items
// carry a resolvable product code.
const FallbackProductCode = "UNKNOWN"

// Order represents a confirmed marketplace order waiting for fulfillment.
// The raw marketplace payload is kept verbatim because the line item shape
// varies by platform; see payload.go for normalization.
type Order struct {
	shared.TenantAggregateRoot
	Platform     string
	OrderNumber  string
	Status       OrderStatus
	CustomerName string
	Address      string
	City         string
	District     string
	Phone        string
	// RecipientCode is the carrier-assigned address code for the receiver,
	// when the marketplace provides one.
	RecipientCode string
	ProductCode   string
	ProductName   string
	// DeclaredDesi is a scalar desi declared on the order itself, used as the
	// last-resort parcel source.
	DeclaredDesi decimal.Decimal
	// RawPayload is the marketplace payload as received (JSON).
	RawPayload []byte

	CargoTrackingNumber *string
	CargoProvider       *string
	IsPrinted           bool
	PrintedAt           *time.Time
}

// NewOrder creates a new order for a tenant
func NewOrder(tenantID uuid.UUID, platform, orderNumber string) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Platform:            platform,
		OrderNumber:         orderNumber,
		Status:              OrderStatusConfirmed,
		DeclaredDesi:        decimal.Zero,
	}, nil
}

// HasTracking reports whether a carrier tracking number is already assigned
func (o *Order) HasTracking() bool {
	return o.CargoTrackingNumber != nil && *o.CargoTrackingNumber != ""
}

// TrackingNumber returns the assigned tracking number or ""
func (o *Order) TrackingNumber() string {
	if o.CargoTrackingNumber == nil {
		return ""
	}
	return *o.CargoTrackingNumber
}

// AssignTracking records the carrier tracking number. A tracking number is
// assigned at most once; orders that already carry one are never re-shipped.
func (o *Order) AssignTracking(trackingNumber, provider string) error {
	if trackingNumber == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking number cannot be empty")
	}
	if o.HasTracking() {
		return shared.NewDomainError("TRACKING_ASSIGNED", "Order already has a tracking number")
	}
	o.CargoTrackingNumber = &trackingNumber
	o.CargoProvider = &provider
	o.UpdatedAt = time.Now()
	o.AddDomainEvent(NewOrderTrackingAssignedEvent(o, trackingNumber))
	return nil
}

// MarkPrinted transitions the order to the printed state. The transition is
// monotonic: reprints refresh the timestamp but never clear the flag.
func (o *Order) MarkPrinted(at time.Time) {
	first := !o.IsPrinted
	o.IsPrinted = true
	o.PrintedAt = &at
	o.UpdatedAt = at
	if first {
		o.AddDomainEvent(NewOrderPrintedEvent(o))
	}
}

// BarcodeValue returns the value labels should encode: the carrier tracking
// number when present, otherwise the order number.
func (o *Order) BarcodeValue() string {
	if o.HasTracking() {
		return *o.CargoTrackingNumber
	}
	return o.OrderNumber
}

// EffectiveProductCode resolves the order's product code by priority:
// the explicit order field, then the first line item's code, then a
// fallback literal.
func (o *Order) EffectiveProductCode() string {
	if code := strings.TrimSpace(o.ProductCode); code != "" {
		return code
	}
	items := NormalizeLineItems(o.RawPayload)
	if len(items) > 0 && items[0].SKU != "" {
		return items[0].SKU
	}
	return FallbackProductCode
}

// EffectiveProductName resolves the display name the same way as the code
func (o *Order) EffectiveProductName() string {
	if name := strings.TrimSpace(o.ProductName); name != "" {
		return name
	}
	items := NormalizeLineItems(o.RawPayload)
	if len(items) > 0 && items[0].ProductName != "" {
		return items[0].ProductName
	}
	return ""
}
