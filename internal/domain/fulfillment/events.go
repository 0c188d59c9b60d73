package fulfillment

import (
	"github.com/kargopanel/backend/internal/domain/shared"
)

// Event types for the fulfillment domain
const (
	EventTypeOrderPrinted          = "fulfillment.order.printed"
	EventTypeOrderTrackingAssigned = "fulfillment.order.tracking_assigned"
)

// OrderPrintedEvent is raised the first time an order's label is printed
type OrderPrintedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
	Platform    string `json:"platform"`
}

// NewOrderPrintedEvent creates an OrderPrintedEvent
func NewOrderPrintedEvent(order *Order) *OrderPrintedEvent {
	return &OrderPrintedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPrinted, order.ID, "Order", order.TenantID),
		OrderNumber:     order.OrderNumber,
		Platform:        order.Platform,
	}
}

// OrderTrackingAssignedEvent is raised when a carrier tracking number is
// assigned to an order
type OrderTrackingAssignedEvent struct {
	shared.BaseDomainEvent
	OrderNumber    string `json:"order_number"`
	TrackingNumber string `json:"tracking_number"`
}

// NewOrderTrackingAssignedEvent creates an OrderTrackingAssignedEvent
func NewOrderTrackingAssignedEvent(order *Order, trackingNumber string) *OrderTrackingAssignedEvent {
	return &OrderTrackingAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderTrackingAssigned, order.ID, "Order", order.TenantID),
		OrderNumber:     order.OrderNumber,
		TrackingNumber:  trackingNumber,
	}
}
