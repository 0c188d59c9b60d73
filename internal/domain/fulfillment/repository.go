package fulfillment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderListFilter is the filter set the order listing accepts
type OrderListFilter struct {
	Statuses  []OrderStatus
	Platform  string
	DateFrom  *time.Time
	DateTo    *time.Time
	Search    string
	IsPrinted *bool
	SortBy    string
	SortDir   string
	Page      int
	PageSize  int
}

// OrderRepository defines persistence operations for orders
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*Order, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter OrderListFilter) ([]*Order, int64, error)
	Save(ctx context.Context, order *Order) error

	// SavePrintState persists tracking and print-state for every order in
	// one write. The batch is all-or-nothing so a failing final write never
	// leaves the print-state transition partially visible.
	SavePrintState(ctx context.Context, orders []*Order) error
}

// CarrierConnectionRepository defines persistence for carrier credentials
type CarrierConnectionRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CarrierConnection, error)
	FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) (*CarrierConnection, error)
	Save(ctx context.Context, conn *CarrierConnection) error
}

// ShipmentRecordRepository appends audit rows for successful carrier calls
type ShipmentRecordRepository interface {
	Append(ctx context.Context, record *ShipmentRecord) error
	FindByOrderForTenant(ctx context.Context, tenantID, orderID uuid.UUID) ([]*ShipmentRecord, error)
}
