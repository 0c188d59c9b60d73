package fulfillment

import (
	"fmt"
	"strings"

	"github.com/kargopanel/backend/internal/domain/shared"
)

// Fulfillment-specific domain errors
var (
	// ErrEmptyBatch is returned when a label batch carries no order IDs
	ErrEmptyBatch = shared.NewDomainError("EMPTY_BATCH", "No orders selected for printing")
	// ErrCarrierUnconfigured signals that the tenant has no active carrier
	// connection; the batch proceeds without requesting tracking numbers.
	ErrCarrierUnconfigured = shared.NewDomainError("CARRIER_UNCONFIGURED", "No active carrier connection for tenant")
)

// CarrierError normalizes every carrier-side failure, whether the service
// reported an error flag or the network call itself failed. It always
// carries a human-readable message.
type CarrierError struct {
	Message string
}

// Error implements the error interface
func (e *CarrierError) Error() string {
	return e.Message
}

// NewCarrierError creates a carrier error with the given message
func NewCarrierError(format string, args ...interface{}) *CarrierError {
	return &CarrierError{Message: fmt.Sprintf(format, args...)}
}

// AlreadyPrintedError is the soft conflict raised when an unforced batch
// contains orders whose labels were printed before. The caller is expected
// to re-confirm with force set.
type AlreadyPrintedError struct {
	OrderNumbers []string
}

// Error implements the error interface
func (e *AlreadyPrintedError) Error() string {
	return "labels already printed for orders: " + strings.Join(e.OrderNumbers, ", ")
}

// ValidationError signals a shipment request that cannot be sent as built,
// e.g. a cash-on-delivery shipment without a collection amount.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
