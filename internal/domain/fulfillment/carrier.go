package fulfillment

import (
	"context"
	"time"
)

// CarrierGateway is the port to the external carrier service. All three
// operations are stateless aside from the credentials the implementation
// was built with; failures of any kind surface as *CarrierError.
type CarrierGateway interface {
	// CreateShipment registers a shipment and returns the carrier tracking number
	CreateShipment(ctx context.Context, req ShipmentRequest) (string, error)
	// TrackShipment returns the carrier's raw status blob for an order reference
	TrackShipment(ctx context.Context, integrationCode string) (string, error)
	// ListReturns returns the carrier's raw blob of returned shipments in a date range
	ListReturns(ctx context.Context, start, end time.Time) (string, error)
}

// CarrierGatewayFactory builds a gateway bound to one tenant's credentials.
// The pipeline resolves the tenant's active connection once per batch and
// dials through the factory.
type CarrierGatewayFactory interface {
	ForConnection(conn *CarrierConnection) CarrierGateway
}
