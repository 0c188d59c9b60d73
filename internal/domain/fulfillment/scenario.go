package fulfillment

import (
	"github.com/shopspring/decimal"
)

// Scenario tags the commercial situation a shipment is created under.
// The string values are part of the carrier-facing contract and must not
// change; the marketplace value keeps its historical misspelling on the
// wire.
type Scenario string

const (
	ScenarioMarketplaceSale  Scenario = "MARKETPALCE_SALE"
	ScenarioBuyerPaysCarrier Scenario = "BUYER_PAYS_CARRIER"
	ScenarioCODCash          Scenario = "COD_CASH"
	ScenarioCODCard          Scenario = "COD_CARD"
)

// ParseScenario maps an input tag to a Scenario. The corrected spelling of
// the marketplace tag is accepted alongside the historical wire value.
func ParseScenario(tag string) (Scenario, bool) {
	switch tag {
	case string(ScenarioMarketplaceSale), "MARKETPLACE_SALE":
		return ScenarioMarketplaceSale, true
	case string(ScenarioBuyerPaysCarrier):
		return ScenarioBuyerPaysCarrier, true
	case string(ScenarioCODCash):
		return ScenarioCODCash, true
	case string(ScenarioCODCard):
		return ScenarioCODCard, true
	}
	return "", false
}

// IsCOD reports whether the scenario collects payment at delivery
func (s Scenario) IsCOD() bool {
	return s == ScenarioCODCash || s == ScenarioCODCard
}

// Carrier payer codes
const (
	PayorSender    = "1"
	PayorRecipient = "2"
)

// Carrier collection type codes; empty means no collection
const (
	CollectionNone = ""
	CollectionCash = "1"
	CollectionCard = "2"
)

// Default wire codes applied before scenario mapping
const (
	CargoTypePackage        = "1"
	TransportTypeStandard   = "1"
	DeliveryTypeAddress     = "1"
	defaultPieceCount       = 1
	defaultUnitDesiOrWeight = "1"
)

// ShipmentRequest is the carrier-neutral request a shipment is created
// from. The carrier client serializes it into the wire envelope.
type ShipmentRequest struct {
	ReceiverName    string
	ReceiverAddress string
	ReceiverCity    string
	ReceiverTown    string
	ReceiverPhone   string
	// RecipientCode is the carrier-assigned address code for the receiver
	RecipientCode string
	// IntegrationCode is the caller-supplied external order reference
	IntegrationCode string

	CargoType     string
	PayorType     string
	PieceCount    int
	Desi          string
	Kg            string
	TransportType string
	DeliveryType  string

	CollectionType   string
	CollectionAmount decimal.Decimal

	MarketplaceShipment bool
	ReturnShipment      bool
}

// ResolveScenario fills the carrier payment and collection codes for the
// given scenario and applies wire defaults for any field left empty. COD
// scenarios require a positive collection amount and fail before any I/O
// when it is absent. The resolver performs no I/O itself.
func ResolveScenario(req ShipmentRequest, scenario Scenario) (ShipmentRequest, error) {
	// Defaults first, then the scenario mapping on top.
	if req.CargoType == "" {
		req.CargoType = CargoTypePackage
	}
	if req.PieceCount <= 0 {
		req.PieceCount = defaultPieceCount
	}
	if req.Desi == "" {
		req.Desi = defaultUnitDesiOrWeight
	}
	if req.Kg == "" {
		req.Kg = defaultUnitDesiOrWeight
	}
	if req.TransportType == "" {
		req.TransportType = TransportTypeStandard
	}
	if req.DeliveryType == "" {
		req.DeliveryType = DeliveryTypeAddress
	}
	req.ReturnShipment = false

	switch scenario {
	case ScenarioMarketplaceSale:
		req.PayorType = PayorSender
		req.CollectionType = CollectionNone
		req.MarketplaceShipment = true
	case ScenarioBuyerPaysCarrier:
		req.PayorType = PayorRecipient
		req.CollectionType = CollectionNone
		req.MarketplaceShipment = false
	case ScenarioCODCash, ScenarioCODCard:
		if !req.CollectionAmount.IsPositive() {
			return req, &ValidationError{
				Field:   "collection_amount",
				Message: "collection amount is required for cash/card on delivery",
			}
		}
		req.PayorType = PayorSender
		req.MarketplaceShipment = false
		if scenario == ScenarioCODCash {
			req.CollectionType = CollectionCash
		} else {
			req.CollectionType = CollectionCard
		}
	default:
		return req, &ValidationError{Field: "scenario", Message: "unknown shipment scenario"}
	}

	return req, nil
}
