package fulfillment

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/kargopanel/backend/internal/domain/catalog"
)

// Parcel is one shippable unit's dimensions and desi. It is derived at
// batch time and never persisted.
type Parcel struct {
	Width  decimal.Decimal `json:"width"`
	Height decimal.Decimal `json:"height"`
	Depth  decimal.Decimal `json:"depth"`
	Weight decimal.Decimal `json:"weight"`
	Desi   decimal.Decimal `json:"desi"`
}

// ParcelComputation is the result of deriving an order's parcel list
type ParcelComputation struct {
	Parcels       []Parcel        `json:"parcels"`
	TotalDesi     decimal.Decimal `json:"total_desi"`
	IsMissingInfo bool            `json:"is_missing_info"`
}

// packagingKeys are the payload keys that may carry explicit packaging details
var packagingKeys = []string{"packages", "parcels", "packaging"}

// desiKeys are the payload keys tried for a scalar desi fallback
var desiKeys = []string{"desi", "total_desi", "totalDesi"}

// ComputeParcels derives an order's parcel list and total desi from the
// richest available source, first match wins:
//
//  1. explicit packaging details on the order payload
//  2. the resolved product's parcel definitions, replicated per ordered unit
//  3. a single synthetic parcel from any scalar desi present, else zero
//
// The computation is pure; identical inputs always produce identical output.
func ComputeParcels(order *Order, product *catalog.Product) ParcelComputation {
	if parcels, ok := explicitParcels(order.RawPayload); ok {
		return finishComputation(parcels)
	}

	if product != nil && product.HasParcelDefinitions() {
		quantity := TotalQuantity(NormalizeLineItems(order.RawPayload))
		if quantity < 1 {
			quantity = 1
		}
		parcels := make([]Parcel, 0, quantity*len(product.ParcelDefinitions))
		for i := 0; i < quantity; i++ {
			for _, def := range product.ParcelDefinitions {
				parcels = append(parcels, Parcel{
					Width:  def.Width,
					Height: def.Height,
					Depth:  def.Depth,
					Weight: def.Weight,
					Desi:   def.Desi,
				})
			}
		}
		return finishComputation(parcels)
	}

	desi := scalarDesi(order)
	return finishComputation([]Parcel{{Desi: desi}})
}

// explicitParcels extracts per-order packaging details from the raw payload
func explicitParcels(raw []byte) ([]Parcel, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}

	for _, key := range packagingKeys {
		rawParcels, ok := payload[key]
		if !ok {
			continue
		}
		var entries []struct {
			Width  decimal.Decimal `json:"width"`
			Height decimal.Decimal `json:"height"`
			Depth  decimal.Decimal `json:"depth"`
			Weight decimal.Decimal `json:"weight"`
			Desi   decimal.Decimal `json:"desi"`
		}
		if err := json.Unmarshal(rawParcels, &entries); err != nil {
			continue
		}
		if len(entries) == 0 {
			continue
		}

		parcels := make([]Parcel, 0, len(entries))
		for _, e := range entries {
			desi := e.Desi
			if desi.IsNegative() {
				desi = decimal.Zero
			}
			parcels = append(parcels, Parcel{
				Width:  e.Width,
				Height: e.Height,
				Depth:  e.Depth,
				Weight: e.Weight,
				Desi:   desi,
			})
		}
		return parcels, true
	}
	return nil, false
}

// scalarDesi returns the best scalar desi available on the order or payload
func scalarDesi(order *Order) decimal.Decimal {
	if order.DeclaredDesi.IsPositive() {
		return order.DeclaredDesi
	}
	if len(order.RawPayload) == 0 {
		return decimal.Zero
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(order.RawPayload, &payload); err != nil {
		return decimal.Zero
	}
	for _, key := range desiKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var desi decimal.Decimal
		if err := json.Unmarshal(raw, &desi); err == nil && desi.IsPositive() {
			return desi
		}
	}
	return decimal.Zero
}

func finishComputation(parcels []Parcel) ParcelComputation {
	total := decimal.Zero
	for _, p := range parcels {
		total = total.Add(p.Desi)
	}
	return ParcelComputation{
		Parcels:       parcels,
		TotalDesi:     total,
		IsMissingInfo: total.IsZero(),
	}
}
