package fulfillment

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is the canonical shape of one order line after normalization.
// Marketplace payloads disagree on both the array key and the field names,
// so everything funnels through this adapter before any other code looks
// at a line.
type LineItem struct {
	SKU         string
	Quantity    int
	ProductName string
}

// lineItemKeys are the payload keys tried in priority order
var lineItemKeys = []string{"lines", "items", "line_items"}

// skuFields are the per-line fields tried in priority order for the SKU
var skuFields = []string{"sku", "barcode", "product_code", "productCode", "stock_code", "stockCode", "merchant_sku"}

// nameFields are the per-line fields tried for the product name
var nameFields = []string{"product_name", "productName", "name", "title"}

// quantityFields are the per-line fields tried for the quantity
var quantityFields = []string{"quantity", "qty", "amount", "count"}

// NormalizeLineItems extracts canonical line items from a raw marketplace
// payload. An empty or unparseable payload yields no items, never an error.
func NormalizeLineItems(raw []byte) []LineItem {
	if len(raw) == 0 {
		return nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	for _, key := range lineItemKeys {
		rawLines, ok := payload[key]
		if !ok {
			continue
		}
		var lines []map[string]interface{}
		if err := json.Unmarshal(rawLines, &lines); err != nil {
			continue
		}
		if len(lines) == 0 {
			continue
		}

		items := make([]LineItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, LineItem{
				SKU:         firstString(line, skuFields),
				Quantity:    firstInt(line, quantityFields),
				ProductName: firstString(line, nameFields),
			})
		}
		return items
	}

	return nil
}

// TotalQuantity sums the quantity of all line items, clamping to at least 1
// so that empty or corrupt quantity data never zeroes out a shipment.
func TotalQuantity(items []LineItem) int {
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	if total < 1 {
		return 1
	}
	return total
}

// scenarioFields are the payload keys tried for a per-order scenario tag
var scenarioFields = []string{"scenario", "payment_type", "paymentType"}

// collectionAmountFields are the payload keys tried for a COD amount
var collectionAmountFields = []string{"cod_amount", "codAmount", "collection_amount", "total_amount", "totalAmount"}

// ScenarioFromPayload reads a per-order scenario tag from the raw payload.
// Returns false when no parsable tag is present.
func ScenarioFromPayload(raw []byte) (Scenario, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return "", false
	}
	if tag := firstString(payload, scenarioFields); tag != "" {
		return ParseScenario(strings.ToUpper(tag))
	}
	return "", false
}

// CollectionAmountFromPayload reads a cash/card-on-delivery amount from the
// raw payload, returning "0" when absent
func CollectionAmountFromPayload(raw []byte) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return decimal.Zero
	}
	for _, key := range collectionAmountFields {
		rawAmount, ok := payload[key]
		if !ok {
			continue
		}
		var amount decimal.Decimal
		if err := json.Unmarshal(rawAmount, &amount); err == nil && amount.IsPositive() {
			return amount
		}
	}
	return decimal.Zero
}

func firstString(line map[string]interface{}, fields []string) string {
	for _, field := range fields {
		if v, ok := line[field]; ok {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

func firstInt(line map[string]interface{}, fields []string) int {
	for _, field := range fields {
		v, ok := line[field]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int(n)
		case string:
			var parsed float64
			if err := json.Unmarshal([]byte(n), &parsed); err == nil {
				return int(parsed)
			}
		}
	}
	return 0
}
