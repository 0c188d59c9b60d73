package fulfillment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLineItems_FieldAliases(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    []LineItem
	}{
		{
			name:    "canonical fields",
			payload: `{"lines": [{"sku": "SKU-1", "quantity": 2, "product_name": "Bookshelf"}]}`,
			want:    []LineItem{{SKU: "SKU-1", Quantity: 2, ProductName: "Bookshelf"}},
		},
		{
			name:    "items key with camelCase fields",
			payload: `{"items": [{"productCode": "SKU-2", "qty": 1, "productName": "Desk"}]}`,
			want:    []LineItem{{SKU: "SKU-2", Quantity: 1, ProductName: "Desk"}},
		},
		{
			name:    "line_items with barcode and title",
			payload: `{"line_items": [{"barcode": "869000", "count": 3, "title": "Chair"}]}`,
			want:    []LineItem{{SKU: "869000", Quantity: 3, ProductName: "Chair"}},
		},
		{
			name:    "quantity as string",
			payload: `{"lines": [{"sku": "SKU-3", "quantity": "5"}]}`,
			want:    []LineItem{{SKU: "SKU-3", Quantity: 5}},
		},
		{
			name:    "sku precedence over barcode",
			payload: `{"lines": [{"barcode": "B-1", "sku": "SKU-4", "quantity": 1}]}`,
			want:    []LineItem{{SKU: "SKU-4", Quantity: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLineItems([]byte(tt.payload)))
		})
	}
}

func TestNormalizeLineItems_Degenerate(t *testing.T) {
	assert.Nil(t, NormalizeLineItems(nil))
	assert.Nil(t, NormalizeLineItems([]byte("not json")))
	assert.Nil(t, NormalizeLineItems([]byte(`{"other": true}`)))
	assert.Nil(t, NormalizeLineItems([]byte(`{"lines": []}`)))
	assert.Nil(t, NormalizeLineItems([]byte(`{"lines": "oops"}`)))
}

func TestTotalQuantity(t *testing.T) {
	assert.Equal(t, 5, TotalQuantity([]LineItem{{Quantity: 2}, {Quantity: 3}}))
	assert.Equal(t, 2, TotalQuantity([]LineItem{{Quantity: 2}, {Quantity: -1}}))
	assert.Equal(t, 1, TotalQuantity(nil))
	assert.Equal(t, 1, TotalQuantity([]LineItem{{Quantity: 0}}))
}

func TestScenarioFromPayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Scenario
		ok      bool
	}{
		{"scenario key", `{"scenario": "COD_CASH"}`, ScenarioCODCash, true},
		{"payment_type key", `{"payment_type": "BUYER_PAYS_CARRIER"}`, ScenarioBuyerPaysCarrier, true},
		{"camelCase key", `{"paymentType": "COD_CARD"}`, ScenarioCODCard, true},
		{"lowercase input", `{"scenario": "cod_cash"}`, ScenarioCODCash, true},
		{"corrected marketplace spelling", `{"scenario": "MARKETPLACE_SALE"}`, ScenarioMarketplaceSale, true},
		{"unknown tag", `{"scenario": "PREPAID"}`, "", false},
		{"absent", `{"other": 1}`, "", false},
		{"empty payload", ``, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw []byte
			if tt.payload != "" {
				raw = []byte(tt.payload)
			}
			got, ok := ScenarioFromPayload(raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectionAmountFromPayload(t *testing.T) {
	amount := CollectionAmountFromPayload([]byte(`{"cod_amount": "249.90"}`))
	assert.True(t, amount.Equal(decimal.NewFromFloat(249.90)), "got %s", amount)

	amount = CollectionAmountFromPayload([]byte(`{"total_amount": 100}`))
	assert.True(t, amount.Equal(decimal.NewFromInt(100)))

	// cod_amount takes precedence over total_amount
	amount = CollectionAmountFromPayload([]byte(`{"total_amount": 100, "cod_amount": 50}`))
	assert.True(t, amount.Equal(decimal.NewFromInt(50)))

	assert.True(t, CollectionAmountFromPayload([]byte(`{"cod_amount": -5}`)).IsZero())
	assert.True(t, CollectionAmountFromPayload([]byte(`{}`)).IsZero())
	assert.True(t, CollectionAmountFromPayload(nil).IsZero())
}

func TestOrder_EffectiveProductCode(t *testing.T) {
	order, err := NewOrder(testTenantID(), "trendyol", "TY-1")
	require.NoError(t, err)

	order.ProductCode = " SKU-9 "
	assert.Equal(t, "SKU-9", order.EffectiveProductCode())

	order.ProductCode = ""
	order.RawPayload = []byte(`{"lines": [{"sku": "SKU-L", "quantity": 1}]}`)
	assert.Equal(t, "SKU-L", order.EffectiveProductCode())

	order.RawPayload = nil
	assert.Equal(t, FallbackProductCode, order.EffectiveProductCode())
}

func TestOrder_EffectiveProductName(t *testing.T) {
	order, err := NewOrder(testTenantID(), "trendyol", "TY-1")
	require.NoError(t, err)

	order.ProductName = "Bookshelf"
	assert.Equal(t, "Bookshelf", order.EffectiveProductName())

	order.ProductName = ""
	order.RawPayload = []byte(`{"lines": [{"sku": "SKU-L", "name": "Desk", "quantity": 1}]}`)
	assert.Equal(t, "Desk", order.EffectiveProductName())

	order.RawPayload = nil
	assert.Equal(t, "", order.EffectiveProductName())
}
