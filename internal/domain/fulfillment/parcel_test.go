package fulfillment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kargopanel/backend/internal/domain/catalog"
)

func newParcelTestOrder(t *testing.T, payload string) *Order {
	t.Helper()
	order, err := NewOrder(uuid.New(), "trendyol", "TY-100")
	require.NoError(t, err)
	if payload != "" {
		order.RawPayload = []byte(payload)
	}
	return order
}

func newParcelTestProduct(t *testing.T, desiPerUnit ...int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), "SKU-1", "Bookshelf")
	require.NoError(t, err)
	for _, d := range desiPerUnit {
		require.NoError(t, product.AddParcelDefinition(
			decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(d)))
	}
	return product
}

func TestComputeParcels_ExplicitPackagingWins(t *testing.T) {
	order := newParcelTestOrder(t, `{
		"packages": [
			{"width": 30, "height": 20, "depth": 10, "weight": 2, "desi": 2},
			{"desi": 3.5}
		],
		"lines": [{"sku": "SKU-1", "quantity": 4}]
	}`)
	product := newParcelTestProduct(t, 9)

	result := ComputeParcels(order, product)

	require.Len(t, result.Parcels, 2)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromFloat(5.5)), "got %s", result.TotalDesi)
	assert.False(t, result.IsMissingInfo)
}

func TestComputeParcels_ProductDefinitionsPerUnit(t *testing.T) {
	order := newParcelTestOrder(t, `{"lines": [{"sku": "SKU-1", "quantity": 3}]}`)
	product := newParcelTestProduct(t, 2, 1)

	result := ComputeParcels(order, product)

	// 2 parcels per unit, 3 units
	require.Len(t, result.Parcels, 6)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromInt(9)), "got %s", result.TotalDesi)
	assert.False(t, result.IsMissingInfo)
}

func TestComputeParcels_QuantityClampsToOne(t *testing.T) {
	order := newParcelTestOrder(t, `{"lines": [{"sku": "SKU-1", "quantity": 0}]}`)
	product := newParcelTestProduct(t, 4)

	result := ComputeParcels(order, product)

	require.Len(t, result.Parcels, 1)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromInt(4)))
}

func TestComputeParcels_DeclaredDesiFallback(t *testing.T) {
	order := newParcelTestOrder(t, "")
	order.DeclaredDesi = decimal.NewFromFloat(2.5)

	result := ComputeParcels(order, nil)

	require.Len(t, result.Parcels, 1)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromFloat(2.5)))
	assert.False(t, result.IsMissingInfo)
}

func TestComputeParcels_PayloadScalarDesiFallback(t *testing.T) {
	order := newParcelTestOrder(t, `{"desi": 7}`)

	result := ComputeParcels(order, nil)

	require.Len(t, result.Parcels, 1)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromInt(7)))
}

func TestComputeParcels_NothingAvailableFlagsMissingInfo(t *testing.T) {
	order := newParcelTestOrder(t, `{"lines": [{"sku": "SKU-1", "quantity": 2}]}`)

	result := ComputeParcels(order, nil)

	require.Len(t, result.Parcels, 1)
	assert.True(t, result.TotalDesi.IsZero())
	assert.True(t, result.IsMissingInfo)
}

func TestComputeParcels_NegativeExplicitDesiClamped(t *testing.T) {
	order := newParcelTestOrder(t, `{"parcels": [{"desi": -4}, {"desi": 2}]}`)

	result := ComputeParcels(order, nil)

	require.Len(t, result.Parcels, 2)
	assert.True(t, result.TotalDesi.Equal(decimal.NewFromInt(2)))
}

func TestComputeParcels_Deterministic(t *testing.T) {
	order := newParcelTestOrder(t, `{"lines": [{"sku": "SKU-1", "quantity": 2}]}`)
	product := newParcelTestProduct(t, 3)

	first := ComputeParcels(order, product)
	second := ComputeParcels(order, product)

	assert.Equal(t, first, second)
}

func TestVolumetricDesi(t *testing.T) {
	// 30 x 20 x 10 cm / 3000 = 2 desi
	desi := catalog.VolumetricDesi(
		decimal.NewFromInt(30), decimal.NewFromInt(20), decimal.NewFromInt(10))
	assert.True(t, desi.Equal(decimal.NewFromInt(2)), "got %s", desi)
}
