package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/domain/shared"
)

var (
	tenantA = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func seedOrder(t *testing.T, repo *GormOrderRepository, tenantID uuid.UUID, number string) *fulfillment.Order {
	t.Helper()
	order, err := fulfillment.NewOrder(tenantID, "trendyol", number)
	require.NoError(t, err)
	order.CustomerName = "Ayşe Yılmaz"
	order.City = "İstanbul"
	order.RawPayload = []byte(`{"lines":[{"sku":"SKU-1","quantity":1}]}`)
	require.NoError(t, repo.Save(context.Background(), order))
	return order
}

func TestOrderRepository_SaveAndFind(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	order := seedOrder(t, repo, tenantA, "TY-1")

	found, err := repo.FindByIDForTenant(context.Background(), tenantA, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "TY-1", found.OrderNumber)
	assert.Equal(t, "Ayşe Yılmaz", found.CustomerName)
	assert.JSONEq(t, `{"lines":[{"sku":"SKU-1","quantity":1}]}`, string(found.RawPayload))
	assert.False(t, found.IsPrinted)
}

func TestOrderRepository_TenantIsolation(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	order := seedOrder(t, repo, tenantA, "TY-1")

	_, err := repo.FindByIDForTenant(context.Background(), tenantB, order.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestOrderRepository_FindByIDs(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	o1 := seedOrder(t, repo, tenantA, "TY-2")
	o2 := seedOrder(t, repo, tenantA, "TY-1")
	other := seedOrder(t, repo, tenantB, "TY-3")

	orders, err := repo.FindByIDsForTenant(context.Background(), tenantA,
		[]uuid.UUID{o1.ID, o2.ID, other.ID, uuid.New()})
	require.NoError(t, err)

	// Foreign-tenant and unknown IDs are absent; ordering is stable
	require.Len(t, orders, 2)
	assert.Equal(t, "TY-1", orders[0].OrderNumber)
	assert.Equal(t, "TY-2", orders[1].OrderNumber)
}

func TestOrderRepository_FindByIDs_Empty(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	orders, err := repo.FindByIDsForTenant(context.Background(), tenantA, nil)
	require.NoError(t, err)
	assert.Nil(t, orders)
}

func TestOrderRepository_SavePrintState_Batch(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	o1 := seedOrder(t, repo, tenantA, "TY-1")
	o2 := seedOrder(t, repo, tenantA, "TY-2")

	printedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, o1.AssignTracking("TRK-1", "ArasKargo"))
	o1.MarkPrinted(printedAt)
	o2.MarkPrinted(printedAt)

	require.NoError(t, repo.SavePrintState(context.Background(), []*fulfillment.Order{o1, o2}))

	got1, err := repo.FindByIDForTenant(context.Background(), tenantA, o1.ID)
	require.NoError(t, err)
	assert.True(t, got1.IsPrinted)
	assert.Equal(t, "TRK-1", got1.TrackingNumber())
	require.NotNil(t, got1.PrintedAt)

	got2, err := repo.FindByIDForTenant(context.Background(), tenantA, o2.ID)
	require.NoError(t, err)
	assert.True(t, got2.IsPrinted)
	assert.False(t, got2.HasTracking())
}

func TestOrderRepository_SavePrintState_UnknownOrderRollsBack(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	o1 := seedOrder(t, repo, tenantA, "TY-1")

	ghost, err := fulfillment.NewOrder(tenantA, "trendyol", "TY-GHOST")
	require.NoError(t, err)

	o1.MarkPrinted(time.Now())
	ghost.MarkPrinted(time.Now())

	err = repo.SavePrintState(context.Background(), []*fulfillment.Order{o1, ghost})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// The transaction rolled back; the first order stays unprinted.
	got, err := repo.FindByIDForTenant(context.Background(), tenantA, o1.ID)
	require.NoError(t, err)
	assert.False(t, got.IsPrinted)
}

func TestOrderRepository_SavePrintState_EmptyNoop(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	assert.NoError(t, repo.SavePrintState(context.Background(), nil))
}

func TestOrderRepository_FindAllForTenant_Filters(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	printed := seedOrder(t, repo, tenantA, "TY-1")
	printed.MarkPrinted(time.Now())
	require.NoError(t, repo.SavePrintState(context.Background(), []*fulfillment.Order{printed}))
	seedOrder(t, repo, tenantA, "TY-2")
	seedOrder(t, repo, tenantB, "TY-3")

	yes := true
	orders, total, err := repo.FindAllForTenant(context.Background(), tenantA, fulfillment.OrderListFilter{
		IsPrinted: &yes,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "TY-1", orders[0].OrderNumber)

	no := false
	orders, total, err = repo.FindAllForTenant(context.Background(), tenantA, fulfillment.OrderListFilter{
		IsPrinted: &no,
		Statuses:  []fulfillment.OrderStatus{fulfillment.OrderStatusConfirmed},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, "TY-2", orders[0].OrderNumber)
}

func TestOrderRepository_FindAllForTenant_Sorting(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	seedOrder(t, repo, tenantA, "TY-2")
	seedOrder(t, repo, tenantA, "TY-1")
	seedOrder(t, repo, tenantA, "TY-3")

	orders, _, err := repo.FindAllForTenant(context.Background(), tenantA, fulfillment.OrderListFilter{
		SortBy:  "order_number",
		SortDir: "asc",
	})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "TY-1", orders[0].OrderNumber)
	assert.Equal(t, "TY-3", orders[2].OrderNumber)

	// Unknown sort fields fall back to the default instead of reaching SQL.
	orders, _, err = repo.FindAllForTenant(context.Background(), tenantA, fulfillment.OrderListFilter{
		SortBy: "junk; DROP TABLE orders",
	})
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestOrderRepository_FindAllForTenant_Pagination(t *testing.T) {
	repo := NewGormOrderRepository(newTestDB(t))
	for _, n := range []string{"TY-1", "TY-2", "TY-3"} {
		seedOrder(t, repo, tenantA, n)
	}

	orders, total, err := repo.FindAllForTenant(context.Background(), tenantA, fulfillment.OrderListFilter{
		Page:     2,
		PageSize: 2,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 1)
}
