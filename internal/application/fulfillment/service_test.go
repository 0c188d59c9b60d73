package fulfillment_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app "github.com/kargopanel/backend/internal/application/fulfillment"
	"github.com/kargopanel/backend/internal/domain/catalog"
	domain "github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/domain/shared"
)

// =============================================================================
// Mock Implementations
// =============================================================================

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*domain.Order, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter domain.OrderListFilter) ([]*domain.Order, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SavePrintState(ctx context.Context, orders []*domain.Order) error {
	args := m.Called(ctx, orders)
	return args.Error(0)
}

type MockConnectionRepository struct {
	mock.Mock
}

func (m *MockConnectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*domain.CarrierConnection, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarrierConnection), args.Error(1)
}

func (m *MockConnectionRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) (*domain.CarrierConnection, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CarrierConnection), args.Error(1)
}

func (m *MockConnectionRepository) Save(ctx context.Context, conn *domain.CarrierConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) Append(ctx context.Context, record *domain.ShipmentRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordRepository) FindByOrderForTenant(ctx context.Context, tenantID, orderID uuid.UUID) ([]*domain.ShipmentRecord, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ShipmentRecord), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCodeFold(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCodes(ctx context.Context, tenantID uuid.UUID, codes []string) (map[string]*catalog.Product, error) {
	args := m.Called(ctx, tenantID, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*catalog.Product), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateShipment(ctx context.Context, req domain.ShipmentRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) TrackShipment(ctx context.Context, integrationCode string) (string, error) {
	args := m.Called(ctx, integrationCode)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) ListReturns(ctx context.Context, start, end time.Time) (string, error) {
	args := m.Called(ctx, start, end)
	return args.String(0), args.Error(1)
}

type MockGatewayFactory struct {
	mock.Mock
}

func (m *MockGatewayFactory) ForConnection(conn *domain.CarrierConnection) domain.CarrierGateway {
	args := m.Called(conn)
	return args.Get(0).(domain.CarrierGateway)
}

// =============================================================================
// Fixtures
// =============================================================================

type serviceFixture struct {
	orders      *MockOrderRepository
	connections *MockConnectionRepository
	records     *MockRecordRepository
	products    *MockProductRepository
	gateways    *MockGatewayFactory
	gateway     *MockGateway
	service     *app.Service
	tenantID    uuid.UUID
}

func newFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		orders:      new(MockOrderRepository),
		connections: new(MockConnectionRepository),
		records:     new(MockRecordRepository),
		products:    new(MockProductRepository),
		gateways:    new(MockGatewayFactory),
		gateway:     new(MockGateway),
		tenantID:    uuid.New(),
	}
	f.service = app.NewService(f.orders, f.connections, f.records, f.products, f.gateways, nil, nil)
	return f
}

func (f *serviceFixture) activeConnection(t *testing.T) *domain.CarrierConnection {
	t.Helper()
	conn, err := domain.NewCarrierConnection(f.tenantID, "ArasKargo", "acct", "secret")
	require.NoError(t, err)
	f.connections.On("FindActiveForTenant", mock.Anything, f.tenantID).Return(conn, nil)
	f.gateways.On("ForConnection", conn).Return(f.gateway)
	return conn
}

func (f *serviceFixture) noConnection() {
	f.connections.On("FindActiveForTenant", mock.Anything, f.tenantID).Return(nil, shared.ErrNotFound)
}

func newBatchOrder(t *testing.T, tenantID uuid.UUID, number string, payload string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(tenantID, "trendyol", number)
	require.NoError(t, err)
	order.CustomerName = "Ayşe Yılmaz"
	order.Address = "Moda Cad. 12"
	order.City = "Istanbul"
	order.District = "Kadıköy"
	order.Phone = "+90 555 000 0000"
	order.ProductCode = "SKU-1"
	if payload != "" {
		order.RawPayload = []byte(payload)
	}
	return order
}

func orderIDs(orders []*domain.Order) []uuid.UUID {
	ids := make([]uuid.UUID, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

// =============================================================================
// PrintLabels
// =============================================================================

func TestPrintLabels_EmptyBatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestPrintLabels_UnknownScenario(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{
		OrderIDs: []uuid.UUID{uuid.New()},
		Scenario: "SOMETHING_ELSE",
	})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "scenario", validationErr.Field)
}

func TestPrintLabels_MissingOrders(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", "")
	ids := []uuid.UUID{order.ID, uuid.New()}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, ids).
		Return([]*domain.Order{order}, nil)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: ids})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestPrintLabels_AlreadyPrintedConflict(t *testing.T) {
	f := newFixture(t)
	printed := newBatchOrder(t, f.tenantID, "TY-1", "")
	printed.MarkPrinted(time.Now())
	fresh := newBatchOrder(t, f.tenantID, "TY-2", "")
	batch := []*domain.Order{printed, fresh}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).
		Return(batch, nil)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})

	var conflict *domain.AlreadyPrintedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"TY-1"}, conflict.OrderNumbers)

	// Conflicts abort before any write
	f.orders.AssertNotCalled(t, "SavePrintState", mock.Anything, mock.Anything)
}

func TestPrintLabels_ThreeOrdersOneCarrierFailure(t *testing.T) {
	f := newFixture(t)
	batch := []*domain.Order{
		newBatchOrder(t, f.tenantID, "TY-1", ""),
		newBatchOrder(t, f.tenantID, "TY-2", ""),
		newBatchOrder(t, f.tenantID, "TY-3", ""),
	}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.activeConnection(t)

	f.gateway.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req domain.ShipmentRequest) bool {
		return req.IntegrationCode == "TY-1"
	})).Return("TRK-001", nil)
	f.gateway.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req domain.ShipmentRequest) bool {
		return req.IntegrationCode == "TY-2"
	})).Return("", domain.NewCarrierError("carrier request failed: connection refused"))
	f.gateway.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req domain.ShipmentRequest) bool {
		return req.IntegrationCode == "TY-3"
	})).Return("TRK-003", nil)

	f.records.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 3)

	assert.Equal(t, "TRK-001", resp.Orders[0].TrackingNumber)
	assert.True(t, resp.Orders[0].OfficialTracking)

	// The failed order keeps the fallback barcode and carries the error
	assert.Empty(t, resp.Orders[1].TrackingNumber)
	assert.Equal(t, "TY-2", resp.Orders[1].Barcode)
	assert.False(t, resp.Orders[1].OfficialTracking)
	assert.Contains(t, resp.Orders[1].CarrierError, "connection refused")

	assert.Equal(t, "TRK-003", resp.Orders[2].TrackingNumber)

	// Every order gets a label regardless of carrier outcome
	assert.Contains(t, resp.Document, "TRK-001")
	assert.Contains(t, resp.Document, "TY-2")
	assert.Contains(t, resp.Document, "TRK-003")

	// Shipment records only for the two successes
	f.records.AssertNumberOfCalls(t, "Append", 2)

	// Print state transitions for the whole batch
	for _, order := range batch {
		assert.True(t, order.IsPrinted)
	}
}

func TestPrintLabels_NoActiveConnection(t *testing.T) {
	f := newFixture(t)
	batch := []*domain.Order{
		newBatchOrder(t, f.tenantID, "TY-1", ""),
		newBatchOrder(t, f.tenantID, "TY-2", ""),
	}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.noConnection()
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)

	for i, result := range resp.Orders {
		assert.Empty(t, result.TrackingNumber)
		assert.Equal(t, batch[i].OrderNumber, result.Barcode)
		assert.False(t, result.OfficialTracking)
	}
	for _, order := range batch {
		assert.True(t, order.IsPrinted)
		assert.False(t, order.HasTracking())
	}

	f.gateway.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
	f.records.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestPrintLabels_ForcedReprintPreservesTracking(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", "")
	require.NoError(t, order.AssignTracking("TRK-OLD", "ArasKargo"))
	order.MarkPrinted(time.Now().Add(-time.Hour))
	batch := []*domain.Order{order}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.activeConnection(t)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{
		OrderIDs: orderIDs(batch),
		Force:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "TRK-OLD", resp.Orders[0].TrackingNumber)
	assert.Equal(t, "TRK-OLD", order.TrackingNumber())

	// Already-tracked orders are never re-shipped, force or not
	f.gateway.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
	f.records.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestPrintLabels_CODWithoutAmountFailsBeforeNetwork(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", `{"scenario":"COD_CASH"}`)
	batch := []*domain.Order{order}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.activeConnection(t)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)

	assert.Contains(t, resp.Orders[0].CarrierError, "collection amount")
	assert.False(t, order.HasTracking())
	assert.True(t, order.IsPrinted)

	f.gateway.AssertNotCalled(t, "CreateShipment", mock.Anything, mock.Anything)
}

func TestPrintLabels_CODAmountFromPayload(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", `{"scenario":"COD_CARD","cod_amount":"249.90"}`)
	batch := []*domain.Order{order}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.activeConnection(t)

	f.gateway.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req domain.ShipmentRequest) bool {
		return req.CollectionType == domain.CollectionCard &&
			req.CollectionAmount.Equal(decimal.RequireFromString("249.90"))
	})).Return("TRK-COD", nil)

	f.records.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)
	assert.Equal(t, "TRK-COD", resp.Orders[0].TrackingNumber)
}

func TestPrintLabels_ProductDesiFlowsToCarrier(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", `{"lines":[{"sku":"SKU-1","quantity":2}]}`)
	batch := []*domain.Order{order}

	product, err := catalog.NewProduct(f.tenantID, "SKU-1", "Coffee Table")
	require.NoError(t, err)
	require.NoError(t, product.AddParcelDefinition(
		decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(4), decimal.NewFromInt(5)))

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(product, nil)
	f.activeConnection(t)

	// 2 units x 1 definition of desi 5 = 2 parcels, total desi 10
	f.gateway.On("CreateShipment", mock.Anything, mock.MatchedBy(func(req domain.ShipmentRequest) bool {
		return req.PieceCount == 2 && req.Desi == "10"
	})).Return("TRK-1", nil)

	f.records.On("Append", mock.Anything, mock.Anything).Return(nil)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)
	assert.True(t, resp.Orders[0].TotalDesi.Equal(decimal.NewFromInt(10)))
	assert.False(t, resp.Orders[0].MissingInfo)
}

func TestPrintLabels_SavePrintStateFailureFailsBatch(t *testing.T) {
	f := newFixture(t)
	batch := []*domain.Order{newBatchOrder(t, f.tenantID, "TY-1", "")}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.noConnection()
	f.orders.On("SavePrintState", mock.Anything, batch).Return(assert.AnError)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "print state")
}

// =============================================================================
// Carrier queries and connections
// =============================================================================

func TestTrackShipment(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", "")

	f.orders.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.activeConnection(t)
	f.gateway.On("TrackShipment", mock.Anything, "TY-1").Return("<DataSet>delivered</DataSet>", nil)

	resp, err := f.service.TrackShipment(context.Background(), f.tenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "TY-1", resp.OrderNumber)
	assert.Contains(t, resp.Raw, "delivered")
}

func TestTrackShipment_NoConnection(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", "")

	f.orders.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)
	f.noConnection()

	_, err := f.service.TrackShipment(context.Background(), f.tenantID, order.ID)
	assert.ErrorIs(t, err, domain.ErrCarrierUnconfigured)
}

func TestListReturns_EndBeforeStart(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := f.service.ListReturns(context.Background(), f.tenantID, start, start.AddDate(0, 0, -1))

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestUpsertConnection_CreatesWhenMissing(t *testing.T) {
	f := newFixture(t)
	f.noConnection()
	f.connections.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.CarrierConnection) bool {
		return c.CarrierName == "ArasKargo" && c.Username == "acct" && c.IsActive
	})).Return(nil)

	resp, err := f.service.UpsertConnection(context.Background(), f.tenantID, app.UpsertConnectionRequest{
		CarrierName: "ArasKargo",
		Username:    "acct",
		Password:    "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "ArasKargo", resp.CarrierName)
	assert.True(t, resp.IsActive)
}

func TestUpsertConnection_ReplacesCredentials(t *testing.T) {
	f := newFixture(t)
	existing, err := domain.NewCarrierConnection(f.tenantID, "ArasKargo", "old", "old-secret")
	require.NoError(t, err)

	f.connections.On("FindActiveForTenant", mock.Anything, f.tenantID).Return(existing, nil)
	f.connections.On("Save", mock.Anything, existing).Return(nil)

	resp, err := f.service.UpsertConnection(context.Background(), f.tenantID, app.UpsertConnectionRequest{
		CarrierName: "ArasKargo",
		Username:    "new",
		Password:    "new-secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "new", resp.Username)
	assert.Equal(t, existing.ID.String(), resp.ID)
}

// =============================================================================
// ListOrders
// =============================================================================

func TestListOrders_DefaultsAndDateParsing(t *testing.T) {
	f := newFixture(t)
	order := newBatchOrder(t, f.tenantID, "TY-1", "")

	f.orders.On("FindAllForTenant", mock.Anything, f.tenantID, mock.MatchedBy(func(filter domain.OrderListFilter) bool {
		return filter.Page == 1 && filter.PageSize == 20 &&
			filter.DateFrom != nil && filter.DateFrom.Format("2006-01-02") == "2026-03-01" &&
			filter.DateTo != nil && strings.HasPrefix(filter.DateTo.Format("2006-01-02"), "2026-03-31")
	})).Return([]*domain.Order{order}, int64(1), nil)

	resp, err := f.service.ListOrders(context.Background(), f.tenantID, app.ListOrdersRequest{
		DateFrom: "2026-03-01",
		DateTo:   "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "TY-1", resp.Items[0].OrderNumber)
}

func TestListOrders_BadDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ListOrders(context.Background(), f.tenantID, app.ListOrdersRequest{DateFrom: "03/01/2026"})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestPrintLabels_SecondUnforcedCallConflicts(t *testing.T) {
	f := newFixture(t)
	batch := []*domain.Order{
		newBatchOrder(t, f.tenantID, "TY-1", ""),
		newBatchOrder(t, f.tenantID, "TY-2", ""),
	}

	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.noConnection()
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	_, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)

	// Second unforced call on the same set lists exactly that set
	_, err = f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	var conflict *domain.AlreadyPrintedError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"TY-1", "TY-2"}, conflict.OrderNumbers)
}

func TestPrintLabels_NoGatewayFactory(t *testing.T) {
	f := newFixture(t)
	// No carrier endpoint configured at all; the connection lookup is
	// never even attempted.
	f.service = app.NewService(f.orders, f.connections, f.records, f.products, nil, nil, nil)

	batch := []*domain.Order{newBatchOrder(t, f.tenantID, "TY-1", "")}
	f.orders.On("FindByIDsForTenant", mock.Anything, f.tenantID, orderIDs(batch)).Return(batch, nil)
	f.products.On("FindByCodeFold", mock.Anything, f.tenantID, "SKU-1").Return(nil, shared.ErrNotFound)
	f.orders.On("SavePrintState", mock.Anything, batch).Return(nil)

	resp, err := f.service.PrintLabels(context.Background(), f.tenantID, app.PrintLabelsRequest{OrderIDs: orderIDs(batch)})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, "TY-1", resp.Orders[0].Barcode)
	assert.False(t, resp.Orders[0].OfficialTracking)
	f.connections.AssertNotCalled(t, "FindActiveForTenant")
}

func TestTrackShipment_NoGatewayFactory(t *testing.T) {
	f := newFixture(t)
	f.service = app.NewService(f.orders, f.connections, f.records, f.products, nil, nil, nil)

	order := newBatchOrder(t, f.tenantID, "TY-1", "")
	f.orders.On("FindByIDForTenant", mock.Anything, f.tenantID, order.ID).Return(order, nil)

	_, err := f.service.TrackShipment(context.Background(), f.tenantID, order.ID)
	assert.ErrorIs(t, err, domain.ErrCarrierUnconfigured)
}
