package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/catalog"
	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/domain/shared"
	"github.com/kargopanel/backend/internal/infrastructure/labels"
)

// Service orchestrates the label batch pipeline and the carrier-facing
// queries. The pipeline is a single synchronous pass: aggregate and enrich
// the batch, compute parcels, run the print guard, call the carrier one
// order at a time, persist the print state in one write, render labels.
type Service struct {
	orders      fulfillment.OrderRepository
	connections fulfillment.CarrierConnectionRepository
	records     fulfillment.ShipmentRecordRepository
	products    catalog.ProductRepository
	gateways    fulfillment.CarrierGatewayFactory
	renderer    *labels.Renderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a fulfillment service
func NewService(
	orders fulfillment.OrderRepository,
	connections fulfillment.CarrierConnectionRepository,
	records fulfillment.ShipmentRecordRepository,
	products catalog.ProductRepository,
	gateways fulfillment.CarrierGatewayFactory,
	renderer *labels.Renderer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = labels.NewRenderer()
	}
	return &Service{
		orders:      orders,
		connections: connections,
		records:     records,
		products:    products,
		gateways:    gateways,
		renderer:    renderer,
		logger:      logger,
		now:         time.Now,
	}
}

// =============================================================================
// Label batch
// =============================================================================

// PrintLabels runs the batch pipeline for the given orders. Only empty
// batches, missing orders, print conflicts and the final persistence write
// abort the batch; every carrier-side failure is isolated to its order and
// reported on that order's result.
func (s *Service) PrintLabels(ctx context.Context, tenantID uuid.UUID, req PrintLabelsRequest) (*PrintLabelsResponse, error) {
	if len(req.OrderIDs) == 0 {
		return nil, fulfillment.ErrEmptyBatch
	}

	defaultScenario := fulfillment.ScenarioMarketplaceSale
	if req.Scenario != "" {
		scenario, ok := fulfillment.ParseScenario(strings.ToUpper(req.Scenario))
		if !ok {
			return nil, &fulfillment.ValidationError{Field: "scenario", Message: "unknown shipment scenario"}
		}
		defaultScenario = scenario
	}

	orders, err := s.orders.FindByIDsForTenant(ctx, tenantID, req.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if len(orders) != len(req.OrderIDs) {
		return nil, shared.NewDomainError("NOT_FOUND",
			fmt.Sprintf("%d of %d selected orders not found", len(req.OrderIDs)-len(orders), len(req.OrderIDs)))
	}

	if err := fulfillment.CheckPrintable(orders, req.Force); err != nil {
		return nil, err
	}

	productsByCode, err := s.resolveProducts(ctx, tenantID, orders)
	if err != nil {
		return nil, err
	}

	conn, gateway, err := s.resolveGateway(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	printedAt := s.now()
	labelBatch := make([]labels.LabelData, 0, len(orders))
	results := make([]OrderPrintResult, 0, len(orders))

	for _, order := range orders {
		product := productsByCode[strings.ToLower(order.EffectiveProductCode())]
		computation := fulfillment.ComputeParcels(order, product)

		result := OrderPrintResult{
			OrderID:     order.ID.String(),
			OrderNumber: order.OrderNumber,
			TotalDesi:   computation.TotalDesi,
			MissingInfo: computation.IsMissingInfo,
		}

		// Orders that already carry a tracking number are never re-shipped,
		// forced reprint or not.
		if gateway != nil && !order.HasTracking() {
			s.createShipment(ctx, order, computation, defaultScenario, conn, gateway, &result)
		}

		order.MarkPrinted(printedAt)

		result.TrackingNumber = order.TrackingNumber()
		result.Barcode = order.BarcodeValue()
		result.OfficialTracking = order.HasTracking()
		results = append(results, result)

		labelBatch = append(labelBatch, labels.LabelData{
			Platform:         order.Platform,
			CustomerName:     order.CustomerName,
			AddressFragment:  addressFragment(order),
			TotalDesi:        computation.TotalDesi,
			Barcode:          order.BarcodeValue(),
			OfficialTracking: order.HasTracking(),
			ProductCode:      order.EffectiveProductCode(),
			ProductName:      order.EffectiveProductName(),
			OrderNumber:      order.OrderNumber,
		})
	}

	// One write for the whole batch; a failure here leaves no partial
	// print-state visible.
	if err := s.orders.SavePrintState(ctx, orders); err != nil {
		return nil, fmt.Errorf("failed to persist print state: %w", err)
	}

	document, err := s.renderer.Render(labelBatch)
	if err != nil {
		return nil, fmt.Errorf("failed to render labels: %w", err)
	}

	s.logger.Info("label batch completed",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("orders", len(orders)),
		zap.Bool("force", req.Force),
		zap.Bool("carrier_configured", gateway != nil))

	return &PrintLabelsResponse{Document: document, Orders: results}, nil
}

// resolveProducts loads the catalog entries for every distinct effective
// product code in the batch, keyed by lower-cased code. Unresolvable codes
// are simply absent; parcel computation degrades to its fallbacks.
func (s *Service) resolveProducts(ctx context.Context, tenantID uuid.UUID, orders []*fulfillment.Order) (map[string]*catalog.Product, error) {
	productsByCode := make(map[string]*catalog.Product)
	for _, order := range orders {
		code := order.EffectiveProductCode()
		key := strings.ToLower(code)
		if code == fulfillment.FallbackProductCode {
			continue
		}
		if _, seen := productsByCode[key]; seen {
			continue
		}

		product, err := s.products.FindByCodeFold(ctx, tenantID, code)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				productsByCode[key] = nil
				continue
			}
			return nil, fmt.Errorf("failed to resolve product %q: %w", code, err)
		}
		productsByCode[key] = product
	}
	return productsByCode, nil
}

// resolveGateway loads the tenant's active carrier connection and dials a
// gateway for it. A missing connection is not an error: the batch proceeds
// without tracking numbers.
func (s *Service) resolveGateway(ctx context.Context, tenantID uuid.UUID) (*fulfillment.CarrierConnection, fulfillment.CarrierGateway, error) {
	if s.gateways == nil {
		return nil, nil, nil
	}
	conn, err := s.connections.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("no active carrier connection, batch proceeds without tracking numbers",
				zap.String("tenant_id", tenantID.String()))
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to load carrier connection: %w", err)
	}
	return conn, s.gateways.ForConnection(conn), nil
}

// createShipment performs the per-order carrier call. Any failure is logged
// and written to result.CarrierError; the batch always continues.
func (s *Service) createShipment(
	ctx context.Context,
	order *fulfillment.Order,
	computation fulfillment.ParcelComputation,
	defaultScenario fulfillment.Scenario,
	conn *fulfillment.CarrierConnection,
	gateway fulfillment.CarrierGateway,
	result *OrderPrintResult,
) {
	scenario := defaultScenario
	if payloadScenario, ok := fulfillment.ScenarioFromPayload(order.RawPayload); ok {
		scenario = payloadScenario
	}

	shipmentReq := fulfillment.ShipmentRequest{
		ReceiverName:    order.CustomerName,
		ReceiverAddress: order.Address,
		ReceiverCity:    order.City,
		ReceiverTown:    order.District,
		ReceiverPhone:   order.Phone,
		RecipientCode:   order.RecipientCode,
		IntegrationCode: order.OrderNumber,
		PieceCount:      len(computation.Parcels),
	}
	if computation.TotalDesi.IsPositive() {
		shipmentReq.Desi = computation.TotalDesi.String()
		shipmentReq.Kg = computation.TotalDesi.String()
	}
	if scenario.IsCOD() {
		shipmentReq.CollectionAmount = fulfillment.CollectionAmountFromPayload(order.RawPayload)
	}

	resolved, err := fulfillment.ResolveScenario(shipmentReq, scenario)
	if err != nil {
		s.logger.Warn("shipment request rejected before carrier call",
			zap.String("order_number", order.OrderNumber),
			zap.String("scenario", string(scenario)),
			zap.Error(err))
		result.CarrierError = err.Error()
		return
	}

	trackingNumber, err := gateway.CreateShipment(ctx, resolved)
	if err != nil {
		s.logger.Warn("carrier call failed, order keeps fallback barcode",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		result.CarrierError = err.Error()
		return
	}

	if err := order.AssignTracking(trackingNumber, conn.CarrierName); err != nil {
		s.logger.Error("failed to assign tracking number",
			zap.String("order_number", order.OrderNumber),
			zap.String("tracking_number", trackingNumber),
			zap.Error(err))
		result.CarrierError = err.Error()
		return
	}

	record, err := fulfillment.NewShipmentRecord(order.TenantID, order.ID, order.OrderNumber, trackingNumber, conn.CarrierName)
	if err == nil {
		err = s.records.Append(ctx, record)
	}
	if err != nil {
		// The shipment exists at the carrier; losing the audit row must not
		// fail the batch.
		s.logger.Error("failed to append shipment record",
			zap.String("order_number", order.OrderNumber),
			zap.String("tracking_number", trackingNumber),
			zap.Error(err))
	}
}

// addressFragment builds the display address for the label
func addressFragment(order *fulfillment.Order) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{order.Address, order.District, order.City} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

// =============================================================================
// Order listing
// =============================================================================

// ListOrders returns a filtered, paginated order list for the tenant
func (s *Service) ListOrders(ctx context.Context, tenantID uuid.UUID, req ListOrdersRequest) (*ListOrdersResponse, error) {
	filter := fulfillment.OrderListFilter{
		Platform:  req.Platform,
		Search:    req.Search,
		IsPrinted: req.IsPrinted,
		SortBy:    req.SortBy,
		SortDir:   req.SortDir,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	for _, status := range req.Statuses {
		filter.Statuses = append(filter.Statuses, fulfillment.OrderStatus(status))
	}
	if req.DateFrom != "" {
		from, err := time.Parse("2006-01-02", req.DateFrom)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "date_from must be YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if req.DateTo != "" {
		to, err := time.Parse("2006-01-02", req.DateTo)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "date_to must be YYYY-MM-DD")
		}
		// Inclusive end of day
		to = to.Add(24*time.Hour - time.Nanosecond)
		filter.DateTo = &to
	}

	orders, total, err := s.orders.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	items := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		items = append(items, toOrderResponse(order))
	}

	return &ListOrdersResponse{
		Items: items,
		Total: total,
		Page:  filter.Page,
		Size:  filter.PageSize,
	}, nil
}

// GetOrder returns one order by ID
func (s *Service) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	resp := toOrderResponse(order)
	return &resp, nil
}

// =============================================================================
// Carrier connection settings
// =============================================================================

// UpsertConnection creates the tenant's carrier connection, or replaces the
// credentials of the active one. Saving activates the connection and
// deactivates any other.
func (s *Service) UpsertConnection(ctx context.Context, tenantID uuid.UUID, req UpsertConnectionRequest) (*ConnectionResponse, error) {
	conn, err := s.connections.FindActiveForTenant(ctx, tenantID)
	switch {
	case err == nil:
		conn.CarrierName = req.CarrierName
		if err := conn.UpdateCredentials(req.Username, req.Password); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		conn, err = fulfillment.NewCarrierConnection(tenantID, req.CarrierName, req.Username, req.Password)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("failed to load carrier connection: %w", err)
	}

	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to save carrier connection: %w", err)
	}

	s.logger.Info("carrier connection saved",
		zap.String("tenant_id", tenantID.String()),
		zap.String("carrier", conn.CarrierName))

	return toConnectionResponse(conn), nil
}

// GetActiveConnection returns the tenant's active carrier connection
func (s *Service) GetActiveConnection(ctx context.Context, tenantID uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.connections.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fulfillment.ErrCarrierUnconfigured
		}
		return nil, fmt.Errorf("failed to load carrier connection: %w", err)
	}
	return toConnectionResponse(conn), nil
}

// DeactivateConnection turns the tenant's active connection off. Subsequent
// batches print labels without tracking numbers.
func (s *Service) DeactivateConnection(ctx context.Context, tenantID uuid.UUID) (*ConnectionResponse, error) {
	conn, err := s.connections.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fulfillment.ErrCarrierUnconfigured
		}
		return nil, fmt.Errorf("failed to load carrier connection: %w", err)
	}

	conn.Deactivate()
	if err := s.connections.Save(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to save carrier connection: %w", err)
	}
	return toConnectionResponse(conn), nil
}

// =============================================================================
// Carrier queries
// =============================================================================

// TrackShipment queries the carrier for an order's status blob
func (s *Service) TrackShipment(ctx context.Context, tenantID, orderID uuid.UUID) (*TrackShipmentResponse, error) {
	order, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	_, gateway, err := s.requireGateway(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	raw, err := gateway.TrackShipment(ctx, order.OrderNumber)
	if err != nil {
		return nil, err
	}

	return &TrackShipmentResponse{OrderNumber: order.OrderNumber, Raw: raw}, nil
}

// ListReturns queries the carrier for returned shipments in a date range
func (s *Service) ListReturns(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*ListReturnsResponse, error) {
	if end.Before(start) {
		return nil, shared.NewDomainError("INVALID_INPUT", "end date before start date")
	}

	_, gateway, err := s.requireGateway(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	raw, err := gateway.ListReturns(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return &ListReturnsResponse{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
		Raw:       raw,
	}, nil
}

// requireGateway is resolveGateway for the read queries, where a missing
// connection is an error rather than a degraded mode
func (s *Service) requireGateway(ctx context.Context, tenantID uuid.UUID) (*fulfillment.CarrierConnection, fulfillment.CarrierGateway, error) {
	if s.gateways == nil {
		return nil, nil, fulfillment.ErrCarrierUnconfigured
	}
	conn, err := s.connections.FindActiveForTenant(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil, fulfillment.ErrCarrierUnconfigured
		}
		return nil, nil, fmt.Errorf("failed to load carrier connection: %w", err)
	}
	return conn, s.gateways.ForConnection(conn), nil
}
