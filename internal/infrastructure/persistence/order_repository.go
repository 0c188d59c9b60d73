package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/domain/shared"
	"github.com/kargopanel/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements fulfillment.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForTenant finds an order by ID within a tenant
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDsForTenant loads a batch of orders by ID, tenant scoped. Orders
// come back in a stable order-number ordering; IDs not found are simply
// absent from the result.
func (r *GormOrderRepository) FindByIDsForTenant(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]*fulfillment.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Order("order_number asc").
		Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]*fulfillment.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, nil
}

// FindAllForTenant lists orders matching the filter with a total count
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter fulfillment.OrderListFilter) ([]*fulfillment.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("tenant_id = ?", tenantID)
	query = applyOrderFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	sortField := ValidateSortField(filter.SortBy, OrderSortFields, "created_at")
	sortDir := ValidateSortOrder(filter.SortDir)

	var orderModels []models.OrderModel
	if err := query.
		Order(sortField + " " + sortDir).
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*fulfillment.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = orderModels[i].ToDomain()
	}
	return orders, total, nil
}

// applyOrderFilter translates the listing filter into query conditions
func applyOrderFilter(query *gorm.DB, filter fulfillment.OrderListFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}
	if filter.IsPrinted != nil {
		query = query.Where("is_printed = ?", *filter.IsPrinted)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"order_number ILIKE ? OR customer_name ILIKE ? OR product_code ILIKE ?",
			pattern, pattern, pattern,
		)
	}
	return query
}

// Save creates or updates a single order
func (r *GormOrderRepository) Save(ctx context.Context, order *fulfillment.Order) error {
	model := models.OrderModelFromDomain(order)
	return r.db.WithContext(ctx).Save(model).Error
}

// SavePrintState persists tracking and print-state for the whole batch in
// one transaction so a failed write never leaves the transition partially
// visible.
func (r *GormOrderRepository) SavePrintState(ctx context.Context, orders []*fulfillment.Order) error {
	if len(orders) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		for _, order := range orders {
			updates := map[string]interface{}{
				"cargo_tracking_number": order.CargoTrackingNumber,
				"cargo_provider":        order.CargoProvider,
				"is_printed":            order.IsPrinted,
				"printed_at":            order.PrintedAt,
				"updated_at":            now,
			}
			result := tx.Model(&models.OrderModel{}).
				Where("tenant_id = ? AND id = ?", order.TenantID, order.ID).
				Updates(updates)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

// Interface assertion
var _ fulfillment.OrderRepository = (*GormOrderRepository)(nil)
