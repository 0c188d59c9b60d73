package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
)

// GormShipmentRecordRepository implements fulfillment.ShipmentRecordRepository.
// Records are append-only; there is deliberately no update or delete.
type GormShipmentRecordRepository struct {
	db *gorm.DB
}

// NewGormShipmentRecordRepository creates a new repository
func NewGormShipmentRecordRepository(db *gorm.DB) *GormShipmentRecordRepository {
	return &GormShipmentRecordRepository{db: db}
}

// Append writes the audit row for one successful carrier call
func (r *GormShipmentRecordRepository) Append(ctx context.Context, record *fulfillment.ShipmentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByOrderForTenant returns the audit rows of one order, newest first
func (r *GormShipmentRecordRepository) FindByOrderForTenant(ctx context.Context, tenantID, orderID uuid.UUID) ([]*fulfillment.ShipmentRecord, error) {
	var records []*fulfillment.ShipmentRecord
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Interface assertion
var _ fulfillment.ShipmentRecordRepository = (*GormShipmentRecordRepository)(nil)
