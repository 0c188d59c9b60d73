package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/domain/shared"
)

// GormCarrierConnectionRepository implements fulfillment.CarrierConnectionRepository
type GormCarrierConnectionRepository struct {
	db *gorm.DB
}

// NewGormCarrierConnectionRepository creates a new repository
func NewGormCarrierConnectionRepository(db *gorm.DB) *GormCarrierConnectionRepository {
	return &GormCarrierConnectionRepository{db: db}
}

// FindByIDForTenant finds a connection by ID within a tenant
func (r *GormCarrierConnectionRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*fulfillment.CarrierConnection, error) {
	var conn fulfillment.CarrierConnection
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conn, nil
}

// FindActiveForTenant returns the tenant's single active connection
func (r *GormCarrierConnectionRepository) FindActiveForTenant(ctx context.Context, tenantID uuid.UUID) (*fulfillment.CarrierConnection, error) {
	var conn fulfillment.CarrierConnection
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("updated_at DESC").
		First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &conn, nil
}

// Save persists a connection, deactivating any other active connection of
// the tenant first so at most one stays active.
func (r *GormCarrierConnectionRepository) Save(ctx context.Context, conn *fulfillment.CarrierConnection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if conn.IsActive {
			if err := tx.Model(&fulfillment.CarrierConnection{}).
				Where("tenant_id = ? AND id <> ? AND is_active = ?", conn.TenantID, conn.ID, true).
				Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return tx.Save(conn).Error
	})
}

// Interface assertion
var _ fulfillment.CarrierConnectionRepository = (*GormCarrierConnectionRepository)(nil)
