package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kargopanel/backend/internal/domain/catalog"
	"github.com/kargopanel/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("ParcelDefinitions", orderedParcelDefs).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("ParcelDefinitions", orderedParcelDefs).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAllForTenant lists products for a tenant
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var products []catalog.Product
	if err := query.
		Preload("ParcelDefinitions", orderedParcelDefs).
		Order(orderBy + " " + orderDir).
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForTenant counts products for a tenant
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.Product{}).Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	var total int64
	err := query.Count(&total).Error
	return total, err
}

// FindByCode finds a product by exact code within a tenant
func (r *GormProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("ParcelDefinitions", orderedParcelDefs).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCodeFold looks the code up with the exact spelling first, then the
// lower-case and upper-case forms. Marketplace SKU casing is unreliable.
func (r *GormProductRepository) FindByCodeFold(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	candidates := []string{code, strings.ToLower(code), strings.ToUpper(code)}
	for _, candidate := range candidates {
		product, err := r.FindByCode(ctx, tenantID, candidate)
		if err == nil {
			return product, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, shared.ErrNotFound
}

// FindByCodes loads products by a set of codes, keyed by exact code
func (r *GormProductRepository) FindByCodes(ctx context.Context, tenantID uuid.UUID, codes []string) (map[string]*catalog.Product, error) {
	if len(codes) == 0 {
		return map[string]*catalog.Product{}, nil
	}
	var products []catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("ParcelDefinitions", orderedParcelDefs).
		Where("tenant_id = ? AND code IN ?", tenantID, codes).
		Find(&products).Error; err != nil {
		return nil, err
	}
	result := make(map[string]*catalog.Product, len(products))
	for i := range products {
		result[products[i].Code] = &products[i]
	}
	return result, nil
}

// Save creates or updates a product and its parcel definitions
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(product).Error; err != nil {
			return err
		}
		// Parcel definitions are replaced wholesale; they are few per product.
		if err := tx.Where("product_id = ?", product.ID).
			Delete(&catalog.ParcelDefinition{}).Error; err != nil {
			return err
		}
		if len(product.ParcelDefinitions) > 0 {
			return tx.Create(&product.ParcelDefinitions).Error
		}
		return nil
	})
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id).Error
}

func orderedParcelDefs(db *gorm.DB) *gorm.DB {
	return db.Order("product_parcel_definitions.sort_order ASC")
}

// Interface assertion
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
