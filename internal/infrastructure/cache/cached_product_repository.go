package cache

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/catalog"
	"github.com/kargopanel/backend/internal/domain/shared"
)

// CachedProductRepository decorates a ProductRepository with a ProductCache.
// Only the code lookups used by label batches go through the cache; listing
// and pagination always hit the database. Writes invalidate before delegating
// so a failed write never leaves a fresher cache than the database.
type CachedProductRepository struct {
	inner  catalog.ProductRepository
	cache  catalog.ProductCache
	logger *zap.Logger
}

// NewCachedProductRepository wraps repo with cache
func NewCachedProductRepository(repo catalog.ProductRepository, cache catalog.ProductCache, logger *zap.Logger) *CachedProductRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProductRepository{
		inner:  repo,
		cache:  cache,
		logger: logger,
	}
}

// FindByCode checks the cache before the database
func (r *CachedProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	if product, err := r.cache.Get(ctx, tenantID, code); err == nil && product != nil {
		return product, nil
	}

	product, err := r.inner.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	r.cacheProduct(ctx, tenantID, product)
	return product, nil
}

// FindByCodeFold checks the cache before the database. Cache keys are folded
// to lower case, so a single cache entry covers every spelling of the code.
func (r *CachedProductRepository) FindByCodeFold(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	if product, err := r.cache.Get(ctx, tenantID, code); err == nil && product != nil {
		return product, nil
	}

	product, err := r.inner.FindByCodeFold(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	r.cacheProduct(ctx, tenantID, product)
	return product, nil
}

// FindByCodes resolves cached codes first and reads only the misses from the
// database in a single query
func (r *CachedProductRepository) FindByCodes(ctx context.Context, tenantID uuid.UUID, codes []string) (map[string]*catalog.Product, error) {
	result := make(map[string]*catalog.Product, len(codes))
	var missing []string

	for _, code := range codes {
		if product, err := r.cache.Get(ctx, tenantID, code); err == nil && product != nil {
			result[code] = product
			continue
		}
		missing = append(missing, code)
	}

	if len(missing) == 0 {
		return result, nil
	}

	loaded, err := r.inner.FindByCodes(ctx, tenantID, missing)
	if err != nil {
		return nil, err
	}
	for code, product := range loaded {
		result[code] = product
		r.cacheProduct(ctx, tenantID, product)
	}

	return result, nil
}

// FindByIDForTenant delegates to the database
func (r *CachedProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return r.inner.FindByIDForTenant(ctx, tenantID, id)
}

// FindAllForTenant delegates to the database
func (r *CachedProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	return r.inner.FindAllForTenant(ctx, tenantID, filter)
}

// CountForTenant delegates to the database
func (r *CachedProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	return r.inner.CountForTenant(ctx, tenantID, filter)
}

// Save evicts the cached product before writing
func (r *CachedProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if product != nil {
		if err := r.cache.Delete(ctx, product.TenantID, product.Code); err != nil {
			r.logger.Warn("failed to evict product from cache",
				zap.String("code", product.Code),
				zap.Error(err))
		}
	}
	return r.inner.Save(ctx, product)
}

// Delete evicts the cached product before deleting
func (r *CachedProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// The code is not known from the id alone, so resolve it first.
	// A lookup failure still allows the delete to proceed.
	if product, err := r.inner.FindByID(ctx, id); err == nil && product != nil {
		if err := r.cache.Delete(ctx, product.TenantID, product.Code); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("failed to evict product from cache",
				zap.String("code", product.Code),
				zap.Error(err))
		}
	}
	return r.inner.Delete(ctx, id)
}

// FindByID delegates to the database
func (r *CachedProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.inner.FindByID(ctx, id)
}

func (r *CachedProductRepository) cacheProduct(ctx context.Context, tenantID uuid.UUID, product *catalog.Product) {
	if product == nil {
		return
	}
	if err := r.cache.Set(ctx, tenantID, product, 0); err != nil {
		r.logger.Warn("failed to cache product",
			zap.String("code", product.Code),
			zap.Error(err))
	}
}

// Ensure CachedProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*CachedProductRepository)(nil)
