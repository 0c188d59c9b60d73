package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/catalog"
)

// TieredProductCache combines a fast local L1 cache with a shared L2 cache.
// Reads check L1 first, then L2, and promote L2 hits back into L1 with the
// shorter L1 TTL. Writes and invalidations go to both tiers; an L2 failure
// is logged but does not fail the operation, since L2 is an optimization.
type TieredProductCache struct {
	l1     catalog.ProductCache
	l2     catalog.ProductCache
	config catalog.CacheConfig
	logger *zap.Logger
}

// TieredProductCacheOption is a functional option for configuring the cache
type TieredProductCacheOption func(*TieredProductCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config catalog.CacheConfig) TieredProductCacheOption {
	return func(c *TieredProductCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredProductCacheOption {
	return func(c *TieredProductCache) {
		c.logger = logger
	}
}

// NewTieredProductCache creates a cache layering l1 in front of l2
func NewTieredProductCache(l1, l2 catalog.ProductCache, opts ...TieredProductCacheOption) *TieredProductCache {
	cache := &TieredProductCache{
		l1:     l1,
		l2:     l2,
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get checks L1, then L2, promoting L2 hits into L1
func (c *TieredProductCache) Get(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	product, err := c.l1.Get(ctx, tenantID, code)
	if err == nil && product != nil {
		return product, nil
	}

	product, err = c.l2.Get(ctx, tenantID, code)
	if err != nil {
		c.logger.Warn("L2 product cache read failed",
			zap.String("code", code),
			zap.Error(err))
		return nil, nil
	}
	if product == nil {
		return nil, nil
	}

	if err := c.l1.Set(ctx, tenantID, product, c.config.L1TTL); err != nil {
		c.logger.Warn("failed to promote product to L1 cache",
			zap.String("code", code),
			zap.Error(err))
	}
	return product, nil
}

// Set writes to both tiers
func (c *TieredProductCache) Set(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if err := c.l1.Set(ctx, tenantID, product, c.config.L1TTL); err != nil {
		return err
	}
	if err := c.l2.Set(ctx, tenantID, product, ttl); err != nil {
		c.logger.Warn("L2 product cache write failed",
			zap.String("code", product.Code),
			zap.Error(err))
	}
	return nil
}

// Delete evicts from both tiers
func (c *TieredProductCache) Delete(ctx context.Context, tenantID uuid.UUID, code string) error {
	if err := c.l1.Delete(ctx, tenantID, code); err != nil {
		return err
	}
	if err := c.l2.Delete(ctx, tenantID, code); err != nil {
		c.logger.Warn("L2 product cache delete failed",
			zap.String("code", code),
			zap.Error(err))
	}
	return nil
}

// InvalidateTenant evicts a tenant's products from both tiers
func (c *TieredProductCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.l1.InvalidateTenant(ctx, tenantID); err != nil {
		return err
	}
	if err := c.l2.InvalidateTenant(ctx, tenantID); err != nil {
		c.logger.Warn("L2 product cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
	return nil
}

// Close closes both tiers
func (c *TieredProductCache) Close() error {
	err := c.l1.Close()
	if l2Err := c.l2.Close(); l2Err != nil && err == nil {
		err = l2Err
	}
	return err
}

// Ensure TieredProductCache implements ProductCache
var _ catalog.ProductCache = (*TieredProductCache)(nil)
