package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductCache caches products with their parcel definitions per tenant.
// Label batches resolve the same product codes over and over, so repositories
// are wrapped with a cache to avoid re-reading parcel definitions on every batch.
type ProductCache interface {
	// Get retrieves a cached product, or (nil, nil) on a miss
	Get(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	// Set stores a product with the given TTL (0 means the cache default)
	Set(ctx context.Context, tenantID uuid.UUID, product *Product, ttl time.Duration) error

	// Delete evicts a single product
	Delete(ctx context.Context, tenantID uuid.UUID, code string) error

	// InvalidateTenant evicts every cached product for a tenant
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Close releases any resources held by the cache
	Close() error
}

// CacheConfig holds configuration for the product cache
type CacheConfig struct {
	// ProductTTL is the time-to-live for cached products in L2 (default: 5m)
	ProductTTL time.Duration
	// L1TTL is the time-to-live for L1 (local) cache (default: 30s)
	L1TTL time.Duration
	// KeyPrefix is the Redis key prefix (default: "catalog:product:")
	KeyPrefix string
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProductTTL: 5 * time.Minute,
		L1TTL:      30 * time.Second,
		KeyPrefix:  "catalog:product:",
	}
}
