package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/catalog"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryProductCache implements ProductCache using in-memory storage
// This is designed to be used as L1 cache in front of Redis, or standalone
// on single-instance deployments
type InMemoryProductCache struct {
	products sync.Map // map[string]*cacheEntry
	config   catalog.CacheConfig
	logger   *zap.Logger
	stopCh   chan struct{}
	stopped  int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// cacheEntry wraps a cached product with expiration time
type cacheEntry struct {
	product   *catalog.Product
	expiresAt time.Time
}

func (e *cacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryProductCacheOption is a functional option for configuring the cache
type InMemoryProductCacheOption func(*InMemoryProductCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config catalog.CacheConfig) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryProductCacheOption {
	return func(c *InMemoryProductCache) {
		c.logger = logger
	}
}

// NewInMemoryProductCache creates a new in-memory product cache
func NewInMemoryProductCache(opts ...InMemoryProductCacheOption) *InMemoryProductCache {
	cache := &InMemoryProductCache{
		config: catalog.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	// Start background cleanup goroutine
	go cache.cleanupExpired()

	return cache
}

// productCacheKey generates the cache key for a product.
// Codes are folded to lower case so that lookups match case-insensitively,
// the same way the repository resolves codes.
func productCacheKey(tenantID uuid.UUID, code string) string {
	return tenantID.String() + ":" + strings.ToLower(code)
}

// Get retrieves a product from cache
func (c *InMemoryProductCache) Get(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	cacheKey := productCacheKey(tenantID, code)

	if value, ok := c.products.Load(cacheKey); ok {
		entry := value.(*cacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for product", zap.String("code", code))
			return entry.product, nil
		}
		// Expired, remove from cache
		c.products.Delete(cacheKey)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for product", zap.String("code", code))
	return nil, nil
}

// Set stores a product in cache
func (c *InMemoryProductCache) Set(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	cacheKey := productCacheKey(tenantID, product.Code)
	entry := &cacheEntry{
		product:   product,
		expiresAt: time.Now().Add(ttl),
	}

	c.products.Store(cacheKey, entry)
	c.logger.Debug("Cached product in L1",
		zap.String("code", product.Code),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a product from cache
func (c *InMemoryProductCache) Delete(ctx context.Context, tenantID uuid.UUID, code string) error {
	c.products.Delete(productCacheKey(tenantID, code))
	c.logger.Debug("Deleted product from L1 cache", zap.String("code", code))
	return nil
}

// InvalidateTenant removes all cached products for a tenant
func (c *InMemoryProductCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	prefix := tenantID.String() + ":"
	var removed int
	c.products.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.products.Delete(key)
			removed++
		}
		return true
	})

	c.logger.Info("Invalidated L1 product cache for tenant",
		zap.String("tenant_id", tenantID.String()),
		zap.Int("removed", removed))
	return nil
}

// Close releases any resources held by the cache
func (c *InMemoryProductCache) Close() error {
	// Only close once
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// GetStats returns cache statistics
func (c *InMemoryProductCache) GetStats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Count returns the number of entries in the cache
func (c *InMemoryProductCache) Count() int {
	var count int
	c.products.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// cleanupExpired periodically removes expired entries from the cache
func (c *InMemoryProductCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.Error("Panic in cache cleanup",
							zap.Any("panic", r))
					}
				}()
				c.doCleanup()
			}()
		}
	}
}

// doCleanup removes expired entries
func (c *InMemoryProductCache) doCleanup() {
	var removed int

	c.products.Range(func(key, value any) bool {
		entry := value.(*cacheEntry)
		if entry.isExpired() {
			c.products.Delete(key)
			removed++
		}
		return true
	})

	if removed > 0 {
		c.logger.Debug("Cleaned up expired L1 cache entries",
			zap.Int("removed", removed))
	}
}

// Ensure InMemoryProductCache implements ProductCache
var _ catalog.ProductCache = (*InMemoryProductCache)(nil)
