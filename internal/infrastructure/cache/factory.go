package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kargopanel/backend/internal/domain/catalog"
	"github.com/kargopanel/backend/internal/infrastructure/config"
)

// ProductCacheFactory creates product caches based on configuration
type ProductCacheFactory struct {
	redisConfig           config.RedisConfig
	cacheConfig           catalog.CacheConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// ProductCacheFactoryOption is a functional option for configuring the factory
type ProductCacheFactoryOption func(*ProductCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.logger = logger
	}
}

// WithCacheConfig sets the cache configuration
func WithCacheConfig(cfg catalog.CacheConfig) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.cacheConfig = cfg
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true (allow fallback)
func WithInMemoryFallback(allow bool) ProductCacheFactoryOption {
	return func(f *ProductCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewProductCacheFactory creates a new factory
func NewProductCacheFactory(cfg config.RedisConfig, opts ...ProductCacheFactoryOption) *ProductCacheFactory {
	f := &ProductCacheFactory{
		redisConfig:           cfg,
		cacheConfig:           catalog.DefaultCacheConfig(),
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateTieredCache creates an in-memory L1 backed by a Redis L2
func (f *ProductCacheFactory) CreateTieredCache() (catalog.ProductCache, error) {
	redisCache, err := NewRedisProductCache(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}, f.cacheConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis product cache: %w", err)
	}

	l1 := NewInMemoryProductCache(
		WithInMemoryConfig(f.cacheConfig),
		WithInMemoryLogger(f.logger),
	)

	return NewTieredProductCache(l1, redisCache,
		WithTieredConfig(f.cacheConfig),
		WithTieredLogger(f.logger),
	), nil
}

// CreateInMemoryCache creates a standalone in-memory cache.
// Suitable for single-instance deployments and testing; in-memory caches do
// not share state across process instances.
func (f *ProductCacheFactory) CreateInMemoryCache() catalog.ProductCache {
	return NewInMemoryProductCache(
		WithInMemoryConfig(f.cacheConfig),
		WithInMemoryLogger(f.logger),
	)
}

// CreateCache creates a product cache based on whether Redis is enabled and
// reachable. It tries the tiered Redis-backed cache first and falls back to
// in-memory when Redis is unavailable and AllowInMemoryFallback is true.
func (f *ProductCacheFactory) CreateCache() (catalog.ProductCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory product cache")
		return f.CreateInMemoryCache(), nil
	}

	cache, err := f.CreateTieredCache()
	if err == nil {
		f.logger.Info("using tiered Redis product cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for product cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory product cache",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
