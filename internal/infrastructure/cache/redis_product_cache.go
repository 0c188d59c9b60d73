package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kargopanel/backend/internal/domain/catalog"
)

// RedisProductCache implements ProductCache using Redis
// This is suitable for distributed deployments where multiple instances
// should share the product cache
type RedisProductCache struct {
	client    *redis.Client
	keyPrefix string
	config    catalog.CacheConfig
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisProductCache creates a new Redis-based product cache
func NewRedisProductCache(cfg RedisConfig, cacheConfig catalog.CacheConfig) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisProductCache{
		client:    client,
		keyPrefix: cacheConfig.KeyPrefix,
		config:    cacheConfig,
	}, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisProductCacheWithClient(client *redis.Client, cacheConfig catalog.CacheConfig) *RedisProductCache {
	if cacheConfig.KeyPrefix == "" {
		cacheConfig.KeyPrefix = catalog.DefaultCacheConfig().KeyPrefix
	}
	return &RedisProductCache{
		client:    client,
		keyPrefix: cacheConfig.KeyPrefix,
		config:    cacheConfig,
	}
}

func (c *RedisProductCache) redisKey(tenantID uuid.UUID, code string) string {
	return c.keyPrefix + productCacheKey(tenantID, code)
}

// Get retrieves a product from Redis, or (nil, nil) on a miss
func (c *RedisProductCache) Get(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	data, err := c.client.Get(ctx, c.redisKey(tenantID, code)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		// Corrupt entry, treat as a miss and evict it
		_ = c.client.Del(ctx, c.redisKey(tenantID, code)).Err()
		return nil, nil
	}

	return &product, nil
}

// Set stores a product in Redis
func (c *RedisProductCache) Set(ctx context.Context, tenantID uuid.UUID, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.ProductTTL
	}

	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.redisKey(tenantID, product.Code), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write product to cache: %w", err)
	}
	return nil
}

// Delete removes a product from Redis
func (c *RedisProductCache) Delete(ctx context.Context, tenantID uuid.UUID, code string) error {
	if err := c.client.Del(ctx, c.redisKey(tenantID, code)).Err(); err != nil {
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}

// InvalidateTenant removes all cached products for a tenant using SCAN
func (c *RedisProductCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := c.keyPrefix + tenantID.String() + ":*"

	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete product from cache: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan product cache keys: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisProductCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisProductCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisProductCache implements ProductCache
var _ catalog.ProductCache = (*RedisProductCache)(nil)
