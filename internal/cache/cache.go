// Package cache provides a read-through cache for catalogue products.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ProductCache stores products by ID.
type ProductCache interface {
	// Get returns the cached product, or nil on a miss.
	Get(ctx context.Context, id int64) (*model.Product, error)

	// Set caches the product until the configured TTL expires.
	Set(ctx context.Context, product *model.Product) error

	// Delete evicts the given products.
	Delete(ctx context.Context, ids ...int64) error
}

// redisProductCache implements ProductCache on top of Redis.
type redisProductCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisClient creates a Redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewRedisProductCache creates a Redis-backed product cache.
func NewRedisProductCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) ProductCache {
	return &redisProductCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "product_cache").Logger(),
	}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

func (c *redisProductCache) Get(ctx context.Context, id int64) (*model.Product, error) {
	key := productKey(id)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached product: %w", err)
	}

	var product model.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		c.evict(ctx, key)
		return nil, nil
	}

	if product.ID != id {
		c.logger.Warn().
			Int64("key_id", id).
			Int64("product_id", product.ID).
			Msg("cache ID mismatch")
		c.evict(ctx, key)
		return nil, nil
	}

	return &product, nil
}

func (c *redisProductCache) Set(ctx context.Context, product *model.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to encode product for cache: %w", err)
	}

	if err := c.client.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache product: %w", err)
	}

	return nil
}

func (c *redisProductCache) Delete(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to evict cached products: %w", err)
	}

	return nil
}

func (c *redisProductCache) evict(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("failed to evict cache entry")
	}
}

// nopProductCache is used when caching is disabled.
type nopProductCache struct{}

// NewNopProductCache returns a cache that never stores anything.
func NewNopProductCache() ProductCache {
	return nopProductCache{}
}

func (nopProductCache) Get(context.Context, int64) (*model.Product, error) { return nil, nil }
func (nopProductCache) Set(context.Context, *model.Product) error          { return nil }
func (nopProductCache) Delete(context.Context, ...int64) error             { return nil }
