// Package cache keeps recently viewed product details in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/cloudshop/internal/core/domain"
	"github.com/niksmo/cloudshop/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.ProductCache = (*RedisProductCache)(nil)

const (
	DefaultProductTTL = 30 * time.Second
	productKeyPrefix  = "cloudshop:product:"
)

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

type RedisConfig struct {
	Addr     string
	Password string
	TTL      time.Duration
}

type RedisProductCache struct {
	rdb redisClient
	ttl time.Duration
}

// NewRedisProductCache connects to Redis and checks it is reachable.
func NewRedisProductCache(
	ctx context.Context, cfg RedisConfig,
) (RedisProductCache, error) {
	const op = "NewRedisProductCache"

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     4,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return RedisProductCache{}, fmt.Errorf("%s: redis unavailable: %w", op, err)
	}
	slog.Info("redis is available", "op", op, "addr", cfg.Addr)

	return newRedisProductCache(rdb, cfg.TTL), nil
}

func newRedisProductCache(rdb redisClient, ttl time.Duration) RedisProductCache {
	if ttl <= 0 {
		ttl = DefaultProductTTL
	}
	return RedisProductCache{rdb: rdb, ttl: ttl}
}

func (c RedisProductCache) GetProduct(
	ctx context.Context, id string,
) (domain.Product, bool, error) {
	const op = "RedisProductCache.GetProduct"

	b, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}

	var v cachedProduct
	if err := json.Unmarshal(b, &v); err != nil {
		return domain.Product{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return v.toDomain(), true, nil
}

func (c RedisProductCache) PutProduct(ctx context.Context, p domain.Product) error {
	const op = "RedisProductCache.PutProduct"

	b, err := json.Marshal(fromDomain(p))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := c.rdb.Set(ctx, productKey(p.ID), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c RedisProductCache) Close() {
	const op = "RedisProductCache.Close"
	log := slog.With("op", op)

	if err := c.rdb.Close(); err != nil {
		log.Error("failed to close redis client", "err", err)
		return
	}
	log.Debug("redis client is closed")
}

func productKey(id string) string {
	return productKeyPrefix + id
}
