package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

// productCache пишет products:all в формате, который читает Catalog Service
type productCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client, ttl time.Duration) ProductCache {
	return &productCache{
		client: client,
		ttl:    ttl,
	}
}

func (r *productCache) Set(ctx context.Context, products []entity.Product) error {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpSet).ObserveDuration()

	if products == nil {
		products = []entity.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := r.client.Set(ctx, entity.ProductsCacheKey, data, r.ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set products in redis: %w", err)
	}

	return nil
}

func (r *productCache) TTL(ctx context.Context) (time.Duration, error) {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpExists).ObserveDuration()

	ttl, err := r.client.TTL(ctx, entity.ProductsCacheKey).Result()
	if err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpExists)
		return 0, fmt.Errorf("failed to get products ttl: %w", err)
	}

	// -2: ключа нет
	if ttl == -2 {
		return 0, ErrCacheMiss
	}

	return ttl, nil
}
