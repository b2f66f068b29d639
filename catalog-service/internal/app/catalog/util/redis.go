package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	serviceName = "catalog-service"

	// ProductsCacheKey - полный список товаров, его же прогревает background worker
	ProductsCacheKey = "products:all"
	savedKeyPrefix   = "saved:"
)

// SavedKey возвращает ключ набора сохраненных товаров пользователя
func SavedKey(userID string) string {
	return savedKeyPrefix + userID
}

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// GetSavedIDs возвращает закешированный набор. Пустой закешированный набор - не промах
func (r *RedisClient) GetSavedIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	found, err := r.getJSON(ctx, SavedKey(userID), &ids)
	if err != nil || !found {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}

func (r *RedisClient) SetSavedIDs(ctx context.Context, userID string, ids []uuid.UUID, ttl time.Duration) error {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return r.setJSON(ctx, SavedKey(userID), ids, ttl)
}

func (r *RedisClient) SetSavedIDsIfAbsent(ctx context.Context, userID string, ids []uuid.UUID, ttl time.Duration) error {
	if ids == nil {
		ids = []uuid.UUID{}
	}
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpSet).ObserveDuration()

	key := SavedKey(userID)
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.SetNX(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}
	return nil
}

func (r *RedisClient) DeleteSavedIDs(ctx context.Context, userID string) error {
	return r.del(ctx, SavedKey(userID))
}

func (r *RedisClient) GetProducts(ctx context.Context) ([]entity.Product, error) {
	var products []entity.Product
	found, err := r.getJSON(ctx, ProductsCacheKey, &products)
	if err != nil || !found {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

func (r *RedisClient) SetProducts(ctx context.Context, products []entity.Product, ttl time.Duration) error {
	if products == nil {
		products = []entity.Product{}
	}
	return r.setJSON(ctx, ProductsCacheKey, products, ttl)
}

func (r *RedisClient) DeleteProducts(ctx context.Context) error {
	return r.del(ctx, ProductsCacheKey)
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}

func (r *RedisClient) getJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpGet).ObserveDuration()

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		metrics.RecordRedisError(serviceName, metrics.RedisOpGet)
		return false, fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return true, nil
}

func (r *RedisClient) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpSet).ObserveDuration()

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpSet)
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}

	return nil
}

func (r *RedisClient) del(ctx context.Context, key string) error {
	defer metrics.NewRedisTimer(serviceName, metrics.RedisOpDel).ObserveDuration()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordRedisError(serviceName, metrics.RedisOpDel)
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}
