package util

import (
	"context"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

// RedisCache интерфейс для работы с Redis кешем
// Get-методы возвращают nil, nil при промахе кеша
type RedisCache interface {
	GetSavedIDs(ctx context.Context, userID string) ([]uuid.UUID, error)
	SetSavedIDs(ctx context.Context, userID string, ids []uuid.UUID, ttl time.Duration) error
	// SetSavedIDsIfAbsent не перезаписывает уже закешированный набор
	SetSavedIDsIfAbsent(ctx context.Context, userID string, ids []uuid.UUID, ttl time.Duration) error
	DeleteSavedIDs(ctx context.Context, userID string) error

	GetProducts(ctx context.Context) ([]entity.Product, error)
	SetProducts(ctx context.Context, products []entity.Product, ttl time.Duration) error
	DeleteProducts(ctx context.Context) error

	Close() error
}

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
