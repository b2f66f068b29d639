package infrastructure

import (
	"context"
	"errors"
)

// ErrProductNotFound - Catalog Service не знает такого товара
var ErrProductNotFound = errors.New("product not found in catalog")

// MessagePublisher интерфейс для отправки сообщений в очередь (Kafka)
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// ProductSummary - то, что отзывам нужно знать о товаре
type ProductSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CatalogClient читает товары из Catalog Service
type CatalogClient interface {
	GetProduct(ctx context.Context, productID string) (*ProductSummary, error)
}
