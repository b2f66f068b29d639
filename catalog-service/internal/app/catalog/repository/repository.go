package repository

import (
	"context"
	"errors"

	"web3dir/catalog-service/internal/app/catalog/entity"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrCuratedListNotFound = errors.New("curated list not found")
	ErrUnknownProduct      = errors.New("product does not exist")
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	// GetByIDs не гарантирует порядок результата
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetAll(ctx context.Context) ([]entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SavedProductRepository - хранилище сохраненных товаров пользователя.
// Add и Remove идемпотентны
type SavedProductRepository interface {
	ListIDs(ctx context.Context, userID string) ([]uuid.UUID, error)
	Add(ctx context.Context, userID string, productID uuid.UUID) error
	Remove(ctx context.Context, userID string, productID uuid.UUID) error
}

type CuratedListRepository interface {
	GetAll(ctx context.Context) ([]entity.CuratedList, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CuratedList, error)
	// GetProductIDs возвращает товары подборки в порядке position
	GetProductIDs(ctx context.Context, listID uuid.UUID) ([]uuid.UUID, error)
}

const serviceName = "catalog-service"
