package service

import (
	"context"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/pkg/listing"

	"github.com/google/uuid"
)

type CatalogServiceInterface interface {
	ProductFetcher

	ListProducts(ctx context.Context, category string, sortKey listing.SortKey) (listing.View[entity.Product], error)
	CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	GetCuratedLists(ctx context.Context) ([]entity.CuratedList, error)
	GetCuratedList(ctx context.Context, id uuid.UUID) (*entity.CuratedList, error)
	GetCuratedListProducts(ctx context.Context, id uuid.UUID) (*entity.CuratedList, []entity.Product, error)
}

type SavedServiceInterface interface {
	SavedController

	SavedIDs(ctx context.Context, userID string) ([]uuid.UUID, error)
	SavedProducts(ctx context.Context, userID string) ([]entity.Product, []uuid.UUID, error)
}

var (
	_ CatalogServiceInterface = (*CatalogService)(nil)
	_ SavedServiceInterface   = (*SavedService)(nil)
)
