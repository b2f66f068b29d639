package repository

import (
	"context"
	"errors"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository создает новый репозиторий товаров
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

// Create создает новый товар
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "products").ObserveDuration()

	result := r.db.WithContext(ctx).Create(product)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
	}
	return result.Error
}

// GetByID получает товар по ID
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products").ObserveDuration()

	var product entity.Product
	result := r.db.WithContext(ctx).First(&product, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return &product, nil
}

// GetByIDs получает товары по списку ID одним запросом.
// Отсутствующие ID просто не попадают в результат
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}

	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products").ObserveDuration()

	var products []entity.Product
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products)
	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return products, nil
}

// GetAll получает все товары, новые первыми
func (r *productRepository) GetAll(ctx context.Context) ([]entity.Product, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products").ObserveDuration()

	var products []entity.Product
	result := r.db.WithContext(ctx).Order("created_at DESC").Find(&products)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, result.Error
	}

	return products, nil
}

// Update обновляет товар
func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "products").ObserveDuration()

	result := r.db.WithContext(ctx).Model(&entity.Product{}).Where("id = ?", product.ID).Updates(map[string]interface{}{
		"name":         product.Name,
		"category":     product.Category,
		"signal_score": product.SignalScore,
		"price_tier":   product.PriceTier,
		"description":  product.Description,
		"website":      product.Website,
	})

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete удаляет товар
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "products").ObserveDuration()

	result := r.db.WithContext(ctx).Delete(&entity.Product{}, "id = ?", id)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDelete)
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}
