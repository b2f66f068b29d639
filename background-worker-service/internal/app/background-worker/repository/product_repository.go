package repository

import (
	"context"
	"fmt"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/pkg/metrics"

	"gorm.io/gorm"
)

// productReader читает таблицу products Catalog Service, только чтение
type productReader struct {
	db *gorm.DB
}

func NewProductReader(db *gorm.DB) ProductReader {
	return &productReader{db: db}
}

func (r *productReader) ListAll(ctx context.Context) ([]entity.Product, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "products").ObserveDuration()

	products := []entity.Product{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}
