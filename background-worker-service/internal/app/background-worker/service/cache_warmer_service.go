package service

import (
	"context"
	"fmt"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/repository"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"
)

// CacheWarmerService держит products:all заполненным
type CacheWarmerService struct {
	products repository.ProductReader
	cache    repository.ProductCache
}

func NewCacheWarmerService(products repository.ProductReader, cache repository.ProductCache) *CacheWarmerService {
	return &CacheWarmerService{
		products: products,
		cache:    cache,
	}
}

// WarmCatalogCache вызывается по cron расписанию и один раз при старте
func (s *CacheWarmerService) WarmCatalogCache(ctx context.Context) error {
	timer := metrics.NewCacheWarmTimer()

	products, err := s.products.ListAll(ctx)
	if err != nil {
		timer.Done(metrics.WorkerStatusFailed)
		return fmt.Errorf("failed to load products: %w", err)
	}

	if err := s.cache.Set(ctx, products); err != nil {
		timer.Done(metrics.WorkerStatusFailed)
		return fmt.Errorf("failed to store products in cache: %w", err)
	}

	timer.Done(metrics.WorkerStatusSuccess)
	logger.Info().Int("products", len(products)).Msg("Catalog cache warmed")
	return nil
}

func (s *CacheWarmerService) CacheTTL(ctx context.Context) (time.Duration, error) {
	return s.cache.TTL(ctx)
}
