package service

import (
	"context"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
)

// DecisionServiceInterface обрабатывает решения модераторов из Kafka
type DecisionServiceInterface interface {
	ProcessModerationEvent(ctx context.Context, event *entity.ModerationEvent) error
}

// CacheWarmerInterface прогревает кеш products:all
type CacheWarmerInterface interface {
	// WarmCatalogCache перечитывает товары из PostgreSQL и заменяет кеш
	WarmCatalogCache(ctx context.Context) error
	// CacheTTL возвращает оставшееся время жизни кеша
	CacheTTL(ctx context.Context) (time.Duration, error)
}

var (
	_ DecisionServiceInterface = (*DecisionService)(nil)
	_ CacheWarmerInterface     = (*CacheWarmerService)(nil)
)
