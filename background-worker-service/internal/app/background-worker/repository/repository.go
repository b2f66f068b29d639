package repository

import (
	"context"
	"errors"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
)

const serviceName = "background-worker-service"

var (
	ErrDecisionNotFound = errors.New("moderation decision not found")
	ErrCacheMiss        = errors.New("products cache is empty")
)

// DecisionRepository хранит решения модераторов в PostgreSQL
type DecisionRepository interface {
	// Save записывает решение, повторное решение по той же жалобе перезаписывает прежнее
	Save(ctx context.Context, decision *entity.ModerationDecision) error

	// GetByFlagID возвращает текущее решение по жалобе
	GetByFlagID(ctx context.Context, flagID string) (*entity.ModerationDecision, error)
}

// ProductReader читает товары каталога
type ProductReader interface {
	ListAll(ctx context.Context) ([]entity.Product, error)
}

// ProductCache - список товаров каталога в Redis
type ProductCache interface {
	// Set заменяет products:all целиком
	Set(ctx context.Context, products []entity.Product) error

	// TTL возвращает оставшееся время жизни кеша или ErrCacheMiss
	TTL(ctx context.Context) (time.Duration, error)
}
