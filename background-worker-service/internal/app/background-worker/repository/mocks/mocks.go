package mocks

import (
	"context"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"

	"github.com/stretchr/testify/mock"
)

// MockDecisionRepository мок для DecisionRepository
type MockDecisionRepository struct {
	mock.Mock
}

func (m *MockDecisionRepository) Save(ctx context.Context, decision *entity.ModerationDecision) error {
	args := m.Called(ctx, decision)
	return args.Error(0)
}

func (m *MockDecisionRepository) GetByFlagID(ctx context.Context, flagID string) (*entity.ModerationDecision, error) {
	args := m.Called(ctx, flagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ModerationDecision), args.Error(1)
}

// MockProductReader мок для ProductReader
type MockProductReader struct {
	mock.Mock
}

func (m *MockProductReader) ListAll(ctx context.Context) ([]entity.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

// MockProductCache мок для ProductCache
type MockProductCache struct {
	mock.Mock
}

func (m *MockProductCache) Set(ctx context.Context, products []entity.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductCache) TTL(ctx context.Context) (time.Duration, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Duration), args.Error(1)
}
