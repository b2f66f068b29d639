package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/background-worker-service/internal/app/background-worker/repository"
	"web3dir/background-worker-service/internal/app/background-worker/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestWarmCatalogCache_Success(t *testing.T) {
	// Arrange
	reader := new(mocks.MockProductReader)
	cache := new(mocks.MockProductCache)
	svc := NewCacheWarmerService(reader, cache)
	ctx := context.Background()

	products := []entity.Product{
		{ID: uuid.New(), Name: "Uniswap", Category: "DEX"},
		{ID: uuid.New(), Name: "Rabby", Category: "Wallet"},
	}
	reader.On("ListAll", ctx).Return(products, nil)
	cache.On("Set", ctx, products).Return(nil)

	// Act
	err := svc.WarmCatalogCache(ctx)

	// Assert
	assert.NoError(t, err)
	cache.AssertExpectations(t)
}

func TestWarmCatalogCache_DatabaseErrorKeepsCache(t *testing.T) {
	reader := new(mocks.MockProductReader)
	cache := new(mocks.MockProductCache)
	svc := NewCacheWarmerService(reader, cache)
	ctx := context.Background()
	reader.On("ListAll", ctx).Return(nil, errors.New("db down"))

	err := svc.WarmCatalogCache(ctx)

	assert.Error(t, err)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestWarmCatalogCache_CacheError(t *testing.T) {
	reader := new(mocks.MockProductReader)
	cache := new(mocks.MockProductCache)
	svc := NewCacheWarmerService(reader, cache)
	ctx := context.Background()
	reader.On("ListAll", ctx).Return([]entity.Product{}, nil)
	cache.On("Set", ctx, []entity.Product{}).Return(errors.New("redis down"))

	err := svc.WarmCatalogCache(ctx)

	assert.ErrorContains(t, err, "failed to store products in cache")
}

func TestCacheTTL(t *testing.T) {
	reader := new(mocks.MockProductReader)
	cache := new(mocks.MockProductCache)
	svc := NewCacheWarmerService(reader, cache)
	ctx := context.Background()
	cache.On("TTL", ctx).Return(time.Duration(0), repository.ErrCacheMiss).Once()
	cache.On("TTL", ctx).Return(3*time.Minute, nil).Once()

	_, err := svc.CacheTTL(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)

	ttl, err := svc.CacheTTL(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3*time.Minute, ttl)
}
