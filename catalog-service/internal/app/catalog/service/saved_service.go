package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/catalog-service/internal/app/catalog/repository"
	"web3dir/catalog-service/internal/app/catalog/util"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName = "catalog-service"

	// размер пачки ID для одного запроса товаров
	productBatchSize = 100
)

// ToggleOutcome - результат переключения "сохранить"
type ToggleOutcome string

const (
	OutcomeSaved        ToggleOutcome = "saved"
	OutcomeUnsaved      ToggleOutcome = "unsaved"
	OutcomeAuthRequired ToggleOutcome = "auth_required"
)

// ToggleResult возвращается из Toggle.
// OutcomeAuthRequired не ошибка: вызывающий показывает приглашение войти
type ToggleResult struct {
	Outcome   ToggleOutcome `json:"outcome"`
	ProductID uuid.UUID     `json:"product_id"`
	Saved     bool          `json:"saved"`
}

// SavedService отслеживает сохраненные товары пользователя.
// Это единственный писатель ключей saved:<user> в Redis:
// после каждой успешной записи кеш инвалидируется и перечитывается из хранилища
type SavedService struct {
	savedRepo     repository.SavedProductRepository
	productRepo   repository.ProductRepository
	redisClient   util.RedisCache
	kafkaProducer util.MessagePublisher
	cacheTTL      time.Duration
}

// NewSavedService создает сервис сохраненных товаров
func NewSavedService(
	savedRepo repository.SavedProductRepository,
	productRepo repository.ProductRepository,
	redisClient util.RedisCache,
	kafkaProducer util.MessagePublisher,
	cacheTTL time.Duration,
) *SavedService {
	return &SavedService{
		savedRepo:     savedRepo,
		productRepo:   productRepo,
		redisClient:   redisClient,
		kafkaProducer: kafkaProducer,
		cacheTTL:      cacheTTL,
	}
}

// SavedIDs возвращает набор сохраненных товаров, последние сохраненные первыми.
// Без пользователя набор пуст и хранилище не опрашивается
func (s *SavedService) SavedIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	if userID == "" {
		return []uuid.UUID{}, nil
	}

	ids, err := s.redisClient.GetSavedIDs(ctx, userID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to read saved products cache")
	} else if ids != nil {
		metrics.RecordCacheHit(serviceName, "saved")
		return ids, nil
	}
	metrics.RecordCacheMiss(serviceName, "saved")

	return s.refetch(ctx, userID, false)
}

// IsSaved сообщает, есть ли товар в наборе, известном для пользователя
func (s *SavedService) IsSaved(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	ids, err := s.SavedIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}

// Toggle сохраняет товар, если его нет в наборе, иначе убирает.
// За один вызов выполняется ровно одна запись в хранилище
func (s *SavedService) Toggle(ctx context.Context, userID string, productID uuid.UUID) (ToggleResult, error) {
	if userID == "" {
		metrics.RecordSavedToggle(string(OutcomeAuthRequired))
		return ToggleResult{Outcome: OutcomeAuthRequired, ProductID: productID}, nil
	}

	ids, err := s.SavedIDs(ctx, userID)
	if err != nil {
		return ToggleResult{}, err
	}
	wasSaved := slices.Contains(ids, productID)

	operation, write := "save", s.savedRepo.Add
	if wasSaved {
		operation, write = "unsave", s.savedRepo.Remove
	}

	if err := write(ctx, userID, productID); err != nil {
		if errors.Is(err, repository.ErrUnknownProduct) {
			return ToggleResult{}, ErrProductNotFound
		}
		return ToggleResult{}, s.reportWriteFailure(ctx, userID, productID, operation, err)
	}

	// Набор в кеше не правим вручную: сбрасываем и перечитываем из хранилища
	if err := s.redisClient.DeleteSavedIDs(ctx, userID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to invalidate saved products cache")
	}

	result := ToggleResult{Outcome: OutcomeSaved, ProductID: productID, Saved: true}
	if wasSaved {
		result = ToggleResult{Outcome: OutcomeUnsaved, ProductID: productID, Saved: false}
	}

	refreshed, err := s.refetch(ctx, userID, true)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to refetch saved products after write")
	} else {
		result.Saved = slices.Contains(refreshed, productID)
	}

	eventType := entity.EventProductSaved
	if wasSaved {
		eventType = entity.EventProductUnsaved
	}
	s.publish(ctx, entity.SavedEvent{
		EventType: eventType,
		UserID:    userID,
		ProductID: productID,
		Timestamp: time.Now(),
	})

	metrics.RecordSavedToggle(string(result.Outcome))
	return result, nil
}

// SavedProducts возвращает сохраненные товары в порядке набора.
// Товары, которых больше нет в каталоге, пропускаются
func (s *SavedService) SavedProducts(ctx context.Context, userID string) ([]entity.Product, []uuid.UUID, error) {
	ids, err := s.SavedIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	products, err := s.fetchProducts(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	return orderByIDs(products, ids), ids, nil
}

// fetchProducts загружает товары пачками параллельно
func (s *SavedService) fetchProducts(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	batches := slices.Collect(slices.Chunk(ids, productBatchSize))
	results := make([][]entity.Product, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, batch := range batches {
		g.Go(func() error {
			products, err := s.productRepo.GetByIDs(gctx, batch)
			if err != nil {
				return fmt.Errorf("failed to get saved products: %w", err)
			}
			results[i] = products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return slices.Concat(results...), nil
}

// refetch читает набор из хранилища и кладет его в кеш.
// При чтении набор кладется только в пустой ключ, после записи ключ перезаписывается
func (s *SavedService) refetch(ctx context.Context, userID string, afterWrite bool) ([]uuid.UUID, error) {
	ids, err := s.savedRepo.ListIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get saved products: %w", err)
	}

	store := s.redisClient.SetSavedIDsIfAbsent
	if afterWrite {
		store = s.redisClient.SetSavedIDs
	}
	if err := store(ctx, userID, ids, s.cacheTTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("failed to cache saved products")
	}

	return ids, nil
}

// reportWriteFailure отправляет одноразовое уведомление SAVE_FAILED. Кеш не трогается
func (s *SavedService) reportWriteFailure(ctx context.Context, userID string, productID uuid.UUID, operation string, cause error) error {
	metrics.RecordSaveWriteFailure(operation)
	logger.Ctx(ctx).Error().Err(cause).
		Str("user_id", userID).
		Str("product_id", productID.String()).
		Str("operation", operation).
		Msg("saved products write failed")

	s.publish(ctx, entity.SavedEvent{
		EventType: entity.EventSaveFailed,
		UserID:    userID,
		ProductID: productID,
		Operation: operation,
		Error:     cause.Error(),
		Timestamp: time.Now(),
	})

	return fmt.Errorf("%w: %s: %w", ErrWriteFailed, operation, cause)
}

func (s *SavedService) publish(ctx context.Context, event entity.SavedEvent) {
	if err := publishEvent(ctx, s.kafkaProducer, event.UserID, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("event_type", event.EventType).Msg("failed to publish saved event")
	}
}

// orderByIDs раскладывает товары в порядке ids, пропуская отсутствующие
func orderByIDs(products []entity.Product, ids []uuid.UUID) []entity.Product {
	byID := make(map[uuid.UUID]entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	ordered := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered
}
