package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/catalog-service/internal/app/catalog/repository"
	"web3dir/catalog-service/internal/app/catalog/util"
	"web3dir/pkg/listing"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"

	"github.com/google/uuid"
)

// CatalogService обрабатывает бизнес-логику каталога инструментов
// Координирует работу репозиториев, Redis кеша и Kafka producer
type CatalogService struct {
	productRepo   repository.ProductRepository
	listRepo      repository.CuratedListRepository
	redisClient   util.RedisCache
	kafkaProducer util.MessagePublisher
	productsTTL   time.Duration
}

// NewCatalogService создает новый сервис каталога с внедрением зависимостей
func NewCatalogService(
	productRepo repository.ProductRepository,
	listRepo repository.CuratedListRepository,
	redisClient util.RedisCache,
	kafkaProducer util.MessagePublisher,
	productsTTL time.Duration,
) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		listRepo:      listRepo,
		redisClient:   redisClient,
		kafkaProducer: kafkaProducer,
		productsTTL:   productsTTL,
	}
}

// === PRODUCTS ===

// ListProducts возвращает товары, отфильтрованные по категории и отсортированные по ключу.
// Категории для навигации считаются по всему каталогу
func (s *CatalogService) ListProducts(ctx context.Context, category string, sortKey listing.SortKey) (listing.View[entity.Product], error) {
	products, err := s.allProducts(ctx)
	if err != nil {
		return listing.View[entity.Product]{}, err
	}

	label := string(sortKey)
	if !sortKey.Known() {
		label = "unknown"
	}
	metrics.RecordListingRequest(label)

	return listing.Apply(products, category, sortKey), nil
}

// allProducts читает products:all из кеша, при промахе загружает из PostgreSQL
func (s *CatalogService) allProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.redisClient.GetProducts(ctx)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to read products cache")
	} else if products != nil {
		metrics.RecordCacheHit(serviceName, "products")
		return products, nil
	}
	metrics.RecordCacheMiss(serviceName, "products")

	products, err = s.productRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	if err := s.redisClient.SetProducts(ctx, products, s.productsTTL); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to cache products")
	}

	return products, nil
}

// GetProduct получает товар по ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// CreateProduct добавляет инструмент в каталог
func (s *CatalogService) CreateProduct(ctx context.Context, req *entity.CreateProductRequest) (*entity.Product, error) {
	product := &entity.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		SignalScore: req.SignalScore,
		PriceTier:   req.PriceTier,
		Description: req.Description,
		Website:     req.Website,
		Features:    req.Features,
		Media:       req.Media,
		CreatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateProducts(ctx)
	return product, nil
}

// UpdateProduct обновляет товар и отправляет PRODUCT_UPDATED при изменении рейтинга
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req *entity.UpdateProductRequest) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	oldScore := product.SignalScore

	// Обновляем только переданные поля
	if req.Name != "" {
		product.Name = req.Name
	}
	if req.Category != "" {
		product.Category = req.Category
	}
	if req.SignalScore != nil {
		product.SignalScore = *req.SignalScore
	}
	if req.PriceTier != "" {
		product.PriceTier = req.PriceTier
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Website != "" {
		product.Website = req.Website
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidateProducts(ctx)

	// Рейтинг влияет на порядок выдачи, об этом нужно сообщить
	if product.SignalScore != oldScore {
		event := entity.ProductEvent{
			EventType:   entity.EventProductUpdated,
			ProductID:   product.ID,
			Name:        product.Name,
			Category:    product.Category,
			SignalScore: product.SignalScore,
			Timestamp:   time.Now(),
		}
		if err := publishEvent(ctx, s.kafkaProducer, product.ID.String(), event); err != nil {
			logger.Ctx(ctx).Warn().Err(err).Str("product_id", product.ID.String()).Msg("failed to publish product updated event")
		}
	}

	return product, nil
}

// DeleteProduct удаляет товар
func (s *CatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidateProducts(ctx)
	return nil
}

func (s *CatalogService) invalidateProducts(ctx context.Context) {
	if err := s.redisClient.DeleteProducts(ctx); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("failed to invalidate products cache")
	}
}

// === CURATED LISTS ===

// GetCuratedLists возвращает подборки: закрепленные первыми
func (s *CatalogService) GetCuratedLists(ctx context.Context) ([]entity.CuratedList, error) {
	lists, err := s.listRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get curated lists: %w", err)
	}
	return lists, nil
}

// GetCuratedList получает подборку по ID
func (s *CatalogService) GetCuratedList(ctx context.Context, id uuid.UUID) (*entity.CuratedList, error) {
	list, err := s.listRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCuratedListNotFound) {
			return nil, ErrCuratedListNotFound
		}
		return nil, fmt.Errorf("failed to get curated list: %w", err)
	}
	return list, nil
}

// GetCuratedListProducts возвращает подборку и ее товары в порядке position.
// Хранилище не гарантирует порядок выборки по ID, поэтому порядок восстанавливается здесь
func (s *CatalogService) GetCuratedListProducts(ctx context.Context, id uuid.UUID) (*entity.CuratedList, []entity.Product, error) {
	list, err := s.GetCuratedList(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ids, err := s.listRepo.GetProductIDs(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get curated list products: %w", err)
	}

	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get products: %w", err)
	}

	return list, orderByIDs(products, ids), nil
}
