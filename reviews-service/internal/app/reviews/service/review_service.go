package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"
	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"
	"web3dir/reviews-service/internal/app/reviews/repository"
)

var (
	// Ошибки бизнес-логики для обработки в handlers
	ErrReviewNotFound  = errors.New("review not found")
	ErrUnauthorized    = errors.New("unauthorized access to review")
	ErrProductNotFound = errors.New("product not found")
	ErrFlagNotFound    = errors.New("flagged review not found")
	ErrAlreadyFlagged  = errors.New("review already flagged")
	ErrInvalidReason   = errors.New("invalid flag reason")
)

// ReviewService обрабатывает бизнес-логику отзывов
// Координирует работу репозитория, Catalog Service и Kafka
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	catalog       infrastructure.CatalogClient
	kafkaProducer infrastructure.MessagePublisher
}

// NewReviewService создает новый сервис отзывов с внедрением зависимостей
func NewReviewService(
	reviewRepo repository.ReviewRepository,
	catalog infrastructure.CatalogClient,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		catalog:       catalog,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview создает новый отзыв
// 1. Проверяет товар в Catalog Service
// 2. Сохраняет отзыв в MongoDB
// 3. Отправляет событие REVIEW_CREATED в Kafka
func (s *ReviewService) CreateReview(ctx context.Context, author entity.Author, req *entity.CreateReviewRequest) (*entity.Review, error) {
	if _, err := s.catalog.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, infrastructure.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to check product: %w", err)
	}

	review := &entity.Review{
		ProductID:      req.ProductID,
		UserID:         author.UserID,
		ReviewerHandle: author.Handle,
		ReviewerType:   author.Type,
		Rating:         req.Rating,
		Text:           req.Text,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	metrics.RecordReviewCreated()

	event := entity.ReviewEvent{
		EventType: entity.EventReviewCreated,
		ReviewID:  review.ID.Hex(),
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    review.Rating,
		Timestamp: time.Now(),
	}

	// Отзыв уже создан, проблемы с Kafka не критичны
	if err := publishJSON(ctx, s.kafkaProducer, event.ReviewID, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("review_id", event.ReviewID).Msg("failed to publish review created event")
	}

	return review, nil
}

// GetReviewsByProduct получает все отзывы по ID товара
func (s *ReviewService) GetReviewsByProduct(ctx context.Context, productID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetReview получает отзыв по ID
func (s *ReviewService) GetReview(ctx context.Context, reviewID string) (*entity.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return review, nil
}

// UpdateReview обновляет отзыв с проверкой прав доступа
func (s *ReviewService) UpdateReview(ctx context.Context, reviewID string, userID string, req *entity.UpdateReviewRequest) (*entity.Review, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	// Править может только автор
	if review.UserID != userID {
		return nil, ErrUnauthorized
	}

	applyUpdate(review, req)

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

// DeleteReview удаляет отзыв с проверкой прав доступа
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID string, userID string) error {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if review.UserID != userID {
		return ErrUnauthorized
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return nil
}

// GetUserReviews получает все отзывы пользователя (страница профиля)
func (s *ReviewService) GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user reviews: %w", err)
	}

	return reviews, nil
}

// applyUpdate меняет только переданные поля
func applyUpdate(review *entity.Review, req *entity.UpdateReviewRequest) {
	if req.Rating > 0 {
		review.Rating = req.Rating
	}
	if req.Text != "" {
		review.Text = req.Text
	}
}

// publishJSON сериализует событие и отправляет в Kafka
func publishJSON(ctx context.Context, publisher infrastructure.MessagePublisher, key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
