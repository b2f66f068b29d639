package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"
	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"
	"web3dir/reviews-service/internal/app/reviews/repository"
)

// время на отправку решения модератора после ответа клиенту
const dispatchTimeout = 10 * time.Second

// ModerationService - список жалоб и действия модератора над ним.
// Approve и Reject только уведомляют внешний бэкенд модерации:
// сервис не ждет доставки и не отслеживает, сохранено ли решение
type ModerationService struct {
	flagRepo      repository.FlagRepository
	reviewRepo    repository.ReviewRepository
	catalog       infrastructure.CatalogClient
	reviewEvents  infrastructure.MessagePublisher
	decisionQueue infrastructure.MessagePublisher

	inflight sync.WaitGroup
}

func NewModerationService(
	flagRepo repository.FlagRepository,
	reviewRepo repository.ReviewRepository,
	catalog infrastructure.CatalogClient,
	reviewEvents infrastructure.MessagePublisher,
	decisionQueue infrastructure.MessagePublisher,
) *ModerationService {
	return &ModerationService{
		flagRepo:      flagRepo,
		reviewRepo:    reviewRepo,
		catalog:       catalog,
		reviewEvents:  reviewEvents,
		decisionQueue: decisionQueue,
	}
}

// Flag создает жалобу на отзыв со снимком его содержимого
func (s *ModerationService) Flag(ctx context.Context, reviewID string, flaggedBy string, reason entity.FlagReason) (*entity.FlaggedReview, error) {
	if !reason.Valid() {
		return nil, ErrInvalidReason
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	flag := &entity.FlaggedReview{
		ReviewID:       review.ID.Hex(),
		ProductID:      review.ProductID,
		ProductName:    s.productName(ctx, review.ProductID),
		ReviewerHandle: review.ReviewerHandle,
		ReviewerType:   review.ReviewerType,
		Rating:         review.Rating,
		Text:           review.Text,
		Reason:         reason,
		FlaggedBy:      flaggedBy,
		FlaggedAt:      time.Now(),
	}

	if err := s.flagRepo.Create(ctx, flag); err != nil {
		if errors.Is(err, repository.ErrAlreadyFlagged) {
			return nil, ErrAlreadyFlagged
		}
		return nil, fmt.Errorf("failed to create flag: %w", err)
	}
	metrics.RecordReviewFlagged(string(reason))

	event := entity.ReviewEvent{
		EventType: entity.EventReviewFlagged,
		ReviewID:  flag.ReviewID,
		ProductID: flag.ProductID,
		UserID:    flaggedBy,
		Rating:    flag.Rating,
		Reason:    reason,
		Timestamp: flag.FlaggedAt,
	}
	if err := publishJSON(ctx, s.reviewEvents, event.ReviewID, event); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("review_id", event.ReviewID).Msg("failed to publish review flagged event")
	}

	return flag, nil
}

// productName берет имя товара из каталога. Если каталог недоступен,
// в снимок попадает ID товара
func (s *ModerationService) productName(ctx context.Context, productID string) string {
	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("product_id", productID).Msg("failed to resolve product name")
		return productID
	}
	return product.Name
}

// ListFlagged возвращает жалобы в порядке поступления, без сортировки
func (s *ModerationService) ListFlagged(ctx context.Context) ([]entity.FlaggedReview, error) {
	flags, err := s.flagRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flagged reviews: %w", err)
	}
	return flags, nil
}

// View открывает жалобу
func (s *ModerationService) View(ctx context.Context, flagID string) (*entity.FlaggedReview, error) {
	flag, err := s.getFlag(ctx, flagID)
	if err != nil {
		return nil, err
	}

	metrics.RecordModerationAction("view")
	return flag, nil
}

// Edit правит оценку и текст отзыва и синхронизирует снимок в жалобе
func (s *ModerationService) Edit(ctx context.Context, flagID string, req *entity.UpdateReviewRequest) (*entity.FlaggedReview, error) {
	flag, err := s.getFlag(ctx, flagID)
	if err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, flag.ReviewID)
	if err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	applyUpdate(review, req)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrReviewNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	if err := s.flagRepo.UpdateContent(ctx, flagID, review.Rating, review.Text); err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("failed to update flag: %w", err)
	}

	flag.Rating = review.Rating
	flag.Text = review.Text
	metrics.RecordModerationAction("edit")
	return flag, nil
}

// Approve оставляет отзыв опубликованным
func (s *ModerationService) Approve(ctx context.Context, flagID string, moderatorID string) error {
	return s.decide(ctx, flagID, moderatorID, entity.EventReviewApproved, "approve")
}

// Reject отправляет отзыв на снятие
func (s *ModerationService) Reject(ctx context.Context, flagID string, moderatorID string) error {
	return s.decide(ctx, flagID, moderatorID, entity.EventReviewRejected, "reject")
}

func (s *ModerationService) decide(ctx context.Context, flagID, moderatorID, eventType, action string) error {
	flag, err := s.getFlag(ctx, flagID)
	if err != nil {
		return err
	}

	event := entity.ModerationEvent{
		EventType:   eventType,
		FlagID:      flag.ID.Hex(),
		ReviewID:    flag.ReviewID,
		ProductID:   flag.ProductID,
		Reason:      flag.Reason,
		ModeratorID: moderatorID,
		Timestamp:   time.Now(),
	}

	logger.Ctx(ctx).Info().
		Str("action", action).
		Str("flag_id", event.FlagID).
		Str("review_id", event.ReviewID).
		Str("moderator_id", moderatorID).
		Msg("moderation action")
	metrics.RecordModerationAction(action)

	s.dispatch(ctx, event)
	return nil
}

// dispatch отправляет решение в фоне, ответ клиенту не ждет Kafka
func (s *ModerationService) dispatch(ctx context.Context, event entity.ModerationEvent) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)
		defer cancel()

		if err := publishJSON(sendCtx, s.decisionQueue, event.ReviewID, event); err != nil {
			logger.Ctx(ctx).Error().Err(err).
				Str("event_type", event.EventType).
				Str("flag_id", event.FlagID).
				Msg("failed to publish moderation decision")
		}
	}()
}

// Close дожидается отправки решений, ушедших в фон
func (s *ModerationService) Close() {
	s.inflight.Wait()
}

func (s *ModerationService) getFlag(ctx context.Context, flagID string) (*entity.FlaggedReview, error) {
	flag, err := s.flagRepo.GetByID(ctx, flagID)
	if err != nil {
		if errors.Is(err, repository.ErrFlagNotFound) {
			return nil, ErrFlagNotFound
		}
		return nil, fmt.Errorf("failed to get flagged review: %w", err)
	}
	return flag, nil
}
