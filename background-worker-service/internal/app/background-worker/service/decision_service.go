package service

import (
	"context"
	"errors"
	"fmt"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/background-worker-service/internal/app/background-worker/repository"
	"web3dir/pkg/logger"
	"web3dir/pkg/metrics"
)

// ErrInvalidEvent - событие без обязательных полей, повторная обработка не поможет
var ErrInvalidEvent = errors.New("invalid moderation event")

// DecisionService записывает решения модераторов.
// Для Reviews Service это внешний бэкенд модерации
type DecisionService struct {
	decisionRepo repository.DecisionRepository
}

func NewDecisionService(decisionRepo repository.DecisionRepository) *DecisionService {
	return &DecisionService{decisionRepo: decisionRepo}
}

// ProcessModerationEvent обрабатывает событие из moderation_events.
// Неизвестные типы событий пропускаются
func (s *DecisionService) ProcessModerationEvent(ctx context.Context, event *entity.ModerationEvent) error {
	status, ok := entity.StatusForEvent(event.EventType)
	if !ok {
		logger.Warn().
			Str("event_type", event.EventType).
			Str("flag_id", event.FlagID).
			Msg("Unknown moderation event type, skipping")
		metrics.RecordModerationDecision(metrics.WorkerStatusSkipped)
		return nil
	}

	if err := validateEvent(event); err != nil {
		metrics.RecordModerationDecision(metrics.WorkerStatusSkipped)
		return err
	}

	decision := &entity.ModerationDecision{
		FlagID:      event.FlagID,
		ReviewID:    event.ReviewID,
		ProductID:   event.ProductID,
		Status:      status,
		Reason:      event.Reason,
		ModeratorID: event.ModeratorID,
		DecidedAt:   event.Timestamp,
	}

	if err := s.decisionRepo.Save(ctx, decision); err != nil {
		metrics.RecordModerationDecision(metrics.WorkerStatusFailed)
		return fmt.Errorf("failed to store decision: %w", err)
	}

	metrics.RecordModerationDecision(metrics.WorkerStatusSuccess)
	logger.Info().
		Str("flag_id", decision.FlagID).
		Str("review_id", decision.ReviewID).
		Str("status", string(decision.Status)).
		Str("moderator_id", decision.ModeratorID).
		Msg("Moderation decision recorded")

	return nil
}

func validateEvent(event *entity.ModerationEvent) error {
	if event.FlagID == "" {
		return fmt.Errorf("%w: flag_id is empty", ErrInvalidEvent)
	}
	if event.ReviewID == "" {
		return fmt.Errorf("%w: review_id is empty", ErrInvalidEvent)
	}
	if event.ModeratorID == "" {
		return fmt.Errorf("%w: moderator_id is empty", ErrInvalidEvent)
	}
	if event.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is empty", ErrInvalidEvent)
	}
	return nil
}
