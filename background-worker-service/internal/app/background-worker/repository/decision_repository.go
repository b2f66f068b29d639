package repository

import (
	"context"
	"errors"
	"fmt"

	"web3dir/background-worker-service/internal/app/background-worker/entity"
	"web3dir/pkg/metrics"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const decisionsTable = "moderation_decisions"

type decisionRepository struct {
	db *gorm.DB
}

func NewDecisionRepository(db *gorm.DB) DecisionRepository {
	return &decisionRepository{db: db}
}

// Save выполняет upsert по flag_id
func (r *decisionRepository) Save(ctx context.Context, decision *entity.ModerationDecision) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, decisionsTable).ObserveDuration()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "flag_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "reason", "moderator_id", "decided_at"}),
		}).
		Create(decision)

	if result.Error != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to save moderation decision: %w", result.Error)
	}

	return nil
}

func (r *decisionRepository) GetByFlagID(ctx context.Context, flagID string) (*entity.ModerationDecision, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, decisionsTable).ObserveDuration()

	var decision entity.ModerationDecision
	result := r.db.WithContext(ctx).Where("flag_id = ?", flagID).First(&decision)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrDecisionNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get moderation decision: %w", result.Error)
	}

	return &decision, nil
}
