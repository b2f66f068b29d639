package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Типы событий из топика moderation_events
const (
	EventReviewApproved = "REVIEW_APPROVED"
	EventReviewRejected = "REVIEW_REJECTED"
)

// ModerationEvent - решение модератора, опубликованное Reviews Service
type ModerationEvent struct {
	EventType   string    `json:"event_type"` // REVIEW_APPROVED, REVIEW_REJECTED
	FlagID      string    `json:"flag_id"`
	ReviewID    string    `json:"review_id"`
	ProductID   string    `json:"product_id"`
	Reason      string    `json:"reason"`
	ModeratorID string    `json:"moderator_id"`
	Timestamp   time.Time `json:"timestamp"`
}

type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "approved"
	DecisionRejected DecisionStatus = "rejected"
)

// StatusForEvent возвращает решение для типа события
func StatusForEvent(eventType string) (DecisionStatus, bool) {
	switch eventType {
	case EventReviewApproved:
		return DecisionApproved, true
	case EventReviewRejected:
		return DecisionRejected, true
	}
	return "", false
}

// ModerationDecision - последнее решение по жалобе.
// Одна строка на жалобу: повторное решение перезаписывает предыдущее
type ModerationDecision struct {
	FlagID      string         `json:"flag_id" gorm:"type:varchar(24);primaryKey"`
	ReviewID    string         `json:"review_id" gorm:"type:varchar(24);not null;index"`
	ProductID   string         `json:"product_id" gorm:"type:varchar(64);not null"`
	Status      DecisionStatus `json:"status" gorm:"type:varchar(20);not null"`
	Reason      string         `json:"reason" gorm:"type:varchar(20)"`
	ModeratorID string         `json:"moderator_id" gorm:"type:varchar(64);not null"`
	DecidedAt   time.Time      `json:"decided_at" gorm:"not null"`
}

func (ModerationDecision) TableName() string {
	return "moderation_decisions"
}

// Product - строка таблицы products каталога в том виде,
// в котором Catalog Service читает ее из кеша products:all
type Product struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	SignalScore float64   `json:"signal_score" gorm:"column:signal_score"`
	PriceTier   string    `json:"price_tier" gorm:"column:price_tier"`
	Description string    `json:"description"`
	Website     string    `json:"website,omitempty"`
	Features    JSONB     `json:"features,omitempty" gorm:"type:jsonb"`
	Media       JSONB     `json:"media,omitempty" gorm:"type:jsonb"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Product) TableName() string {
	return "products"
}

// JSONB - jsonb колонка, которая попадает в кеш без разбора
type JSONB json.RawMessage

// Scan реализует sql.Scanner
func (j *JSONB) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONB(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(j).MarshalJSON()
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = append((*j)[:0], data...)
	return nil
}

// ProductsCacheKey - ключ полного списка товаров, который читает Catalog Service
const ProductsCacheKey = "products:all"
