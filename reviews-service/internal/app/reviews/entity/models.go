package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReviewerType - классификация автора отзыва
type ReviewerType string

const (
	ReviewerUser      ReviewerType = "user"
	ReviewerVerified  ReviewerType = "verified"
	ReviewerDeveloper ReviewerType = "developer"
)

// ReviewerTypeForRole сопоставляет роль из JWT с классификацией автора
func ReviewerTypeForRole(role string) ReviewerType {
	switch role {
	case "developer":
		return ReviewerDeveloper
	case "verified":
		return ReviewerVerified
	}
	return ReviewerUser
}

// FlagReason - причина жалобы на отзыв
type FlagReason string

const (
	FlagInappropriate FlagReason = "inappropriate"
	FlagSpam          FlagReason = "spam"
	FlagDuplicate     FlagReason = "duplicate"
	FlagOffTopic      FlagReason = "off-topic"
	FlagOther         FlagReason = "other"
)

func (r FlagReason) Valid() bool {
	switch r {
	case FlagInappropriate, FlagSpam, FlagDuplicate, FlagOffTopic, FlagOther:
		return true
	}
	return false
}

type Review struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID      string             `json:"product_id" bson:"product_id"` // UUID товара из Catalog Service
	UserID         string             `json:"user_id" bson:"user_id"`
	ReviewerHandle string             `json:"reviewer_handle" bson:"reviewer_handle"`
	ReviewerType   ReviewerType       `json:"reviewer_type" bson:"reviewer_type"`
	Rating         int                `json:"rating" bson:"rating"` // Оценка от 1 до 5
	Text           string             `json:"text" bson:"text"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at" bson:"updated_at"`
}

// FlaggedReview - снимок отзыва на момент жалобы, строка списка модерации.
// Имя товара копируется из каталога, чтобы список не ходил в Catalog Service
type FlaggedReview struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ReviewID       string             `json:"review_id" bson:"review_id"`
	ProductID      string             `json:"product_id" bson:"product_id"`
	ProductName    string             `json:"product_name" bson:"product_name"`
	ReviewerHandle string             `json:"reviewer_handle" bson:"reviewer_handle"`
	ReviewerType   ReviewerType       `json:"reviewer_type" bson:"reviewer_type"`
	Rating         int                `json:"rating" bson:"rating"`
	Text           string             `json:"text" bson:"text"`
	Reason         FlagReason         `json:"reason" bson:"reason"`
	FlaggedBy      string             `json:"flagged_by" bson:"flagged_by"`
	FlaggedAt      time.Time          `json:"flagged_at" bson:"flagged_at"`
}

// Типы событий
const (
	EventReviewCreated  = "REVIEW_CREATED"
	EventReviewFlagged  = "REVIEW_FLAGGED"
	EventReviewApproved = "REVIEW_APPROVED"
	EventReviewRejected = "REVIEW_REJECTED"
)

type ReviewEvent struct {
	EventType string     `json:"event_type"` // REVIEW_CREATED, REVIEW_FLAGGED
	ReviewID  string     `json:"review_id"`
	ProductID string     `json:"product_id"`
	UserID    string     `json:"user_id"`
	Rating    int        `json:"rating"`
	Reason    FlagReason `json:"reason,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// ModerationEvent уходит в топик moderation_events.
// Внешний бэкенд модерации (background worker) записывает решение
type ModerationEvent struct {
	EventType   string     `json:"event_type"` // REVIEW_APPROVED, REVIEW_REJECTED
	FlagID      string     `json:"flag_id"`
	ReviewID    string     `json:"review_id"`
	ProductID   string     `json:"product_id"`
	Reason      FlagReason `json:"reason"`
	ModeratorID string     `json:"moderator_id"`
	Timestamp   time.Time  `json:"timestamp"`
}
