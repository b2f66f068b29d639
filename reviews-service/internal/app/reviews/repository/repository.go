package repository

import (
	"context"
	"errors"

	"web3dir/reviews-service/internal/app/reviews/entity"
)

const serviceName = "reviews-service"

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrReviewNotFound = errors.New("review not found")
	ErrFlagNotFound   = errors.New("flagged review not found")
	ErrAlreadyFlagged = errors.New("review already flagged by user")
)

// ReviewRepository определяет методы для работы с отзывами в MongoDB
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByProductID(ctx context.Context, productID string) ([]entity.Review, error)
	GetByID(ctx context.Context, id string) (*entity.Review, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id string) error
	GetByUserID(ctx context.Context, userID string) ([]entity.Review, error)
}

// FlagRepository хранит жалобы на отзывы (коллекция flagged_reviews)
type FlagRepository interface {
	Create(ctx context.Context, flag *entity.FlaggedReview) error
	// List возвращает жалобы в порядке поступления
	List(ctx context.Context) ([]entity.FlaggedReview, error)
	GetByID(ctx context.Context, id string) (*entity.FlaggedReview, error)
	UpdateContent(ctx context.Context, id string, rating int, text string) error
}
