package service

import (
	"context"

	"web3dir/reviews-service/internal/app/reviews/entity"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, author entity.Author, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetReviewsByProduct(ctx context.Context, productID string) ([]entity.Review, error)
	GetReview(ctx context.Context, reviewID string) (*entity.Review, error)
	UpdateReview(ctx context.Context, reviewID string, userID string, req *entity.UpdateReviewRequest) (*entity.Review, error)
	DeleteReview(ctx context.Context, reviewID string, userID string) error
	GetUserReviews(ctx context.Context, userID string) ([]entity.Review, error)
}

type ModerationServiceInterface interface {
	Flag(ctx context.Context, reviewID string, flaggedBy string, reason entity.FlagReason) (*entity.FlaggedReview, error)
	ListFlagged(ctx context.Context) ([]entity.FlaggedReview, error)
	View(ctx context.Context, flagID string) (*entity.FlaggedReview, error)
	Edit(ctx context.Context, flagID string, req *entity.UpdateReviewRequest) (*entity.FlaggedReview, error)
	Approve(ctx context.Context, flagID string, moderatorID string) error
	Reject(ctx context.Context, flagID string, moderatorID string) error
}

var (
	_ ReviewServiceInterface     = (*ReviewService)(nil)
	_ ModerationServiceInterface = (*ModerationService)(nil)
)
