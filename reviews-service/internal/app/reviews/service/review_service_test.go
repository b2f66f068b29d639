package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"
	"web3dir/reviews-service/internal/app/reviews/repository"
	"web3dir/reviews-service/internal/app/reviews/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func setupReviewService() (*ReviewService, *mocks.MockReviewRepository, *mocks.MockCatalogClient, *mocks.MockMessagePublisher) {
	reviewRepo := new(mocks.MockReviewRepository)
	catalog := new(mocks.MockCatalogClient)
	kafkaProducer := new(mocks.MockMessagePublisher)
	return NewReviewService(reviewRepo, catalog, kafkaProducer), reviewRepo, catalog, kafkaProducer
}

var testAuthor = entity.Author{UserID: "user-123", Handle: "degen", Type: entity.ReviewerVerified}

func TestCreateReview_Success(t *testing.T) {
	// Arrange
	service, reviewRepo, catalog, kafkaProducer := setupReviewService()
	ctx := context.Background()
	req := &entity.CreateReviewRequest{ProductID: "product-456", Rating: 5, Text: "Great wallet, easy setup"}

	catalog.On("GetProduct", ctx, "product-456").Return(&infrastructure.ProductSummary{ID: "product-456", Name: "Rabby"}, nil)
	reviewRepo.On("Create", ctx, mock.AnythingOfType("*entity.Review")).Return(nil).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Review).ID = primitive.NewObjectID()
	})
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	// Act
	result, err := service.CreateReview(ctx, testAuthor, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "user-123", result.UserID)
	assert.Equal(t, "degen", result.ReviewerHandle)
	assert.Equal(t, entity.ReviewerVerified, result.ReviewerType)

	require.Len(t, kafkaProducer.Messages(), 1)
	var event entity.ReviewEvent
	require.NoError(t, json.Unmarshal(kafkaProducer.Messages()[0], &event))
	assert.Equal(t, entity.EventReviewCreated, event.EventType)
	assert.Equal(t, result.ID.Hex(), event.ReviewID)
}

func TestCreateReview_UnknownProduct(t *testing.T) {
	service, reviewRepo, catalog, _ := setupReviewService()
	ctx := context.Background()
	req := &entity.CreateReviewRequest{ProductID: "missing", Rating: 4, Text: "Never heard of it"}

	catalog.On("GetProduct", ctx, "missing").Return(nil, infrastructure.ErrProductNotFound)

	_, err := service.CreateReview(ctx, testAuthor, req)

	assert.ErrorIs(t, err, ErrProductNotFound)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_CatalogUnavailable(t *testing.T) {
	service, reviewRepo, catalog, _ := setupReviewService()
	ctx := context.Background()
	req := &entity.CreateReviewRequest{ProductID: "p-1", Rating: 4, Text: "Good but slow"}

	catalog.On("GetProduct", ctx, "p-1").Return(nil, errors.New("connection refused"))

	_, err := service.CreateReview(ctx, testAuthor, req)

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrProductNotFound)
	reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReview_RepoError(t *testing.T) {
	service, reviewRepo, catalog, _ := setupReviewService()
	ctx := context.Background()
	req := &entity.CreateReviewRequest{ProductID: "p-1", Rating: 4, Text: "Good product."}

	catalog.On("GetProduct", ctx, "p-1").Return(&infrastructure.ProductSummary{ID: "p-1"}, nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(errors.New("db error"))

	result, err := service.CreateReview(ctx, testAuthor, req)

	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestCreateReview_KafkaErrorIgnored(t *testing.T) {
	service, reviewRepo, catalog, kafkaProducer := setupReviewService()
	ctx := context.Background()
	req := &entity.CreateReviewRequest{ProductID: "p-1", Rating: 3, Text: "Average product."}

	catalog.On("GetProduct", ctx, "p-1").Return(&infrastructure.ProductSummary{ID: "p-1"}, nil)
	reviewRepo.On("Create", ctx, mock.Anything).Return(nil)
	kafkaProducer.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(errors.New("kafka error"))

	result, err := service.CreateReview(ctx, testAuthor, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
}

func TestGetReviewsByProduct(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviews := []entity.Review{
		{ID: primitive.NewObjectID(), ProductID: "p-1", UserID: "user-1", Rating: 5},
		{ID: primitive.NewObjectID(), ProductID: "p-1", UserID: "user-2", Rating: 4},
	}
	reviewRepo.On("GetByProductID", ctx, "p-1").Return(reviews, nil)

	result, err := service.GetReviewsByProduct(ctx, "p-1")

	assert.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestGetReview_NotFound(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrReviewNotFound)

	_, err := service.GetReview(ctx, "missing")

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestUpdateReview_Success(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	review := &entity.Review{ID: reviewID, UserID: "user-123", Rating: 3, Text: "Original text here"}

	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(review, nil)
	reviewRepo.On("Update", ctx, review).Return(nil)

	result, err := service.UpdateReview(ctx, reviewID.Hex(), "user-123", &entity.UpdateReviewRequest{Rating: 5})

	require.NoError(t, err)
	assert.Equal(t, 5, result.Rating)
	assert.Equal(t, "Original text here", result.Text)
}

func TestUpdateReview_NotAuthor(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(&entity.Review{ID: reviewID, UserID: "owner"}, nil)

	_, err := service.UpdateReview(ctx, reviewID.Hex(), "intruder", &entity.UpdateReviewRequest{Rating: 1})

	assert.ErrorIs(t, err, ErrUnauthorized)
	reviewRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteReview_Success(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(&entity.Review{ID: reviewID, UserID: "user-123"}, nil)
	reviewRepo.On("Delete", ctx, reviewID.Hex()).Return(nil)

	assert.NoError(t, service.DeleteReview(ctx, reviewID.Hex(), "user-123"))
}

func TestDeleteReview_NotAuthor(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewID := primitive.NewObjectID()
	reviewRepo.On("GetByID", ctx, reviewID.Hex()).Return(&entity.Review{ID: reviewID, UserID: "owner"}, nil)

	err := service.DeleteReview(ctx, reviewID.Hex(), "intruder")

	assert.ErrorIs(t, err, ErrUnauthorized)
	reviewRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestGetUserReviews(t *testing.T) {
	service, reviewRepo, _, _ := setupReviewService()
	ctx := context.Background()
	reviewRepo.On("GetByUserID", ctx, "user-123").Return([]entity.Review{{UserID: "user-123"}}, nil)

	result, err := service.GetUserReviews(ctx, "user-123")

	assert.NoError(t, err)
	assert.Len(t, result, 1)
}
