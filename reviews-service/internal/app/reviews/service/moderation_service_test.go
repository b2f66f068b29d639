package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"
	"web3dir/reviews-service/internal/app/reviews/repository"
	"web3dir/reviews-service/internal/app/reviews/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type moderationMocks struct {
	flagRepo      *mocks.MockFlagRepository
	reviewRepo    *mocks.MockReviewRepository
	catalog       *mocks.MockCatalogClient
	reviewEvents  *mocks.MockMessagePublisher
	decisionQueue *mocks.MockMessagePublisher
}

func setupModerationService() (*ModerationService, *moderationMocks) {
	m := &moderationMocks{
		flagRepo:      new(mocks.MockFlagRepository),
		reviewRepo:    new(mocks.MockReviewRepository),
		catalog:       new(mocks.MockCatalogClient),
		reviewEvents:  new(mocks.MockMessagePublisher),
		decisionQueue: new(mocks.MockMessagePublisher),
	}
	service := NewModerationService(m.flagRepo, m.reviewRepo, m.catalog, m.reviewEvents, m.decisionQueue)
	return service, m
}

func newFlag(handle string, reason entity.FlagReason) entity.FlaggedReview {
	return entity.FlaggedReview{
		ID:             primitive.NewObjectID(),
		ReviewID:       primitive.NewObjectID().Hex(),
		ProductID:      "p-1",
		ProductName:    "Uniswap",
		ReviewerHandle: handle,
		ReviewerType:   entity.ReviewerUser,
		Rating:         1,
		Text:           "spam spam spam",
		Reason:         reason,
		FlaggedAt:      time.Now(),
	}
}

// ==================== Flag ====================

func TestModeration_Flag_SnapshotsReview(t *testing.T) {
	// Arrange
	service, m := setupModerationService()
	ctx := context.Background()
	review := &entity.Review{
		ID:             primitive.NewObjectID(),
		ProductID:      "p-1",
		UserID:         "author",
		ReviewerHandle: "degen",
		ReviewerType:   entity.ReviewerDeveloper,
		Rating:         1,
		Text:           "Visit my site for free tokens",
	}

	m.reviewRepo.On("GetByID", ctx, review.ID.Hex()).Return(review, nil)
	m.catalog.On("GetProduct", ctx, "p-1").Return(&infrastructure.ProductSummary{ID: "p-1", Name: "Uniswap"}, nil)
	m.flagRepo.On("Create", ctx, mock.AnythingOfType("*entity.FlaggedReview")).Return(nil)
	m.reviewEvents.On("PublishMessage", ctx, review.ID.Hex(), mock.Anything).Return(nil)

	// Act
	flag, err := service.Flag(ctx, review.ID.Hex(), "u-2", entity.FlagSpam)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Uniswap", flag.ProductName)
	assert.Equal(t, "degen", flag.ReviewerHandle)
	assert.Equal(t, entity.ReviewerDeveloper, flag.ReviewerType)
	assert.Equal(t, review.Text, flag.Text)
	assert.Equal(t, entity.FlagSpam, flag.Reason)
	assert.Equal(t, "u-2", flag.FlaggedBy)

	var event entity.ReviewEvent
	require.NoError(t, json.Unmarshal(m.reviewEvents.Messages()[0], &event))
	assert.Equal(t, entity.EventReviewFlagged, event.EventType)
	assert.Equal(t, entity.FlagSpam, event.Reason)
}

func TestModeration_Flag_InvalidReason(t *testing.T) {
	service, m := setupModerationService()

	_, err := service.Flag(context.Background(), "r-1", "u-2", entity.FlagReason("boring"))

	assert.ErrorIs(t, err, ErrInvalidReason)
	m.reviewRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestModeration_Flag_CatalogDownUsesProductID(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	review := &entity.Review{ID: primitive.NewObjectID(), ProductID: "p-9", Rating: 2, Text: "meh"}

	m.reviewRepo.On("GetByID", ctx, review.ID.Hex()).Return(review, nil)
	m.catalog.On("GetProduct", ctx, "p-9").Return(nil, errors.New("timeout"))
	m.flagRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.reviewEvents.On("PublishMessage", ctx, mock.Anything, mock.Anything).Return(nil)

	flag, err := service.Flag(ctx, review.ID.Hex(), "u-2", entity.FlagOffTopic)

	require.NoError(t, err)
	assert.Equal(t, "p-9", flag.ProductName)
}

func TestModeration_Flag_AlreadyFlagged(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	review := &entity.Review{ID: primitive.NewObjectID(), ProductID: "p-1"}

	m.reviewRepo.On("GetByID", ctx, review.ID.Hex()).Return(review, nil)
	m.catalog.On("GetProduct", ctx, "p-1").Return(&infrastructure.ProductSummary{Name: "Uniswap"}, nil)
	m.flagRepo.On("Create", ctx, mock.Anything).Return(repository.ErrAlreadyFlagged)

	_, err := service.Flag(ctx, review.ID.Hex(), "u-2", entity.FlagDuplicate)

	assert.ErrorIs(t, err, ErrAlreadyFlagged)
	m.reviewEvents.AssertNotCalled(t, "PublishMessage", mock.Anything, mock.Anything, mock.Anything)
}

func TestModeration_Flag_ReviewNotFound(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	m.reviewRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrReviewNotFound)

	_, err := service.Flag(ctx, "missing", "u-2", entity.FlagOther)

	assert.ErrorIs(t, err, ErrReviewNotFound)
}

// ==================== List & View ====================

func TestModeration_ListFlagged_KeepsInputOrder(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	// порядок хранилища не совпадает ни с именами, ни с оценками
	flags := []entity.FlaggedReview{
		newFlag("zed", entity.FlagSpam),
		newFlag("alice", entity.FlagOther),
		newFlag("mike", entity.FlagInappropriate),
	}
	m.flagRepo.On("List", ctx).Return(flags, nil)

	result, err := service.ListFlagged(ctx)

	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "zed", result[0].ReviewerHandle)
	assert.Equal(t, "alice", result[1].ReviewerHandle)
	assert.Equal(t, "mike", result[2].ReviewerHandle)
}

func TestModeration_ListFlagged_Empty(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	m.flagRepo.On("List", ctx).Return([]entity.FlaggedReview{}, nil)

	result, err := service.ListFlagged(ctx)

	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestModeration_View_NotFound(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	m.flagRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrFlagNotFound)

	_, err := service.View(ctx, "missing")

	assert.ErrorIs(t, err, ErrFlagNotFound)
}

// ==================== Edit ====================

func TestModeration_Edit_UpdatesReviewAndSnapshot(t *testing.T) {
	// Arrange
	service, m := setupModerationService()
	ctx := context.Background()
	flag := newFlag("degen", entity.FlagInappropriate)
	reviewID, _ := primitive.ObjectIDFromHex(flag.ReviewID)
	review := &entity.Review{ID: reviewID, Rating: 1, Text: "rude words here"}
	req := &entity.UpdateReviewRequest{Text: "[removed by moderator]"}

	m.flagRepo.On("GetByID", ctx, flag.ID.Hex()).Return(&flag, nil)
	m.reviewRepo.On("GetByID", ctx, flag.ReviewID).Return(review, nil)
	m.reviewRepo.On("Update", ctx, review).Return(nil)
	m.flagRepo.On("UpdateContent", ctx, flag.ID.Hex(), 1, "[removed by moderator]").Return(nil)

	// Act
	result, err := service.Edit(ctx, flag.ID.Hex(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "[removed by moderator]", result.Text)
	assert.Equal(t, 1, result.Rating)
	m.flagRepo.AssertExpectations(t)
}

func TestModeration_Edit_ReviewGone(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	flag := newFlag("degen", entity.FlagSpam)

	m.flagRepo.On("GetByID", ctx, flag.ID.Hex()).Return(&flag, nil)
	m.reviewRepo.On("GetByID", ctx, flag.ReviewID).Return(nil, repository.ErrReviewNotFound)

	_, err := service.Edit(ctx, flag.ID.Hex(), &entity.UpdateReviewRequest{Rating: 3})

	assert.ErrorIs(t, err, ErrReviewNotFound)
	m.flagRepo.AssertNotCalled(t, "UpdateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// ==================== Approve & Reject ====================

func TestModeration_Approve_PublishesDecision(t *testing.T) {
	// Arrange
	service, m := setupModerationService()
	ctx := context.Background()
	flag := newFlag("degen", entity.FlagSpam)

	m.flagRepo.On("GetByID", ctx, flag.ID.Hex()).Return(&flag, nil)
	m.decisionQueue.On("PublishMessage", mock.Anything, flag.ReviewID, mock.Anything).Return(nil)

	// Act
	err := service.Approve(ctx, flag.ID.Hex(), "mod-1")
	service.Close()

	// Assert
	require.NoError(t, err)
	require.Len(t, m.decisionQueue.Messages(), 1)
	var event entity.ModerationEvent
	require.NoError(t, json.Unmarshal(m.decisionQueue.Messages()[0], &event))
	assert.Equal(t, entity.EventReviewApproved, event.EventType)
	assert.Equal(t, flag.ID.Hex(), event.FlagID)
	assert.Equal(t, "mod-1", event.ModeratorID)
	assert.Equal(t, entity.FlagSpam, event.Reason)
}

func TestModeration_Reject_PublishFailureNotReturned(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	flag := newFlag("degen", entity.FlagInappropriate)

	m.flagRepo.On("GetByID", ctx, flag.ID.Hex()).Return(&flag, nil)
	m.decisionQueue.On("PublishMessage", mock.Anything, flag.ReviewID, mock.Anything).Return(errors.New("broker down"))

	err := service.Reject(ctx, flag.ID.Hex(), "mod-1")
	service.Close()

	assert.NoError(t, err)
	var event entity.ModerationEvent
	require.NoError(t, json.Unmarshal(m.decisionQueue.Messages()[0], &event))
	assert.Equal(t, entity.EventReviewRejected, event.EventType)
}

func TestModeration_Approve_SurvivesRequestCancel(t *testing.T) {
	service, m := setupModerationService()
	ctx, cancel := context.WithCancel(context.Background())
	flag := newFlag("degen", entity.FlagSpam)

	m.flagRepo.On("GetByID", ctx, flag.ID.Hex()).Return(&flag, nil)
	m.decisionQueue.On("PublishMessage", mock.Anything, flag.ReviewID, mock.Anything).
		Return(nil).
		Run(func(args mock.Arguments) {
			sendCtx := args.Get(0).(context.Context)
			assert.NoError(t, sendCtx.Err())
		})

	require.NoError(t, service.Approve(ctx, flag.ID.Hex(), "mod-1"))
	cancel()
	service.Close()

	m.decisionQueue.AssertNumberOfCalls(t, "PublishMessage", 1)
}

func TestModeration_Reject_UnknownFlag(t *testing.T) {
	service, m := setupModerationService()
	ctx := context.Background()
	m.flagRepo.On("GetByID", ctx, "missing").Return(nil, repository.ErrFlagNotFound)

	err := service.Reject(ctx, "missing", "mod-1")
	service.Close()

	assert.ErrorIs(t, err, ErrFlagNotFound)
	assert.Empty(t, m.decisionQueue.Messages())
}
