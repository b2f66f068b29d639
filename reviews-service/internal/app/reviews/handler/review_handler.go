package handler

import (
	"errors"
	"net/http"

	"web3dir/pkg/auth"
	"web3dir/pkg/logger"
	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService     service.ReviewServiceInterface
	moderationService service.ModerationServiceInterface
	validator         *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface, moderationService service.ModerationServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService:     reviewService,
		moderationService: moderationService,
		validator:         validator.New(),
	}
}

// author собирает автора из claims токена
func author(c *gin.Context) entity.Author {
	return entity.Author{
		UserID: auth.UserID(c),
		Handle: c.GetString(auth.ContextHandle),
		Type:   entity.ReviewerTypeForRole(c.GetString(auth.ContextRoleName)),
	}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), author(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Product not found"})
			return
		}
		logger.Ctx(c.Request.Context()).Error().Err(err).Str("product_id", req.ProductID).Msg("failed to create review")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetReviewsByProduct(c *gin.Context) {
	productID := c.Param("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID is required"})
		return
	}

	reviews, err := h.reviewService.GetReviewsByProduct(c.Request.Context(), productID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	review, err := h.reviewService.GetReview(c.Request.Context(), c.Param("review_id"))
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) GetMyReviews(c *gin.Context) {
	reviews, err := h.reviewService.GetUserReviews(c.Request.Context(), auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.ReviewListResponse{
		Reviews: reviews,
		Total:   len(reviews),
	})
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	var req entity.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), c.Param("review_id"), auth.UserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	if err := h.reviewService.DeleteReview(c.Request.Context(), c.Param("review_id"), auth.UserID(c)); err != nil {
		if errors.Is(err, service.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		if errors.Is(err, service.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{
		Message: "Review deleted successfully",
	})
}

// FlagReview обрабатывает POST /reviews/:review_id/flag.
// Повторная жалоба того же пользователя отклоняется с 409
func (h *ReviewHandler) FlagReview(c *gin.Context) {
	var req entity.FlagReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	flag, err := h.moderationService.Flag(c.Request.Context(), c.Param("review_id"), auth.UserID(c), req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReviewNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		case errors.Is(err, service.ErrAlreadyFlagged):
			c.JSON(http.StatusConflict, gin.H{"error": "Review already flagged"})
		case errors.Is(err, service.ErrInvalidReason):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Reason validation failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to flag review"})
		}
		return
	}

	c.JSON(http.StatusCreated, flag)
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " is " + validationErrors[0].Tag()
	}
	return "Validation failed"
}
