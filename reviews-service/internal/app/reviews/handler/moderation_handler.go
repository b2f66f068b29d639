package handler

import (
	"errors"
	"net/http"

	"web3dir/pkg/auth"
	"web3dir/reviews-service/internal/app/reviews/entity"
	"web3dir/reviews-service/internal/app/reviews/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// ModerationHandler - список жалоб для модераторов
type ModerationHandler struct {
	moderationService service.ModerationServiceInterface
	validator         *validator.Validate
}

func NewModerationHandler(moderationService service.ModerationServiceInterface) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		validator:         validator.New(),
	}
}

func (h *ModerationHandler) ListFlagged(c *gin.Context) {
	flags, err := h.moderationService.ListFlagged(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get flagged reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.FlaggedReviewListResponse{
		Reviews: flags,
		Total:   len(flags),
	})
}

func (h *ModerationHandler) View(c *gin.Context) {
	flag, err := h.moderationService.View(c.Request.Context(), c.Param("flag_id"))
	if err != nil {
		writeFlagError(c, err, "Failed to get flagged review")
		return
	}

	c.JSON(http.StatusOK, flag)
}

func (h *ModerationHandler) Edit(c *gin.Context) {
	var req entity.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	flag, err := h.moderationService.Edit(c.Request.Context(), c.Param("flag_id"), &req)
	if err != nil {
		writeFlagError(c, err, "Failed to edit review")
		return
	}

	c.JSON(http.StatusOK, flag)
}

// Approve и Reject отвечают 202: решение уходит в очередь модерации асинхронно
func (h *ModerationHandler) Approve(c *gin.Context) {
	if err := h.moderationService.Approve(c.Request.Context(), c.Param("flag_id"), auth.UserID(c)); err != nil {
		writeFlagError(c, err, "Failed to approve review")
		return
	}

	c.JSON(http.StatusAccepted, entity.SuccessResponse{Message: "Approval submitted"})
}

func (h *ModerationHandler) Reject(c *gin.Context) {
	if err := h.moderationService.Reject(c.Request.Context(), c.Param("flag_id"), auth.UserID(c)); err != nil {
		writeFlagError(c, err, "Failed to reject review")
		return
	}

	c.JSON(http.StatusAccepted, entity.SuccessResponse{Message: "Rejection submitted"})
}

func writeFlagError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrFlagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Flagged review not found"})
	case errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
