package entity

// CreateReviewRequest - запрос на создание отзыва
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Text      string `json:"text" validate:"required,min=10,max=1000"`
}

// UpdateReviewRequest - запрос на обновление отзыва (и правка модератором)
type UpdateReviewRequest struct {
	Rating int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Text   string `json:"text" validate:"omitempty,min=10,max=1000"`
}

// FlagReviewRequest - жалоба на отзыв
type FlagReviewRequest struct {
	Reason FlagReason `json:"reason" validate:"required,oneof=inappropriate spam duplicate off-topic other"`
}

// Author - автор действия, берется из JWT
type Author struct {
	UserID string
	Handle string
	Type   ReviewerType
}

// SuccessResponse - стандартный ответ об успехе
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ReviewListResponse - ответ со списком отзывов
type ReviewListResponse struct {
	Reviews []Review `json:"reviews"`
	Total   int      `json:"total"`
}

// FlaggedReviewListResponse - список модерации в порядке поступления жалоб
type FlaggedReviewListResponse struct {
	Reviews []FlaggedReview `json:"reviews"`
	Total   int             `json:"total"`
}
