package entity

import (
	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Name        string    `json:"name" validate:"required,min=2,max=200"`
	Category    string    `json:"category" validate:"required,min=2,max=100"`
	SignalScore float64   `json:"signal_score" validate:"gte=0,lte=10"`
	PriceTier   PriceTier `json:"price_tier" validate:"required,oneof=Free low medium freemium"`
	Description string    `json:"description" validate:"required,min=10,max=2000"`
	Website     string    `json:"website" validate:"omitempty,url"`
	Features    Features  `json:"features" validate:"omitempty,dive"`
	Media       MediaList `json:"media" validate:"omitempty,dive"`
}

type UpdateProductRequest struct {
	Name        string    `json:"name" validate:"omitempty,min=2,max=200"`
	Category    string    `json:"category" validate:"omitempty,min=2,max=100"`
	SignalScore *float64  `json:"signal_score" validate:"omitempty,gte=0,lte=10"`
	PriceTier   PriceTier `json:"price_tier" validate:"omitempty,oneof=Free low medium freemium"`
	Description string    `json:"description" validate:"omitempty,min=10,max=2000"`
	Website     string    `json:"website" validate:"omitempty,url"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ProductListResponse - ответ GET /products: отфильтрованный и отсортированный список
type ProductListResponse struct {
	Products   []Product `json:"products"`
	Categories []string  `json:"categories"`
	Category   string    `json:"category"`
	Sort       string    `json:"sort"`
	Total      int       `json:"total"`
}

type CuratedListResponse struct {
	Lists []CuratedList `json:"lists"`
	Total int           `json:"total"`
}

type CuratedListProductsResponse struct {
	List     CuratedList `json:"list"`
	Products []Product   `json:"products"`
	Total    int         `json:"total"`
}

type SavedProductsResponse struct {
	ProductIDs []uuid.UUID `json:"product_ids"`
	Products   []Product   `json:"products"`
	Total      int         `json:"total"`
}
