package handler

import (
	"errors"
	"net/http"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/catalog-service/internal/app/catalog/service"
	"web3dir/pkg/auth"
	"web3dir/pkg/logger"

	"github.com/gin-gonic/gin"
)

// SavedHandler обслуживает сохраненные товары и карточку товара
type SavedHandler struct {
	catalogService service.ProductFetcher
	savedService   service.SavedServiceInterface
}

func NewSavedHandler(catalogService service.ProductFetcher, savedService service.SavedServiceInterface) *SavedHandler {
	return &SavedHandler{
		catalogService: catalogService,
		savedService:   savedService,
	}
}

// GetProductDetail обрабатывает GET /products/:id/detail.
// Собирает товар и признак "сохранен" для текущего пользователя (или анонима)
func (h *SavedHandler) GetProductDetail(c *gin.Context) {
	id, ok := parseID(c, "Invalid product ID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	detail := service.NewProductDetail(h.catalogService, h.savedService, auth.UserID(c))
	detail.Select(ctx, &id)
	if err := detail.Wait(ctx); err != nil {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Request cancelled"})
		return
	}

	view := detail.View()
	if view.State == service.DetailErrored {
		if errors.Is(view.Err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Ctx(ctx).Error().Err(view.Err).Str("product_id", id.String()).Msg("failed to load product detail")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, view)
}

// ToggleSave обрабатывает POST /products/:id/save.
// Аноним получает 401 с outcome=auth_required, запись не выполняется
func (h *SavedHandler) ToggleSave(c *gin.Context) {
	id, ok := parseID(c, "Invalid product ID")
	if !ok {
		return
	}

	result, err := h.savedService.Toggle(c.Request.Context(), auth.UserID(c), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		case errors.Is(err, service.ErrWriteFailed):
			c.JSON(http.StatusBadGateway, gin.H{"error": "write_failed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle saved product"})
		}
		return
	}

	if result.Outcome == service.OutcomeAuthRequired {
		c.JSON(http.StatusUnauthorized, gin.H{"outcome": service.OutcomeAuthRequired})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSaved обрабатывает GET /me/saved
func (h *SavedHandler) GetSaved(c *gin.Context) {
	products, ids, err := h.savedService.SavedProducts(c.Request.Context(), auth.UserID(c))
	if err != nil {
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to get saved products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get saved products"})
		return
	}

	c.JSON(http.StatusOK, entity.SavedProductsResponse{
		ProductIDs: ids,
		Products:   products,
		Total:      len(ids),
	})
}
