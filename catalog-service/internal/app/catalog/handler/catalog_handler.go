package handler

import (
	"errors"
	"net/http"

	"web3dir/catalog-service/internal/app/catalog/entity"
	"web3dir/catalog-service/internal/app/catalog/service"
	"web3dir/pkg/listing"
	"web3dir/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CatalogHandler обрабатывает HTTP запросы для каталога и подборок
type CatalogHandler struct {
	catalogService service.CatalogServiceInterface
	validator      *validator.Validate
}

// NewCatalogHandler создает новый обработчик каталога
func NewCatalogHandler(catalogService service.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

// === PRODUCTS HANDLERS ===

// ListProducts обрабатывает GET /products?category=&sort=
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	category := c.DefaultQuery("category", listing.AllCategories)
	sortKey := listing.ParseSortKey(c.Query("sort"))

	view, err := h.catalogService.ListProducts(c.Request.Context(), category, sortKey)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get products"})
		return
	}

	c.JSON(http.StatusOK, entity.ProductListResponse{
		Products:   view.Sorted,
		Categories: view.Categories,
		Category:   category,
		Sort:       string(sortKey),
		Total:      len(view.Sorted),
	})
}

// GetProduct обрабатывает GET /products/:id
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "Invalid product ID")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// CreateProduct обрабатывает POST /products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// UpdateProduct обрабатывает PUT /products/:id
// При изменении signal score отправляет событие в Kafka
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "Invalid product ID")
	if !ok {
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		logger.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// DeleteProduct обрабатывает DELETE /products/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "Invalid product ID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}

	c.JSON(http.StatusOK, entity.SuccessResponse{Message: "Product deleted successfully"})
}

// === CURATED LISTS HANDLERS ===

// GetCuratedLists обрабатывает GET /lists
func (h *CatalogHandler) GetCuratedLists(c *gin.Context) {
	lists, err := h.catalogService.GetCuratedLists(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get curated lists"})
		return
	}

	c.JSON(http.StatusOK, entity.CuratedListResponse{
		Lists: lists,
		Total: len(lists),
	})
}

// GetCuratedList обрабатывает GET /lists/:id
func (h *CatalogHandler) GetCuratedList(c *gin.Context) {
	id, ok := parseID(c, "Invalid list ID")
	if !ok {
		return
	}

	list, err := h.catalogService.GetCuratedList(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCuratedListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Curated list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get curated list"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// GetCuratedListProducts обрабатывает GET /lists/:id/products
func (h *CatalogHandler) GetCuratedListProducts(c *gin.Context) {
	id, ok := parseID(c, "Invalid list ID")
	if !ok {
		return
	}

	list, products, err := h.catalogService.GetCuratedListProducts(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCuratedListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Curated list not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get curated list products"})
		return
	}

	c.JSON(http.StatusOK, entity.CuratedListProductsResponse{
		List:     *list,
		Products: products,
		Total:    len(products),
	})
}

// parseID разбирает :id, при ошибке сам отвечает 400
func parseID(c *gin.Context, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return uuid.Nil, false
	}
	return id, true
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field() + " validation failed"
	}
	return "Validation failed"
}
