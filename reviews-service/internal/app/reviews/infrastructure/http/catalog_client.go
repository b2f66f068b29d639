package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"web3dir/pkg/logger"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"
)

// CatalogClient клиент для Catalog Service.
// Проверяет, что отзыв пишется на существующий товар, и берет имя товара для жалоб
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCatalogClient создает новый клиент для Catalog Service
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetProduct получает товар из публичного эндпоинта GET /products/:id
func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*infrastructure.ProductSummary, error) {
	endpoint := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// request id для сквозных логов между сервисами
	if requestID, ok := logger.RequestID(ctx); ok {
		req.Header.Set(logger.RequestIDHeader, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusBadRequest:
		return nil, infrastructure.ErrProductNotFound
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var product infrastructure.ProductSummary
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &product, nil
}
