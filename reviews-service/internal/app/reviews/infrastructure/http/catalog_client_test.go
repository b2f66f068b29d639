package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"web3dir/pkg/logger"
	"web3dir/reviews-service/internal/app/reviews/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogClient_GetProduct(t *testing.T) {
	var gotPath, gotRequestID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(logger.RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"p-1","name":"Uniswap","category":"DEX","signal_score":9.1}`))
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, time.Second)
	ctx := logger.WithRequestID(context.Background(), "req-7")

	product, err := client.GetProduct(ctx, "p-1")

	require.NoError(t, err)
	assert.Equal(t, "Uniswap", product.Name)
	assert.Equal(t, "DEX", product.Category)
	assert.Equal(t, "/products/p-1", gotPath)
	assert.Equal(t, "req-7", gotRequestID)
}

func TestCatalogClient_GetProduct_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, time.Second)

	_, err := client.GetProduct(context.Background(), "missing")

	assert.ErrorIs(t, err, infrastructure.ErrProductNotFound)
}

func TestCatalogClient_GetProduct_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewCatalogClient(server.URL, time.Second)

	_, err := client.GetProduct(context.Background(), "p-1")

	require.Error(t, err)
	assert.NotErrorIs(t, err, infrastructure.ErrProductNotFound)
	assert.Contains(t, err.Error(), "500")
}

func TestCatalogClient_GetProduct_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewCatalogClient(server.URL, 20*time.Millisecond)

	_, err := client.GetProduct(context.Background(), "p-1")

	assert.Error(t, err)
}
