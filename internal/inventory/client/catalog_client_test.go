package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

func TestGetProduct(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/productos/10", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": 10, "nombre": "Teclado", "precio": "5.50", "activo": true,
		})
	}))
	defer server.Close()

	client := NewRestCatalogClient(server.URL)
	product, err := client.GetProduct(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, uint(10), product.ID)
	assert.Equal(t, "Teclado", product.Name)
	assert.Equal(t, "5.50", product.Price.StringFixed(2))
}

func TestGetProduct_NotFoundIsNotUnavailability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewRestCatalogClient(server.URL)
	_, err := client.GetProduct(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestFallbackGetProduct_PlaceholderWhenCatalogDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewFallbackCatalogClient(NewRestCatalogClient(server.URL))
	product, err := client.GetProduct(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, &domain.ProductInfo{ID: 10}, product)
}

func TestFallbackGetProduct_404StillSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewFallbackCatalogClient(NewRestCatalogClient(server.URL))
	_, err := client.GetProduct(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}
