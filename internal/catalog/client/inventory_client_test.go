package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackQuantities_PassThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[uint]int{10: 5, 20: 3})
	}))
	defer server.Close()

	client := NewFallbackInventoryClient(NewRestInventoryClient(server.URL))
	quantities, err := client.Quantities(context.Background(), []uint{10, 20})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{10: 5, 20: 3}, quantities)
}

func TestFallbackQuantities_ServesZeroesWhenInventoryDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewFallbackInventoryClient(NewRestInventoryClient(server.URL))
	quantities, err := client.Quantities(context.Background(), []uint{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{10: 0, 20: 0, 30: 0}, quantities)
}

func TestFallbackQuantities_ServesZeroesOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewFallbackInventoryClient(NewRestInventoryClient(server.URL))
	quantities, err := client.Quantities(context.Background(), []uint{10})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int{10: 0}, quantities)
}
