package command

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/inventory/client"
	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// Opening a stock row checks product existence against the strict catalog
// client: when the catalog answers 5xx the create fails and nothing is
// persisted. The fallback-decorated client is for read decoration only and
// must never stand in for this check.
func TestCreateStock_CatalogDownFailsTheWrite(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	repo := newMockStockRepo()
	handler := NewCreateStockHandler(repo, client.NewRestCatalogClient(server.URL))

	_, err := handler.Handle(context.Background(), CreateStockCommand{ProductID: 42, Quantity: 5})
	require.Error(t, err)
	assert.Equal(t, apierror.KindUnavailable, apierror.KindOf(err))
	assert.Equal(t, apierror.CodeUnavailable, apierror.CodeOf(err))

	_, err = repo.FindByProductID(42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
