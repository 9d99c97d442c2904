package query

import (
	"context"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// BulkQuantitiesHandler answers the batched quantity lookup used by the
// catalog to list products with live stock in a single round-trip.
type BulkQuantitiesHandler struct {
	repo domain.StockRepository
}

// NewBulkQuantitiesHandler creates a new bulk quantities handler.
func NewBulkQuantitiesHandler(repo domain.StockRepository) *BulkQuantitiesHandler {
	return &BulkQuantitiesHandler{repo: repo}
}

// Handle returns a product->quantity map. Products without a stock row map
// to 0 rather than an error.
func (h *BulkQuantitiesHandler) Handle(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	if len(productIDs) == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La lista de productos no puede estar vacía")
	}

	quantities, err := h.repo.QuantitiesByProductIDs(productIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		result[id] = quantities[id]
	}
	return result, nil
}
