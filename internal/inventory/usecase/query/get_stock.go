package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// GetStockHandler resolves single stock rows.
type GetStockHandler struct {
	repo domain.StockRepository
}

// NewGetStockHandler creates a new get stock handler.
func NewGetStockHandler(repo domain.StockRepository) *GetStockHandler {
	return &GetStockHandler{repo: repo}
}

// ByID returns the stock row with the given id.
func (h *GetStockHandler) ByID(ctx context.Context, id uint) (*domain.StockRow, error) {
	row, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Inventario no encontrado: %d", id)
	}
	return row, err
}

// ByProductID returns the stock row owned by the given product.
func (h *GetStockHandler) ByProductID(ctx context.Context, productID uint) (*domain.StockRow, error) {
	row, err := h.repo.FindByProductID(productID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"No existe inventario para el producto %d", productID)
	}
	return row, err
}
