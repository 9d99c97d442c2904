package query

import (
	"context"

	"github.com/comerciolibre/backend/internal/inventory/domain"
)

// StockRowWithProduct decorates a stock row with catalog metadata.
type StockRowWithProduct struct {
	domain.StockRow
	ProductName string `json:"nombre_producto"`
}

// ListStockHandler lists stock rows, optionally decorated with product names.
type ListStockHandler struct {
	repo    domain.StockRepository
	catalog domain.ReadCatalogClient
}

// NewListStockHandler creates a new list stock handler. The catalog client is
// expected to be the fallback-wrapped one: when the catalog is down the list
// still renders with placeholder names.
func NewListStockHandler(repo domain.StockRepository, catalog domain.ReadCatalogClient) *ListStockHandler {
	return &ListStockHandler{repo: repo, catalog: catalog}
}

// Handle lists plain stock rows.
func (h *ListStockHandler) Handle(ctx context.Context, limit, offset int) ([]domain.StockRow, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}

// HandleWithProduct lists stock rows decorated with product names.
func (h *ListStockHandler) HandleWithProduct(ctx context.Context, limit, offset int) ([]StockRowWithProduct, error) {
	rows, err := h.Handle(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	decorated := make([]StockRowWithProduct, 0, len(rows))
	for _, row := range rows {
		item := StockRowWithProduct{StockRow: row}
		if product, err := h.catalog.GetProduct(ctx, row.ProductID); err == nil {
			item.ProductName = product.Name
		}
		decorated = append(decorated, item)
	}
	return decorated, nil
}
