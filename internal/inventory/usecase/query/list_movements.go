package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// ListMovementsHandler lists the ledger of a stock row.
type ListMovementsHandler struct {
	repo domain.StockRepository
}

// NewListMovementsHandler creates a new list movements handler.
func NewListMovementsHandler(repo domain.StockRepository) *ListMovementsHandler {
	return &ListMovementsHandler{repo: repo}
}

// Handle returns the movements of a stock row, newest first.
func (h *ListMovementsHandler) Handle(ctx context.Context, stockRowID uint, limit, offset int) ([]domain.StockMovement, error) {
	if _, err := h.repo.FindByID(stockRowID); errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Inventario no encontrado: %d", stockRowID)
	} else if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 50
	}
	return h.repo.MovementsByStockRowID(stockRowID, limit, offset)
}
