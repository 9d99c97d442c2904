package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// DeactivateStockCommand soft-deletes a stock row.
type DeactivateStockCommand struct {
	ID uint
}

// DeactivateStockHandler handles stock row deactivation.
type DeactivateStockHandler struct {
	repo domain.StockRepository
}

// NewDeactivateStockHandler creates a new deactivate stock handler.
func NewDeactivateStockHandler(repo domain.StockRepository) *DeactivateStockHandler {
	return &DeactivateStockHandler{repo: repo}
}

// Handle marks the row inactive. The movement ledger stays untouched.
func (h *DeactivateStockHandler) Handle(ctx context.Context, cmd DeactivateStockCommand) error {
	row, err := h.repo.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Inventario no encontrado: %d", cmd.ID)
	}
	if err != nil {
		return err
	}

	row.Active = false
	return h.repo.Save(row)
}
