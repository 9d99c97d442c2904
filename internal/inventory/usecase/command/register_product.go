package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/logger"
)

// RegisterProductHandler opens a zero-quantity stock row when the catalog
// announces a new product. Reconciliation is best-effort: a duplicate row
// (already created by an admin) is not an error.
type RegisterProductHandler struct {
	repo domain.StockRepository
}

// NewRegisterProductHandler creates a new register product handler.
func NewRegisterProductHandler(repo domain.StockRepository) *RegisterProductHandler {
	return &RegisterProductHandler{repo: repo}
}

// Handle creates the stock row if the product has none yet.
func (h *RegisterProductHandler) Handle(ctx context.Context, productID uint) error {
	if _, err := h.repo.FindByProductID(productID); err == nil {
		logger.Debug(ctx).
			Uint("producto_id", productID).
			Msg("Stock row already exists, skipping")
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	row := &domain.StockRow{
		ProductID: productID,
		Quantity:  0,
		Location:  "principal",
		Active:    true,
	}
	if err := h.repo.Create(row); err != nil {
		return err
	}

	logger.Info(ctx).
		Uint("producto_id", productID).
		Msg("Stock row opened for new product")
	return nil
}
