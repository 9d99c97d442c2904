package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// CancelSaleHandler transitions a PENDIENTE sale to CANCELADA. Cancellation
// has no inventory effect because pending sales never decremented stock.
type CancelSaleHandler struct {
	sales domain.SaleRepository
}

// NewCancelSaleHandler creates a new cancel sale handler.
func NewCancelSaleHandler(sales domain.SaleRepository) *CancelSaleHandler {
	return &CancelSaleHandler{sales: sales}
}

// Handle cancels the sale if it is still pending.
func (h *CancelSaleHandler) Handle(ctx context.Context, saleID uint) (*domain.Sale, error) {
	sale, err := h.sales.FindByID(saleID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Venta no encontrada: %d", saleID)
	}
	if err != nil {
		return nil, err
	}
	if sale.State != domain.StatePending {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeConflict,
			"La venta %d no está pendiente, estado actual: %s", saleID, sale.State)
	}

	updated, err := h.sales.UpdateStateIfPending(saleID, domain.StateCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeConflict,
			"La venta %d fue modificada concurrentemente", saleID)
	}
	sale.State = domain.StateCancelled

	logger.Info(ctx).
		Uint("venta_id", sale.ID).
		Str("numero_factura", sale.InvoiceNumber).
		Msg("Sale cancelled")

	return sale, nil
}
