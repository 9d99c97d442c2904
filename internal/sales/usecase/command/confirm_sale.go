package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/kafka"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// SaleEventPublisher publishes sale lifecycle events.
type SaleEventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
}

// ConfirmSaleHandler transitions a PENDIENTE sale to COMPLETADA after the
// inventory batch commits. A confirm retried after a timeout may decrement
// stock twice; callers own retry policy.
type ConfirmSaleHandler struct {
	sales     domain.SaleRepository
	inventory domain.InventoryClient
	publisher SaleEventPublisher
}

// NewConfirmSaleHandler creates a new confirm sale handler.
func NewConfirmSaleHandler(sales domain.SaleRepository, inventory domain.InventoryClient, publisher SaleEventPublisher) *ConfirmSaleHandler {
	return &ConfirmSaleHandler{sales: sales, inventory: inventory, publisher: publisher}
}

// Handle confirms the sale. Any inventory failure leaves it PENDIENTE.
func (h *ConfirmSaleHandler) Handle(ctx context.Context, saleID uint) (*domain.Sale, error) {
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

	items := make([]domain.BatchOutItem, 0, len(sale.Lines))
	for _, line := range sale.Lines {
		items = append(items, domain.BatchOutItem{ProductID: line.ProductID, Quantity: line.Quantity})
	}

	reason := fmt.Sprintf("Venta #%s", sale.InvoiceNumber)
	if err := h.inventory.BatchOut(ctx, items, reason); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("venta_id", saleID).
			Msg("Inventory batch out failed, sale stays pending")
		return nil, err
	}

	updated, err := h.sales.UpdateStateIfPending(saleID, domain.StateCompleted)
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent confirm or cancel won the race after our batch
		// already committed.
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeConflict,
			"La venta %d fue modificada concurrentemente", saleID)
	}
	sale.State = domain.StateCompleted

	// Event publication is best-effort and never rolls back the sale.
	if h.publisher != nil {
		eventLines := make([]kafka.SaleLineEvent, 0, len(sale.Lines))
		for _, line := range sale.Lines {
			eventLines = append(eventLines, kafka.SaleLineEvent{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
		}
		if err := h.publisher.PublishSaleCompleted(ctx, kafka.SaleCompletedEvent{
			SaleID:        sale.ID,
			InvoiceNumber: sale.InvoiceNumber,
			CustomerID:    sale.CustomerID,
			Total:         sale.Total,
			Lines:         eventLines,
		}); err != nil {
			logger.Warn(ctx).Err(err).Uint("venta_id", sale.ID).Msg("Failed to publish sale completed event")
		}
	}

	logger.Info(ctx).
		Uint("venta_id", sale.ID).
		Str("numero_factura", sale.InvoiceNumber).
		Msg("Sale completed")

	return sale, nil
}
