package command

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// ApplyBatchCommand is the all-or-nothing stock-out used to fulfill a sale.
type ApplyBatchCommand struct {
	Items   []domain.BatchItem
	Reason  string
	ActorID uint
}

// ApplyBatchHandler commits a multi-line SALIDA batch atomically: either
// every line is decremented and logged, or none.
type ApplyBatchHandler struct {
	repo domain.StockRepository
}

// NewApplyBatchHandler creates a new apply batch handler.
func NewApplyBatchHandler(repo domain.StockRepository) *ApplyBatchHandler {
	return &ApplyBatchHandler{repo: repo}
}

// Handle executes the batch. Rows are locked in ascending product id order so
// concurrent batches sharing products serialize instead of deadlocking.
func (h *ApplyBatchHandler) Handle(ctx context.Context, cmd ApplyBatchCommand) ([]domain.StockRow, error) {
	if len(cmd.Items) == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La lista de items no puede estar vacía")
	}
	for _, item := range cmd.Items {
		if item.ProductID == 0 {
			return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
				"El productoId es obligatorio en todos los items")
		}
		if item.Quantity <= 0 {
			return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
				"La cantidad debe ser mayor que cero para el producto %d", item.ProductID)
		}
	}

	productIDs := make([]uint, 0, len(cmd.Items))
	seen := make(map[uint]bool, len(cmd.Items))
	for _, item := range cmd.Items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			productIDs = append(productIDs, item.ProductID)
		}
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	var updated []domain.StockRow
	err := h.repo.WithTx(func(tx domain.StockTx) error {
		// Lock every affected row first, in stable order.
		rows := make(map[uint]*domain.StockRow, len(productIDs))
		for _, id := range productIDs {
			row, err := tx.LockByProductID(id)
			if errors.Is(err, domain.ErrNotFound) {
				return apierror.Newf(apierror.KindNotFound, apierror.CodeUnknownProduct,
					"No existe inventario para el producto %d", id)
			}
			if err != nil {
				return err
			}
			rows[id] = row
		}

		// Verify every line against the running quantity before writing
		// anything, so a late failure cannot leave partial decrements.
		remaining := make(map[uint]int, len(rows))
		for id, row := range rows {
			remaining[id] = row.Quantity
		}
		for _, item := range cmd.Items {
			if remaining[item.ProductID] < item.Quantity {
				return apierror.Newf(apierror.KindConflict, apierror.CodeInsufficientStock,
					"Stock insuficiente para el producto %d. Disponible: %d, Solicitado: %d",
					item.ProductID, remaining[item.ProductID], item.Quantity)
			}
			remaining[item.ProductID] -= item.Quantity
		}

		// One ledger entry per item, then the updated rows.
		now := time.Now()
		for _, item := range cmd.Items {
			if err := tx.AppendMovement(&domain.StockMovement{
				StockRowID: rows[item.ProductID].ID,
				Kind:       domain.MovementOut,
				Quantity:   item.Quantity,
				Reason:     cmd.Reason,
				ActorID:    cmd.ActorID,
				MovedAt:    now,
			}); err != nil {
				return err
			}
		}

		updated = make([]domain.StockRow, 0, len(productIDs))
		for _, id := range productIDs {
			row := rows[id]
			row.Quantity = remaining[id]
			if err := tx.Save(row); err != nil {
				return err
			}
			updated = append(updated, *row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Int("items", len(cmd.Items)).
		Str("motivo", cmd.Reason).
		Msg("Stock batch out committed")

	return updated, nil
}
