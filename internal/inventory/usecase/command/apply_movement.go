package command

import (
	"context"
	"errors"
	"time"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// ApplyMovementCommand applies a single stock movement to a product.
type ApplyMovementCommand struct {
	ProductID uint
	Kind      string
	Quantity  int
	Reason    string
	ActorID   uint
}

// ApplyMovementHandler serializes the read-modify-write of one stock row and
// appends the corresponding ledger entry in the same transaction.
type ApplyMovementHandler struct {
	repo domain.StockRepository
}

// NewApplyMovementHandler creates a new apply movement handler.
func NewApplyMovementHandler(repo domain.StockRepository) *ApplyMovementHandler {
	return &ApplyMovementHandler{repo: repo}
}

// Handle executes the apply movement command.
func (h *ApplyMovementHandler) Handle(ctx context.Context, cmd ApplyMovementCommand) (*domain.StockRow, error) {
	if cmd.ProductID == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El productoId es obligatorio")
	}
	if !domain.ValidMovementKind(cmd.Kind) {
		return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
			"Tipo de movimiento no válido: %s", cmd.Kind)
	}
	if cmd.Quantity <= 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La cantidad debe ser mayor que cero")
	}

	var updated *domain.StockRow
	err := h.repo.WithTx(func(tx domain.StockTx) error {
		row, err := tx.LockByProductID(cmd.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			return apierror.Newf(apierror.KindNotFound, apierror.CodeUnknownProduct,
				"No existe inventario para el producto %d", cmd.ProductID)
		}
		if err != nil {
			return err
		}

		newQuantity, err := nextQuantity(row.Quantity, cmd.Quantity, cmd.Kind)
		if err != nil {
			return err
		}

		if err := tx.AppendMovement(&domain.StockMovement{
			StockRowID: row.ID,
			Kind:       cmd.Kind,
			Quantity:   cmd.Quantity,
			Reason:     cmd.Reason,
			ActorID:    cmd.ActorID,
			MovedAt:    time.Now(),
		}); err != nil {
			return err
		}

		row.Quantity = newQuantity
		if err := tx.Save(row); err != nil {
			return err
		}
		updated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("producto_id", cmd.ProductID).
		Str("tipo", cmd.Kind).
		Int("cantidad", cmd.Quantity).
		Int("nueva_cantidad", updated.Quantity).
		Msg("Stock movement applied")

	return updated, nil
}

// nextQuantity computes the resulting quantity for a movement. AJUSTE treats
// the supplied quantity as the new absolute value.
func nextQuantity(current, quantity int, kind string) (int, error) {
	switch kind {
	case domain.MovementIn:
		return current + quantity, nil
	case domain.MovementOut:
		next := current - quantity
		if next < 0 {
			return 0, apierror.Newf(apierror.KindConflict, apierror.CodeInsufficientStock,
				"Stock insuficiente. Disponible: %d, Solicitado: %d", current, quantity)
		}
		return next, nil
	case domain.MovementAdjust:
		return quantity, nil
	default:
		return 0, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
			"Tipo de movimiento no válido: %s", kind)
	}
}
