package command

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// replayLedger reconstructs the on-hand quantity of one row from its
// committed movements: ENTRADA adds, SALIDA subtracts, AJUSTE sets the
// absolute value.
func replayLedger(t *testing.T, movements []domain.StockMovement, stockRowID uint) int {
	t.Helper()
	quantity := 0
	for _, mv := range movements {
		if mv.StockRowID != stockRowID {
			continue
		}
		switch mv.Kind {
		case domain.MovementIn:
			quantity += mv.Quantity
		case domain.MovementOut:
			quantity -= mv.Quantity
		case domain.MovementAdjust:
			quantity = mv.Quantity
		default:
			t.Fatalf("unexpected movement kind %q in ledger", mv.Kind)
		}
		require.GreaterOrEqual(t, quantity, 0,
			"ledger replay went negative at movement %d", mv.ID)
	}
	return quantity
}

// The ledger is the source of truth: replaying the committed movements of a
// row must land exactly on its stored quantity, for any mix of movement
// kinds, with rejected stock-outs leaving no trace.
func TestMovementLedger_ReplayMatchesStoredQuantity(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 0)
	movementHandler := NewApplyMovementHandler(repo)
	batchHandler := NewApplyBatchHandler(repo)

	rng := rand.New(rand.NewSource(20240817))
	kinds := []string{domain.MovementIn, domain.MovementOut, domain.MovementAdjust}

	// The row opens at zero, so the first stock-out must be rejected.
	_, err := movementHandler.Handle(context.Background(), ApplyMovementCommand{
		ProductID: 10,
		Kind:      domain.MovementOut,
		Quantity:  1,
	})
	require.Error(t, err)
	require.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))

	for i := 0; i < 300; i++ {
		kind := kinds[rng.Intn(len(kinds))]
		quantity := rng.Intn(20) + 1

		var err error
		if kind == domain.MovementOut && rng.Intn(4) == 0 {
			// Stock-outs also arrive as single-line sale batches.
			_, err = batchHandler.Handle(context.Background(), ApplyBatchCommand{
				Items:  []domain.BatchItem{{ProductID: 10, Quantity: quantity}},
				Reason: "Venta",
			})
		} else {
			_, err = movementHandler.Handle(context.Background(), ApplyMovementCommand{
				ProductID: 10,
				Kind:      kind,
				Quantity:  quantity,
				Reason:    "Operación de prueba",
				ActorID:   1,
			})
		}
		if err != nil {
			// The only admissible failure is a stock-out past zero.
			require.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))
		}
	}

	row, err := repo.FindByProductID(10)
	require.NoError(t, err)

	replayed := replayLedger(t, repo.movements, row.ID)
	assert.Equal(t, row.Quantity, replayed)
	assert.GreaterOrEqual(t, row.Quantity, 0)
	assert.NotEmpty(t, repo.movements)
}

// A rejected movement contributes nothing to the ledger, so the replay
// equality holds across the failure.
func TestMovementLedger_RejectedSalidaLeavesNoEntry(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 3)
	handler := NewApplyMovementHandler(repo)

	_, err := handler.Handle(context.Background(), ApplyMovementCommand{
		ProductID: 10,
		Kind:      domain.MovementOut,
		Quantity:  4,
	})
	require.Error(t, err)

	row, err := repo.FindByProductID(10)
	require.NoError(t, err)

	// The opening quantity has no ledger entry behind it; an AJUSTE anchors
	// the replay so the failed SALIDA is the only other candidate entry.
	_, err = handler.Handle(context.Background(), ApplyMovementCommand{
		ProductID: 10,
		Kind:      domain.MovementAdjust,
		Quantity:  row.Quantity,
		Reason:    "Conteo físico",
	})
	require.NoError(t, err)

	row, err = repo.FindByProductID(10)
	require.NoError(t, err)
	assert.Equal(t, row.Quantity, replayLedger(t, repo.movements, row.ID))
}
