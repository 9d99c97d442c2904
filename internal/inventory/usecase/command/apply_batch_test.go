package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

func TestApplyBatch_HappyPath(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 5)
	repo.seed(20, 8)
	handler := NewApplyBatchHandler(repo)

	updated, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 20, Quantity: 3},
			{ProductID: 10, Quantity: 2},
		},
		Reason:  "Venta #FACT-1",
		ActorID: 7,
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)

	row10, err := repo.FindByProductID(10)
	require.NoError(t, err)
	assert.Equal(t, 3, row10.Quantity)

	row20, err := repo.FindByProductID(20)
	require.NoError(t, err)
	assert.Equal(t, 5, row20.Quantity)

	// One SALIDA ledger entry per item, carrying reason and actor.
	require.Len(t, repo.movements, 2)
	for _, mv := range repo.movements {
		assert.Equal(t, domain.MovementOut, mv.Kind)
		assert.Equal(t, "Venta #FACT-1", mv.Reason)
		assert.Equal(t, uint(7), mv.ActorID)
	}
}

func TestApplyBatch_LocksInAscendingProductOrder(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(30, 5)
	repo.seed(10, 5)
	repo.seed(20, 5)
	handler := NewApplyBatchHandler(repo)

	_, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 30, Quantity: 1},
			{ProductID: 10, Quantity: 1},
			{ProductID: 20, Quantity: 1},
		},
		Reason: "Venta #FACT-2",
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{10, 20, 30}, repo.lockOrder)
}

func TestApplyBatch_ExactStockDrainsToZero(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 4)
	handler := NewApplyBatchHandler(repo)

	updated, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items:  []domain.BatchItem{{ProductID: 10, Quantity: 4}},
		Reason: "Venta #FACT-3",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updated[0].Quantity)
}

func TestApplyBatch_OneOverStockFails(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 4)
	handler := NewApplyBatchHandler(repo)

	_, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items:  []domain.BatchItem{{ProductID: 10, Quantity: 5}},
		Reason: "Venta #FACT-4",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindConflict, apierror.KindOf(err))
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))
}

func TestApplyBatch_AllOrNothingOnInsufficientStock(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 100)
	repo.seed(20, 1)
	handler := NewApplyBatchHandler(repo)

	// First line is satisfiable, second is not. Nothing may change.
	_, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 10, Quantity: 50},
			{ProductID: 20, Quantity: 2},
		},
		Reason: "Venta #FACT-5",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))

	row10, err := repo.FindByProductID(10)
	require.NoError(t, err)
	assert.Equal(t, 100, row10.Quantity)

	row20, err := repo.FindByProductID(20)
	require.NoError(t, err)
	assert.Equal(t, 1, row20.Quantity)
	assert.Empty(t, repo.movements)
}

func TestApplyBatch_UnknownProduct(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 100)
	handler := NewApplyBatchHandler(repo)

	_, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 10, Quantity: 1},
			{ProductID: 99, Quantity: 1},
		},
		Reason: "Venta #FACT-6",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
	assert.Equal(t, apierror.CodeUnknownProduct, apierror.CodeOf(err))

	row10, err := repo.FindByProductID(10)
	require.NoError(t, err)
	assert.Equal(t, 100, row10.Quantity)
	assert.Empty(t, repo.movements)
}

func TestApplyBatch_RepeatedProductLinesShareTheRow(t *testing.T) {
	repo := newMockStockRepo()
	repo.seed(10, 5)
	handler := NewApplyBatchHandler(repo)

	// 3 + 3 = 6 > 5 even though each line alone fits.
	_, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 10, Quantity: 3},
			{ProductID: 10, Quantity: 3},
		},
		Reason: "Venta #FACT-7",
	})
	require.Error(t, err)
	assert.Equal(t, apierror.CodeInsufficientStock, apierror.CodeOf(err))

	// And 3 + 2 = 5 fits exactly, producing two ledger entries.
	updated, err := handler.Handle(context.Background(), ApplyBatchCommand{
		Items: []domain.BatchItem{
			{ProductID: 10, Quantity: 3},
			{ProductID: 10, Quantity: 2},
		},
		Reason: "Venta #FACT-8",
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, 0, updated[0].Quantity)
	assert.Len(t, repo.movements, 2)
}

func TestApplyBatch_ValidationFailures(t *testing.T) {
	handler := NewApplyBatchHandler(newMockStockRepo())

	cases := []struct {
		name  string
		items []domain.BatchItem
	}{
		{"empty batch", nil},
		{"zero product id", []domain.BatchItem{{Quantity: 1}}},
		{"zero quantity", []domain.BatchItem{{ProductID: 10}}},
		{"negative quantity", []domain.BatchItem{{ProductID: 10, Quantity: -1}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), ApplyBatchCommand{Items: tc.items})
			require.Error(t, err)
			assert.Equal(t, apierror.KindValidation, apierror.KindOf(err))
		})
	}
}
