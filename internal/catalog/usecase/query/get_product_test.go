package query

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

type fakeProductRepo struct {
	products map[uint]*domain.Product
}

func (f *fakeProductRepo) Create(product *domain.Product) error { return nil }

func (f *fakeProductRepo) FindByID(id uint) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProductRepo) FindAll(limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) Save(product *domain.Product) error { return nil }

type fakeInventoryClient struct {
	quantities map[uint]int
	requested  []uint
}

func (f *fakeInventoryClient) Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	f.requested = productIDs
	out := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = f.quantities[id]
	}
	return out, nil
}

func TestGetProduct_ByID(t *testing.T) {
	repo := &fakeProductRepo{products: map[uint]*domain.Product{
		10: {ID: 10, Name: "Teclado", Price: decimal.RequireFromString("5.50"), Active: true},
	}}
	handler := NewGetProductHandler(repo, &fakeInventoryClient{})

	product, err := handler.ByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "Teclado", product.Name)

	_, err = handler.ByID(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, apierror.KindNotFound, apierror.KindOf(err))
}

func TestListWithStock_DecoratesQuantities(t *testing.T) {
	repo := &fakeProductRepo{products: map[uint]*domain.Product{
		10: {ID: 10, Name: "Teclado", Active: true},
		20: {ID: 20, Name: "Mouse", Active: true},
	}}
	inventory := &fakeInventoryClient{quantities: map[uint]int{10: 5}}
	handler := NewGetProductHandler(repo, inventory)

	decorated, err := handler.ListWithStock(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, decorated, 2)

	assert.Equal(t, []uint{10, 20}, inventory.requested)
	assert.Equal(t, 5, decorated[0].Quantity)
	// Products without a stock row read as zero.
	assert.Equal(t, 0, decorated[1].Quantity)
}

func TestListWithStock_EmptyCatalogSkipsInventory(t *testing.T) {
	inventory := &fakeInventoryClient{}
	handler := NewGetProductHandler(&fakeProductRepo{products: map[uint]*domain.Product{}}, inventory)

	decorated, err := handler.ListWithStock(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Empty(t, decorated)
	assert.Nil(t, inventory.requested)
}
