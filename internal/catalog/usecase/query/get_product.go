package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// ProductWithStock decorates a product with its on-hand quantity.
type ProductWithStock struct {
	domain.Product
	Quantity int `json:"cantidad_disponible"`
}

// GetProductHandler serves product reads. ByID is the authoritative lookup
// used by the sales and inventory services.
type GetProductHandler struct {
	repo      domain.ProductRepository
	inventory domain.InventoryClient
}

// NewGetProductHandler creates a new get product handler. The inventory
// client is expected to be the fallback-wrapped one.
func NewGetProductHandler(repo domain.ProductRepository, inventory domain.InventoryClient) *GetProductHandler {
	return &GetProductHandler{repo: repo, inventory: inventory}
}

// ByID returns one product.
func (h *GetProductHandler) ByID(ctx context.Context, id uint) (*domain.Product, error) {
	product, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

// List returns a page of products.
func (h *GetProductHandler) List(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}

// ListWithStock returns a page of products decorated with on-hand quantities.
// When inventory is unreachable quantities degrade to zero.
func (h *GetProductHandler) ListWithStock(ctx context.Context, limit, offset int) ([]ProductWithStock, error) {
	products, err := h.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return []ProductWithStock{}, nil
	}

	productIDs := make([]uint, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	quantities, err := h.inventory.Quantities(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	decorated := make([]ProductWithStock, 0, len(products))
	for _, p := range products {
		decorated = append(decorated, ProductWithStock{Product: p, Quantity: quantities[p.ID]})
	}
	return decorated, nil
}
