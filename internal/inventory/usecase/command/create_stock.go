package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// CreateStockCommand registers inventory for a product.
type CreateStockCommand struct {
	ProductID uint
	Quantity  int
	Location  string
}

// CreateStockHandler handles stock row creation.
type CreateStockHandler struct {
	repo    domain.StockRepository
	catalog domain.CatalogClient
}

// NewCreateStockHandler creates a new create stock handler.
func NewCreateStockHandler(repo domain.StockRepository, catalog domain.CatalogClient) *CreateStockHandler {
	return &CreateStockHandler{repo: repo, catalog: catalog}
}

// Handle executes the create stock command.
func (h *CreateStockHandler) Handle(ctx context.Context, cmd CreateStockCommand) (*domain.StockRow, error) {
	if cmd.ProductID == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El productoId es obligatorio")
	}
	if cmd.Quantity < 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La cantidad inicial no puede ser negativa")
	}

	// The product must exist in the catalog before stock can be opened.
	if _, err := h.catalog.GetProduct(ctx, cmd.ProductID); err != nil {
		return nil, err
	}

	if _, err := h.repo.FindByProductID(cmd.ProductID); err == nil {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
			"Ya existe un inventario para el producto %d", cmd.ProductID)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	location := cmd.Location
	if location == "" {
		location = "principal"
	}

	row := &domain.StockRow{
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
		Location:  location,
		Active:    true,
	}
	if err := h.repo.Create(row); err != nil {
		return nil, err
	}
	return row, nil
}
