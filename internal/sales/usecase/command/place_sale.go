package command

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// taxRate is the sale-level tax applied once over the subtotal.
var taxRate = decimal.NewFromFloat(0.15)

// SaleItemInput is one requested line of a new sale.
type SaleItemInput struct {
	ProductID uint `json:"productoId"`
	Quantity  int  `json:"cantidad"`
}

// PlaceSaleCommand creates a new PENDIENTE sale.
type PlaceSaleCommand struct {
	CustomerID uint
	Items      []SaleItemInput
}

// PlaceSaleHandler prices and persists a sale without touching inventory.
// The availability check here is advisory; the stock decrement happens at
// confirmation time.
type PlaceSaleHandler struct {
	sales     domain.SaleRepository
	customers domain.CustomerRepository
	catalog   domain.CatalogClient
	inventory domain.InventoryClient
}

// NewPlaceSaleHandler creates a new place sale handler.
func NewPlaceSaleHandler(
	sales domain.SaleRepository,
	customers domain.CustomerRepository,
	catalog domain.CatalogClient,
	inventory domain.InventoryClient,
) *PlaceSaleHandler {
	return &PlaceSaleHandler{sales: sales, customers: customers, catalog: catalog, inventory: inventory}
}

// Handle validates, prices and persists the sale.
func (h *PlaceSaleHandler) Handle(ctx context.Context, cmd PlaceSaleCommand) (*domain.Sale, error) {
	if cmd.CustomerID == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El clienteId es obligatorio")
	}
	if len(cmd.Items) == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La venta debe tener al menos un detalle")
	}
	for _, item := range cmd.Items {
		if item.ProductID == 0 {
			return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
				"El productoId es obligatorio en todos los detalles")
		}
		if item.Quantity < 1 {
			return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
				"La cantidad debe ser al menos 1 para el producto %d", item.ProductID)
		}
	}

	customer, err := h.customers.FindByID(cmd.CustomerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Cliente no encontrado: %d", cmd.CustomerID)
	}
	if err != nil {
		return nil, err
	}
	if !customer.Active {
		return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
			"El cliente %d no está activo", cmd.CustomerID)
	}

	// One catalog lookup and one advisory quantity per distinct product,
	// however many lines reference it.
	productIDs := make([]uint, 0, len(cmd.Items))
	requested := make(map[uint]int, len(cmd.Items))
	for _, item := range cmd.Items {
		if _, ok := requested[item.ProductID]; !ok {
			productIDs = append(productIDs, item.ProductID)
		}
		requested[item.ProductID] += item.Quantity
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	products := make(map[uint]*domain.ProductInfo, len(productIDs))
	for _, id := range productIDs {
		product, err := h.catalog.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		products[id] = product
	}

	onHand, err := h.inventory.Quantities(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range productIDs {
		if onHand[id] < requested[id] {
			return nil, apierror.Newf(apierror.KindConflict, apierror.CodeInsufficientStock,
				"Stock insuficiente para el producto %d. Disponible: %d, Solicitado: %d",
				id, onHand[id], requested[id])
		}
	}

	lines := make([]domain.SaleLine, 0, len(cmd.Items))
	subtotal := decimal.Zero
	for _, item := range cmd.Items {
		product := products[item.ProductID]
		lineSubtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		lines = append(lines, domain.SaleLine{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    lineSubtotal,
		})
		subtotal = subtotal.Add(lineSubtotal)
	}

	// Tax is applied once over the sale subtotal, half-up to 2 decimals.
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax).Round(2)

	now := time.Now()
	sale := &domain.Sale{
		CustomerID:    cmd.CustomerID,
		InvoiceNumber: domain.NextInvoiceNumber(),
		SoldAt:        now,
		Subtotal:      subtotal.Round(2),
		Tax:           tax,
		Total:         total,
		State:         domain.StatePending,
		Lines:         lines,
	}

	if err := h.sales.CreateWithLines(sale); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("venta_id", sale.ID).
		Str("numero_factura", sale.InvoiceNumber).
		Uint("cliente_id", cmd.CustomerID).
		Str("total", sale.Total.String()).
		Msg("Sale placed")

	return sale, nil
}
