package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// GetSaleHandler serves single-sale lookups.
type GetSaleHandler struct {
	repo domain.SaleRepository
}

// NewGetSaleHandler creates a new get sale handler.
func NewGetSaleHandler(repo domain.SaleRepository) *GetSaleHandler {
	return &GetSaleHandler{repo: repo}
}

// ByID returns the sale with its lines.
func (h *GetSaleHandler) ByID(ctx context.Context, id uint) (*domain.Sale, error) {
	sale, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Venta no encontrada: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ByInvoice returns the sale with the given invoice number.
func (h *GetSaleHandler) ByInvoice(ctx context.Context, invoiceNumber string) (*domain.Sale, error) {
	sale, err := h.repo.FindByInvoice(invoiceNumber)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Venta no encontrada: %s", invoiceNumber)
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}
