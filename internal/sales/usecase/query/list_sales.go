package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// ListSalesHandler lists sales.
type ListSalesHandler struct {
	sales     domain.SaleRepository
	customers domain.CustomerRepository
}

// NewListSalesHandler creates a new list sales handler.
func NewListSalesHandler(sales domain.SaleRepository, customers domain.CustomerRepository) *ListSalesHandler {
	return &ListSalesHandler{sales: sales, customers: customers}
}

// Handle lists sales, newest first.
func (h *ListSalesHandler) Handle(ctx context.Context, limit, offset int) ([]domain.Sale, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.sales.FindAll(limit, offset)
}

// ByCustomer lists the sales of one customer, newest first.
func (h *ListSalesHandler) ByCustomer(ctx context.Context, customerID uint, limit, offset int) ([]domain.Sale, error) {
	if _, err := h.customers.FindByID(customerID); errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Cliente no encontrado: %d", customerID)
	} else if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 10
	}
	return h.sales.FindByCustomerID(customerID, limit, offset)
}
