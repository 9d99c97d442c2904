package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// GetCustomerHandler serves customer lookups.
type GetCustomerHandler struct {
	repo domain.CustomerRepository
}

// NewGetCustomerHandler creates a new get customer handler.
func NewGetCustomerHandler(repo domain.CustomerRepository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

// ByID returns one customer.
func (h *GetCustomerHandler) ByID(ctx context.Context, id uint) (*domain.Customer, error) {
	customer, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Cliente no encontrado: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return customer, nil
}

// List returns a page of customers.
func (h *GetCustomerHandler) List(ctx context.Context, limit, offset int) ([]domain.Customer, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}
