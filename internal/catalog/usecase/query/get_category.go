package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// GetCategoryHandler serves category reads.
type GetCategoryHandler struct {
	repo domain.CategoryRepository
}

// NewGetCategoryHandler creates a new get category handler.
func NewGetCategoryHandler(repo domain.CategoryRepository) *GetCategoryHandler {
	return &GetCategoryHandler{repo: repo}
}

// ByID returns one category.
func (h *GetCategoryHandler) ByID(ctx context.Context, id uint) (*domain.Category, error) {
	category, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Categoría no encontrada: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

// List returns a page of categories.
func (h *GetCategoryHandler) List(ctx context.Context, limit, offset int) ([]domain.Category, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}

// GetCompanyHandler serves company reads.
type GetCompanyHandler struct {
	repo domain.CompanyRepository
}

// NewGetCompanyHandler creates a new get company handler.
func NewGetCompanyHandler(repo domain.CompanyRepository) *GetCompanyHandler {
	return &GetCompanyHandler{repo: repo}
}

// ByID returns one company.
func (h *GetCompanyHandler) ByID(ctx context.Context, id uint) (*domain.Company, error) {
	company, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Empresa no encontrada: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return company, nil
}

// List returns a page of companies.
func (h *GetCompanyHandler) List(ctx context.Context, limit, offset int) ([]domain.Company, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}
