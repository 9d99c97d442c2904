package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// CategoryCommand carries the mutable fields of a category.
type CategoryCommand struct {
	ID          uint   `json:"-"`
	Name        string `json:"nombre" validate:"required"`
	Description string `json:"descripcion"`
}

// CategoryHandler implements category CRUD.
type CategoryHandler struct {
	repo domain.CategoryRepository
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(repo domain.CategoryRepository) *CategoryHandler {
	return &CategoryHandler{repo: repo}
}

// Create registers a category.
func (h *CategoryHandler) Create(ctx context.Context, cmd CategoryCommand) (*domain.Category, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos de la categoría no válidos", err)
	}

	category := &domain.Category{
		Name:        cmd.Name,
		Description: cmd.Description,
		Active:      true,
	}
	if err := h.repo.Create(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Update rewrites the category's mutable fields.
func (h *CategoryHandler) Update(ctx context.Context, cmd CategoryCommand) (*domain.Category, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos de la categoría no válidos", err)
	}

	category, err := h.repo.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Categoría no encontrada: %d", cmd.ID)
	}
	if err != nil {
		return nil, err
	}

	category.Name = cmd.Name
	category.Description = cmd.Description
	if err := h.repo.Save(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Deactivate soft-deletes the category.
func (h *CategoryHandler) Deactivate(ctx context.Context, id uint) error {
	category, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Categoría no encontrada: %d", id)
	}
	if err != nil {
		return err
	}

	category.Active = false
	return h.repo.Save(category)
}
