package command

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/kafka"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

var validate = validator.New()

// ProductEventPublisher publishes product lifecycle events.
type ProductEventPublisher interface {
	PublishProductCreated(ctx context.Context, event kafka.ProductCreatedEvent) error
}

// CreateProductCommand registers a new product.
type CreateProductCommand struct {
	Name        string          `json:"nombre" validate:"required"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url"`
	CompanyID   uint            `json:"empresa_id" validate:"required"`
	CategoryID  uint            `json:"categoria_id"`
}

// UpdateProductCommand updates the mutable fields of a product.
type UpdateProductCommand struct {
	ID          uint            `json:"-"`
	Name        string          `json:"nombre" validate:"required"`
	Description string          `json:"descripcion"`
	Price       decimal.Decimal `json:"precio"`
	ImageURL    string          `json:"imagen_url"`
	CategoryID  uint            `json:"categoria_id"`
}

// ProductHandler implements product CRUD. Creation announces the product on
// Kafka so inventory can open a zero-quantity stock row; the announcement is
// best-effort and never rolls back the product.
type ProductHandler struct {
	products  domain.ProductRepository
	companies domain.CompanyRepository
	publisher ProductEventPublisher
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products domain.ProductRepository, companies domain.CompanyRepository, publisher ProductEventPublisher) *ProductHandler {
	return &ProductHandler{products: products, companies: companies, publisher: publisher}
}

// Create registers a product.
func (h *ProductHandler) Create(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos del producto no válidos", err)
	}
	if cmd.Price.IsNegative() {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El precio no puede ser negativo")
	}

	if _, err := h.companies.FindByID(cmd.CompanyID); errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Empresa no encontrada: %d", cmd.CompanyID)
	} else if err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        cmd.Name,
		Description: cmd.Description,
		Price:       cmd.Price.Round(2),
		ImageURL:    cmd.ImageURL,
		Active:      true,
		CompanyID:   cmd.CompanyID,
		CategoryID:  cmd.CategoryID,
	}
	if err := h.products.Create(product); err != nil {
		return nil, err
	}

	if h.publisher != nil {
		if err := h.publisher.PublishProductCreated(ctx, kafka.ProductCreatedEvent{
			ProductID: product.ID,
			Name:      product.Name,
			CompanyID: product.CompanyID,
		}); err != nil {
			logger.Warn(ctx).Err(err).Uint("producto_id", product.ID).Msg("Failed to publish product created event")
		}
	}

	logger.Info(ctx).
		Uint("producto_id", product.ID).
		Str("nombre", product.Name).
		Msg("Product created")

	return product, nil
}

// Update rewrites the product's mutable fields.
func (h *ProductHandler) Update(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos del producto no válidos", err)
	}
	if cmd.Price.IsNegative() {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"El precio no puede ser negativo")
	}

	product, err := h.products.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", cmd.ID)
	}
	if err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Price = cmd.Price.Round(2)
	product.ImageURL = cmd.ImageURL
	product.CategoryID = cmd.CategoryID
	if err := h.products.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// Deactivate soft-deletes the product. Past sale lines keep their snapshots.
func (h *ProductHandler) Deactivate(ctx context.Context, id uint) error {
	product, err := h.products.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", id)
	}
	if err != nil {
		return err
	}

	product.Active = false
	if err := h.products.Save(product); err != nil {
		return err
	}

	logger.Info(ctx).Uint("producto_id", id).Msg("Product deactivated")
	return nil
}
