package command

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

var validate = validator.New()

// CreateCustomerCommand registers a new customer.
type CreateCustomerCommand struct {
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
}

// UpdateCustomerCommand updates the mutable fields of a customer.
type UpdateCustomerCommand struct {
	ID        uint   `json:"-"`
	FirstName string `json:"nombre" validate:"required"`
	LastName  string `json:"apellido" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"telefono"`
	Address   string `json:"direccion"`
}

// CustomerHandler implements customer CRUD.
type CustomerHandler struct {
	repo domain.CustomerRepository
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(repo domain.CustomerRepository) *CustomerHandler {
	return &CustomerHandler{repo: repo}
}

// Create registers a customer. Email must be unique.
func (h *CustomerHandler) Create(ctx context.Context, cmd CreateCustomerCommand) (*domain.Customer, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos del cliente no válidos", err)
	}

	if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
			"Ya existe un cliente con el email %s", cmd.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	customer := &domain.Customer{
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Email:     cmd.Email,
		Phone:     cmd.Phone,
		Address:   cmd.Address,
		Active:    true,
	}
	if err := h.repo.Create(customer); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("cliente_id", customer.ID).Msg("Customer created")
	return customer, nil
}

// Update rewrites the customer's mutable fields.
func (h *CustomerHandler) Update(ctx context.Context, cmd UpdateCustomerCommand) (*domain.Customer, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos del cliente no válidos", err)
	}

	customer, err := h.repo.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Cliente no encontrado: %d", cmd.ID)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Email != customer.Email {
		if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
			return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
				"Ya existe un cliente con el email %s", cmd.Email)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	customer.FirstName = cmd.FirstName
	customer.LastName = cmd.LastName
	customer.Email = cmd.Email
	customer.Phone = cmd.Phone
	customer.Address = cmd.Address
	if err := h.repo.Save(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Deactivate soft-deletes the customer. Past sales keep referencing it.
func (h *CustomerHandler) Deactivate(ctx context.Context, id uint) error {
	customer, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Cliente no encontrado: %d", id)
	}
	if err != nil {
		return err
	}

	customer.Active = false
	if err := h.repo.Save(customer); err != nil {
		return err
	}

	logger.Info(ctx).Uint("cliente_id", id).Msg("Customer deactivated")
	return nil
}
