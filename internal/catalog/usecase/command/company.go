package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// CompanyCommand carries the mutable fields of a company.
type CompanyCommand struct {
	ID      uint   `json:"-"`
	Name    string `json:"nombre" validate:"required"`
	RUC     string `json:"ruc" validate:"required"`
	Address string `json:"direccion"`
	Phone   string `json:"telefono"`
}

// CompanyHandler implements company CRUD. RUC is the unique tax id.
type CompanyHandler struct {
	repo domain.CompanyRepository
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(repo domain.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{repo: repo}
}

// Create registers a company.
func (h *CompanyHandler) Create(ctx context.Context, cmd CompanyCommand) (*domain.Company, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos de la empresa no válidos", err)
	}

	if _, err := h.repo.FindByRUC(cmd.RUC); err == nil {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
			"Ya existe una empresa con el RUC %s", cmd.RUC)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	company := &domain.Company{
		Name:    cmd.Name,
		RUC:     cmd.RUC,
		Address: cmd.Address,
		Phone:   cmd.Phone,
		Active:  true,
	}
	if err := h.repo.Create(company); err != nil {
		return nil, err
	}
	return company, nil
}

// Update rewrites the company's mutable fields.
func (h *CompanyHandler) Update(ctx context.Context, cmd CompanyCommand) (*domain.Company, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos de la empresa no válidos", err)
	}

	company, err := h.repo.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Empresa no encontrada: %d", cmd.ID)
	}
	if err != nil {
		return nil, err
	}

	if cmd.RUC != company.RUC {
		if _, err := h.repo.FindByRUC(cmd.RUC); err == nil {
			return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
				"Ya existe una empresa con el RUC %s", cmd.RUC)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	company.Name = cmd.Name
	company.RUC = cmd.RUC
	company.Address = cmd.Address
	company.Phone = cmd.Phone
	if err := h.repo.Save(company); err != nil {
		return nil, err
	}
	return company, nil
}

// Deactivate soft-deletes the company.
func (h *CompanyHandler) Deactivate(ctx context.Context, id uint) error {
	company, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Empresa no encontrada: %d", id)
	}
	if err != nil {
		return err
	}

	company.Active = false
	return h.repo.Save(company)
}
