package command

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/comerciolibre/backend/internal/auth/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/auth"
	"github.com/comerciolibre/backend/pkg/logger"
)

var validate = validator.New()

// RegisterCommand creates a new account.
type RegisterCommand struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	// Roles is honored only on the admin path; public registration
	// always gets ROLE_USER.
	Roles []string `json:"roles"`
}

// UpdateUserCommand updates the mutable fields of a user.
type UpdateUserCommand struct {
	ID       uint   `json:"-"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// UserHandler implements account administration.
type UserHandler struct {
	repo domain.UserRepository
}

// NewUserHandler creates a new user handler.
func NewUserHandler(repo domain.UserRepository) *UserHandler {
	return &UserHandler{repo: repo}
}

// Register creates a ROLE_USER account. Public endpoint.
func (h *UserHandler) Register(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	cmd.Roles = nil
	return h.create(ctx, cmd, []string{auth.RoleUser})
}

// RegisterWithRoles creates an account with the given role set. Admin only;
// the handler layer enforces that.
func (h *UserHandler) RegisterWithRoles(ctx context.Context, cmd RegisterCommand) (*domain.User, error) {
	roles := cmd.Roles
	if len(roles) == 0 {
		roles = []string{auth.RoleUser}
	}
	for _, role := range roles {
		if role != auth.RoleUser && role != auth.RoleAdmin {
			return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
				"Rol desconocido: %s", role)
		}
	}
	return h.create(ctx, cmd, roles)
}

func (h *UserHandler) create(ctx context.Context, cmd RegisterCommand, roles []string) (*domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos de registro no válidos", err)
	}

	if _, err := h.repo.FindByUsername(cmd.Username); err == nil {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
			"El usuario %s ya existe", cmd.Username)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
		return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
			"Ya existe una cuenta con el email %s", cmd.Email)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username: cmd.Username,
		Email:    cmd.Email,
		Password: hashed,
		Active:   true,
	}
	for _, role := range roles {
		user.Roles = append(user.Roles, domain.UserRole{Role: role})
	}
	if err := h.repo.Create(user); err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("usuario_id", user.ID).
		Str("username", user.Username).
		Strs("roles", roles).
		Msg("User registered")

	return user, nil
}

// Update rewrites email and, when given, the password.
func (h *UserHandler) Update(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Datos del usuario no válidos", err)
	}

	user, err := h.repo.FindByID(cmd.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Usuario no encontrado: %d", cmd.ID)
	}
	if err != nil {
		return nil, err
	}

	if cmd.Email != user.Email {
		if _, err := h.repo.FindByEmail(cmd.Email); err == nil {
			return nil, apierror.Newf(apierror.KindConflict, apierror.CodeAlreadyExists,
				"Ya existe una cuenta con el email %s", cmd.Email)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user.Email = cmd.Email
	}

	if cmd.Password != "" {
		if len(cmd.Password) < 8 {
			return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
				"La contraseña debe tener al menos 8 caracteres")
		}
		hashed, err := auth.HashPassword(cmd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	if err := h.repo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangeRoles replaces the user's role set.
func (h *UserHandler) ChangeRoles(ctx context.Context, userID uint, roles []string) (*domain.User, error) {
	if len(roles) == 0 {
		return nil, apierror.New(apierror.KindValidation, apierror.CodeValidation,
			"La lista de roles no puede estar vacía")
	}
	for _, role := range roles {
		if role != auth.RoleUser && role != auth.RoleAdmin {
			return nil, apierror.Newf(apierror.KindValidation, apierror.CodeValidation,
				"Rol desconocido: %s", role)
		}
	}

	if _, err := h.repo.FindByID(userID); errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Usuario no encontrado: %d", userID)
	} else if err != nil {
		return nil, err
	}

	if err := h.repo.ReplaceRoles(userID, roles); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("usuario_id", userID).Strs("roles", roles).Msg("User roles changed")
	return h.repo.FindByID(userID)
}

// SetActive toggles the account on or off.
func (h *UserHandler) SetActive(ctx context.Context, userID uint, active bool) (*domain.User, error) {
	user, err := h.repo.FindByID(userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Usuario no encontrado: %d", userID)
	}
	if err != nil {
		return nil, err
	}

	user.Active = active
	if err := h.repo.Save(user); err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("usuario_id", userID).Bool("activo", active).Msg("User active flag changed")
	return user, nil
}

// Deactivate soft-deletes the account.
func (h *UserHandler) Deactivate(ctx context.Context, userID uint) error {
	_, err := h.SetActive(ctx, userID, false)
	return err
}
