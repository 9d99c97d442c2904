package command

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/auth/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/auth"
	"github.com/comerciolibre/backend/pkg/logger"
)

// LoginCommand authenticates a user by username and password.
type LoginCommand struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the issued token plus its lifetime.
type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"usuario"`
}

// LoginHandler checks credentials and issues a JWT. Wrong username, wrong
// password and disabled account are indistinguishable to the caller.
type LoginHandler struct {
	repo domain.UserRepository
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(repo domain.UserRepository) *LoginHandler {
	return &LoginHandler{repo: repo}
}

// Handle authenticates and returns a signed token.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := validate.Struct(cmd); err != nil {
		return nil, apierror.Wrap(apierror.KindValidation, apierror.CodeValidation,
			"Credenciales no válidas", err)
	}

	badCredentials := apierror.New(apierror.KindUnauthenticated, apierror.CodeUnauthenticated,
		"Usuario o contraseña incorrectos")

	user, err := h.repo.FindByUsername(cmd.Username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, badCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.Active {
		return nil, badCredentials
	}
	if err := auth.CheckPassword(user.Password, cmd.Password); err != nil {
		logger.Warn(ctx).Str("username", cmd.Username).Msg("Failed login attempt")
		return nil, badCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.RoleNames())
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).Uint("usuario_id", user.ID).Msg("User logged in")
	return &LoginResult{
		Token:     token,
		ExpiresIn: auth.TokenLifetimeSeconds(),
		User:      user,
	}, nil
}
