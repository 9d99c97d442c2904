package query

import (
	"context"
	"errors"

	"github.com/comerciolibre/backend/internal/auth/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// GetUserHandler serves user reads.
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler.
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// ByID returns one user with roles.
func (h *GetUserHandler) ByID(ctx context.Context, id uint) (*domain.User, error) {
	user, err := h.repo.FindByID(id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Usuario no encontrado: %d", id)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ByUsername returns the user behind a token subject.
func (h *GetUserHandler) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := h.repo.FindByUsername(username)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Usuario no encontrado: %s", username)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// List returns a page of users.
func (h *GetUserHandler) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 10
	}
	return h.repo.FindAll(limit, offset)
}

// Stats returns account totals broken down by role and active flag.
func (h *GetUserHandler) Stats(ctx context.Context) (*domain.RoleStats, error) {
	return h.repo.Stats()
}
