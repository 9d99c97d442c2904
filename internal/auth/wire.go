//go:build wireinject
// +build wireinject

package auth

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/auth/delivery/http"
	"github.com/comerciolibre/backend/internal/auth/domain"
	"github.com/comerciolibre/backend/internal/auth/repository"
	"github.com/comerciolibre/backend/internal/auth/usecase/command"
	"github.com/comerciolibre/backend/internal/auth/usecase/query"
)

// ProvideUserRepository provides the user repository
func ProvideUserRepository(db *gorm.DB) domain.UserRepository {
	return repository.NewGormUserRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideUserRepository,
)

var CommandSet = wire.NewSet(
	command.NewUserHandler,
	command.NewLoginHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetUserHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.UserHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewUserHandler,
	)
	return nil, nil
}
