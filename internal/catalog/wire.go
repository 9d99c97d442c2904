//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/catalog/client"
	"github.com/comerciolibre/backend/internal/catalog/delivery/http"
	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/internal/catalog/repository"
	"github.com/comerciolibre/backend/internal/catalog/usecase/command"
	"github.com/comerciolibre/backend/internal/catalog/usecase/query"
)

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

// ProvideCategoryRepository provides the category repository
func ProvideCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return repository.NewGormCategoryRepository(db)
}

// ProvideCompanyRepository provides the company repository
func ProvideCompanyRepository(db *gorm.DB) domain.CompanyRepository {
	return repository.NewGormCompanyRepository(db)
}

// ProvideInventoryClient provides the inventory client with the fallback decorator
func ProvideInventoryClient(inventoryURL string) domain.InventoryClient {
	return client.NewFallbackInventoryClient(client.NewRestInventoryClient(inventoryURL))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideCategoryRepository,
	ProvideCompanyRepository,
)

var ClientSet = wire.NewSet(
	ProvideInventoryClient,
)

var CommandSet = wire.NewSet(
	command.NewProductHandler,
	command.NewCategoryHandler,
	command.NewCompanyHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetProductHandler,
	query.NewGetCategoryHandler,
	query.NewGetCompanyHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, inventoryURL string, publisher command.ProductEventPublisher) (*http.CatalogHandler, error) {
	wire.Build(
		RepositorySet,
		ClientSet,
		CommandSet,
		QuerySet,
		http.NewCatalogHandler,
	)
	return nil, nil
}
