//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/inventory/client"
	"github.com/comerciolibre/backend/internal/inventory/delivery/http"
	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/internal/inventory/repository"
	"github.com/comerciolibre/backend/internal/inventory/usecase/command"
	"github.com/comerciolibre/backend/internal/inventory/usecase/query"
)

// ProvideStockRepository provides the stock repository
func ProvideStockRepository(db *gorm.DB) domain.StockRepository {
	return repository.NewGormStockRepository(db)
}

// ProvideCatalogClient provides the strict catalog client used by write
// paths: a catalog outage surfaces as an error instead of a placeholder
func ProvideCatalogClient(catalogURL string) domain.CatalogClient {
	return client.NewRestCatalogClient(catalogURL)
}

// ProvideReadCatalogClient provides the fallback-decorated client for
// read-side decoration only
func ProvideReadCatalogClient(catalogURL string) domain.ReadCatalogClient {
	return client.NewFallbackCatalogClient(client.NewRestCatalogClient(catalogURL))
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideStockRepository,
)

var ClientSet = wire.NewSet(
	ProvideCatalogClient,
	ProvideReadCatalogClient,
)

var CommandSet = wire.NewSet(
	command.NewCreateStockHandler,
	command.NewApplyMovementHandler,
	command.NewApplyBatchHandler,
	command.NewDeactivateStockHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetStockHandler,
	query.NewListStockHandler,
	query.NewBulkQuantitiesHandler,
	query.NewListMovementsHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, catalogURL string) (*http.StockHandler, error) {
	wire.Build(
		RepositorySet,
		ClientSet,
		CommandSet,
		QuerySet,
		http.NewStockHandler,
	)
	return nil, nil
}

// InitializeProductRegistrar initializes the consumer-side handler that opens
// stock rows for newly created products
func InitializeProductRegistrar(db *gorm.DB) (*command.RegisterProductHandler, error) {
	wire.Build(
		RepositorySet,
		command.NewRegisterProductHandler,
	)
	return nil, nil
}
