//go:build wireinject
// +build wireinject

package sales

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/sales/client"
	"github.com/comerciolibre/backend/internal/sales/delivery/http"
	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/internal/sales/repository"
	"github.com/comerciolibre/backend/internal/sales/usecase/command"
	"github.com/comerciolibre/backend/internal/sales/usecase/query"
)

// ProvideSaleRepository provides the sale repository
func ProvideSaleRepository(db *gorm.DB) domain.SaleRepository {
	return repository.NewGormSaleRepository(db)
}

// ProvideCustomerRepository provides the customer repository
func ProvideCustomerRepository(db *gorm.DB) domain.CustomerRepository {
	return repository.NewGormCustomerRepository(db)
}

// ProvideCatalogClient provides the catalog client
func ProvideCatalogClient(cfg ClientConfig) domain.CatalogClient {
	return client.NewRestCatalogClient(cfg.CatalogURL)
}

// ProvideInventoryClient provides the inventory client
func ProvideInventoryClient(cfg ClientConfig) domain.InventoryClient {
	return client.NewRestInventoryClient(cfg.InventoryURL)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideSaleRepository,
	ProvideCustomerRepository,
)

var ClientSet = wire.NewSet(
	ProvideCatalogClient,
	ProvideInventoryClient,
)

var CommandSet = wire.NewSet(
	command.NewPlaceSaleHandler,
	command.NewConfirmSaleHandler,
	command.NewCancelSaleHandler,
	command.NewCustomerHandler,
)

var QuerySet = wire.NewSet(
	query.NewGetSaleHandler,
	query.NewListSalesHandler,
	query.NewGetCustomerHandler,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, cfg ClientConfig, publisher command.SaleEventPublisher) (*http.SaleHandler, error) {
	wire.Build(
		RepositorySet,
		ClientSet,
		CommandSet,
		QuerySet,
		http.NewSaleHandler,
	)
	return nil, nil
}
