package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
)

// RestCatalogClient calls the catalog service over HTTP/JSON. Sales never
// falls back on catalog reads: a sale priced against a placeholder would be
// wrong, so unavailability fails the operation.
type RestCatalogClient struct {
	http *resty.Client
}

// NewRestCatalogClient creates a catalog client with the standard timeouts.
func NewRestCatalogClient(baseURL string) *RestCatalogClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetTransport(&http.Transport{
			DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
		})
	return &RestCatalogClient{http: c}
}

// GetProduct fetches a product by id. 404 maps to UNKNOWN_PRODUCT, transport
// and 5xx failures map to DEPENDENCY_UNAVAILABLE.
func (c *RestCatalogClient) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	var product domain.ProductInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&product).
		Get(fmt.Sprintf("/api/productos/%d", productID))
	if err != nil {
		return nil, apierror.Wrap(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de catálogo no disponible", err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeUnknownProduct,
			"Producto no encontrado: %d", productID)
	case resp.IsError():
		return nil, apierror.Newf(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de catálogo respondió %d", resp.StatusCode())
	}

	return &product, nil
}
