package client

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// RestCatalogClient calls the catalog service over HTTP/JSON.
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

// GetProduct fetches a product by id. 404 maps to NOT_FOUND, transport and
// 5xx failures map to DEPENDENCY_UNAVAILABLE.
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
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", productID)
	case resp.IsError():
		return nil, apierror.Newf(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de catálogo respondió %d", resp.StatusCode())
	}

	return &product, nil
}

// FallbackCatalogClient degrades product reads to a placeholder when the
// catalog is unreachable. Semantic absence (404) is still surfaced. Only
// read decoration goes through this wrapper, never write-path checks.
type FallbackCatalogClient struct {
	inner domain.CatalogClient
}

func NewFallbackCatalogClient(inner domain.CatalogClient) *FallbackCatalogClient {
	return &FallbackCatalogClient{inner: inner}
}

func (c *FallbackCatalogClient) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	product, err := c.inner.GetProduct(ctx, productID)
	if err == nil {
		return product, nil
	}
	if apierror.KindOf(err) == apierror.KindUnavailable {
		logger.Warn(ctx).
			Err(err).
			Uint("producto_id", productID).
			Msg("Catalog unavailable, serving placeholder product")
		return &domain.ProductInfo{ID: productID}, nil
	}
	return nil, err
}
