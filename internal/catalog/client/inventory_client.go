package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/logger"
)

// RestInventoryClient calls the inventory service over HTTP/JSON.
type RestInventoryClient struct {
	http *resty.Client
}

// NewRestInventoryClient creates an inventory client with the standard timeouts.
func NewRestInventoryClient(baseURL string) *RestInventoryClient {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetTransport(&http.Transport{
			DialContext: (&net.Dialer{Timeout: 2 * time.Second}).DialContext,
		})
	return &RestInventoryClient{http: c}
}

// Quantities fetches on-hand quantities for a set of products in one call.
func (c *RestInventoryClient) Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	quantities := make(map[uint]int)
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(productIDs).
		SetResult(&quantities).
		Post("/api/inventarios/cantidad/batch")
	if err != nil {
		return nil, apierror.Wrap(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de inventario no disponible", err)
	}
	if resp.IsError() {
		return nil, apierror.Newf(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de inventario respondió %d", resp.StatusCode())
	}
	return quantities, nil
}

// FallbackInventoryClient degrades quantity reads to zero when the inventory
// service is unreachable. Listing products still works, they just show no
// stock. Only read decoration goes through this wrapper.
type FallbackInventoryClient struct {
	inner *RestInventoryClient
}

func NewFallbackInventoryClient(inner *RestInventoryClient) *FallbackInventoryClient {
	return &FallbackInventoryClient{inner: inner}
}

func (c *FallbackInventoryClient) Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	quantities, err := c.inner.Quantities(ctx, productIDs)
	if err == nil {
		return quantities, nil
	}
	if apierror.KindOf(err) == apierror.KindUnavailable {
		logger.Warn(ctx).
			Err(err).
			Int("productos", len(productIDs)).
			Msg("Inventory unavailable, serving zero quantities")
		zeroes := make(map[uint]int, len(productIDs))
		for _, id := range productIDs {
			zeroes[id] = 0
		}
		return zeroes, nil
	}
	return nil, err
}
