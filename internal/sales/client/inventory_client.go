package client

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/pkg/apierror"
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

// Quantities fetches the on-hand quantity for a set of products in one call.
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

// BatchOut applies an all-or-nothing stock-out. The inventory error payload
// is re-tagged so the caller sees the same taxonomy the inventory service
// produced: insufficient stock stays a conflict, unknown products stay not
// found, anything else is unavailability.
func (c *RestInventoryClient) BatchOut(ctx context.Context, items []domain.BatchOutItem, reason string) error {
	var remote apierror.Payload
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{"items": items, "motivo": reason}).
		SetError(&remote).
		Post("/api/inventarios/salida-lote")
	if err != nil {
		return apierror.Wrap(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de inventario no disponible", err)
	}
	if !resp.IsError() {
		return nil
	}

	message := remote.Mensaje
	if message == "" {
		message = "El servicio de inventario rechazó la salida"
	}
	switch resp.StatusCode() {
	case http.StatusConflict:
		return apierror.New(apierror.KindConflict, apierror.CodeInsufficientStock, message)
	case http.StatusNotFound:
		return apierror.New(apierror.KindNotFound, apierror.CodeUnknownProduct, message)
	case http.StatusBadRequest:
		return apierror.New(apierror.KindValidation, apierror.CodeValidation, message)
	default:
		return apierror.Newf(apierror.KindUnavailable, apierror.CodeUnavailable,
			"Servicio de inventario respondió %d", resp.StatusCode())
	}
}
