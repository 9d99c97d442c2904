package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/internal/sales/usecase/command"
	"github.com/comerciolibre/backend/internal/sales/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/auth"
)

type stubSaleRepo struct {
	sales  map[uint]*domain.Sale
	nextID uint
}

func (s *stubSaleRepo) CreateWithLines(sale *domain.Sale) error {
	sale.ID = s.nextID
	s.nextID++
	copied := *sale
	s.sales[sale.ID] = &copied
	return nil
}

func (s *stubSaleRepo) FindByID(id uint) (*domain.Sale, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (s *stubSaleRepo) FindByInvoice(invoiceNumber string) (*domain.Sale, error) {
	for _, sale := range s.sales {
		if sale.InvoiceNumber == invoiceNumber {
			copied := *sale
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubSaleRepo) FindByCustomerID(customerID uint, limit, offset int) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, sale := range s.sales {
		if sale.CustomerID == customerID {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (s *stubSaleRepo) FindAll(limit, offset int) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	return out, nil
}

func (s *stubSaleRepo) UpdateStateIfPending(id uint, newState string) (bool, error) {
	sale, ok := s.sales[id]
	if !ok || sale.State != domain.StatePending {
		return false, nil
	}
	sale.State = newState
	return true, nil
}

type stubCustomerRepo struct {
	customers map[uint]*domain.Customer
	nextID    uint
}

func (s *stubCustomerRepo) Create(customer *domain.Customer) error {
	customer.ID = s.nextID
	s.nextID++
	copied := *customer
	s.customers[customer.ID] = &copied
	return nil
}

func (s *stubCustomerRepo) FindByID(id uint) (*domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (s *stubCustomerRepo) FindByEmail(email string) (*domain.Customer, error) {
	for _, c := range s.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubCustomerRepo) FindAll(limit, offset int) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (s *stubCustomerRepo) Save(customer *domain.Customer) error {
	copied := *customer
	s.customers[customer.ID] = &copied
	return nil
}

type stubCatalog struct {
	products map[uint]*domain.ProductInfo
}

func (s *stubCatalog) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", productID)
	}
	copied := *p
	return &copied, nil
}

type stubInventory struct {
	onHand      map[uint]int
	batchOutErr error
}

func (s *stubInventory) Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = s.onHand[id]
	}
	return out, nil
}

func (s *stubInventory) BatchOut(ctx context.Context, items []domain.BatchOutItem, reason string) error {
	if s.batchOutErr != nil {
		return s.batchOutErr
	}
	for _, item := range items {
		s.onHand[item.ProductID] -= item.Quantity
	}
	return nil
}

func bearer(t *testing.T, roles ...string) string {
	t.Helper()
	token, err := auth.GenerateToken(7, "ana", roles)
	require.NoError(t, err)
	return "Bearer " + token
}

// The prometheus collectors registered by NewSaleHandler are process-global,
// so a single handler instance backs every subtest.
func TestSaleRoutes(t *testing.T) {
	saleRepo := &stubSaleRepo{sales: make(map[uint]*domain.Sale), nextID: 1}
	customerRepo := &stubCustomerRepo{customers: make(map[uint]*domain.Customer), nextID: 1}
	catalog := &stubCatalog{products: map[uint]*domain.ProductInfo{
		10: {ID: 10, Name: "Teclado", Price: decimal.RequireFromString("5.50"), Active: true},
	}}
	inventory := &stubInventory{onHand: map[uint]int{10: 50}}

	customerRepo.customers[1] = &domain.Customer{
		ID: 1, FirstName: "Ana", LastName: "García", Email: "ana@example.com", Active: true,
	}
	customerRepo.customers[2] = &domain.Customer{
		ID: 2, FirstName: "Luis", LastName: "Pérez", Email: "luis@example.com", Active: true,
	}

	handler := NewSaleHandler(
		command.NewPlaceSaleHandler(saleRepo, customerRepo, catalog, inventory),
		command.NewConfirmSaleHandler(saleRepo, inventory, nil),
		command.NewCancelSaleHandler(saleRepo),
		command.NewCustomerHandler(customerRepo),
		query.NewGetSaleHandler(saleRepo),
		query.NewListSalesHandler(saleRepo, customerRepo),
		query.NewGetCustomerHandler(customerRepo),
	)

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	do := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	placeBody := map[string]interface{}{
		"clienteId": 1,
		"detalles":  []map[string]interface{}{{"productoId": 10, "cantidad": 2}},
	}

	t.Run("place sale requires token", func(t *testing.T) {
		rec := do("POST", "/api/ventas", "", placeBody)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var payload apierror.Payload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, apierror.CodeUnauthenticated, payload.Codigo)
	})

	var saleID uint
	t.Run("place sale", func(t *testing.T) {
		rec := do("POST", "/api/ventas", bearer(t, auth.RoleUser), placeBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		var sale domain.Sale
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
		assert.Equal(t, domain.StatePending, sale.State)
		assert.Equal(t, "11.00", sale.Subtotal.StringFixed(2))
		assert.Equal(t, "1.65", sale.Tax.StringFixed(2))
		assert.Equal(t, "12.65", sale.Total.StringFixed(2))
		saleID = sale.ID
	})

	t.Run("get sale by id", func(t *testing.T) {
		rec := do("GET", fmt.Sprintf("/api/ventas/%d", saleID), "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do("GET", "/api/ventas/999", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = do("GET", "/api/ventas/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("confirm sale", func(t *testing.T) {
		rec := do("PUT", fmt.Sprintf("/api/ventas/%d/completar", saleID), bearer(t, auth.RoleUser), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var sale domain.Sale
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))
		assert.Equal(t, domain.StateCompleted, sale.State)
		assert.Equal(t, 48, inventory.onHand[10])
	})

	t.Run("second confirm conflicts", func(t *testing.T) {
		rec := do("PUT", fmt.Sprintf("/api/ventas/%d/completar", saleID), bearer(t, auth.RoleUser), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		// No further decrement happened.
		assert.Equal(t, 48, inventory.onHand[10])
	})

	t.Run("cancel completed sale conflicts", func(t *testing.T) {
		rec := do("PUT", fmt.Sprintf("/api/ventas/%d/cancelar", saleID), bearer(t, auth.RoleUser), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("confirm failure leaves sale pending", func(t *testing.T) {
		rec := do("POST", "/api/ventas", bearer(t, auth.RoleUser), placeBody)
		require.Equal(t, http.StatusCreated, rec.Code)
		var sale domain.Sale
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sale))

		inventory.batchOutErr = apierror.New(apierror.KindConflict, apierror.CodeInsufficientStock,
			"Stock insuficiente")
		defer func() { inventory.batchOutErr = nil }()

		rec = do("PUT", fmt.Sprintf("/api/ventas/%d/completar", sale.ID), bearer(t, auth.RoleUser), nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		stored, err := saleRepo.FindByID(sale.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatePending, stored.State)
	})

	t.Run("customer delete is admin only", func(t *testing.T) {
		rec := do("DELETE", "/api/clientes/2", bearer(t, auth.RoleUser), nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = do("DELETE", "/api/clientes/2", bearer(t, auth.RoleUser, auth.RoleAdmin), nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		stored, err := customerRepo.FindByID(2)
		require.NoError(t, err)
		assert.False(t, stored.Active)
	})

	t.Run("customer reads are open", func(t *testing.T) {
		rec := do("GET", "/api/clientes", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = do("GET", "/api/clientes/1", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
