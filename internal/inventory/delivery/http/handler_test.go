package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comerciolibre/backend/internal/inventory/domain"
	"github.com/comerciolibre/backend/internal/inventory/usecase/command"
	"github.com/comerciolibre/backend/internal/inventory/usecase/query"
	"github.com/comerciolibre/backend/pkg/apierror"
	"github.com/comerciolibre/backend/pkg/auth"
)

type stubStockRepo struct {
	rows      map[uint]*domain.StockRow
	movements []domain.StockMovement
	nextID    uint
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{rows: make(map[uint]*domain.StockRow), nextID: 1}
}

func (s *stubStockRepo) seed(productID uint, quantity int) *domain.StockRow {
	row := &domain.StockRow{
		ID: s.nextID, ProductID: productID, Quantity: quantity,
		Location: "principal", Active: true,
	}
	s.nextID++
	s.rows[productID] = row
	return row
}

func (s *stubStockRepo) Create(row *domain.StockRow) error {
	row.ID = s.nextID
	s.nextID++
	copied := *row
	s.rows[row.ProductID] = &copied
	return nil
}

func (s *stubStockRepo) FindByID(id uint) (*domain.StockRow, error) {
	for _, row := range s.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubStockRepo) FindByProductID(productID uint) (*domain.StockRow, error) {
	row, ok := s.rows[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (s *stubStockRepo) FindAll(limit, offset int) ([]domain.StockRow, error) {
	out := make([]domain.StockRow, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStockRepo) QuantitiesByProductIDs(productIDs []uint) (map[uint]int, error) {
	out := make(map[uint]int)
	for _, id := range productIDs {
		if row, ok := s.rows[id]; ok {
			out[id] = row.Quantity
		}
	}
	return out, nil
}

func (s *stubStockRepo) Save(row *domain.StockRow) error {
	copied := *row
	s.rows[row.ProductID] = &copied
	return nil
}

func (s *stubStockRepo) MovementsByStockRowID(stockRowID uint, limit, offset int) ([]domain.StockMovement, error) {
	var out []domain.StockMovement
	for _, mv := range s.movements {
		if mv.StockRowID == stockRowID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (s *stubStockRepo) WithTx(fn func(tx domain.StockTx) error) error {
	backup := make(map[uint]*domain.StockRow, len(s.rows))
	for id, row := range s.rows {
		copied := *row
		backup[id] = &copied
	}
	count := len(s.movements)
	if err := fn(&stubStockTx{repo: s}); err != nil {
		s.rows = backup
		s.movements = s.movements[:count]
		return err
	}
	return nil
}

type stubStockTx struct {
	repo *stubStockRepo
}

func (t *stubStockTx) LockByProductID(productID uint) (*domain.StockRow, error) {
	row, ok := t.repo.rows[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (t *stubStockTx) Save(row *domain.StockRow) error {
	copied := *row
	t.repo.rows[row.ProductID] = &copied
	return nil
}

func (t *stubStockTx) AppendMovement(mv *domain.StockMovement) error {
	t.repo.movements = append(t.repo.movements, *mv)
	return nil
}

type stubCatalogClient struct {
	products map[uint]*domain.ProductInfo
}

func (s *stubCatalogClient) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	p, ok := s.products[productID]
	if !ok {
		return nil, apierror.Newf(apierror.KindNotFound, apierror.CodeNotFound,
			"Producto no encontrado: %d", productID)
	}
	copied := *p
	return &copied, nil
}

func adminBearer(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(1, "admin", []string{auth.RoleUser, auth.RoleAdmin})
	require.NoError(t, err)
	return "Bearer " + token
}

// A single handler instance backs every subtest because the prometheus
// collectors are process-global.
func TestStockRoutes(t *testing.T) {
	repo := newStubStockRepo()
	catalog := &stubCatalogClient{products: map[uint]*domain.ProductInfo{
		10: {ID: 10, Name: "Teclado", Price: decimal.RequireFromString("5.50"), Active: true},
		20: {ID: 20, Name: "Mouse", Price: decimal.RequireFromString("3.00"), Active: true},
	}}

	repo.seed(10, 5)
	repo.seed(20, 8)

	handler := NewStockHandler(
		command.NewCreateStockHandler(repo, catalog),
		command.NewApplyMovementHandler(repo),
		command.NewApplyBatchHandler(repo),
		command.NewDeactivateStockHandler(repo),
		query.NewGetStockHandler(repo),
		query.NewListStockHandler(repo, catalog),
		query.NewBulkQuantitiesHandler(repo),
		query.NewListMovementsHandler(repo),
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

	batch := func(items ...domain.BatchItem) map[string]interface{} {
		return map[string]interface{}{"items": items, "motivo": "Venta #FACT-1"}
	}

	t.Run("bulk quantities", func(t *testing.T) {
		rec := do("POST", "/api/inventarios/cantidad/batch", "", []uint{10, 20, 99})
		require.Equal(t, http.StatusOK, rec.Code)

		var quantities map[uint]int
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quantities))
		assert.Equal(t, map[uint]int{10: 5, 20: 8, 99: 0}, quantities)
	})

	t.Run("batch out succeeds", func(t *testing.T) {
		rec := do("POST", "/api/inventarios/salida-lote", "",
			batch(domain.BatchItem{ProductID: 10, Quantity: 2}, domain.BatchItem{ProductID: 20, Quantity: 3}))
		require.Equal(t, http.StatusOK, rec.Code)

		var rows []domain.StockRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, 3, rows[0].Quantity)
		assert.Equal(t, 5, rows[1].Quantity)
	})

	t.Run("batch out insufficient stock is 409", func(t *testing.T) {
		rec := do("POST", "/api/inventarios/salida-lote", "",
			batch(domain.BatchItem{ProductID: 10, Quantity: 100}))
		assert.Equal(t, http.StatusConflict, rec.Code)

		var payload apierror.Payload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, apierror.CodeInsufficientStock, payload.Codigo)
	})

	t.Run("batch out unknown product is 404", func(t *testing.T) {
		rec := do("POST", "/api/inventarios/salida-lote", "",
			batch(domain.BatchItem{ProductID: 99, Quantity: 1}))
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var payload apierror.Payload
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, apierror.CodeUnknownProduct, payload.Codigo)
	})

	t.Run("batch out empty items is 400", func(t *testing.T) {
		rec := do("POST", "/api/inventarios/salida-lote", "", batch())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create stock is admin only", func(t *testing.T) {
		body := map[string]interface{}{"productoId": 30, "cantidad": 1}

		rec := do("POST", "/api/inventarios", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		catalog.products[30] = &domain.ProductInfo{ID: 30, Name: "Monitor", Active: true}
		rec = do("POST", "/api/inventarios", adminBearer(t), body)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("update stock applies movement", func(t *testing.T) {
		rec := do("PUT", "/api/inventarios/producto/10/stock?cantidad=7&tipoMovimiento=ENTRADA&motivo=Reposicion",
			adminBearer(t), nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var row domain.StockRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &row))
		assert.Equal(t, 10, row.Quantity)
	})

	t.Run("movements ledger is served", func(t *testing.T) {
		row, err := repo.FindByProductID(10)
		require.NoError(t, err)

		rec := do("GET", fmt.Sprintf("/api/movimientos/inventario/%d", row.ID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var movements []domain.StockMovement
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &movements))
		assert.NotEmpty(t, movements)
	})
}
