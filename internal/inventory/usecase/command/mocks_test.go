package command

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/comerciolibre/backend/internal/inventory/domain"
)

// mockStockRepo keeps rows and movements in memory. WithTx snapshots state
// before fn runs and restores it when fn fails, mirroring a rollback.
type mockStockRepo struct {
	mu        sync.Mutex
	rows      map[uint]*domain.StockRow // keyed by product id
	movements []domain.StockMovement
	nextID    uint

	txErr error

	// lockOrder records the product ids locked inside transactions.
	lockOrder []uint
}

func newMockStockRepo() *mockStockRepo {
	return &mockStockRepo{rows: make(map[uint]*domain.StockRow), nextID: 1}
}

func (m *mockStockRepo) seed(productID uint, quantity int) {
	m.rows[productID] = &domain.StockRow{
		ID:        m.nextID,
		ProductID: productID,
		Quantity:  quantity,
		Location:  "principal",
		Active:    true,
	}
	m.nextID++
}

func (m *mockStockRepo) Create(row *domain.StockRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row.ID = m.nextID
	m.nextID++
	copied := *row
	m.rows[row.ProductID] = &copied
	return nil
}

func (m *mockStockRepo) FindByID(id uint) (*domain.StockRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			copied := *row
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockStockRepo) FindByProductID(productID uint) (*domain.StockRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (m *mockStockRepo) FindAll(limit, offset int) ([]domain.StockRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.StockRow, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockStockRepo) QuantitiesByProductIDs(productIDs []uint) (map[uint]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]int)
	for _, id := range productIDs {
		if row, ok := m.rows[id]; ok {
			out[id] = row.Quantity
		}
	}
	return out, nil
}

func (m *mockStockRepo) Save(row *domain.StockRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *row
	m.rows[row.ProductID] = &copied
	return nil
}

func (m *mockStockRepo) MovementsByStockRowID(stockRowID uint, limit, offset int) ([]domain.StockMovement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StockMovement
	for _, mv := range m.movements {
		if mv.StockRowID == stockRowID {
			out = append(out, mv)
		}
	}
	return out, nil
}

func (m *mockStockRepo) WithTx(fn func(tx domain.StockTx) error) error {
	if m.txErr != nil {
		return m.txErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Snapshot for rollback.
	rowsBackup := make(map[uint]*domain.StockRow, len(m.rows))
	for id, row := range m.rows {
		copied := *row
		rowsBackup[id] = &copied
	}
	movementsBackup := len(m.movements)

	tx := &mockStockTx{repo: m}
	if err := fn(tx); err != nil {
		m.rows = rowsBackup
		m.movements = m.movements[:movementsBackup]
		return err
	}
	return nil
}

type mockStockTx struct {
	repo *mockStockRepo
}

func (t *mockStockTx) LockByProductID(productID uint) (*domain.StockRow, error) {
	t.repo.lockOrder = append(t.repo.lockOrder, productID)
	row, ok := t.repo.rows[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (t *mockStockTx) Save(row *domain.StockRow) error {
	copied := *row
	t.repo.rows[row.ProductID] = &copied
	return nil
}

func (t *mockStockTx) AppendMovement(mv *domain.StockMovement) error {
	mv.ID = uint(len(t.repo.movements) + 1)
	t.repo.movements = append(t.repo.movements, *mv)
	return nil
}

type mockCatalogClient struct {
	products map[uint]*domain.ProductInfo
	err      error
}

func newMockCatalogClient() *mockCatalogClient {
	return &mockCatalogClient{products: make(map[uint]*domain.ProductInfo)}
}

func (m *mockCatalogClient) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalogClient) add(id uint, name string, price string) {
	m.products[id] = &domain.ProductInfo{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
}
