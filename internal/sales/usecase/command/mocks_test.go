package command

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/comerciolibre/backend/internal/sales/domain"
	"github.com/comerciolibre/backend/kafka"
)

type mockSaleRepo struct {
	mu     sync.Mutex
	sales  map[uint]*domain.Sale
	nextID uint

	createErr error
	findErr   error
	updateErr error

	// beforeUpdate runs just before UpdateStateIfPending takes the lock,
	// to simulate a concurrent transition winning the race.
	beforeUpdate func()
}

func newMockSaleRepo() *mockSaleRepo {
	return &mockSaleRepo{sales: make(map[uint]*domain.Sale), nextID: 1}
}

func (m *mockSaleRepo) CreateWithLines(sale *domain.Sale) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sale.ID = m.nextID
	m.nextID++
	for i := range sale.Lines {
		sale.Lines[i].SaleID = sale.ID
	}
	copied := *sale
	m.sales[sale.ID] = &copied
	return nil
}

func (m *mockSaleRepo) FindByID(id uint) (*domain.Sale, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockSaleRepo) FindByInvoice(invoiceNumber string) (*domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sales {
		if s.InvoiceNumber == invoiceNumber {
			copied := *s
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSaleRepo) FindByCustomerID(customerID uint, limit, offset int) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sale
	for _, s := range m.sales {
		if s.CustomerID == customerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockSaleRepo) FindAll(limit, offset int) ([]domain.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Sale
	for _, s := range m.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (m *mockSaleRepo) UpdateStateIfPending(id uint, newState string) (bool, error) {
	if m.updateErr != nil {
		return false, m.updateErr
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok || s.State != domain.StatePending {
		return false, nil
	}
	s.State = newState
	return true, nil
}

type mockCustomerRepo struct {
	customers map[uint]*domain.Customer
	nextID    uint
}

func newMockCustomerRepo() *mockCustomerRepo {
	return &mockCustomerRepo{customers: make(map[uint]*domain.Customer), nextID: 1}
}

func (m *mockCustomerRepo) Create(customer *domain.Customer) error {
	customer.ID = m.nextID
	m.nextID++
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

func (m *mockCustomerRepo) FindByID(id uint) (*domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCustomerRepo) FindByEmail(email string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCustomerRepo) FindAll(limit, offset int) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCustomerRepo) Save(customer *domain.Customer) error {
	copied := *customer
	m.customers[customer.ID] = &copied
	return nil
}

func (m *mockCustomerRepo) addActive(id uint, email string) {
	m.customers[id] = &domain.Customer{
		ID: id, FirstName: "Ana", LastName: "García", Email: email, Active: true,
	}
	if id >= m.nextID {
		m.nextID = id + 1
	}
}

type mockCatalog struct {
	products map[uint]*domain.ProductInfo
	err      error
	calls    []uint
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: make(map[uint]*domain.ProductInfo)}
}

func (m *mockCatalog) GetProduct(ctx context.Context, productID uint) (*domain.ProductInfo, error) {
	m.calls = append(m.calls, productID)
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[productID]
	if !ok {
		return nil, errors.New("product not found")
	}
	copied := *p
	return &copied, nil
}

func (m *mockCatalog) add(id uint, name string, price string) {
	m.products[id] = &domain.ProductInfo{
		ID:     id,
		Name:   name,
		Price:  decimal.RequireFromString(price),
		Active: true,
	}
}

type mockInventory struct {
	onHand map[uint]int

	quantitiesErr error
	batchOutErr   error

	batchItems  []domain.BatchOutItem
	batchReason string
	batchCalls  int
}

func newMockInventory() *mockInventory {
	return &mockInventory{onHand: make(map[uint]int)}
}

func (m *mockInventory) Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error) {
	if m.quantitiesErr != nil {
		return nil, m.quantitiesErr
	}
	out := make(map[uint]int, len(productIDs))
	for _, id := range productIDs {
		out[id] = m.onHand[id]
	}
	return out, nil
}

func (m *mockInventory) BatchOut(ctx context.Context, items []domain.BatchOutItem, reason string) error {
	m.batchCalls++
	m.batchItems = items
	m.batchReason = reason
	return m.batchOutErr
}

type mockPublisher struct {
	events []kafka.SaleCompletedEvent
	err    error
}

func (m *mockPublisher) PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error {
	m.events = append(m.events, event)
	return m.err
}
