package command

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/comerciolibre/backend/internal/catalog/domain"
	"github.com/comerciolibre/backend/kafka"
)

type mockProductRepo struct {
	products  map[uint]*domain.Product
	nextID    uint
	createErr error
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[uint]*domain.Product), nextID: 1}
}

func (m *mockProductRepo) add(name string, price string, companyID uint) *domain.Product {
	p := &domain.Product{
		ID: m.nextID, Name: name, Price: decimal.RequireFromString(price),
		CompanyID: companyID, Active: true,
	}
	m.nextID++
	m.products[p.ID] = p
	return p
}

func (m *mockProductRepo) Create(product *domain.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *mockProductRepo) FindByID(id uint) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *mockProductRepo) FindAll(limit, offset int) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockProductRepo) Save(product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

type mockCompanyRepo struct {
	companies map[uint]*domain.Company
	nextID    uint
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{companies: make(map[uint]*domain.Company), nextID: 1}
}

func (m *mockCompanyRepo) add(name, ruc string) *domain.Company {
	c := &domain.Company{ID: m.nextID, Name: name, RUC: ruc, Active: true}
	m.nextID++
	m.companies[c.ID] = c
	return c
}

func (m *mockCompanyRepo) Create(company *domain.Company) error {
	company.ID = m.nextID
	m.nextID++
	copied := *company
	m.companies[company.ID] = &copied
	return nil
}

func (m *mockCompanyRepo) FindByID(id uint) (*domain.Company, error) {
	c, ok := m.companies[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCompanyRepo) FindByRUC(ruc string) (*domain.Company, error) {
	for _, c := range m.companies {
		if c.RUC == ruc {
			copied := *c
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCompanyRepo) FindAll(limit, offset int) ([]domain.Company, error) {
	out := make([]domain.Company, 0, len(m.companies))
	for _, c := range m.companies {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCompanyRepo) Save(company *domain.Company) error {
	copied := *company
	m.companies[company.ID] = &copied
	return nil
}

type mockCategoryRepo struct {
	categories map[uint]*domain.Category
	nextID     uint
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[uint]*domain.Category), nextID: 1}
}

func (m *mockCategoryRepo) Create(category *domain.Category) error {
	category.ID = m.nextID
	m.nextID++
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

func (m *mockCategoryRepo) FindByID(id uint) (*domain.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockCategoryRepo) FindAll(limit, offset int) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *mockCategoryRepo) Save(category *domain.Category) error {
	copied := *category
	m.categories[category.ID] = &copied
	return nil
}

type mockProductPublisher struct {
	events []kafka.ProductCreatedEvent
	err    error
}

func (m *mockProductPublisher) PublishProductCreated(ctx context.Context, event kafka.ProductCreatedEvent) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}
