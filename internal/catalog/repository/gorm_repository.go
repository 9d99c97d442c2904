package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/catalog/domain"
)

type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Category{}, &domain.Company{})
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Limit(limit).Offset(offset).Order("id asc").Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Save(product *domain.Product) error {
	return r.db.Save(product).Error
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var category domain.Category
	err := r.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindAll(limit, offset int) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Limit(limit).Offset(offset).Order("id asc").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Save(category *domain.Category) error {
	return r.db.Save(category).Error
}

type GormCompanyRepository struct {
	db *gorm.DB
}

func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

func (r *GormCompanyRepository) Create(company *domain.Company) error {
	return r.db.Create(company).Error
}

func (r *GormCompanyRepository) FindByID(id uint) (*domain.Company, error) {
	var company domain.Company
	err := r.db.First(&company, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *GormCompanyRepository) FindByRUC(ruc string) (*domain.Company, error) {
	var company domain.Company
	err := r.db.Where("ruc = ?", ruc).First(&company).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *GormCompanyRepository) FindAll(limit, offset int) ([]domain.Company, error) {
	var companies []domain.Company
	err := r.db.Limit(limit).Offset(offset).Order("id asc").Find(&companies).Error
	return companies, err
}

func (r *GormCompanyRepository) Save(company *domain.Company) error {
	return r.db.Save(company).Error
}
