package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/sales/domain"
)

type GormSaleRepository struct {
	db *gorm.DB
}

func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Sale{}, &domain.SaleLine{})
}

func (r *GormSaleRepository) CreateWithLines(sale *domain.Sale) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		lines := sale.Lines
		sale.Lines = nil
		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].SaleID = sale.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		sale.Lines = lines
		return nil
	})
}

func (r *GormSaleRepository) FindByID(id uint) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.First(&sale, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(&sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindByInvoice(invoiceNumber string) (*domain.Sale, error) {
	var sale domain.Sale
	err := r.db.Where("numero_factura = ?", invoiceNumber).First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(&sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindByCustomerID(customerID uint, limit, offset int) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.Where("cliente_id = ?", customerID).
		Order("fecha_venta desc").
		Limit(limit).Offset(offset).
		Find(&sales).Error
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if err := r.loadLines(&sales[i]); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *GormSaleRepository) FindAll(limit, offset int) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.Order("fecha_venta desc").Limit(limit).Offset(offset).Find(&sales).Error
	if err != nil {
		return nil, err
	}
	for i := range sales {
		if err := r.loadLines(&sales[i]); err != nil {
			return nil, err
		}
	}
	return sales, nil
}

func (r *GormSaleRepository) UpdateStateIfPending(id uint, newState string) (bool, error) {
	result := r.db.Model(&domain.Sale{}).
		Where("id = ? AND estado = ?", id, domain.StatePending).
		Update("estado", newState)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *GormSaleRepository) loadLines(sale *domain.Sale) error {
	return r.db.Where("venta_id = ?", sale.ID).Order("id asc").Find(&sale.Lines).Error
}

type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Customer{})
}

func (r *GormCustomerRepository) Create(customer *domain.Customer) error {
	return r.db.Create(customer).Error
}

func (r *GormCustomerRepository) FindByID(id uint) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormCustomerRepository) FindByEmail(email string) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormCustomerRepository) FindAll(limit, offset int) ([]domain.Customer, error) {
	var customers []domain.Customer
	err := r.db.Limit(limit).Offset(offset).Order("id asc").Find(&customers).Error
	return customers, err
}

func (r *GormCustomerRepository) Save(customer *domain.Customer) error {
	return r.db.Save(customer).Error
}
