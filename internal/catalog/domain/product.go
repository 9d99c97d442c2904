package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Product is the authoritative catalog record. Sales and inventory read it
// but never write it.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"nombre" gorm:"column:nombre;not null"`
	Description string          `json:"descripcion" gorm:"column:descripcion"`
	Price       decimal.Decimal `json:"precio" gorm:"column:precio;type:numeric(12,2);not null"`
	ImageURL    string          `json:"imagen_url" gorm:"column:imagen_url"`
	Active      bool            `json:"activo" gorm:"column:activo;default:true"`
	CompanyID   uint            `json:"empresa_id" gorm:"column:empresa_id;index"`
	CategoryID  uint            `json:"categoria_id" gorm:"column:categoria_id;index"`
	CreatedAt   time.Time       `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt   time.Time       `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "productos"
}

// Category groups products.
type Category struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"nombre" gorm:"column:nombre;not null"`
	Description string    `json:"descripcion" gorm:"column:descripcion"`
	Active      bool      `json:"activo" gorm:"column:activo;default:true"`
	CreatedAt   time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt   time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categorias"
}

// Company is the legal entity that owns products. RUC is the tax id and
// must be unique.
type Company struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"nombre" gorm:"column:nombre;not null"`
	RUC       string    `json:"ruc" gorm:"column:ruc;uniqueIndex;not null"`
	Address   string    `json:"direccion" gorm:"column:direccion"`
	Phone     string    `json:"telefono" gorm:"column:telefono"`
	Active    bool      `json:"activo" gorm:"column:activo;default:true"`
	CreatedAt time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName specifies the table name
func (Company) TableName() string {
	return "empresas"
}

// ErrNotFound is returned when a catalog record does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository defines the contract for product data access.
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	Save(product *Product) error
}

// CategoryRepository defines the contract for category data access.
type CategoryRepository interface {
	Create(category *Category) error
	FindByID(id uint) (*Category, error)
	FindAll(limit, offset int) ([]Category, error)
	Save(category *Category) error
}

// CompanyRepository defines the contract for company data access.
type CompanyRepository interface {
	Create(company *Company) error
	FindByID(id uint) (*Company, error)
	FindByRUC(ruc string) (*Company, error)
	FindAll(limit, offset int) ([]Company, error)
	Save(company *Company) error
}

// InventoryClient is the outbound contract to the inventory service, used
// to decorate product listings with on-hand quantities.
type InventoryClient interface {
	Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error)
}
