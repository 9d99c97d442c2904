package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Sale states. The only legal transitions are PENDIENTE -> COMPLETADA and
// PENDIENTE -> CANCELADA.
const (
	StatePending   = "PENDIENTE"
	StateCompleted = "COMPLETADA"
	StateCancelled = "CANCELADA"
)

// Sale is the header of a sale. Monetary amounts are snapshots taken when
// the sale is placed and never recomputed afterwards.
type Sale struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	CustomerID    uint            `json:"cliente_id" gorm:"column:cliente_id;not null;index"`
	InvoiceNumber string          `json:"numero_factura" gorm:"column:numero_factura;uniqueIndex;not null"`
	SoldAt        time.Time       `json:"fecha_venta" gorm:"column:fecha_venta"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"column:subtotal;type:numeric(12,2);not null"`
	Tax           decimal.Decimal `json:"impuesto" gorm:"column:impuesto;type:numeric(12,2);not null"`
	Total         decimal.Decimal `json:"total" gorm:"column:total;type:numeric(12,2);not null"`
	State         string          `json:"estado" gorm:"column:estado;not null;default:'PENDIENTE'"`
	CreatedAt     time.Time       `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt     time.Time       `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
	Lines         []SaleLine      `json:"detalles" gorm:"foreignKey:SaleID"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "ventas"
}

// SaleLine is one product line of a sale. Name and unit price are copied
// from the catalog at placement time so later catalog edits do not change
// past sales.
type SaleLine struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	SaleID      uint            `json:"venta_id" gorm:"column:venta_id;not null;index"`
	ProductID   uint            `json:"producto_id" gorm:"column:producto_id;not null"`
	ProductName string          `json:"nombre_producto" gorm:"column:nombre_producto;not null"`
	Quantity    int             `json:"cantidad" gorm:"column:cantidad;not null"`
	UnitPrice   decimal.Decimal `json:"precio_unitario" gorm:"column:precio_unitario;type:numeric(12,2);not null"`
	Subtotal    decimal.Decimal `json:"subtotal" gorm:"column:subtotal;type:numeric(12,2);not null"`
}

// TableName specifies the table name
func (SaleLine) TableName() string {
	return "detalles_venta"
}

// ErrNotFound is returned when a sale or customer does not exist.
var ErrNotFound = errors.New("record not found")

// SaleRepository defines the contract for sale data access. Finders return
// sales with their lines populated.
type SaleRepository interface {
	// CreateWithLines persists the header and its lines in one transaction.
	CreateWithLines(sale *Sale) error
	FindByID(id uint) (*Sale, error)
	FindByInvoice(invoiceNumber string) (*Sale, error)
	FindByCustomerID(customerID uint, limit, offset int) ([]Sale, error)
	FindAll(limit, offset int) ([]Sale, error)
	// UpdateStateIfPending transitions the sale only when it is still
	// PENDIENTE and reports whether the transition happened.
	UpdateStateIfPending(id uint, newState string) (bool, error)
}

// ProductInfo is the catalog projection sales cares about.
type ProductInfo struct {
	ID     uint            `json:"id"`
	Name   string          `json:"nombre"`
	Price  decimal.Decimal `json:"precio"`
	Active bool            `json:"activo"`
}

// CatalogClient is the outbound contract to the catalog service.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID uint) (*ProductInfo, error)
}

// BatchOutItem is one line of an inventory stock-out batch.
type BatchOutItem struct {
	ProductID uint `json:"productoId"`
	Quantity  int  `json:"cantidad"`
}

// InventoryClient is the outbound contract to the inventory service.
// Quantities is an advisory read; BatchOut is the authoritative all-or-nothing
// decrement and never falls back.
type InventoryClient interface {
	Quantities(ctx context.Context, productIDs []uint) (map[uint]int, error)
	BatchOut(ctx context.Context, items []BatchOutItem, reason string) error
}
