package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// StockRow holds the on-hand quantity for a single product.
// There is at most one row per product and its quantity never goes
// negative after a committed movement.
type StockRow struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"producto_id" gorm:"column:producto_id;uniqueIndex;not null"`
	Quantity  int       `json:"cantidad" gorm:"column:cantidad;not null;default:0;check:cantidad >= 0"`
	Location  string    `json:"ubicacion" gorm:"column:ubicacion;default:'principal'"`
	Active    bool      `json:"activo" gorm:"column:activo;default:true"`
	CreatedAt time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName specifies the table name
func (StockRow) TableName() string {
	return "inventarios"
}

// Movement kinds. AJUSTE sets the absolute quantity, the other two are deltas.
const (
	MovementIn     = "ENTRADA"
	MovementOut    = "SALIDA"
	MovementAdjust = "AJUSTE"
)

// ValidMovementKind reports whether kind is a known movement type.
func ValidMovementKind(kind string) bool {
	return kind == MovementIn || kind == MovementOut || kind == MovementAdjust
}

// StockMovement is an append-only ledger entry. Movements are immutable facts:
// they are never updated or deleted.
type StockMovement struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StockRowID uint      `json:"inventario_id" gorm:"column:inventario_id;not null;index"`
	Kind       string    `json:"tipo_movimiento" gorm:"column:tipo_movimiento;not null"`
	Quantity   int       `json:"cantidad" gorm:"column:cantidad;not null"`
	Reason     string    `json:"motivo" gorm:"column:motivo"`
	ActorID    uint      `json:"usuario_id" gorm:"column:usuario_id"`
	MovedAt    time.Time `json:"fecha_movimiento" gorm:"column:fecha_movimiento"`
}

// TableName specifies the table name
func (StockMovement) TableName() string {
	return "movimientos_inventario"
}

// BatchItem is one line of an all-or-nothing stock-out batch.
type BatchItem struct {
	ProductID uint `json:"productoId"`
	Quantity  int  `json:"cantidad"`
}

// ErrNotFound is returned when a stock row does not exist.
var ErrNotFound = errors.New("stock row not found")

// StockRepository defines the contract for inventory data access.
type StockRepository interface {
	Create(row *StockRow) error
	FindByID(id uint) (*StockRow, error)
	FindByProductID(productID uint) (*StockRow, error)
	FindAll(limit, offset int) ([]StockRow, error)
	// QuantitiesByProductIDs returns a product->quantity map. Products
	// without a stock row are simply absent from the result.
	QuantitiesByProductIDs(productIDs []uint) (map[uint]int, error)
	Save(row *StockRow) error
	MovementsByStockRowID(stockRowID uint, limit, offset int) ([]StockMovement, error)
	// WithTx runs fn inside a single database transaction. All stock
	// mutation goes through the transactional view.
	WithTx(fn func(tx StockTx) error) error
}

// StockTx is the transactional view used for movement application. Lock
// acquires a per-row exclusive lock held until the transaction ends.
type StockTx interface {
	LockByProductID(productID uint) (*StockRow, error)
	Save(row *StockRow) error
	AppendMovement(m *StockMovement) error
}

// ProductInfo is the catalog projection inventory cares about.
type ProductInfo struct {
	ID     uint            `json:"id"`
	Name   string          `json:"nombre"`
	Price  decimal.Decimal `json:"precio"`
	Active bool            `json:"activo"`
}

// CatalogClient is the outbound contract to the catalog service. Write
// paths use it directly: a catalog outage must fail the write.
type CatalogClient interface {
	GetProduct(ctx context.Context, productID uint) (*ProductInfo, error)
}

// ReadCatalogClient is the contract for read-side decoration. It may be
// backed by a degraded client that serves placeholders during outages,
// so it must never gate a write.
type ReadCatalogClient interface {
	GetProduct(ctx context.Context, productID uint) (*ProductInfo, error)
}
