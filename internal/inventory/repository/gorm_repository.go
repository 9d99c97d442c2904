package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/comerciolibre/backend/internal/inventory/domain"
)

type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.StockRow{}, &domain.StockMovement{})
}

func (r *GormStockRepository) Create(row *domain.StockRow) error {
	return r.db.Create(row).Error
}

func (r *GormStockRepository) FindByID(id uint) (*domain.StockRow, error) {
	var row domain.StockRow
	err := r.db.First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormStockRepository) FindByProductID(productID uint) (*domain.StockRow, error) {
	var row domain.StockRow
	err := r.db.Where("producto_id = ?", productID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *GormStockRepository) FindAll(limit, offset int) ([]domain.StockRow, error) {
	var rows []domain.StockRow
	err := r.db.Limit(limit).Offset(offset).Order("producto_id asc").Find(&rows).Error
	return rows, err
}

func (r *GormStockRepository) QuantitiesByProductIDs(productIDs []uint) (map[uint]int, error) {
	var rows []domain.StockRow
	if err := r.db.Where("producto_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return nil, err
	}

	quantities := make(map[uint]int, len(rows))
	for _, row := range rows {
		quantities[row.ProductID] = row.Quantity
	}
	return quantities, nil
}

func (r *GormStockRepository) Save(row *domain.StockRow) error {
	return r.db.Save(row).Error
}

func (r *GormStockRepository) MovementsByStockRowID(stockRowID uint, limit, offset int) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	err := r.db.Where("inventario_id = ?", stockRowID).
		Order("fecha_movimiento desc").
		Limit(limit).Offset(offset).
		Find(&movements).Error
	return movements, err
}

func (r *GormStockRepository) WithTx(fn func(tx domain.StockTx) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStockTx{tx: tx})
	})
}

// gormStockTx is the transactional view. Locks are plain SELECT ... FOR UPDATE
// row locks held until commit or rollback.
type gormStockTx struct {
	tx *gorm.DB
}

func (t *gormStockTx) LockByProductID(productID uint) (*domain.StockRow, error) {
	var row domain.StockRow
	err := t.tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("producto_id = ?", productID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (t *gormStockTx) Save(row *domain.StockRow) error {
	return t.tx.Save(row).Error
}

func (t *gormStockTx) AppendMovement(m *domain.StockMovement) error {
	return t.tx.Create(m).Error
}
