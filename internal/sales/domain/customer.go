package domain

import "time"

// Customer represents a buyer. Sales reference customers by id and a sale
// can only be placed for an active customer.
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FirstName string    `json:"nombre" gorm:"column:nombre;not null"`
	LastName  string    `json:"apellido" gorm:"column:apellido;not null"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Phone     string    `json:"telefono" gorm:"column:telefono"`
	Address   string    `json:"direccion" gorm:"column:direccion"`
	Active    bool      `json:"activo" gorm:"column:activo;default:true"`
	CreatedAt time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "clientes"
}

// CustomerRepository defines the contract for customer data access.
type CustomerRepository interface {
	Create(customer *Customer) error
	FindByID(id uint) (*Customer, error)
	FindByEmail(email string) (*Customer, error)
	FindAll(limit, offset int) ([]Customer, error)
	Save(customer *Customer) error
}
