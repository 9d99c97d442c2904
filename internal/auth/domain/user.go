package domain

import (
	"errors"
	"time"
)

// User is an account that can authenticate against the platform.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"column:username;uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"column:email;uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"column:password;not null"`
	Active    bool      `json:"activo" gorm:"column:activo;default:true"`
	CreatedAt time.Time `json:"fecha_creacion" gorm:"column:fecha_creacion"`
	UpdatedAt time.Time `json:"fecha_actualizacion" gorm:"column:fecha_actualizacion"`
	Roles     []UserRole `json:"roles" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "usuarios"
}

// UserRole grants one authority string to a user.
type UserRole struct {
	ID     uint   `json:"-" gorm:"primaryKey"`
	UserID uint   `json:"-" gorm:"column:usuario_id;not null;index"`
	Role   string `json:"role" gorm:"column:rol;not null"`
}

// TableName specifies the table name
func (UserRole) TableName() string {
	return "usuario_roles"
}

// RoleNames flattens the user's roles to plain strings.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}

// HasRole reports whether the user holds the given authority.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// ErrNotFound is returned when a user does not exist.
var ErrNotFound = errors.New("user not found")

// RoleStats is the per-role account count returned by the stats query.
type RoleStats struct {
	Total    int64            `json:"total"`
	Active   int64            `json:"activos"`
	Inactive int64            `json:"inactivos"`
	ByRole   map[string]int64 `json:"por_rol"`
}

// UserRepository defines the contract for user data access.
type UserRepository interface {
	Create(user *User) error
	FindByID(id uint) (*User, error)
	FindByUsername(username string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAll(limit, offset int) ([]User, error)
	Save(user *User) error
	// ReplaceRoles swaps the user's role set atomically.
	ReplaceRoles(userID uint, roles []string) error
	Stats() (*RoleStats, error)
}
