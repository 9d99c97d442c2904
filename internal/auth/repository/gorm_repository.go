package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/comerciolibre/backend/internal/auth/domain"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{}, &domain.UserRole{})
}

func (r *GormUserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) FindByID(id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Roles").Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	err := r.db.Preload("Roles").Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) FindAll(limit, offset int) ([]domain.User, error) {
	var users []domain.User
	err := r.db.Preload("Roles").Limit(limit).Offset(offset).Order("id asc").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) Save(user *domain.User) error {
	return r.db.Omit("Roles").Save(user).Error
}

func (r *GormUserRepository) ReplaceRoles(userID uint, roles []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("usuario_id = ?", userID).Delete(&domain.UserRole{}).Error; err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Create(&domain.UserRole{UserID: userID, Role: role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormUserRepository) Stats() (*domain.RoleStats, error) {
	stats := &domain.RoleStats{ByRole: make(map[string]int64)}

	if err := r.db.Model(&domain.User{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&domain.User{}).Where("activo = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active

	type roleCount struct {
		Role  string
		Count int64
	}
	var counts []roleCount
	err := r.db.Model(&domain.UserRole{}).
		Select("rol as role, count(*) as count").
		Group("rol").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, rc := range counts {
		stats.ByRole[rc.Role] = rc.Count
	}
	return stats, nil
}
