package command

import (
	"github.com/comerciolibre/backend/internal/auth/domain"
)

type mockUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*domain.User), nextID: 1}
}

func (m *mockUserRepo) Create(user *domain.User) error {
	user.ID = m.nextID
	m.nextID++
	for i := range user.Roles {
		user.Roles[i].UserID = user.ID
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) FindByID(id uint) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByUsername(username string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) FindAll(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *mockUserRepo) Save(user *domain.User) error {
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserRepo) ReplaceRoles(userID uint, roles []string) error {
	u, ok := m.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Roles = nil
	for _, role := range roles {
		u.Roles = append(u.Roles, domain.UserRole{UserID: userID, Role: role})
	}
	return nil
}

func (m *mockUserRepo) Stats() (*domain.RoleStats, error) {
	stats := &domain.RoleStats{ByRole: make(map[string]int64)}
	for _, u := range m.users {
		stats.Total++
		if u.Active {
			stats.Active++
		} else {
			stats.Inactive++
		}
		for _, r := range u.Roles {
			stats.ByRole[r.Role]++
		}
	}
	return stats, nil
}
