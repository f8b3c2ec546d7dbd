package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByIdentityFn func(ctx context.Context, identity string) (*domain.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	GetByHashFn     func(ctx context.Context, hash string) (*domain.User, error)
	ListFn          func(ctx context.Context, page store.Page) ([]*domain.User, int, error)
	UpdateFn        func(ctx context.Context, user *domain.User) error

	// Data for default implementation, keyed by identity
	Users       map[string]*domain.User
	LastUserID  uuid.UUID
	CreateError error
}

// NewMockUserStore creates a new mock store seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{Users: make(map[string]*domain.User)}
	for _, u := range users {
		m.Users[u.Identity] = u
	}
	return m
}

var _ store.UserStore = (*MockUserStore)(nil)

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	if _, exists := m.Users[user.Identity]; exists {
		return store.ErrIdentityExists
	}
	if user.Detail.Email != "" {
		if _, err := m.GetByEmail(ctx, user.Detail.Email); err == nil {
			return store.ErrEmailExists
		}
	}

	m.Users[user.Identity] = user
	m.LastUserID = user.ID
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return m.find(func(u *domain.User) bool { return u.ID == id })
}

// GetByIdentity implements the UserStore interface
func (m *MockUserStore) GetByIdentity(ctx context.Context, identity string) (*domain.User, error) {
	if m.GetByIdentityFn != nil {
		return m.GetByIdentityFn(ctx, identity)
	}
	if u, ok := m.Users[identity]; ok {
		return u, nil
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return m.find(func(u *domain.User) bool { return u.Detail.Email == email })
}

// GetByHash implements the UserStore interface
func (m *MockUserStore) GetByHash(ctx context.Context, hash string) (*domain.User, error) {
	if m.GetByHashFn != nil {
		return m.GetByHashFn(ctx, hash)
	}
	return m.find(func(u *domain.User) bool { return u.Hash == hash })
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context, page store.Page) ([]*domain.User, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	users := []*domain.User{}
	for _, u := range m.Users {
		if !u.IsDeleted() {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Identity < users[j].Identity })
	return paginate(users, page), len(users), nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	for identity, u := range m.Users {
		if u.ID == user.ID {
			delete(m.Users, identity)
			m.Users[user.Identity] = user
			return nil
		}
	}
	return store.ErrUserNotFound
}

// WithTx implements the UserStore interface
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return m
}

func (m *MockUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	for _, u := range m.Users {
		if match(u) {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}
