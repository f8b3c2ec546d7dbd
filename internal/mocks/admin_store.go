package mocks

import (
	"context"
	"database/sql"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

// MockAdminStore implements store.AdminStore for testing.
// Without function fields it behaves as an in-memory store keyed by identity.
type MockAdminStore struct {
	CreateFn        func(ctx context.Context, admin *domain.Admin) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	GetByIdentityFn func(ctx context.Context, identity string) (*domain.Admin, error)
	ListFn          func(ctx context.Context, page store.Page) ([]*domain.Admin, int, error)
	UpdateFn        func(ctx context.Context, admin *domain.Admin) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	Admins map[string]*domain.Admin
}

// NewMockAdminStore creates a new mock store seeded with admins.
func NewMockAdminStore(admins ...*domain.Admin) *MockAdminStore {
	m := &MockAdminStore{Admins: make(map[string]*domain.Admin)}
	for _, a := range admins {
		m.Admins[a.Identity] = a
	}
	return m
}

var _ store.AdminStore = (*MockAdminStore)(nil)

// Create implements the AdminStore interface
func (m *MockAdminStore) Create(ctx context.Context, admin *domain.Admin) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, admin)
	}
	if _, exists := m.Admins[admin.Identity]; exists {
		return store.ErrIdentityExists
	}
	m.Admins[admin.Identity] = admin
	return nil
}

// GetByID implements the AdminStore interface
func (m *MockAdminStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	for _, a := range m.Admins {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, store.ErrAdminNotFound
}

// GetByIdentity implements the AdminStore interface
func (m *MockAdminStore) GetByIdentity(ctx context.Context, identity string) (*domain.Admin, error) {
	if m.GetByIdentityFn != nil {
		return m.GetByIdentityFn(ctx, identity)
	}
	if a, ok := m.Admins[identity]; ok {
		return a, nil
	}
	return nil, store.ErrAdminNotFound
}

// List implements the AdminStore interface
func (m *MockAdminStore) List(ctx context.Context, page store.Page) ([]*domain.Admin, int, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, page)
	}
	admins := make([]*domain.Admin, 0, len(m.Admins))
	for _, a := range m.Admins {
		admins = append(admins, a)
	}
	sort.Slice(admins, func(i, j int) bool { return admins[i].Identity < admins[j].Identity })
	return paginate(admins, page), len(admins), nil
}

// Update implements the AdminStore interface
func (m *MockAdminStore) Update(ctx context.Context, admin *domain.Admin) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, admin)
	}
	for identity, a := range m.Admins {
		if a.ID == admin.ID {
			delete(m.Admins, identity)
			m.Admins[admin.Identity] = admin
			return nil
		}
	}
	return store.ErrAdminNotFound
}

// Delete implements the AdminStore interface
func (m *MockAdminStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	for identity, a := range m.Admins {
		if a.ID == id {
			delete(m.Admins, identity)
			return nil
		}
	}
	return store.ErrAdminNotFound
}

// WithTx implements the AdminStore interface
func (m *MockAdminStore) WithTx(tx *sql.Tx) store.AdminStore {
	return m
}
