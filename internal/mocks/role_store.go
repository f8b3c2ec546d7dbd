package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

// MockRoleStore implements store.RoleStore over a fixed role list.
type MockRoleStore struct {
	Roles []domain.Role
	Err   error
}

// NewMockRoleStore creates a store holding roles with the given names.
func NewMockRoleStore(names ...string) *MockRoleStore {
	m := &MockRoleStore{}
	for _, n := range names {
		m.Roles = append(m.Roles, domain.Role{ID: uuid.New(), Name: n})
	}
	return m
}

var _ store.RoleStore = (*MockRoleStore)(nil)

// List implements the RoleStore interface
func (m *MockRoleStore) List(ctx context.Context) ([]domain.Role, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Roles, nil
}

// GetByID implements the RoleStore interface
func (m *MockRoleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Roles {
		if m.Roles[i].ID == id {
			return &m.Roles[i], nil
		}
	}
	return nil, store.ErrRoleNotFound
}

// GetByName implements the RoleStore interface
func (m *MockRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Roles {
		if m.Roles[i].Name == name {
			return &m.Roles[i], nil
		}
	}
	return nil, store.ErrRoleNotFound
}
