package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
)

// MockResetPasswordStore implements store.ResetPasswordStore in memory, keyed by hash.
type MockResetPasswordStore struct {
	CreateFn func(ctx context.Context, reset *domain.UserResetPassword) error

	Resets map[string]*domain.UserResetPassword
}

// NewMockResetPasswordStore creates an empty store.
func NewMockResetPasswordStore() *MockResetPasswordStore {
	return &MockResetPasswordStore{Resets: make(map[string]*domain.UserResetPassword)}
}

var _ store.ResetPasswordStore = (*MockResetPasswordStore)(nil)

// Create implements the ResetPasswordStore interface
func (m *MockResetPasswordStore) Create(ctx context.Context, reset *domain.UserResetPassword) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, reset)
	}
	m.Resets[reset.Hash] = reset
	return nil
}

// GetByHash implements the ResetPasswordStore interface
func (m *MockResetPasswordStore) GetByHash(ctx context.Context, hash string) (*domain.UserResetPassword, error) {
	if r, ok := m.Resets[hash]; ok {
		return r, nil
	}
	return nil, store.ErrResetPasswordNotFound
}

// Update implements the ResetPasswordStore interface
func (m *MockResetPasswordStore) Update(ctx context.Context, reset *domain.UserResetPassword) error {
	if _, ok := m.Resets[reset.Hash]; !ok {
		return store.ErrResetPasswordNotFound
	}
	m.Resets[reset.Hash] = reset
	return nil
}

// WithTx implements the ResetPasswordStore interface
func (m *MockResetPasswordStore) WithTx(tx *sql.Tx) store.ResetPasswordStore {
	return m
}
