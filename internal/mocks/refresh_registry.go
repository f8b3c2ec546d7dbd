package mocks

import (
	"context"
	"sync"
	"time"
)

// MockRefreshTokenRegistry implements auth.RefreshTokenRegistry in memory.
type MockRefreshTokenRegistry struct {
	mu     sync.Mutex
	Tokens map[string]string
	Err    error
}

// NewMockRefreshTokenRegistry creates an empty registry.
func NewMockRefreshTokenRegistry() *MockRefreshTokenRegistry {
	return &MockRefreshTokenRegistry{Tokens: make(map[string]string)}
}

// Register implements the auth.RefreshTokenRegistry interface
func (m *MockRefreshTokenRegistry) Register(ctx context.Context, tokenID, identity string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Tokens[tokenID] = identity
	return nil
}

// Consume implements the auth.RefreshTokenRegistry interface
func (m *MockRefreshTokenRegistry) Consume(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	_, ok := m.Tokens[tokenID]
	delete(m.Tokens, tokenID)
	return ok, nil
}
