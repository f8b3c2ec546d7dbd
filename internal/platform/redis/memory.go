package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/phrazzld/account-api/internal/service/auth"
)

// MemoryRegistry is an in-process refresh token registry with TTL expiry.
type MemoryRegistry struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

var _ auth.RefreshTokenRegistry = (*MemoryRegistry)(nil)

// NewMemoryRegistry creates an empty MemoryRegistry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{items: map[string]time.Time{}, now: time.Now}
}

// Register implements auth.RefreshTokenRegistry.
func (m *MemoryRegistry) Register(ctx context.Context, tokenID, identity string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh token ttl must be positive, got %s", ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
	m.items[tokenID] = m.now().Add(ttl)
	return nil
}

// Consume implements auth.RefreshTokenRegistry.
func (m *MemoryRegistry) Consume(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanupLocked()
	_, ok := m.items[tokenID]
	delete(m.items, tokenID)
	return ok, nil
}

func (m *MemoryRegistry) cleanupLocked() {
	now := m.now()
	for id, expiresAt := range m.items {
		if !now.Before(expiresAt) {
			delete(m.items, id)
		}
	}
}
