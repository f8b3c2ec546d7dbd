package redis

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phrazzld/account-api/internal/config"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) (*Registry, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRegistry(client, "account-api", nil), mr
}

func TestRegistryRegisterAndConsume(t *testing.T) {
	registry, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "jti-1", "user@example.com", time.Hour))

	value, err := mr.Get("account-api:refresh:jti-1")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", value)
	assert.Equal(t, time.Hour, mr.TTL("account-api:refresh:jti-1"))

	ok, err := registry.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = registry.Consume(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, ok, "a refresh token can only be consumed once")
}

func TestRegistryExpiry(t *testing.T) {
	registry, mr := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "jti-2", "user", time.Minute))
	mr.FastForward(2 * time.Minute)

	ok, err := registry.Consume(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRegistryRejectsNonPositiveTTL(t *testing.T) {
	registry, _ := newTestRegistry(t)
	assert.Error(t, registry.Register(context.Background(), "jti", "user", 0))
}

func TestRegistryConsumeConcurrently(t *testing.T) {
	registry, _ := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, registry.Register(ctx, "jti-3", "user", time.Hour))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, err := registry.Consume(ctx, "jti-3"); err == nil && ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestRegistryServerDown(t *testing.T) {
	registry, mr := newTestRegistry(t)
	mr.Close()

	_, err := registry.Consume(context.Background(), "jti")
	assert.Error(t, err)
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewClient(context.Background(), config.RedisConfig{Addr: addr})
	assert.ErrorContains(t, err, addr)
}

func TestMemoryRegistry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	registry := NewMemoryRegistry()
	registry.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, registry.Register(ctx, "a", "user", time.Minute))
	require.NoError(t, registry.Register(ctx, "b", "user", time.Hour))
	assert.Error(t, registry.Register(ctx, "c", "user", -time.Second))

	ok, _ := registry.Consume(ctx, "a")
	assert.True(t, ok)
	ok, _ = registry.Consume(ctx, "a")
	assert.False(t, ok)

	now = now.Add(2 * time.Hour)
	ok, _ = registry.Consume(ctx, "b")
	assert.False(t, ok, "expired tokens cannot be consumed")
}
