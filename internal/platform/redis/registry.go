package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service/auth"
	goredis "github.com/redis/go-redis/v9"
)

// Registry is a refresh token registry backed by Redis.
// Each token id is stored under <prefix>:refresh:<id> with the token's lifetime as TTL.
type Registry struct {
	client goredis.Cmdable
	prefix string
	logger *slog.Logger
}

var _ auth.RefreshTokenRegistry = (*Registry)(nil)

// NewRegistry creates a Registry using client. keyPrefix namespaces all keys.
func NewRegistry(client goredis.Cmdable, keyPrefix string, logger *slog.Logger) *Registry {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		client: client,
		prefix: keyPrefix,
		logger: logger.With(slog.String("component", "refresh_token_registry")),
	}
}

func (r *Registry) key(tokenID string) string {
	return r.prefix + ":refresh:" + tokenID
}

// Register implements auth.RefreshTokenRegistry.
func (r *Registry) Register(ctx context.Context, tokenID, identity string, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("refresh token ttl must be positive, got %s", ttl)
	}
	if err := r.client.Set(ctx, r.key(tokenID), identity, ttl).Err(); err != nil {
		return fmt.Errorf("failed to register refresh token: %w", err)
	}
	logger.FromContextOrDefault(ctx, r.logger).Debug("refresh token registered",
		slog.String("token_id", tokenID),
		slog.Duration("ttl", ttl))
	return nil
}

// Consume implements auth.RefreshTokenRegistry. GETDEL makes concurrent
// consumers race safely: only one of them sees the value.
func (r *Registry) Consume(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.GetDel(ctx, r.key(tokenID)).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	return true, nil
}
