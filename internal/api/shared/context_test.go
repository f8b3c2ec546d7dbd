package shared

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	traced := SetTraceID(ctx)
	id := GetTraceID(traced)
	assert.Len(t, id, 2*TraceIDLength)
	_, err := hex.DecodeString(id)
	assert.NoError(t, err)
	assert.Empty(t, GetTraceID(ctx), "parent context is untouched")

	assert.Empty(t, GetTraceID(context.WithValue(ctx, TraceIDKey, 123)), "non-string values are ignored")
}

func TestTraceIDsAreUnique(t *testing.T) {
	generators := map[string]func() string{
		"random":   generateTraceID,
		"fallback": generateFallbackTraceID,
	}

	for name, generate := range generators {
		t.Run(name, func(t *testing.T) {
			seen := make(map[string]bool)
			for i := 0; i < 200; i++ {
				id := generate()
				require.Len(t, id, 2*TraceIDLength)
				_, err := hex.DecodeString(id)
				require.NoError(t, err)
				assert.False(t, seen[id], "duplicate trace id %s", id)
				seen[id] = true
			}
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()

	_, ok := PrincipalFrom(ctx)
	assert.False(t, ok)

	guest := domain.NewGuestPrincipal()
	got, ok := PrincipalFrom(WithPrincipal(ctx, guest))
	require.True(t, ok)
	assert.Same(t, guest, got)

	_, ok = PrincipalFrom(WithPrincipal(ctx, nil))
	assert.False(t, ok, "nil principal is treated as absent")
}

func TestRouteNameContext(t *testing.T) {
	assert.Empty(t, RouteName(context.Background()))
	assert.Equal(t, "user.view", RouteName(WithRouteName(context.Background(), "user.view")))
}
