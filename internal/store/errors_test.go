package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrAdminNotFound", ErrAdminNotFound, true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrRoleNotFound", ErrRoleNotFound, true},
		{"ErrResetPasswordNotFound", ErrResetPasswordNotFound, true},
		{"wrapped not found", fmt.Errorf("lookup: %w", ErrUserNotFound), true},
		{"duplicate", ErrIdentityExists, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrIdentityExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrEmailExists)))
	assert.False(t, IsDuplicateError(ErrUserNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("admin", "create", "failed to insert", cause)

	assert.Equal(t, "create operation on admin failed: failed to insert: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("user", "update", "no rows", nil)
	assert.Equal(t, "update operation on user failed: no rows", bare.Error())
}

func TestPage(t *testing.T) {
	p := NewPage(0, 0)
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, p)
	assert.Equal(t, 0, p.Offset())

	p = NewPage(3, 500)
	assert.Equal(t, MaxPageSize, p.Size)
	assert.Equal(t, 200, p.Offset())

	p = NewPage(1, 10)
	assert.Equal(t, 0, p.PageCount(0))
	assert.Equal(t, 1, p.PageCount(10))
	assert.Equal(t, 2, p.PageCount(11))
}
