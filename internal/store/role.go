package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
)

// RoleStore reads one family of roles (admin roles or user roles).
// Roles are seeded by migrations and never modified through the API.
type RoleStore interface {
	List(ctx context.Context) ([]domain.Role, error)

	// GetByID returns ErrRoleNotFound if the role does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)

	// GetByName returns ErrRoleNotFound if the role does not exist.
	GetByName(ctx context.Context, name string) (*domain.Role, error)
}
