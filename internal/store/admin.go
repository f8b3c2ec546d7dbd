package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
)

// AdminStore defines the interface for admin account persistence.
type AdminStore interface {
	// Create saves a new admin together with its role assignments.
	// Returns ErrIdentityExists if the identity is already taken.
	Create(ctx context.Context, admin *domain.Admin) error

	// GetByID retrieves an admin with its roles.
	// Returns ErrAdminNotFound if the admin does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)

	// GetByIdentity retrieves an admin by login identity.
	// Returns ErrAdminNotFound if the admin does not exist.
	GetByIdentity(ctx context.Context, identity string) (*domain.Admin, error)

	// List returns one page of admins ordered by creation time and the total count.
	List(ctx context.Context, page Page) ([]*domain.Admin, int, error)

	// Update persists all mutable fields and replaces the role assignments.
	// Returns ErrAdminNotFound if the admin does not exist.
	Update(ctx context.Context, admin *domain.Admin) error

	// Delete removes an admin permanently.
	// Returns ErrAdminNotFound if the admin does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new AdminStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AdminStore
}
