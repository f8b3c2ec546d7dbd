package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user, its detail row and its role assignments.
	// Returns ErrIdentityExists or ErrEmailExists on conflicts.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByIdentity retrieves a user by login identity, including soft-deleted users.
	// Returns ErrUserNotFound if the user does not exist.
	GetByIdentity(ctx context.Context, identity string) (*domain.User, error)

	// GetByEmail retrieves a user by the email stored in its detail.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByHash retrieves a user by activation hash.
	// Returns ErrUserNotFound if no user carries the hash.
	GetByHash(ctx context.Context, hash string) (*domain.User, error)

	// List returns one page of users that are not soft-deleted and the total count.
	List(ctx context.Context, page Page) ([]*domain.User, int, error)

	// Update persists all mutable fields, the detail row and the role assignments.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
