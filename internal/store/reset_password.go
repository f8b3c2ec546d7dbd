package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/account-api/internal/domain"
)

// ResetPasswordStore persists password reset requests.
type ResetPasswordStore interface {
	Create(ctx context.Context, reset *domain.UserResetPassword) error

	// GetByHash returns ErrResetPasswordNotFound if no request matches.
	GetByHash(ctx context.Context, hash string) (*domain.UserResetPassword, error)

	// Update persists the status of an existing request.
	Update(ctx context.Context, reset *domain.UserResetPassword) error

	WithTx(tx *sql.Tx) ResetPasswordStore
}
