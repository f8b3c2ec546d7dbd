package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

// PostgresResetPasswordStore implements store.ResetPasswordStore.
type PostgresResetPasswordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresResetPasswordStore creates a new PostgreSQL implementation of the ResetPasswordStore interface.
func NewPostgresResetPasswordStore(db store.DBTX, logger *slog.Logger) *PostgresResetPasswordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresResetPasswordStore{
		db:     db,
		logger: logger.With(slog.String("component", "reset_password_store")),
	}
}

var _ store.ResetPasswordStore = (*PostgresResetPasswordStore)(nil)

// WithTx implements store.ResetPasswordStore.WithTx
func (s *PostgresResetPasswordStore) WithTx(tx *sql.Tx) store.ResetPasswordStore {
	return &PostgresResetPasswordStore{db: tx, logger: s.logger}
}

// Create implements store.ResetPasswordStore.Create
func (s *PostgresResetPasswordStore) Create(ctx context.Context, reset *domain.UserResetPassword) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_reset_password (id, user_id, hash, status, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		reset.ID,
		reset.UserID,
		reset.Hash,
		reset.Status,
		reset.ExpiresAt,
		reset.CreatedAt,
		reset.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create reset password request",
			slog.String("error", err.Error()),
			slog.String("user_id", reset.UserID.String()))
		return MapError(err)
	}

	log.Debug("reset password request created", slog.String("user_id", reset.UserID.String()))
	return nil
}

// GetByHash implements store.ResetPasswordStore.GetByHash
func (s *PostgresResetPasswordStore) GetByHash(ctx context.Context, hash string) (*domain.UserResetPassword, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var reset domain.UserResetPassword
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, hash, status, expires_at, created_at, updated_at
		FROM user_reset_password
		WHERE hash = $1
	`, hash).Scan(
		&reset.ID,
		&reset.UserID,
		&reset.Hash,
		&status,
		&reset.ExpiresAt,
		&reset.CreatedAt,
		&reset.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrResetPasswordNotFound
		}
		log.Error("failed to get reset password request", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	reset.Status = domain.ResetPasswordStatus(status)
	return &reset, nil
}

// Update implements store.ResetPasswordStore.Update
func (s *PostgresResetPasswordStore) Update(ctx context.Context, reset *domain.UserResetPassword) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE user_reset_password SET status = $1, updated_at = $2 WHERE id = $3
	`, reset.Status, reset.UpdatedAt, reset.ID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrResetPasswordNotFound)
}
