package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

const userSelect = `
	SELECT u.id, u.identity, u.password, u.status, u.hash, u.created_at, u.updated_at,
		COALESCE(d.first_name, ''), COALESCE(d.last_name, ''), d.email
	FROM users u
	LEFT JOIN user_detail d ON d.user_id = u.id
`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
// The user must already carry a hashed password.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	err := inTx(ctx, s.db, func(q store.DBTX) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO users (id, identity, password, status, hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			user.ID,
			user.Identity,
			user.HashedPassword,
			user.Status,
			user.Hash,
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO user_detail (user_id, first_name, last_name, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			user.ID,
			user.Detail.FirstName,
			user.Detail.LastName,
			nullString(user.Detail.Email),
			user.CreatedAt,
			user.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		return insertRoles(ctx, q, userRoles, user.ID, user.Roles)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("user already exists",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
			return err
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

// GetByIdentity implements store.UserStore.GetByIdentity
func (s *PostgresUserStore) GetByIdentity(ctx context.Context, identity string) (*domain.User, error) {
	return s.getOne(ctx, userSelect+` WHERE u.identity = $1`, identity)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, userSelect+` WHERE d.email = $1`, email)
}

// GetByHash implements store.UserStore.GetByHash
func (s *PostgresUserStore) GetByHash(ctx context.Context, hash string) (*domain.User, error) {
	return s.getOne(ctx, userSelect+` WHERE u.hash = $1`, hash)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	user.Roles, err = loadRoles(ctx, s.db, userRoles, user.ID)
	if err != nil {
		log.Error("failed to load user roles",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return nil, err
	}

	return user, nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context, page store.Page) ([]*domain.User, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE status <> $1`, domain.UserStatusDeleted,
	).Scan(&total)
	if err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx, userSelect+`
		WHERE u.status <> $1
		ORDER BY u.created_at DESC, u.id
		LIMIT $2 OFFSET $3
	`, domain.UserStatusDeleted, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	users := []*domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			_ = rows.Close()
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, 0, err
	}
	_ = rows.Close()

	for _, user := range users {
		if user.Roles, err = loadRoles(ctx, s.db, userRoles, user.ID); err != nil {
			return nil, 0, err
		}
	}

	return users, total, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	err := inTx(ctx, s.db, func(q store.DBTX) error {
		result, err := q.ExecContext(ctx, `
			UPDATE users
			SET identity = $1, password = $2, status = $3, hash = $4, updated_at = $5
			WHERE id = $6
		`,
			user.Identity,
			user.HashedPassword,
			user.Status,
			user.Hash,
			user.UpdatedAt,
			user.ID,
		)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
			return err
		}

		_, err = q.ExecContext(ctx, `
			INSERT INTO user_detail (user_id, first_name, last_name, email, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $5)
			ON CONFLICT (user_id) DO UPDATE
			SET first_name = EXCLUDED.first_name,
				last_name = EXCLUDED.last_name,
				email = EXCLUDED.email,
				updated_at = EXCLUDED.updated_at
		`,
			user.ID,
			user.Detail.FirstName,
			user.Detail.LastName,
			nullString(user.Detail.Email),
			user.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}

		return replaceRoles(ctx, q, userRoles, user.ID, user.Roles)
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !store.IsDuplicateError(err) {
			log.Error("failed to update user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return err
	}

	log.Info("user updated successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("status", string(user.Status)))
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var status string
	var email sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Identity,
		&user.HashedPassword,
		&status,
		&user.Hash,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Detail.FirstName,
		&user.Detail.LastName,
		&email,
	)
	if err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	user.Detail.Email = email.String
	return &user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
