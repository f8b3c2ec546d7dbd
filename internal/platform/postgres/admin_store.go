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

const adminColumns = `id, identity, first_name, last_name, password, status, created_at, updated_at`

// PostgresAdminStore implements the store.AdminStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAdminStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAdminStore creates a new PostgreSQL implementation of the AdminStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAdminStore(db store.DBTX, logger *slog.Logger) *PostgresAdminStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAdminStore{
		db:     db,
		logger: logger.With(slog.String("component", "admin_store")),
	}
}

// Ensure PostgresAdminStore implements store.AdminStore interface
var _ store.AdminStore = (*PostgresAdminStore)(nil)

// WithTx implements store.AdminStore.WithTx
func (s *PostgresAdminStore) WithTx(tx *sql.Tx) store.AdminStore {
	return &PostgresAdminStore{db: tx, logger: s.logger}
}

// Create implements store.AdminStore.Create
// The admin must already carry a hashed password.
func (s *PostgresAdminStore) Create(ctx context.Context, admin *domain.Admin) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := admin.Validate(); err != nil {
		log.Warn("admin validation failed during create",
			slog.String("error", err.Error()),
			slog.String("admin_id", admin.ID.String()))
		return err
	}

	err := inTx(ctx, s.db, func(q store.DBTX) error {
		_, err := q.ExecContext(ctx, `
			INSERT INTO admin (`+adminColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
			admin.ID,
			admin.Identity,
			admin.FirstName,
			admin.LastName,
			admin.HashedPassword,
			admin.Status,
			admin.CreatedAt,
			admin.UpdatedAt,
		)
		if err != nil {
			return MapError(err)
		}
		return insertRoles(ctx, q, adminRoles, admin.ID, admin.Roles)
	})
	if err != nil {
		if errors.Is(err, store.ErrIdentityExists) {
			log.Debug("admin identity already exists", slog.String("admin_id", admin.ID.String()))
			return store.ErrIdentityExists
		}
		log.Error("failed to create admin",
			slog.String("error", err.Error()),
			slog.String("admin_id", admin.ID.String()))
		return err
	}

	log.Info("admin created successfully", slog.String("admin_id", admin.ID.String()))
	return nil
}

// GetByID implements store.AdminStore.GetByID
func (s *PostgresAdminStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	return s.getOne(ctx, `SELECT `+adminColumns+` FROM admin WHERE id = $1`, id)
}

// GetByIdentity implements store.AdminStore.GetByIdentity
func (s *PostgresAdminStore) GetByIdentity(ctx context.Context, identity string) (*domain.Admin, error) {
	return s.getOne(ctx, `SELECT `+adminColumns+` FROM admin WHERE identity = $1`, identity)
}

func (s *PostgresAdminStore) getOne(ctx context.Context, query string, arg any) (*domain.Admin, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	admin, err := scanAdmin(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("admin not found")
			return nil, store.ErrAdminNotFound
		}
		log.Error("failed to get admin", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	admin.Roles, err = loadRoles(ctx, s.db, adminRoles, admin.ID)
	if err != nil {
		log.Error("failed to load admin roles",
			slog.String("error", err.Error()),
			slog.String("admin_id", admin.ID.String()))
		return nil, err
	}

	return admin, nil
}

// List implements store.AdminStore.List
func (s *PostgresAdminStore) List(ctx context.Context, page store.Page) ([]*domain.Admin, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin`).Scan(&total); err != nil {
		log.Error("failed to count admins", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+adminColumns+`
		FROM admin
		ORDER BY created_at DESC, id
		LIMIT $1 OFFSET $2
	`, page.Size, page.Offset())
	if err != nil {
		log.Error("failed to list admins", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	admins := []*domain.Admin{}
	for rows.Next() {
		admin, err := scanAdmin(rows)
		if err != nil {
			_ = rows.Close()
			return nil, 0, err
		}
		admins = append(admins, admin)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, 0, err
	}
	_ = rows.Close()

	for _, admin := range admins {
		if admin.Roles, err = loadRoles(ctx, s.db, adminRoles, admin.ID); err != nil {
			return nil, 0, err
		}
	}

	return admins, total, nil
}

// Update implements store.AdminStore.Update
func (s *PostgresAdminStore) Update(ctx context.Context, admin *domain.Admin) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := admin.Validate(); err != nil {
		log.Warn("admin validation failed during update",
			slog.String("error", err.Error()),
			slog.String("admin_id", admin.ID.String()))
		return err
	}

	err := inTx(ctx, s.db, func(q store.DBTX) error {
		result, err := q.ExecContext(ctx, `
			UPDATE admin
			SET identity = $1, first_name = $2, last_name = $3, password = $4, status = $5, updated_at = $6
			WHERE id = $7
		`,
			admin.Identity,
			admin.FirstName,
			admin.LastName,
			admin.HashedPassword,
			admin.Status,
			admin.UpdatedAt,
			admin.ID,
		)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrAdminNotFound); err != nil {
			return err
		}
		return replaceRoles(ctx, q, adminRoles, admin.ID, admin.Roles)
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !store.IsDuplicateError(err) {
			log.Error("failed to update admin",
				slog.String("error", err.Error()),
				slog.String("admin_id", admin.ID.String()))
		}
		return err
	}

	log.Info("admin updated successfully", slog.String("admin_id", admin.ID.String()))
	return nil
}

// Delete implements store.AdminStore.Delete
func (s *PostgresAdminStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM admin WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete admin",
			slog.String("error", err.Error()),
			slog.String("admin_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAdminNotFound); err != nil {
		return err
	}

	log.Info("admin deleted successfully", slog.String("admin_id", id.String()))
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdmin(row rowScanner) (*domain.Admin, error) {
	var admin domain.Admin
	var status string
	err := row.Scan(
		&admin.ID,
		&admin.Identity,
		&admin.FirstName,
		&admin.LastName,
		&admin.HashedPassword,
		&status,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	admin.Status = domain.AdminStatus(status)
	return &admin, nil
}
