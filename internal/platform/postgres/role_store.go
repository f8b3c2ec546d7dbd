package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

// roleTable describes one role family: the role table and its join table.
type roleTable struct {
	roles    string
	link     string
	ownerCol string
}

var (
	adminRoles = roleTable{roles: "admin_role", link: "admin_roles", ownerCol: "admin_id"}
	userRoles  = roleTable{roles: "user_role", link: "user_roles", ownerCol: "user_id"}
)

// PostgresRoleStore implements store.RoleStore for one role family.
type PostgresRoleStore struct {
	db     store.DBTX
	table  roleTable
	logger *slog.Logger
}

// NewPostgresAdminRoleStore creates a RoleStore over admin roles.
func NewPostgresAdminRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	return newPostgresRoleStore(db, adminRoles, logger)
}

// NewPostgresUserRoleStore creates a RoleStore over user roles.
func NewPostgresUserRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	return newPostgresRoleStore(db, userRoles, logger)
}

func newPostgresRoleStore(db store.DBTX, table roleTable, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRoleStore{
		db:     db,
		table:  table,
		logger: logger.With(slog.String("component", "role_store"), slog.String("table", table.roles)),
	}
}

// Ensure PostgresRoleStore implements store.RoleStore interface
var _ store.RoleStore = (*PostgresRoleStore)(nil)

// List implements store.RoleStore.List
func (s *PostgresRoleStore) List(ctx context.Context) ([]domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s ORDER BY name`, s.table.roles)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list roles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	roles, err := scanRoles(rows)
	if err != nil {
		log.Error("failed to scan roles", slog.String("error", err.Error()))
		return nil, err
	}
	return roles, nil
}

// GetByID implements store.RoleStore.GetByID
func (s *PostgresRoleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE id = $1`, s.table.roles)
	return s.getOne(ctx, query, id)
}

// GetByName implements store.RoleStore.GetByName
func (s *PostgresRoleStore) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	query := fmt.Sprintf(`SELECT id, name, created_at, updated_at FROM %s WHERE name = $1`, s.table.roles)
	return s.getOne(ctx, query, name)
}

func (s *PostgresRoleStore) getOne(ctx context.Context, query string, arg any) (*domain.Role, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var role domain.Role
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("role not found", slog.Any("key", arg))
			return nil, store.ErrRoleNotFound
		}
		log.Error("failed to get role", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &role, nil
}

// loadRoles returns the roles assigned to owner in the given family.
func loadRoles(ctx context.Context, db store.DBTX, table roleTable, owner uuid.UUID) ([]domain.Role, error) {
	query := fmt.Sprintf(`
		SELECT r.id, r.name, r.created_at, r.updated_at
		FROM %s r
		JOIN %s l ON l.role_id = r.id
		WHERE l.%s = $1
		ORDER BY r.name
	`, table.roles, table.link, table.ownerCol)

	rows, err := db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	return scanRoles(rows)
}

// replaceRoles rewrites the role assignments of owner.
func replaceRoles(ctx context.Context, db store.DBTX, table roleTable, owner uuid.UUID, roles []domain.Role) error {
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.link, table.ownerCol)
	if _, err := db.ExecContext(ctx, deleteQuery, owner); err != nil {
		return MapError(err)
	}
	return insertRoles(ctx, db, table, owner, roles)
}

func insertRoles(ctx context.Context, db store.DBTX, table roleTable, owner uuid.UUID, roles []domain.Role) error {
	insertQuery := fmt.Sprintf(`INSERT INTO %s (%s, role_id) VALUES ($1, $2)`, table.link, table.ownerCol)
	for _, role := range roles {
		if _, err := db.ExecContext(ctx, insertQuery, owner, role.ID); err != nil {
			return MapError(err)
		}
	}
	return nil
}

func scanRoles(rows *sql.Rows) ([]domain.Role, error) {
	roles := []domain.Role{}
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}
