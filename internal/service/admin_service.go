package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/phrazzld/account-api/internal/store"
)

// AdminInput carries the fields of a new admin. Without role ids the admin
// receives the admin role.
type AdminInput struct {
	Identity  string
	Password  string
	FirstName string
	LastName  string
	Status    domain.AdminStatus
	RoleIDs   []uuid.UUID
}

// AdminUpdate carries a partial admin update. Nil fields stay unchanged;
// a non-nil empty RoleIDs is rejected.
type AdminUpdate struct {
	Identity  *string
	Password  *string
	FirstName *string
	LastName  *string
	Status    *domain.AdminStatus
	RoleIDs   []uuid.UUID
}

// AdminService manages back-office accounts.
type AdminService interface {
	Create(ctx context.Context, input AdminInput) (*domain.Admin, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	List(ctx context.Context, page store.Page) ([]*domain.Admin, int, error)
	Update(ctx context.Context, id uuid.UUID, update AdminUpdate) (*domain.Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type adminService struct {
	admins store.AdminStore
	roles  store.RoleStore
	hasher auth.PasswordHasher
	db     *sql.DB
	logger *slog.Logger
}

// NewAdminService creates an AdminService. roles must be the admin role store.
// A nil db runs every operation without a transaction.
func NewAdminService(
	admins store.AdminStore,
	roles store.RoleStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	logger *slog.Logger,
) AdminService {
	return &adminService{
		admins: admins,
		roles:  roles,
		hasher: hasher,
		db:     db,
		logger: logger.With("component", "admin_service"),
	}
}

func (s *adminService) Create(ctx context.Context, input AdminInput) (*domain.Admin, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var admin *domain.Admin
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		admins := s.admins.WithTx(tx)

		if _, err := admins.GetByIdentity(ctx, input.Identity); err == nil {
			return store.ErrIdentityExists
		} else if !errors.Is(err, store.ErrAdminNotFound) {
			return err
		}

		roles, err := resolveRoles(ctx, s.roles, input.RoleIDs, domain.RoleAdmin)
		if err != nil {
			return err
		}

		admin, err = domain.NewAdmin(input.Identity, input.Password, input.FirstName, input.LastName, roles)
		if err != nil {
			return err
		}
		if input.Status != "" {
			admin.Status = input.Status
			if err := admin.Validate(); err != nil {
				return err
			}
		}
		if err := s.hashPassword(admin); err != nil {
			return err
		}

		return admins.Create(ctx, admin)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to create admin",
				slog.String("identity", input.Identity),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("admin created",
		slog.String("admin_id", admin.ID.String()),
		slog.String("identity", admin.Identity))
	return admin, nil
}

func (s *adminService) Get(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	admin, err := s.admins.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrAdminNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get admin",
				slog.String("admin_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}
	return admin, nil
}

func (s *adminService) List(ctx context.Context, page store.Page) ([]*domain.Admin, int, error) {
	admins, total, err := s.admins.List(ctx, page)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list admins",
			slog.String("error", err.Error()))
		return nil, 0, NewServiceError("admin", "list", err)
	}
	return admins, total, nil
}

func (s *adminService) Update(ctx context.Context, id uuid.UUID, update AdminUpdate) (*domain.Admin, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var admin *domain.Admin
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		admins := s.admins.WithTx(tx)

		var err error
		admin, err = admins.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if update.Identity != nil && *update.Identity != admin.Identity {
			if _, err := admins.GetByIdentity(ctx, *update.Identity); err == nil {
				return store.ErrIdentityExists
			} else if !errors.Is(err, store.ErrAdminNotFound) {
				return err
			}
			admin.Identity = *update.Identity
		}
		if update.FirstName != nil {
			admin.FirstName = *update.FirstName
		}
		if update.LastName != nil {
			admin.LastName = *update.LastName
		}
		if update.Status != nil {
			admin.Status = *update.Status
		}
		if update.RoleIDs != nil {
			roles, err := resolveRoles(ctx, s.roles, update.RoleIDs, "")
			if err != nil {
				return err
			}
			admin.Roles = roles
		}
		if update.Password != nil {
			admin.Password = *update.Password
		}

		if err := admin.Validate(); err != nil {
			return err
		}
		if err := s.hashPassword(admin); err != nil {
			return err
		}
		admin.UpdatedAt = time.Now().UTC()

		return admins.Update(ctx, admin)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to update admin",
				slog.String("admin_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to update admin: %w", err)
	}

	log.Info("admin updated", slog.String("admin_id", id.String()))
	return admin, nil
}

func (s *adminService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.admins.Delete(ctx, id); err != nil {
		if !errors.Is(err, store.ErrAdminNotFound) {
			log.Error("failed to delete admin",
				slog.String("admin_id", id.String()),
				slog.String("error", err.Error()))
		}
		return fmt.Errorf("failed to delete admin: %w", err)
	}

	log.Info("admin deleted", slog.String("admin_id", id.String()))
	return nil
}

// hashPassword replaces a pending plaintext password with its hash.
func (s *adminService) hashPassword(admin *domain.Admin) error {
	if admin.Password == "" {
		return nil
	}
	hashed, err := s.hasher.Hash(admin.Password)
	if err != nil {
		return err
	}
	admin.HashedPassword = hashed
	admin.Password = ""
	return nil
}

// inTx runs fn inside a transaction. Without a database fn receives a nil
// transaction, which the in-memory stores ignore.
func inTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	if db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, db, fn)
}

// isClientError reports whether err was caused by the request rather than
// by a fault in the system.
func isClientError(err error) bool {
	return errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrUserAlreadyActive) ||
		errors.Is(err, ErrResetPasswordExpired) ||
		errors.Is(err, ErrResetPasswordUsed)
}
