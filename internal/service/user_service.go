package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/phrazzld/account-api/internal/store"
)

// UserInput carries the fields of a new user. Without role ids the user
// receives the user role; without a status the account starts pending.
type UserInput struct {
	Identity string
	Password string
	Detail   domain.UserDetail
	Status   domain.UserStatus
	RoleIDs  []uuid.UUID
}

// UserDetailUpdate carries a partial update of a user's personal data.
type UserDetailUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// UserUpdate carries a partial user update. Nil fields stay unchanged;
// a non-nil empty RoleIDs is rejected.
type UserUpdate struct {
	Identity *string
	Password *string
	Status   *domain.UserStatus
	Detail   UserDetailUpdate
	RoleIDs  []uuid.UUID
}

// UserService manages frontend accounts and their lifecycle.
type UserService interface {
	Create(ctx context.Context, input UserInput) (*domain.User, error)

	// Get returns a user by id. Deleted users are reported as not found.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	List(ctx context.Context, page store.Page) ([]*domain.User, int, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error)

	// Delete soft-deletes the user and anonymises its personal data.
	Delete(ctx context.Context, id uuid.UUID) error

	// Activate activates a pending user by id.
	Activate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ActivateByHash activates the pending user holding the activation hash.
	ActivateByHash(ctx context.Context, hash string) (*domain.User, error)

	// RequestActivation re-sends the activation mail of a pending user.
	RequestActivation(ctx context.Context, email string) (*domain.User, error)

	// RecoverIdentity mails the account identity to the owner of email.
	// An unknown email is not an error.
	RecoverIdentity(ctx context.Context, email string) error

	// RequestResetPassword starts a password reset for the account matching
	// email or identity. An unknown account is not an error.
	RequestResetPassword(ctx context.Context, email, identity string) error

	// ValidateResetPassword reports whether a reset request can still be used.
	ValidateResetPassword(ctx context.Context, hash string) (*domain.UserResetPassword, error)

	// ResetPassword completes a reset request with a new password.
	ResetPassword(ctx context.Context, hash, password string) error
}

// UserServiceDeps holds the collaborators of the user service.
// Roles must be the user role store. A nil DB runs every operation without
// a transaction.
type UserServiceDeps struct {
	Users  store.UserStore
	Roles  store.RoleStore
	Resets store.ResetPasswordStore
	Hasher auth.PasswordHasher
	Mailer Mailer
	DB     *sql.DB
	Config config.AccountConfig
	Logger *slog.Logger
	Now    func() time.Time
}

type userService struct {
	users         store.UserStore
	roles         store.RoleStore
	resets        store.ResetPasswordStore
	hasher        auth.PasswordHasher
	mailer        Mailer
	mails         composer
	db            *sql.DB
	resetLifetime time.Duration
	now           func() time.Time
	logger        *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(deps UserServiceDeps) UserService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &userService{
		users:         deps.Users,
		roles:         deps.Roles,
		resets:        deps.Resets,
		hasher:        deps.Hasher,
		mailer:        deps.Mailer,
		mails:         newComposer(deps.Config.FrontendURL),
		db:            deps.DB,
		resetLifetime: deps.Config.ResetPasswordLifetime,
		now:           now,
		logger:        deps.Logger.With("component", "user_service"),
	}
}

func (s *userService) Create(ctx context.Context, input UserInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		if err := ensureIdentityFree(ctx, users, input.Identity); err != nil {
			return err
		}
		if err := ensureEmailFree(ctx, users, input.Detail.Email); err != nil {
			return err
		}

		roles, err := resolveRoles(ctx, s.roles, input.RoleIDs, domain.RoleUser)
		if err != nil {
			return err
		}

		user, err = domain.NewUser(input.Identity, input.Password, input.Detail, roles)
		if err != nil {
			return err
		}
		if input.Status != "" {
			user.Status = input.Status
			if err := user.Validate(); err != nil {
				return err
			}
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}

		return users.Create(ctx, user)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to create user",
				slog.String("identity", input.Identity),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("status", string(user.Status)))

	if user.IsActive() {
		s.send(ctx, mailWelcome, user, "", nil)
	} else {
		s.send(ctx, mailActivation, user, user.Hash, nil)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err == nil && user.IsDeleted() {
		err = store.ErrUserNotFound
	}
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to get user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, page store.Page) ([]*domain.User, int, error) {
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, 0, NewServiceError("user", "list", err)
	}
	return users, total, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		var err error
		user, err = liveUser(ctx, users, id)
		if err != nil {
			return err
		}

		if update.Identity != nil && *update.Identity != user.Identity {
			if err := ensureIdentityFree(ctx, users, *update.Identity); err != nil {
				return err
			}
			user.Identity = *update.Identity
		}
		if update.Detail.Email != nil && *update.Detail.Email != user.Detail.Email {
			if err := ensureEmailFree(ctx, users, *update.Detail.Email); err != nil {
				return err
			}
			user.Detail.Email = *update.Detail.Email
		}
		if update.Detail.FirstName != nil {
			user.Detail.FirstName = *update.Detail.FirstName
		}
		if update.Detail.LastName != nil {
			user.Detail.LastName = *update.Detail.LastName
		}
		if update.Status != nil {
			user.Status = *update.Status
		}
		if update.RoleIDs != nil {
			roles, err := resolveRoles(ctx, s.roles, update.RoleIDs, "")
			if err != nil {
				return err
			}
			user.Roles = roles
		}
		if update.Password != nil {
			user.Password = *update.Password
		}

		if err := user.Validate(); err != nil {
			return err
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}
		user.UpdatedAt = s.now().UTC()

		return users.Update(ctx, user)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to update user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated", slog.String("user_id", id.String()))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		user, err := liveUser(ctx, users, id)
		if err != nil {
			return err
		}
		user.MarkDeleted()
		return users.Update(ctx, user)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to delete user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()))
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	log.Info("user deleted", slog.String("user_id", id.String()))
	return nil
}

func (s *userService) Activate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.activate(ctx, "id", id.String(), func(ctx context.Context, users store.UserStore) (*domain.User, error) {
		return liveUser(ctx, users, id)
	})
}

func (s *userService) ActivateByHash(ctx context.Context, hash string) (*domain.User, error) {
	return s.activate(ctx, "hash", hash, func(ctx context.Context, users store.UserStore) (*domain.User, error) {
		user, err := users.GetByHash(ctx, hash)
		if err == nil && user.IsDeleted() {
			err = store.ErrUserNotFound
		}
		return user, err
	})
}

func (s *userService) activate(
	ctx context.Context,
	key, value string,
	find func(context.Context, store.UserStore) (*domain.User, error),
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		var err error
		user, err = find(ctx, users)
		if err != nil {
			return err
		}
		if user.IsActive() {
			return ErrUserAlreadyActive
		}
		user.Activate()
		return users.Update(ctx, user)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to activate user",
				slog.String(key, value),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to activate user: %w", err)
	}

	log.Info("user activated", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userService) RequestActivation(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err == nil && user.IsDeleted() {
		err = store.ErrUserNotFound
	}
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to look up user for activation",
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to request activation: %w", err)
	}
	if user.IsActive() {
		return nil, fmt.Errorf("failed to request activation: %w", ErrUserAlreadyActive)
	}

	s.send(ctx, mailActivation, user, user.Hash, nil)
	return user, nil
}

func (s *userService) RecoverIdentity(ctx context.Context, email string) error {
	user, err := s.findByEmailOrIdentity(ctx, email, "")
	if err != nil {
		return fmt.Errorf("failed to recover identity: %w", err)
	}
	if user == nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("identity recovery for unknown email")
		return nil
	}

	s.send(ctx, mailRecoverIdentity, user, "", nil)
	return nil
}

func (s *userService) RequestResetPassword(ctx context.Context, email, identity string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.findByEmailOrIdentity(ctx, email, identity)
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	if user == nil {
		log.Debug("password reset requested for unknown account")
		return nil
	}

	reset, err := domain.NewUserResetPassword(user.ID, s.resetLifetime, s.now())
	if err != nil {
		return fmt.Errorf("failed to request password reset: %w", err)
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		log.Error("failed to save password reset request",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to request password reset: %w", err)
	}

	log.Info("password reset requested", slog.String("user_id", user.ID.String()))
	s.send(ctx, mailResetPasswordRequest, user, reset.Hash, reset)
	return nil
}

func (s *userService) ValidateResetPassword(ctx context.Context, hash string) (*domain.UserResetPassword, error) {
	reset, err := s.usableReset(ctx, s.resets, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to validate password reset: %w", err)
	}
	return reset, nil
}

func (s *userService) ResetPassword(ctx context.Context, hash, password string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user *domain.User
	err := inTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		resets := s.resets.WithTx(tx)
		users := s.users.WithTx(tx)

		reset, err := s.usableReset(ctx, resets, hash)
		if err != nil {
			return err
		}

		user, err = liveUser(ctx, users, reset.UserID)
		if err != nil {
			return err
		}
		user.Password = password
		if err := user.Validate(); err != nil {
			return err
		}
		if err := s.hashPassword(user); err != nil {
			return err
		}
		user.UpdatedAt = s.now().UTC()
		if err := users.Update(ctx, user); err != nil {
			return err
		}

		reset.Complete(s.now())
		return resets.Update(ctx, reset)
	})
	if err != nil {
		if !isClientError(err) {
			log.Error("failed to reset password", slog.String("error", err.Error()))
		}
		return fmt.Errorf("failed to reset password: %w", err)
	}

	log.Info("password reset completed", slog.String("user_id", user.ID.String()))
	s.send(ctx, mailResetPasswordComplete, user, "", nil)
	return nil
}

func (s *userService) usableReset(
	ctx context.Context,
	resets store.ResetPasswordStore,
	hash string,
) (*domain.UserResetPassword, error) {
	reset, err := resets.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if reset.IsExpired(s.now()) {
		return nil, ErrResetPasswordExpired
	}
	if reset.IsCompleted() {
		return nil, ErrResetPasswordUsed
	}
	return reset, nil
}

// findByEmailOrIdentity returns nil without an error when no live account matches.
func (s *userService) findByEmailOrIdentity(ctx context.Context, email, identity string) (*domain.User, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case email != "":
		user, err = s.users.GetByEmail(ctx, email)
	case identity != "":
		user, err = s.users.GetByIdentity(ctx, identity)
	default:
		return nil, nil
	}
	if errors.Is(err, store.ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to look up user",
			slog.String("error", err.Error()))
		return nil, err
	}
	if user.IsDeleted() {
		return nil, nil
	}
	return user, nil
}

// send delivers an account mail. Delivery failures are logged and do not
// fail the operation that triggered the mail.
func (s *userService) send(
	ctx context.Context,
	kind mailKind,
	user *domain.User,
	hash string,
	reset *domain.UserResetPassword,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if user.Detail.Email == "" {
		log.Debug("user has no email, mail skipped",
			slog.String("user_id", user.ID.String()),
			slog.String("mail", string(kind)))
		return
	}

	mail, err := s.mails.compose(kind, user, hash, reset)
	if err == nil {
		err = s.mailer.Send(ctx, mail)
	}
	if err != nil {
		log.Error("failed to send mail",
			slog.String("user_id", user.ID.String()),
			slog.String("mail", string(kind)),
			slog.String("error", err.Error()))
	}
}

func (s *userService) hashPassword(user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return err
	}
	user.HashedPassword = hashed
	user.Password = ""
	return nil
}

func liveUser(ctx context.Context, users store.UserStore, id uuid.UUID) (*domain.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.IsDeleted() {
		return nil, store.ErrUserNotFound
	}
	return user, nil
}

func ensureIdentityFree(ctx context.Context, users store.UserStore, identity string) error {
	_, err := users.GetByIdentity(ctx, identity)
	switch {
	case err == nil:
		return store.ErrIdentityExists
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func ensureEmailFree(ctx context.Context, users store.UserStore, email string) error {
	if email == "" {
		return nil
	}
	_, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return store.ErrEmailExists
	case errors.Is(err, store.ErrUserNotFound):
		return nil
	default:
		return err
	}
}
