package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/opa"
	"github.com/phrazzld/account-api/internal/platform/postgres"
	"github.com/phrazzld/account-api/internal/platform/rbac"
	"github.com/phrazzld/account-api/internal/platform/redis"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/phrazzld/account-api/internal/service/authz"
	"github.com/phrazzld/account-api/internal/store"
	"github.com/phrazzld/account-api/internal/task"
	goredis "github.com/redis/go-redis/v9"
)

// stores groups the persistence layer so tests can swap it for mocks.
type stores struct {
	admins     store.AdminStore
	adminRoles store.RoleStore
	users      store.UserStore
	userRoles  store.RoleStore
	resets     store.ResetPasswordStore
}

func postgresStores(db *sql.DB, logger *slog.Logger) stores {
	return stores{
		admins:     postgres.NewPostgresAdminStore(db, logger),
		adminRoles: postgres.NewPostgresAdminRoleStore(db, logger),
		users:      postgres.NewPostgresUserStore(db, logger),
		userRoles:  postgres.NewPostgresUserRoleStore(db, logger),
		resets:     postgres.NewPostgresResetPasswordStore(db, logger),
	}
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client

	stores stores

	jwtService  auth.JWTService
	hasher      auth.PasswordHasher
	issuer      *auth.TokenIssuer
	resolver    *auth.IdentityResolver
	gate        *authz.Gate
	outbox      *task.Outbox
	adminSvc    service.AdminService
	adminRoles  service.RoleService
	userSvc     service.UserService
	userRoles   service.RoleService
	errorReport service.ErrorReportService
}

// newApplication creates a new application instance backed by PostgreSQL.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	return buildApplication(ctx, cfg, logger, db, postgresStores(db, logger))
}

// buildApplication wires services on top of the given stores. A nil db runs
// service operations without transactions.
func buildApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	s stores,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
		stores: s,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT token service initialized",
		"access_token_lifetime", cfg.Auth.AccessTokenLifetime.String(),
		"refresh_token_lifetime", cfg.Auth.RefreshTokenLifetime.String())

	app.hasher = auth.NewBcryptHasher(cfg.Account.BcryptCost)

	registry, err := app.refreshTokenRegistry(ctx)
	if err != nil {
		return nil, err
	}

	oracle, err := newPolicyOracle(ctx, cfg.Authorization)
	if err != nil {
		if app.redis != nil {
			_ = app.redis.Close()
		}
		return nil, err
	}
	app.gate = authz.NewGate(oracle, logger)
	logger.Info("authorization engine initialized", "engine", cfg.Authorization.Engine)

	app.resolver = auth.NewIdentityResolver(s.admins, s.users, logger)
	app.issuer = auth.NewTokenIssuer(
		app.jwtService,
		s.admins,
		s.users,
		app.hasher,
		auth.NewClientRegistry(cfg.Auth.Clients),
		registry,
		logger,
	)

	app.outbox = task.NewOutbox(service.NewLogMailer(logger), cfg.Mail, logger)
	app.outbox.Start()
	app.adminSvc = service.NewAdminService(s.admins, s.adminRoles, app.hasher, db, logger)
	app.adminRoles = service.NewRoleService(s.adminRoles, "admin", logger)
	app.userRoles = service.NewRoleService(s.userRoles, "user", logger)
	app.userSvc = service.NewUserService(service.UserServiceDeps{
		Users:  s.users,
		Roles:  s.userRoles,
		Resets: s.resets,
		Hasher: app.hasher,
		Mailer: app.outbox,
		DB:     db,
		Config: cfg.Account,
		Logger: logger,
	})
	app.errorReport = service.NewErrorReportService(cfg.ErrorReport, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// refreshTokenRegistry connects to Redis when an address is configured and
// falls back to the in-process registry otherwise.
func (app *application) refreshTokenRegistry(ctx context.Context) (auth.RefreshTokenRegistry, error) {
	if app.config.Redis.Addr == "" {
		app.logger.Warn("redis not configured, refresh tokens are kept in memory")
		return redis.NewMemoryRegistry(), nil
	}

	client, err := redis.NewClient(ctx, app.config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize refresh token registry: %w", err)
	}
	app.redis = client
	app.logger.Info("refresh token registry connected", "addr", app.config.Redis.Addr)
	return redis.NewRegistry(client, app.config.Redis.KeyPrefix, app.logger), nil
}

func newPolicyOracle(ctx context.Context, cfg config.AuthorizationConfig) (authz.PolicyOracle, error) {
	switch cfg.Engine {
	case "opa":
		oracle, err := opa.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize opa policy: %w", err)
		}
		return oracle, nil
	case "rbac":
		oracle, err := rbac.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize rbac policy: %w", err)
		}
		return oracle, nil
	default:
		return nil, fmt.Errorf("unknown authorization engine %q", cfg.Engine)
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// createSuperuser bootstraps an admin holding the superuser role.
func (app *application) createSuperuser(ctx context.Context, identity, password string) error {
	if password == "" {
		return errors.New("missing password for the new admin: set " + adminPasswordEnv)
	}

	role, err := app.stores.adminRoles.GetByName(ctx, domain.RoleSuperUser)
	if err != nil {
		return fmt.Errorf("failed to find the %s role: %w", domain.RoleSuperUser, err)
	}

	admin, err := app.adminSvc.Create(ctx, service.AdminInput{
		Identity: identity,
		Password: password,
		Status:   domain.AdminStatusActive,
		RoleIDs:  []uuid.UUID{role.ID},
	})
	if err != nil {
		return err
	}

	app.logger.Info("superuser created",
		"admin_id", admin.ID.String(),
		"identity", admin.Identity)
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.outbox != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		if err := app.outbox.Close(ctx); err != nil {
			app.logger.Error("error draining mail outbox", "error", err)
		}
		cancel()
		app.outbox = nil
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis connection", "error", err)
		}
		app.redis = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
		app.db = nil
	}

	app.logger.Info("application shutdown completed")
}
