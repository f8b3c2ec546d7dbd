package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

// AdminFinder looks up admins by login identity.
type AdminFinder interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.Admin, error)
}

// UserFinder looks up users by login identity.
type UserFinder interface {
	GetByIdentity(ctx context.Context, identity string) (*domain.User, error)
}

// IdentityResolver turns validated token claims into a request principal.
type IdentityResolver struct {
	admins AdminFinder
	users  UserFinder
	logger *slog.Logger
}

// NewIdentityResolver creates an IdentityResolver backed by the admin and user stores.
func NewIdentityResolver(admins AdminFinder, users UserFinder, logger *slog.Logger) *IdentityResolver {
	if admins == nil || users == nil {
		panic("identity resolver requires admin and user finders")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityResolver{
		admins: admins,
		users:  users,
		logger: logger.With(slog.String("component", "identity_resolver")),
	}
}

// Resolve maps claims to an admin, user or guest principal.
//
// Failures the client caused are returned as *IdentityError. Any other
// error is a store fault.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *Claims) (*domain.Principal, error) {
	if claims == nil {
		return domain.NewGuestPrincipal(), nil
	}

	switch claims.ClientID {
	case domain.ClientAdmin:
		return r.resolveAdmin(ctx, claims.Identity)
	case domain.ClientFrontend:
		return r.resolveUser(ctx, claims.Identity)
	case domain.ClientGuest:
		return domain.NewGuestPrincipal(), nil
	default:
		return nil, newIdentityError(ErrInvalidClientID, MsgInvalidClientID)
	}
}

func (r *IdentityResolver) resolveAdmin(ctx context.Context, identity string) (*domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	admin, err := r.admins.GetByIdentity(ctx, identity)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFoundByIdentity(identity)
		}
		log.Error("failed to look up admin", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if !admin.IsActive() {
		return nil, newIdentityError(ErrAdminNotActivated, MsgAdminNotActivated)
	}

	return &domain.Principal{
		Identity:   admin.Identity,
		ClientKind: domain.ClientAdmin,
		Roles:      domain.CollectRoles(admin.Roles),
		Admin:      admin,
	}, nil
}

func (r *IdentityResolver) resolveUser(ctx context.Context, identity string) (*domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	user, err := r.users.GetByIdentity(ctx, identity)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, notFoundByIdentity(identity)
		}
		log.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if user.IsDeleted() {
		return nil, notFoundByIdentity(identity)
	}
	if !user.IsActive() {
		return nil, newIdentityError(ErrUserNotActivated, MsgUserNotActivated)
	}

	return &domain.Principal{
		Identity:   user.Identity,
		ClientKind: domain.ClientFrontend,
		Roles:      domain.CollectRoles(user.Roles),
		User:       user,
	}, nil
}

func notFoundByIdentity(identity string) *IdentityError {
	return newIdentityError(ErrUserNotFoundByIdentity, fmt.Sprintf(MsgUserNotFoundByIdentity, identity))
}

// IsIdentityError reports whether err is a client-caused resolution failure.
func IsIdentityError(err error) bool {
	var identityErr *IdentityError
	return errors.As(err, &identityErr)
}
