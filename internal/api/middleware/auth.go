package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service/auth"
)

// TokenValidator validates bearer access tokens.
type TokenValidator interface {
	ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error)
}

// PrincipalResolver turns validated claims into a principal. Nil claims
// resolve to the guest principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (*domain.Principal, error)
}

// AuthMiddleware authenticates bearer tokens and resolves the request principal.
type AuthMiddleware struct {
	tokens   TokenValidator
	resolver PrincipalResolver
	logger   *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokens TokenValidator, resolver PrincipalResolver, logger *slog.Logger) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		tokens:   tokens,
		resolver: resolver,
		logger:   logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate validates the Authorization header when present and stores the
// resolved principal in the request context. Requests without the header act
// as guest.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContextOrDefault(ctx, m.logger)

		var claims *auth.Claims
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
				return
			}

			var err error
			claims, err = m.tokens.ValidateToken(ctx, parts[1])
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
				case errors.Is(err, auth.ErrInvalidToken),
					errors.Is(err, auth.ErrTokenNotYetValid),
					errors.Is(err, auth.ErrWrongTokenType):
					shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
				default:
					shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
						"Authentication error", err)
				}
				return
			}
		}

		principal, err := m.resolver.Resolve(ctx, claims)
		if err != nil {
			var identityErr *auth.IdentityError
			if errors.As(err, &identityErr) {
				shared.RespondWithError(w, r, http.StatusForbidden, identityErr.Message)
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Authentication error", err)
			return
		}

		log.Debug("principal resolved",
			slog.String("identity", principal.Identity),
			slog.String("client", string(principal.ClientKind)))

		ctx = shared.WithPrincipal(ctx, principal)
		ctx = logger.AppendAttrs(ctx, slog.String("identity", principal.Identity))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal extracts the principal from the request context.
// Returns the principal and a boolean indicating if it was found.
func GetPrincipal(r *http.Request) (*domain.Principal, bool) {
	return shared.PrincipalFrom(r.Context())
}
