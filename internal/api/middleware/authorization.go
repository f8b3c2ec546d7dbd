package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/service/authz"
)

// Authorizer decides whether a principal may access a request.
type Authorizer interface {
	Authorize(ctx context.Context, principal *domain.Principal, req authz.Request) error
}

// NewAuthorizationMiddleware denies requests whose principal holds no granted
// role for the matched route. It must run after Authenticate.
func NewAuthorizationMiddleware(gate Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := shared.PrincipalFrom(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusForbidden, authz.MsgResourceNotAllowed)
				return
			}

			req := authz.Request{
				Route:  shared.RouteName(r.Context()),
				Method: r.Method,
				Path:   r.URL.Path,
			}

			err := gate.Authorize(r.Context(), principal, req)
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, authz.ErrResourceNotAllowed):
				shared.RespondWithError(w, r, http.StatusForbidden, authz.MsgResourceNotAllowed)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"Authorization error", err)
			}
		})
	}
}
