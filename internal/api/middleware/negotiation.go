package middleware

import (
	"net/http"

	"github.com/phrazzld/account-api/internal/api/negotiation"
	"github.com/phrazzld/account-api/internal/api/shared"
)

// NewNegotiationMiddleware rejects requests whose Accept or Content-Type the
// matched route does not support, and responses whose Content-Type does not
// satisfy the request's Accept header. Requests outside a named route pass
// through untouched.
func NewNegotiationMiddleware(table *negotiation.Table) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := shared.RouteName(r.Context())
			if route == "" {
				next.ServeHTTP(w, r)
				return
			}

			accept := negotiation.ParseAccept(r.Header.Get("Accept"))
			if err := table.CheckRequest(route, accept, r.Header.Get("Content-Type")); err != nil {
				shared.RespondWithMessages(w, r, err.Status, err.Message)
				return
			}

			buf := newBufferedResponse()
			next.ServeHTTP(buf, r)

			if !negotiation.CheckResponse(buf.Header().Get("Content-Type"), accept) {
				shared.RespondWithMessages(w, r, negotiation.ErrUnresolvableAccept.Status,
					negotiation.ErrUnresolvableAccept.Message)
				return
			}
			buf.flush(w)
		})
	}
}
