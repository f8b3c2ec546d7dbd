package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/deprecation"
	"github.com/phrazzld/account-api/internal/api/routing"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

// NewDeprecationMiddleware adds Sunset and Link headers to responses of
// deprecated handlers. The handler runs first; its response is replaced by a
// 500 when the handler's deprecations are misconfigured.
func NewDeprecationMiddleware(
	registry deprecation.Registry,
	documentationURL string,
	log *slog.Logger,
) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "deprecation_middleware"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := newBufferedResponse()
			next.ServeHTTP(buf, r)

			route, ok := routing.FromContext(r.Context())
			if !ok || route.HandlerName() == "" {
				buf.flush(w)
				return
			}

			d, err := registry.Lookup(route.HandlerName(), r.Method)
			if err != nil {
				logger.FromContextOrDefault(r.Context(), log).Error("invalid deprecation configuration",
					slog.String("route", route.Name),
					slog.String("handler", route.HandlerName()),
					slog.String("error", err.Error()))
				shared.RespondWithError(w, r, http.StatusInternalServerError, deprecation.ErrConflict.Error())
				return
			}

			if d != nil {
				if d.Sunset != "" {
					buf.Header().Set("Sunset", d.Sunset)
				}
				if link := d.LinkHeader(documentationURL); link != "" {
					buf.Header().Set("Link", link)
				}
			}
			buf.flush(w)
		})
	}
}
