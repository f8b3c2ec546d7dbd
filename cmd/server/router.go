package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/account-api/internal/api"
	apiMiddleware "github.com/phrazzld/account-api/internal/api/middleware"
	"github.com/phrazzld/account-api/internal/api/negotiation"
	"github.com/phrazzld/account-api/internal/api/routing"
	"github.com/phrazzld/account-api/internal/api/shared"
)

// setupRouter creates the router with the standard middleware, the health
// check and every named route behind the request pipeline.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusNotFound, api.MsgNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		shared.RespondWithError(w, r, http.StatusMethodNotAllowed, api.MsgMethodNotAllowed)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService, app.resolver, app.logger)

	// Gate order: negotiation, deprecation headers, authentication, authorization.
	app.routeTable().Mount(r,
		apiMiddleware.NewNegotiationMiddleware(negotiation.NewTable(app.config.Negotiation)),
		apiMiddleware.NewDeprecationMiddleware(
			api.NewDeprecationRegistry(),
			app.config.Versioning.DocumentationURL,
			app.logger,
		),
		authMiddleware.Authenticate,
		apiMiddleware.NewAuthorizationMiddleware(app.gate),
	)

	return r
}

func (app *application) routeTable() *routing.Table {
	return api.NewRouteTable(api.Handlers{
		Home:        &api.HomeHandler{},
		Token:       api.NewTokenHandler(app.issuer, app.logger),
		Admin:       api.NewAdminHandler(app.adminSvc, app.logger),
		AdminRole:   api.NewRoleHandler(app.adminRoles, "/admin/role", app.logger),
		User:        api.NewUserHandler(app.userSvc, app.logger),
		UserRole:    api.NewRoleHandler(app.userRoles, "/user/role", app.logger),
		Account:     api.NewAccountHandler(app.userSvc, app.logger),
		ErrorReport: api.NewErrorReportHandler(app.errorReport, app.logger),
	}, app.config.Auth.InvalidCredentials)
}
