package api

import (
	"net/http"

	"github.com/phrazzld/account-api/internal/api/deprecation"
	"github.com/phrazzld/account-api/internal/api/middleware"
	"github.com/phrazzld/account-api/internal/api/routing"
	"github.com/phrazzld/account-api/internal/config"
)

// Handler stage names. They key the deprecation registry.
const (
	StageErrorResponseFilter         = "ErrorResponseFilter"
	StageHomeHandler                 = "HomeHandler"
	StageTokenHandler                = "TokenHandler"
	StageAdminAccountHandler         = "AdminAccountHandler"
	StageAdminHandler                = "AdminHandler"
	StageAdminCollectionHandler      = "AdminCollectionHandler"
	StageAdminRoleHandler            = "AdminRoleHandler"
	StageUserHandler                 = "UserHandler"
	StageUserCollectionHandler       = "UserCollectionHandler"
	StageUserActivateHandler         = "UserActivateHandler"
	StageUserRoleHandler             = "UserRoleHandler"
	StageAccountHandler              = "AccountHandler"
	StageAccountActivateHandler      = "AccountActivateHandler"
	StageAccountRecoveryHandler      = "AccountRecoveryHandler"
	StageAccountResetPasswordHandler = "AccountResetPasswordHandler"
	StageErrorReportHandler          = "ErrorReportHandler"
)

// Handlers bundles the endpoint handlers mounted by NewRouteTable.
type Handlers struct {
	Home        *HomeHandler
	Token       *TokenHandler
	Admin       *AdminHandler
	AdminRole   *RoleHandler
	User        *UserHandler
	UserRole    *RoleHandler
	Account     *AccountHandler
	ErrorReport *ErrorReportHandler
}

// NewRouteTable builds the named routes of the API. The token routes run
// behind the filter hiding which credential of a password grant was wrong.
func NewRouteTable(h Handlers, invalidCredentials config.InvalidCredentialsConfig) *routing.Table {
	errorResponse := routing.Filter(StageErrorResponseFilter, middleware.NewErrorResponseFilter(invalidCredentials))
	stage := routing.Handler

	t := routing.NewTable()
	t.Add("home", http.MethodGet, "/", stage(StageHomeHandler, h.Home.Get))

	t.Add("security.generate-token", http.MethodPost, "/security/generate-token",
		errorResponse, stage(StageTokenHandler, h.Token.Token))
	t.Add("security.refresh-token", http.MethodPost, "/security/refresh-token",
		errorResponse, stage(StageTokenHandler, h.Token.Token))

	t.Add("admin.my-account.view", http.MethodGet, "/admin/my-account",
		stage(StageAdminAccountHandler, h.Admin.ViewMyAccount))
	t.Add("admin.my-account.update", http.MethodPatch, "/admin/my-account",
		stage(StageAdminAccountHandler, h.Admin.UpdateMyAccount))
	t.Add("admin.create", http.MethodPost, "/admin", stage(StageAdminHandler, h.Admin.Create))
	t.Add("admin.list", http.MethodGet, "/admin", stage(StageAdminCollectionHandler, h.Admin.List))
	t.Add("admin.role.list", http.MethodGet, "/admin/role", stage(StageAdminRoleHandler, h.AdminRole.List))
	t.Add("admin.role.view", http.MethodGet, "/admin/role/{uuid}", stage(StageAdminRoleHandler, h.AdminRole.View))
	t.Add("admin.view", http.MethodGet, "/admin/{uuid}", stage(StageAdminHandler, h.Admin.View))
	t.Add("admin.update", http.MethodPatch, "/admin/{uuid}", stage(StageAdminHandler, h.Admin.Update))
	t.Add("admin.delete", http.MethodDelete, "/admin/{uuid}", stage(StageAdminHandler, h.Admin.Delete))

	t.Add("user.my-account.view", http.MethodGet, "/user/my-account",
		stage(StageAccountHandler, h.Account.ViewMyAccount))
	t.Add("user.my-account.update", http.MethodPatch, "/user/my-account",
		stage(StageAccountHandler, h.Account.UpdateMyAccount))
	t.Add("user.my-account.delete", http.MethodDelete, "/user/my-account",
		stage(StageAccountHandler, h.Account.DeleteMyAccount))
	t.Add("user.create", http.MethodPost, "/user", stage(StageUserHandler, h.User.Create))
	t.Add("user.list", http.MethodGet, "/user", stage(StageUserCollectionHandler, h.User.List))
	t.Add("user.role.list", http.MethodGet, "/user/role", stage(StageUserRoleHandler, h.UserRole.List))
	t.Add("user.role.view", http.MethodGet, "/user/role/{uuid}", stage(StageUserRoleHandler, h.UserRole.View))
	t.Add("user.view", http.MethodGet, "/user/{uuid}", stage(StageUserHandler, h.User.View))
	t.Add("user.update", http.MethodPatch, "/user/{uuid}", stage(StageUserHandler, h.User.Update))
	t.Add("user.delete", http.MethodDelete, "/user/{uuid}", stage(StageUserHandler, h.User.Delete))
	t.Add("user.activate", http.MethodPatch, "/user/{uuid}/activate",
		stage(StageUserActivateHandler, h.User.Activate))

	t.Add("account.register", http.MethodPost, "/account/register", stage(StageAccountHandler, h.Account.Register))
	t.Add("account.activate", http.MethodPatch, "/account/activate/{hash}",
		stage(StageAccountActivateHandler, h.Account.Activate))
	t.Add("account.activate.request", http.MethodPost, "/account/activate",
		stage(StageAccountActivateHandler, h.Account.RequestActivation))
	t.Add("account.recover-identity", http.MethodPost, "/account/recover-identity",
		stage(StageAccountRecoveryHandler, h.Account.RecoverIdentity))
	t.Add("account.reset-password.request", http.MethodPost, "/account/reset-password",
		stage(StageAccountResetPasswordHandler, h.Account.RequestResetPassword))
	t.Add("account.reset-password.validate", http.MethodGet, "/account/reset-password/{hash}",
		stage(StageAccountResetPasswordHandler, h.Account.ValidateResetPassword))
	t.Add("account.reset-password.modify", http.MethodPatch, "/account/reset-password/{hash}",
		stage(StageAccountResetPasswordHandler, h.Account.ModifyPassword))

	t.Add("error.report", http.MethodPost, "/error-report", stage(StageErrorReportHandler, h.ErrorReport.Report))

	return t
}

// NewDeprecationRegistry declares the deprecated handlers of the API.
func NewDeprecationRegistry() deprecation.Registry {
	return deprecation.NewRegistry().
		Resource(StageHomeHandler, deprecation.MustNew(
			deprecation.WithSunset("2038-01-01"),
			deprecation.WithReason("Resource deprecation example."),
		)).
		Method(StageErrorReportHandler, http.MethodPost, deprecation.MustNew(
			deprecation.WithSunset("2038-01-01"),
			deprecation.WithReason("Method deprecation example."),
		))
}
