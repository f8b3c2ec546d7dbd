package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/mocks"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []service.Mail
}

func (m *recordingMailer) Send(ctx context.Context, mail service.Mail) error {
	m.sent = append(m.sent, mail)
	return nil
}

type stubIssuer struct {
	issueFn func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error)
	got     auth.TokenRequest
}

func (s *stubIssuer) Issue(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
	s.got = req
	return s.issueFn(ctx, req)
}

// testEnv mounts the route table over real services backed by in-memory stores.
// Requests act as principal when it is set.
type testEnv struct {
	admins     *mocks.MockAdminStore
	adminRoles *mocks.MockRoleStore
	users      *mocks.MockUserStore
	userRoles  *mocks.MockRoleStore
	resets     *mocks.MockResetPasswordStore
	mailer     *recordingMailer
	issuer     *stubIssuer
	reports    config.ErrorReportConfig
	principal  *domain.Principal
	router     chi.Router
}

func newTestEnv(t *testing.T, opts ...func(*testEnv)) *testEnv {
	t.Helper()
	log, _ := logger.GetTestLogger(t)

	env := &testEnv{
		admins:     mocks.NewMockAdminStore(),
		adminRoles: mocks.NewMockRoleStore(domain.RoleAdmin, domain.RoleSuperUser),
		users:      mocks.NewMockUserStore(),
		userRoles:  mocks.NewMockRoleStore(domain.RoleUser, domain.RoleGuest),
		resets:     mocks.NewMockResetPasswordStore(),
		mailer:     &recordingMailer{},
		issuer:     &stubIssuer{},
		reports: config.ErrorReportConfig{
			Enabled:         true,
			Path:            t.TempDir() + "/error-report.log",
			Tokens:          []string{"frontend-report-token"},
			DomainWhitelist: []string{"app.example.com"},
		},
	}

	for _, opt := range opts {
		opt(env)
	}

	hasher := &mocks.MockPasswordVerifier{}
	users := service.NewUserService(service.UserServiceDeps{
		Users:  env.users,
		Roles:  env.userRoles,
		Resets: env.resets,
		Hasher: hasher,
		Mailer: env.mailer,
		Config: config.AccountConfig{ResetPasswordLifetime: time.Hour, FrontendURL: "https://app.example.com"},
		Logger: log,
	})

	table := NewRouteTable(Handlers{
		Home:        &HomeHandler{},
		Token:       NewTokenHandler(env.issuer, log),
		Admin:       NewAdminHandler(service.NewAdminService(env.admins, env.adminRoles, hasher, nil, log), log),
		AdminRole:   NewRoleHandler(service.NewRoleService(env.adminRoles, "admin", log), "/admin/role", log),
		User:        NewUserHandler(users, log),
		UserRole:    NewRoleHandler(service.NewRoleService(env.userRoles, "user", log), "/user/role", log),
		Account:     NewAccountHandler(users, log),
		ErrorReport: NewErrorReportHandler(service.NewErrorReportService(env.reports, log), log),
	}, config.InvalidCredentialsConfig{
		Error:            "invalid_credentials",
		ErrorDescription: "Invalid credentials.",
		Message:          "Invalid credentials.",
	})

	env.router = chi.NewRouter()
	table.Mount(env.router, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if env.principal != nil {
				r = r.WithContext(shared.WithPrincipal(r.Context(), env.principal))
			}
			next.ServeHTTP(w, r)
		})
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) actAsAdmin(admin *domain.Admin) {
	e.principal = &domain.Principal{
		Identity:   admin.Identity,
		ClientKind: domain.ClientAdmin,
		Roles:      domain.CollectRoles(admin.Roles),
		Admin:      admin,
	}
}

func (e *testEnv) actAsUser(user *domain.User) {
	e.principal = &domain.Principal{
		Identity:   user.Identity,
		ClientKind: domain.ClientFrontend,
		Roles:      domain.CollectRoles(user.Roles),
		User:       user,
	}
}

func (e *testEnv) storedAdmin(t *testing.T, identity string) *domain.Admin {
	t.Helper()
	admin, err := domain.NewAdmin(identity, "password123", "Grace", "Hopper", e.adminRoles.Roles[:1])
	require.NoError(t, err)
	admin.HashedPassword = "hashed:password123"
	admin.Password = ""
	e.admins.Admins[identity] = admin
	return admin
}

func (e *testEnv) storedUser(t *testing.T, identity, email string, active bool) *domain.User {
	t.Helper()
	user, err := domain.NewUser(identity, "password123", domain.UserDetail{FirstName: "Ada", Email: email},
		e.userRoles.Roles[:1])
	require.NoError(t, err)
	user.HashedPassword = "hashed:password123"
	user.Password = ""
	if active {
		user.Activate()
	}
	e.users.Users[identity] = user
	return user
}

// decodeHAL decodes a HAL response body into a generic map.
func decodeHAL(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	require.Equal(t, shared.ContentTypeHAL, rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func selfLink(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	links, ok := body["_links"].(map[string]interface{})
	require.True(t, ok, "missing _links")
	self, ok := links["self"].(map[string]interface{})
	require.True(t, ok, "missing self link")
	return self["href"].(string)
}
