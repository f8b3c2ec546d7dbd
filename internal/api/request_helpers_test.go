package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetPathUUID(t *testing.T) {
	validUUID := uuid.New()

	tests := []struct {
		name      string
		value     string
		expectErr error
	}{
		{name: "valid", value: validUUID.String()},
		{name: "missing", value: "", expectErr: domain.ErrValidation},
		{name: "malformed", value: "not-a-uuid", expectErr: domain.ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "uuid", tt.value)

			id, err := getPathUUID(req, "uuid")

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Equal(t, uuid.Nil, id)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, validUUID, id)
		})
	}
}

func TestPrincipalHelpers(t *testing.T) {
	admin := &domain.Admin{ID: uuid.New(), Identity: "grace"}
	user := &domain.User{ID: uuid.New(), Identity: "ada"}

	adminReq := httptest.NewRequest(http.MethodGet, "/", nil)
	adminReq = adminReq.WithContext(shared.WithPrincipal(adminReq.Context(),
		&domain.Principal{Identity: "grace", ClientKind: domain.ClientAdmin, Admin: admin}))

	got, ok := principalAdmin(httptest.NewRecorder(), adminReq)
	assert.True(t, ok)
	assert.Same(t, admin, got)

	rec := httptest.NewRecorder()
	_, ok = principalUser(rec, adminReq)
	assert.False(t, ok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	userReq := httptest.NewRequest(http.MethodGet, "/", nil)
	userReq = userReq.WithContext(shared.WithPrincipal(userReq.Context(),
		&domain.Principal{Identity: "ada", ClientKind: domain.ClientFrontend, User: user}))
	gotUser, ok := principalUser(httptest.NewRecorder(), userReq)
	assert.True(t, ok)
	assert.Same(t, user, gotUser)

	rec = httptest.NewRecorder()
	_, ok = principalAdmin(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))

		var body EmailRequest
		assert.False(t, decodeAndValidate(rec, req, &body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{MsgInvalidRequest}, errorMessages(t, rec))
	})

	t.Run("field failures", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/",
			strings.NewReader(`{"identity":"ada","password":"short","password_confirm":"other"}`))

		var body RegisterRequest
		assert.False(t, decodeAndValidate(rec, req, &body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.ElementsMatch(t, []string{
			"password must be at least 8 characters long.",
			MsgValidatorPasswordMatch,
			"email is required and cannot be empty.",
		}, errorMessages(t, rec))
	})

	t.Run("valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"ada@example.com"}`))

		var body EmailRequest
		assert.True(t, decodeAndValidate(httptest.NewRecorder(), req, &body))
		assert.Equal(t, "ada@example.com", body.Email)
	})
}

func TestPasswordConfirmed(t *testing.T) {
	pw := "password123"
	other := "password124"

	assert.True(t, passwordConfirmed(httptest.NewRecorder(), nil, passwordChange{}))
	assert.True(t, passwordConfirmed(httptest.NewRecorder(), nil, passwordChange{Password: &pw, PasswordConfirm: &pw}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/", nil)
	assert.False(t, passwordConfirmed(rec, req, passwordChange{Password: &pw, PasswordConfirm: &other}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{MsgValidatorPasswordMatch}, errorMessages(t, rec))
}
