package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRegisterAndActivate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/account/register", map[string]interface{}{
		"identity":         "ada",
		"password":         "password123",
		"password_confirm": "password123",
		"detail":           map[string]string{"first_name": "Ada", "email": "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeHAL(t, rec)
	assert.Equal(t, "pending", body["status"])

	ada := env.users.Users["ada"]
	require.NotNil(t, ada)
	assert.Equal(t, domain.RoleUser, ada.Roles[0].Name)
	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "Activate your account", env.mailer.sent[0].Subject)
	assert.Contains(t, env.mailer.sent[0].Body, "https://app.example.com/account/activate/"+ada.Hash)

	rec = env.do(t, http.MethodPost, "/account/activate", map[string]string{"email": "ada@example.com"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{fmt.Sprintf(MsgMailSentUserActivation, "ada@example.com")}, infoMessages(t, rec))
	assert.Len(t, env.mailer.sent, 2)

	rec = env.do(t, http.MethodPatch, "/account/activate/"+ada.Hash, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{MsgUserActivated}, infoMessages(t, rec))
	assert.True(t, ada.IsActive())

	rec = env.do(t, http.MethodPatch, "/account/activate/"+ada.Hash, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/account/activate", map[string]string{"email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{MsgUserAlreadyActivated}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPost, "/account/activate", map[string]string{"email": "nobody@example.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPatch, "/account/activate/unknown-hash", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccountRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/account/register", map[string]interface{}{
		"identity":         "ada",
		"password":         "password123",
		"password_confirm": "password123",
		"detail":           map[string]string{"email": "not-an-email"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"The value specified for 'email' is invalid."}, errorMessages(t, rec))
	assert.Empty(t, env.users.Users)
}

func TestAccountRecoverIdentity(t *testing.T) {
	env := newTestEnv(t)
	env.storedUser(t, "ada", "ada@example.com", true)

	for _, email := range []string{"ada@example.com", "nobody@example.com"} {
		rec := env.do(t, http.MethodPost, "/account/recover-identity", map[string]string{"email": email})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, []string{MsgMailSentRecoverIdentity}, infoMessages(t, rec))
	}

	require.Len(t, env.mailer.sent, 1)
	assert.Equal(t, "ada@example.com", env.mailer.sent[0].To)
	assert.Contains(t, env.mailer.sent[0].Body, "ada")
}

func TestAccountResetPassword(t *testing.T) {
	env := newTestEnv(t)
	ada := env.storedUser(t, "ada", "ada@example.com", true)

	rec := env.do(t, http.MethodPost, "/account/reset-password", map[string]string{"identity": "ada"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{MsgMailSentResetPassword}, infoMessages(t, rec))
	require.Len(t, env.resets.Resets, 1)

	var hash string
	for h := range env.resets.Resets {
		hash = h
	}
	path := "/account/reset-password/" + hash

	rec = env.do(t, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{fmt.Sprintf(MsgResetPasswordValid, hash)}, infoMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]string{
		"password":         "newpassword",
		"password_confirm": "different",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{MsgValidatorPasswordMatch}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]string{
		"password":         "newpassword",
		"password_confirm": "newpassword",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{MsgResetPasswordOK}, infoMessages(t, rec))
	assert.Equal(t, "hashed:newpassword", ada.HashedPassword)

	rec = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, []string{fmt.Sprintf(MsgResetPasswordUsed, hash)}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]string{
		"password":         "newpassword",
		"password_confirm": "newpassword",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{fmt.Sprintf(MsgResetPasswordUsed, hash)}, errorMessages(t, rec))

	rec = env.do(t, http.MethodGet, "/account/reset-password/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{fmt.Sprintf(MsgResetPasswordNotFound, "unknown")}, errorMessages(t, rec))
}

func TestAccountResetPasswordExpired(t *testing.T) {
	env := newTestEnv(t)
	ada := env.storedUser(t, "ada", "ada@example.com", true)
	reset, err := domain.NewUserResetPassword(ada.ID, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	env.resets.Resets[reset.Hash] = reset
	path := "/account/reset-password/" + reset.Hash

	rec := env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, []string{fmt.Sprintf(MsgResetPasswordExpired, reset.Hash)}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]string{
		"password":         "newpassword",
		"password_confirm": "newpassword",
	})
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Equal(t, "hashed:password123", ada.HashedPassword)
}

func TestAccountResetPasswordUnknownAccount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/account/reset-password", map[string]string{"email": "nobody@example.com"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, env.resets.Resets)
	assert.Empty(t, env.mailer.sent)

	rec = env.do(t, http.MethodPost, "/account/reset-password", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccountMyAccount(t *testing.T) {
	env := newTestEnv(t)
	ada := env.storedUser(t, "ada", "ada@example.com", true)
	env.actAsUser(ada)

	rec := env.do(t, http.MethodGet, "/user/my-account", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeHAL(t, rec)
	assert.Equal(t, "ada", body["identity"])
	assert.Equal(t, "http://example.com/user/my-account", selfLink(t, body))

	rec = env.do(t, http.MethodPatch, "/user/my-account", map[string]interface{}{
		"detail": map[string]string{"first_name": "Augusta"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Augusta", ada.Detail.FirstName)

	rec = env.do(t, http.MethodDelete, "/user/my-account", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, ada.IsDeleted())
	assert.NotEqual(t, "ada", ada.Identity)

	env.principal = domain.NewGuestPrincipal()
	rec = env.do(t, http.MethodGet, "/user/my-account", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
