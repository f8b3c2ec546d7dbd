package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserHandlerCreate(t *testing.T) {
	t.Run("active user gets a welcome mail", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/user", map[string]interface{}{
			"identity":         "ada",
			"password":         "password123",
			"password_confirm": "password123",
			"status":           "active",
			"detail":           map[string]string{"first_name": "Ada", "email": "ada@example.com"},
		})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		body := decodeHAL(t, rec)
		assert.Equal(t, "active", body["status"])
		assert.Equal(t, "ada@example.com", body["detail"].(map[string]interface{})["email"])
		assert.NotContains(t, body, "hash")
		require.Len(t, env.mailer.sent, 1)
		assert.Equal(t, "Welcome", env.mailer.sent[0].Subject)
	})

	t.Run("duplicate email", func(t *testing.T) {
		env := newTestEnv(t)
		env.storedUser(t, "ada", "ada@example.com", true)

		rec := env.do(t, http.MethodPost, "/user", map[string]interface{}{
			"identity":         "ada2",
			"password":         "password123",
			"password_confirm": "password123",
			"detail":           map[string]string{"email": "ada@example.com"},
		})

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, []string{MsgDuplicateEmail}, errorMessages(t, rec))
	})

	t.Run("invalid status", func(t *testing.T) {
		env := newTestEnv(t)

		rec := env.do(t, http.MethodPost, "/user", map[string]interface{}{
			"identity":         "ada",
			"password":         "password123",
			"password_confirm": "password123",
			"status":           "deleted",
			"detail":           map[string]string{"email": "ada@example.com"},
		})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"The value specified for 'status' is invalid."}, errorMessages(t, rec))
	})
}

func TestUserHandlerLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ada := env.storedUser(t, "ada", "ada@example.com", false)
	env.storedUser(t, "bob", "bob@example.com", true)
	path := "/user/" + ada.ID.String()

	rec := env.do(t, http.MethodGet, "/user", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeHAL(t, rec)
	assert.EqualValues(t, 2, list["_total_items"])
	users := list["_embedded"].(map[string]interface{})["users"].([]interface{})
	assert.Len(t, users, 2)

	rec = env.do(t, http.MethodPatch, path+"/activate", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{MsgUserActivated}, infoMessages(t, rec))
	assert.True(t, ada.IsActive())

	rec = env.do(t, http.MethodPatch, path+"/activate", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, []string{MsgUserAlreadyActivated}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]interface{}{
		"detail": map[string]string{"last_name": "Lovelace"},
		"roles":  []interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{MsgRestrictionRoles}, errorMessages(t, rec))

	rec = env.do(t, http.MethodPatch, path, map[string]interface{}{
		"detail": map[string]string{"last_name": "Lovelace"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Lovelace", ada.Detail.LastName)

	rec = env.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, ada.IsDeleted())

	rec = env.do(t, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, []string{MsgUserNotFound}, errorMessages(t, rec))
}

func TestUserHandlerListFailure(t *testing.T) {
	env := newTestEnv(t)
	env.users.ListFn = func(ctx context.Context, page store.Page) ([]*domain.User, int, error) {
		return nil, 0, errors.New("connection reset by peer")
	}

	rec := env.do(t, http.MethodGet, "/user", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []string{"Failed to list users"}, errorMessages(t, rec))
	assert.NotContains(t, rec.Body.String(), "connection reset")
}
