package api

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequestInput(t *testing.T) {
	roleID := uuid.New()
	raw := `{
		"identity": "ada",
		"password": "password123",
		"password_confirm": "password123",
		"status": "active",
		"detail": {"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com"},
		"roles": [{"uuid": "` + roleID.String() + `"}]
	}`

	var req CreateUserRequest
	require.NoError(t, json.Unmarshal([]byte(raw), &req))
	require.NoError(t, shared.ValidateRequest(&req))

	in := req.input()
	assert.Equal(t, "ada", in.Identity)
	assert.Equal(t, "password123", in.Password)
	assert.Equal(t, domain.UserStatusActive, in.Status)
	assert.Equal(t, domain.UserDetail{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}, in.Detail)
	assert.Equal(t, []uuid.UUID{roleID}, in.RoleIDs)
}

func TestRegisterRequestLeavesRolesToTheService(t *testing.T) {
	req := RegisterRequest{
		Identity: "ada",
		Password: "password123",
		Detail:   UserDetailRequest{Email: "ada@example.com"},
	}

	in := req.input()
	assert.Nil(t, in.RoleIDs)
	assert.Empty(t, in.Status)
}

func TestUpdateUserRequestUpdate(t *testing.T) {
	t.Run("absent fields stay nil", func(t *testing.T) {
		var req UpdateUserRequest
		require.NoError(t, json.Unmarshal([]byte(`{"identity":"ada2"}`), &req))

		u := req.update()
		assert.Equal(t, "ada2", *u.Identity)
		assert.Nil(t, u.Password)
		assert.Nil(t, u.Status)
		assert.Nil(t, u.RoleIDs)
		assert.Nil(t, u.Detail.Email)
	})

	t.Run("empty roles are kept", func(t *testing.T) {
		var req UpdateUserRequest
		require.NoError(t, json.Unmarshal([]byte(`{"roles":[],"status":"pending","detail":{"email":"a@b.io"}}`), &req))

		u := req.update()
		assert.NotNil(t, u.RoleIDs)
		assert.Empty(t, u.RoleIDs)
		assert.Equal(t, domain.UserStatusPending, *u.Status)
		assert.Equal(t, "a@b.io", *u.Detail.Email)
	})

	t.Run("invalid detail email", func(t *testing.T) {
		var req UpdateUserRequest
		require.NoError(t, json.Unmarshal([]byte(`{"detail":{"email":"not-an-email"}}`), &req))

		err := shared.ValidateRequest(&req)
		require.Error(t, err)
		assert.Equal(t, []string{"The value specified for 'email' is invalid."}, ValidationMessages(err))
	})
}

func TestUpdateMyAdminRequestCannotChangeRoles(t *testing.T) {
	var req UpdateMyAdminRequest
	require.NoError(t, json.Unmarshal([]byte(`{"first_name":"Grace","roles":[{"uuid":"`+uuid.NewString()+`"}]}`), &req))

	u := req.update()
	assert.Equal(t, "Grace", *u.FirstName)
	assert.Nil(t, u.RoleIDs)
	assert.Nil(t, u.Identity)
	assert.Nil(t, u.Status)
}

func TestPasswordChangeMismatch(t *testing.T) {
	pw := "password123"
	other := "password321"

	assert.False(t, passwordChange{}.mismatch())
	assert.False(t, passwordChange{Password: &pw, PasswordConfirm: &pw}.mismatch())
	assert.True(t, passwordChange{Password: &pw}.mismatch())
	assert.True(t, passwordChange{Password: &pw, PasswordConfirm: &other}.mismatch())
}
