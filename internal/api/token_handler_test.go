package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenHandler(t *testing.T) {
	pair := &auth.TokenResponse{TokenType: "Bearer", ExpiresIn: 3600, AccessToken: "access", RefreshToken: "refresh"}

	t.Run("json password grant", func(t *testing.T) {
		env := newTestEnv(t)
		env.issuer.issueFn = func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
			return pair, nil
		}

		rec := env.do(t, http.MethodPost, "/security/generate-token", map[string]string{
			"grant_type":    "password",
			"client_id":     "frontend",
			"client_secret": "frontend-secret",
			"username":      "ada",
			"password":      "password123",
		})

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var got auth.TokenResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, *pair, got)
		assert.Equal(t, "ada", env.issuer.got.Username)
		assert.Equal(t, "frontend", env.issuer.got.ClientID)
	})

	t.Run("form refresh grant", func(t *testing.T) {
		env := newTestEnv(t)
		env.issuer.issueFn = func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
			return pair, nil
		}

		form := url.Values{
			"grant_type":    {"refresh_token"},
			"client_id":     {"admin"},
			"client_secret": {"admin-secret"},
			"refresh_token": {"old-refresh"},
		}
		req := httptest.NewRequest(http.MethodPost, "/security/refresh-token", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "refresh_token", env.issuer.got.GrantType)
		assert.Equal(t, "old-refresh", env.issuer.got.RefreshToken)
	})

	t.Run("oauth errors keep their status and body", func(t *testing.T) {
		env := newTestEnv(t)
		env.issuer.issueFn = func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
			return nil, &auth.OAuthError{
				Status:      http.StatusUnauthorized,
				Code:        "invalid_client",
				Description: "Client authentication failed",
				Message:     "Client authentication failed",
			}
		}

		rec := env.do(t, http.MethodPost, "/security/generate-token", map[string]string{"grant_type": "password"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "invalid_client", body["error"])
	})

	t.Run("invalid credentials are masked", func(t *testing.T) {
		env := newTestEnv(t)
		env.issuer.issueFn = func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
			return nil, &auth.OAuthError{
				Status:      http.StatusBadRequest,
				Code:        "invalid_grant",
				Description: "The user credentials were incorrect.",
				Message:     "The user credentials were incorrect.",
			}
		}

		rec := env.do(t, http.MethodPost, "/security/generate-token", map[string]string{"grant_type": "password"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "invalid_credentials", body["error"])
		assert.Equal(t, "Invalid credentials.", body["message"])
	})

	t.Run("issuer faults", func(t *testing.T) {
		env := newTestEnv(t)
		env.issuer.issueFn = func(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error) {
			return nil, errors.New("redis: connection refused")
		}

		rec := env.do(t, http.MethodPost, "/security/generate-token", map[string]string{"grant_type": "password"})

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, []string{"Failed to issue token"}, errorMessages(t, rec))
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t)
		req := httptest.NewRequest(http.MethodPost, "/security/generate-token", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{MsgInvalidRequest}, errorMessages(t, rec))
	})
}
