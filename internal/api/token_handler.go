package api

import (
	"context"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service/auth"
)

// TokenIssuer runs the OAuth2 grants of the token endpoint.
type TokenIssuer interface {
	Issue(ctx context.Context, req auth.TokenRequest) (*auth.TokenResponse, error)
}

// TokenHandler serves the generate-token and refresh-token endpoints.
type TokenHandler struct {
	issuer TokenIssuer
	logger *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(issuer TokenIssuer, logger *slog.Logger) *TokenHandler {
	if issuer == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("issuer and logger cannot be nil for TokenHandler")
	}
	return &TokenHandler{
		issuer: issuer,
		logger: logger.With(slog.String("component", "token_handler")),
	}
}

// Token accepts the grant parameters as JSON or as a urlencoded form.
func (h *TokenHandler) Token(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	req, err := readTokenRequest(r)
	if err != nil {
		log.Debug("invalid token request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequest)
		return
	}

	resp, err := h.issuer.Issue(r.Context(), req)
	if err != nil {
		var oauthErr *auth.OAuthError
		if errors.As(err, &oauthErr) {
			log.Debug("token request rejected",
				slog.String("grant_type", req.GrantType),
				slog.String("client_id", req.ClientID),
				slog.String("error", oauthErr.Code))
			shared.RespondWithJSON(w, r, oauthErr.Status, oauthErr)
			return
		}
		HandleAPIError(w, r, err, "Failed to issue token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

func readTokenRequest(r *http.Request) (auth.TokenRequest, error) {
	var req auth.TokenRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/x-www-form-urlencoded" {
		err := shared.DecodeJSON(r, &req)
		return req, err
	}

	if err := r.ParseForm(); err != nil {
		return req, err
	}
	req.GrantType = r.PostForm.Get("grant_type")
	req.ClientID = r.PostForm.Get("client_id")
	req.ClientSecret = r.PostForm.Get("client_secret")
	req.Scope = r.PostForm.Get("scope")
	req.Username = r.PostForm.Get("username")
	req.Password = r.PostForm.Get("password")
	req.RefreshToken = r.PostForm.Get("refresh_token")
	return req, nil
}
