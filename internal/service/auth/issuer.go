package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/account-api/internal/config"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/store"
)

// Supported grant types.
const (
	GrantPassword     = "password"
	GrantRefreshToken = "refresh_token"
)

// RefreshTokenRegistry tracks issued refresh tokens so each can be used once.
type RefreshTokenRegistry interface {
	// Register records a refresh token id until ttl elapses.
	Register(ctx context.Context, tokenID, identity string, ttl time.Duration) error

	// Consume removes the token id and reports whether it was registered.
	Consume(ctx context.Context, tokenID string) (bool, error)
}

// TokenRequest holds the token endpoint parameters.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Scope        string `json:"scope"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse is the body of a successful token request.
type TokenResponse struct {
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ClientRegistry holds the secrets of the clients allowed to request tokens.
type ClientRegistry struct {
	secrets map[domain.ClientKind]string
}

// NewClientRegistry builds the registry from configuration.
func NewClientRegistry(cfg config.ClientsConfig) ClientRegistry {
	return ClientRegistry{secrets: map[domain.ClientKind]string{
		domain.ClientAdmin:    cfg.Admin,
		domain.ClientFrontend: cfg.Frontend,
	}}
}

// Authenticate returns the client kind when id and secret match a registered client.
func (c ClientRegistry) Authenticate(id, secret string) (domain.ClientKind, bool) {
	kind := domain.ClientKind(id)
	expected, ok := c.secrets[kind]
	if !ok || expected == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(secret)) != 1 {
		return "", false
	}
	return kind, true
}

// TokenIssuer implements the password and refresh_token grants.
type TokenIssuer struct {
	tokens   JWTService
	admins   AdminFinder
	users    UserFinder
	verifier PasswordVerifier
	clients  ClientRegistry
	registry RefreshTokenRegistry
	logger   *slog.Logger
}

// NewTokenIssuer creates a TokenIssuer with all of its collaborators.
func NewTokenIssuer(
	tokens JWTService,
	admins AdminFinder,
	users UserFinder,
	verifier PasswordVerifier,
	clients ClientRegistry,
	registry RefreshTokenRegistry,
	logger *slog.Logger,
) *TokenIssuer {
	if tokens == nil || admins == nil || users == nil || verifier == nil || registry == nil {
		panic("token issuer requires all collaborators")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenIssuer{
		tokens:   tokens,
		admins:   admins,
		users:    users,
		verifier: verifier,
		clients:  clients,
		registry: registry,
		logger:   logger.With(slog.String("component", "token_issuer")),
	}
}

// Issue runs the requested grant. Client mistakes are returned as *OAuthError.
func (i *TokenIssuer) Issue(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.GrantType == "" {
		return nil, errInvalidRequest("grant_type")
	}
	if req.GrantType != GrantPassword && req.GrantType != GrantRefreshToken {
		return nil, errUnsupportedGrantType()
	}
	if req.ClientID == "" {
		return nil, errInvalidRequest("client_id")
	}

	client, ok := i.clients.Authenticate(req.ClientID, req.ClientSecret)
	if !ok {
		return nil, errInvalidClient()
	}

	if req.GrantType == GrantPassword {
		return i.passwordGrant(ctx, client, req)
	}
	return i.refreshTokenGrant(ctx, client, req)
}

func (i *TokenIssuer) passwordGrant(
	ctx context.Context,
	client domain.ClientKind,
	req TokenRequest,
) (*TokenResponse, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	if req.Username == "" {
		return nil, errInvalidRequest("username")
	}
	if req.Password == "" {
		return nil, errInvalidRequest("password")
	}

	hashed, active, err := i.credentials(ctx, client, req.Username)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("password grant for unknown identity", slog.String("client_id", string(client)))
			return nil, errInvalidCredentials()
		}
		return nil, err
	}

	if err := i.verifier.Compare(hashed, req.Password); err != nil {
		log.Debug("password grant with wrong password", slog.String("client_id", string(client)))
		return nil, errInvalidCredentials()
	}

	if !active {
		return nil, errInactiveUser()
	}

	return i.issuePair(ctx, req.Username, client)
}

// credentials returns the password hash of an account and whether the account
// may obtain tokens. Admin activation is checked later by the identity resolver.
func (i *TokenIssuer) credentials(
	ctx context.Context,
	client domain.ClientKind,
	identity string,
) (string, bool, error) {
	switch client {
	case domain.ClientAdmin:
		admin, err := i.admins.GetByIdentity(ctx, identity)
		if err != nil {
			return "", false, err
		}
		return admin.HashedPassword, true, nil
	case domain.ClientFrontend:
		user, err := i.users.GetByIdentity(ctx, identity)
		if err != nil {
			return "", false, err
		}
		if user.IsDeleted() {
			return "", false, store.ErrUserNotFound
		}
		return user.HashedPassword, user.IsActive(), nil
	default:
		return "", false, errInvalidClient()
	}
}

func (i *TokenIssuer) refreshTokenGrant(
	ctx context.Context,
	client domain.ClientKind,
	req TokenRequest,
) (*TokenResponse, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	if req.RefreshToken == "" {
		return nil, errInvalidRequest("refresh_token")
	}

	claims, err := i.tokens.ValidateRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrExpiredRefreshToken) {
			return nil, errInvalidRefreshToken("Token has expired")
		}
		return nil, errInvalidRefreshToken("Cannot decrypt the refresh token")
	}

	if claims.ClientID != client {
		return nil, errInvalidRefreshToken("Token is not linked to client")
	}

	consumed, err := i.registry.Consume(ctx, claims.ID)
	if err != nil {
		log.Error("failed to consume refresh token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !consumed {
		log.Debug("refresh token reused or revoked", slog.String("token_id", claims.ID))
		return nil, errInvalidRefreshToken("Token has been revoked")
	}

	return i.issuePair(ctx, claims.Identity, client)
}

func (i *TokenIssuer) issuePair(
	ctx context.Context,
	identity string,
	client domain.ClientKind,
) (*TokenResponse, error) {
	log := logger.FromContextOrDefault(ctx, i.logger)

	access, err := i.tokens.GenerateToken(ctx, identity, client)
	if err != nil {
		return nil, err
	}

	refresh, claims, err := i.tokens.GenerateRefreshToken(ctx, identity, client)
	if err != nil {
		return nil, err
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt)
	if err := i.registry.Register(ctx, claims.ID, identity, ttl); err != nil {
		log.Error("failed to register refresh token", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register refresh token: %w", err)
	}

	log.Info("tokens issued", slog.String("client_id", string(client)))

	return &TokenResponse{
		TokenType:    "Bearer",
		ExpiresIn:    int(i.tokens.AccessTokenLifetime().Seconds()),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
