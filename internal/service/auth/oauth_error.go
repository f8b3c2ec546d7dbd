package auth

import (
	"fmt"
	"net/http"
)

// OAuthError is a token endpoint failure rendered as the OAuth2 error body.
type OAuthError struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
	Hint        string `json:"hint,omitempty"`
	Message     string `json:"message"`
}

func (e *OAuthError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Description, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func newOAuthError(status int, code, description, hint string) *OAuthError {
	return &OAuthError{
		Status:      status,
		Code:        code,
		Description: description,
		Hint:        hint,
		Message:     description,
	}
}

func errUnsupportedGrantType() *OAuthError {
	return newOAuthError(http.StatusBadRequest, "unsupported_grant_type",
		"The authorization grant type is not supported by the authorization server.",
		"Check that all required parameters have been provided")
}

func errInvalidRequest(parameter string) *OAuthError {
	return newOAuthError(http.StatusBadRequest, "invalid_request",
		"The request is missing a required parameter, includes an invalid parameter value, "+
			"includes a parameter more than once, or is otherwise malformed.",
		fmt.Sprintf("Check the `%s` parameter", parameter))
}

func errInvalidClient() *OAuthError {
	return newOAuthError(http.StatusUnauthorized, "invalid_client", "Client authentication failed", "")
}

// errInvalidCredentials carries no hint so the error response filter can
// replace it with the configured message.
func errInvalidCredentials() *OAuthError {
	return newOAuthError(http.StatusBadRequest, "invalid_grant", "The user credentials were incorrect.", "")
}

func errInvalidRefreshToken(hint string) *OAuthError {
	return newOAuthError(http.StatusBadRequest, "invalid_grant", "The refresh token is invalid.", hint)
}

func errInactiveUser() *OAuthError {
	return &OAuthError{
		Status:      http.StatusUnauthorized,
		Code:        "inactive_user",
		Description: MsgUserNotActivated,
		Message:     MsgUserNotActivated,
	}
}
