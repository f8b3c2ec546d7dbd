package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrWrongTokenType indicates an access token was used as a refresh token or vice versa
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrInvalidRefreshToken indicates the refresh token is malformed, badly signed or revoked
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrExpiredRefreshToken indicates the refresh token has expired
	ErrExpiredRefreshToken = errors.New("refresh token has expired")
)

// Identity resolution errors. Each is wrapped in an *IdentityError carrying
// the message returned to the client.
var (
	ErrUserNotFoundByIdentity = errors.New("account not found by identity")
	ErrAdminNotActivated      = errors.New("admin account is not active")
	ErrUserNotActivated       = errors.New("user account is not active")
	ErrInvalidClientID        = errors.New("invalid client id")
)

// Client-facing messages.
const (
	MsgAdminNotActivated      = "This account is deactivated."
	MsgUserNotActivated       = "User account must be activated first."
	MsgUserNotFoundByIdentity = "Could not find account by identity '%s'"
	MsgInvalidClientID        = "Invalid client_id."
)

// IdentityError is a terminal identity resolution failure.
type IdentityError struct {
	Err     error
	Message string
}

func (e *IdentityError) Error() string {
	return e.Message
}

func (e *IdentityError) Unwrap() error {
	return e.Err
}

func newIdentityError(err error, message string) *IdentityError {
	return &IdentityError{Err: err, Message: message}
}
