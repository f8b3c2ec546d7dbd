package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the account services. The API layer maps them
// to status codes with errors.Is.
var (
	// ErrUserAlreadyActive is returned when activating an account that is
	// already active. API layer should map this to HTTP 409 Conflict.
	ErrUserAlreadyActive = errors.New("user is already active")

	// ErrResetPasswordExpired is returned for a password reset request past
	// its expiry.
	ErrResetPasswordExpired = errors.New("password reset request has expired")

	// ErrResetPasswordUsed is returned for a password reset request that was
	// already completed.
	ErrResetPasswordUsed = errors.New("password reset request was already used")

	// ErrErrorReportDisabled is returned when remote error reporting is off.
	ErrErrorReportDisabled = errors.New("remote error reporting is not enabled")

	// ErrErrorReportTokenMissing is returned when a report carries no token.
	ErrErrorReportTokenMissing = errors.New("error reporting token is missing")

	// ErrErrorReportNotAllowed is returned for an unknown token or a sender
	// outside the whitelists.
	ErrErrorReportNotAllowed = errors.New("not allowed to report errors")
)

// ServiceError records the service and operation an unexpected error came from.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a ServiceError.
func NewServiceError(service, op string, err error) error {
	return &ServiceError{Service: service, Op: op, Err: err}
}
