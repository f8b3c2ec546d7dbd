package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/service/auth"
	"github.com/phrazzld/account-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrErrorReportTokenMissing):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, service.ErrErrorReportNotAllowed):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrUserAlreadyActive),
		errors.Is(err, service.ErrResetPasswordUsed):
		return http.StatusConflict

	case errors.Is(err, service.ErrResetPasswordExpired):
		return http.StatusGone

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return MsgUnexpected
	}

	var validationErr *domain.ValidationError

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, service.ErrErrorReportTokenMissing):
		return MsgErrorReportTokenMissing
	case errors.Is(err, service.ErrErrorReportNotAllowed):
		return MsgErrorReportNotAllowed
	case errors.Is(err, service.ErrErrorReportDisabled):
		return MsgErrorReportNotEnabled
	case errors.Is(err, domain.ErrUnauthorized):
		return "You are not allowed to access this resource."

	case errors.Is(err, store.ErrAdminNotFound):
		return MsgAdminNotFound
	case errors.Is(err, store.ErrUserNotFound):
		return MsgUserNotFound
	case errors.Is(err, store.ErrRoleNotFound):
		return MsgRoleNotFound
	case errors.Is(err, store.ErrNotFound):
		return MsgNotFound

	case errors.Is(err, store.ErrIdentityExists):
		return MsgDuplicateIdentity
	case errors.Is(err, store.ErrEmailExists):
		return MsgDuplicateEmail
	case errors.Is(err, service.ErrUserAlreadyActive):
		return MsgUserAlreadyActivated

	case errors.Is(err, domain.ErrNoRoles):
		return MsgRestrictionRoles
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	default:
		return MsgUnexpected
	}
}

// HandleAPIError writes the status and safe message for err. defaultMsg
// replaces the generic message of unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// ValidationMessages turns request validation failures into one message per
// failed field.
func ValidationMessages(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{SanitizeValidationError(err)}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf(MsgValidatorRequiredByField, field)
	case "min":
		return fmt.Sprintf(MsgValidatorMinLength, field, fe.Param())
	case "max":
		return fmt.Sprintf(MsgValidatorMaxLength, field, fe.Param())
	case "eqfield":
		return MsgValidatorPasswordMatch
	default:
		return fmt.Sprintf(MsgInvalidValue, field)
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				return fmt.Sprintf(MsgInvalidValue, fieldParts[1])
			}
		}
	}

	return "Validation error"
}

// respondValidation writes a 400 listing every failed field.
func respondValidation(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithError(w, r, http.StatusBadRequest, ValidationMessages(err)...)
}
