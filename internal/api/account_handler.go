package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
	"github.com/phrazzld/account-api/internal/store"
)

const myAccountPath = "/user/my-account"

// AccountHandler serves the self-service endpoints of frontend users:
// registration, activation, identity recovery, password reset and the
// user's own account.
type AccountHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(users service.UserService, logger *slog.Logger) *AccountHandler {
	if users == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service and logger cannot be nil for AccountHandler")
	}
	return &AccountHandler{
		users:  users,
		logger: logger.With(slog.String("component", "account_handler")),
	}
}

// Register handles POST /account/register.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register account")
		return
	}
	respondEntity(w, r, http.StatusCreated, user, entityPath(userPath, user.ID))
}

// Activate handles PATCH /account/activate/{hash}.
func (h *AccountHandler) Activate(w http.ResponseWriter, r *http.Request) {
	if _, err := h.users.ActivateByHash(r.Context(), chi.URLParam(r, "hash")); err != nil {
		HandleAPIError(w, r, err, "Failed to activate account")
		return
	}
	shared.RespondWithInfo(w, r, http.StatusOK, MsgUserActivated)
}

// RequestActivation handles POST /account/activate.
func (h *AccountHandler) RequestActivation(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.users.RequestActivation(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err, "Failed to send activation mail")
		return
	}
	shared.RespondWithInfo(w, r, http.StatusCreated, fmt.Sprintf(MsgMailSentUserActivation, req.Email))
}

// RecoverIdentity handles POST /account/recover-identity. The answer does not
// reveal whether the email is known.
func (h *AccountHandler) RecoverIdentity(w http.ResponseWriter, r *http.Request) {
	var req EmailRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.RecoverIdentity(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err, "Failed to recover identity")
		return
	}
	shared.RespondWithInfo(w, r, http.StatusOK, MsgMailSentRecoverIdentity)
}

// RequestResetPassword handles POST /account/reset-password.
func (h *AccountHandler) RequestResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.RequestResetPassword(r.Context(), req.Email, req.Identity); err != nil {
		HandleAPIError(w, r, err, "Failed to request password reset")
		return
	}
	shared.RespondWithInfo(w, r, http.StatusCreated, MsgMailSentResetPassword)
}

// ValidateResetPassword handles GET /account/reset-password/{hash}.
func (h *AccountHandler) ValidateResetPassword(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	if _, err := h.users.ValidateResetPassword(r.Context(), hash); err != nil {
		h.respondResetError(w, r, hash, err, http.StatusGone)
		return
	}
	shared.RespondWithInfo(w, r, http.StatusOK, fmt.Sprintf(MsgResetPasswordValid, hash))
}

// ModifyPassword handles PATCH /account/reset-password/{hash}.
func (h *AccountHandler) ModifyPassword(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	var req ModifyPasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.users.ResetPassword(r.Context(), hash, req.Password); err != nil {
		h.respondResetError(w, r, hash, err, http.StatusConflict)
		return
	}
	shared.RespondWithInfo(w, r, http.StatusOK, MsgResetPasswordOK)
}

// respondResetError names the hash in reset failures. usedStatus is the
// status of an already completed request.
func (h *AccountHandler) respondResetError(w http.ResponseWriter, r *http.Request, hash string, err error, usedStatus int) {
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("password reset rejected",
		slog.String("error", err.Error()))

	switch {
	case errors.Is(err, store.ErrResetPasswordNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, fmt.Sprintf(MsgResetPasswordNotFound, hash))
	case errors.Is(err, service.ErrResetPasswordExpired):
		shared.RespondWithError(w, r, http.StatusGone, fmt.Sprintf(MsgResetPasswordExpired, hash))
	case errors.Is(err, service.ErrResetPasswordUsed):
		shared.RespondWithError(w, r, usedStatus, fmt.Sprintf(MsgResetPasswordUsed, hash))
	default:
		HandleAPIError(w, r, err, "Failed to reset password")
	}
}

// ViewMyAccount handles GET /user/my-account.
func (h *AccountHandler) ViewMyAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := principalUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), current.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get account")
		return
	}
	respondEntity(w, r, http.StatusOK, user, myAccountPath)
}

// UpdateMyAccount handles PATCH /user/my-account.
func (h *AccountHandler) UpdateMyAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := principalUser(w, r)
	if !ok {
		return
	}

	var req UpdateMyAccountRequest
	if !decodeAndValidate(w, r, &req) || !passwordConfirmed(w, r, req.passwordChange) {
		return
	}

	user, err := h.users.Update(r.Context(), current.ID, req.update())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update account")
		return
	}
	respondEntity(w, r, http.StatusOK, user, myAccountPath)
}

// DeleteMyAccount handles DELETE /user/my-account.
func (h *AccountHandler) DeleteMyAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := principalUser(w, r)
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), current.ID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}
	shared.RespondNoContent(w, http.StatusNoContent)
}
