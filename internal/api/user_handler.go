package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/hal"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
)

const userPath = "/user"

// UserHandler lets admins manage frontend accounts.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if users == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("user service and logger cannot be nil for UserHandler")
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// Create handles POST /user.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}
	respondEntity(w, r, http.StatusCreated, user, entityPath(userPath, user.ID))
}

// List handles GET /user.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := hal.PageFromRequest(r)
	users, total, err := h.users.List(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}
	respondCollection(w, r, "users", users, page, total, func(u *domain.User) string {
		return entityPath(userPath, u.ID)
	})
}

// View handles GET /user/{uuid}.
func (h *UserHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get user")
		return
	}
	respondEntity(w, r, http.StatusOK, user, entityPath(userPath, user.ID))
}

// Update handles PATCH /user/{uuid}.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, &req) || !passwordConfirmed(w, r, req.passwordChange) {
		return
	}

	user, err := h.users.Update(r.Context(), id, req.update())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update user")
		return
	}
	respondEntity(w, r, http.StatusOK, user, entityPath(userPath, user.ID))
}

// Delete handles DELETE /user/{uuid}. The account is anonymised, not removed.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete user")
		return
	}
	shared.RespondNoContent(w, http.StatusNoContent)
}

// Activate handles PATCH /user/{uuid}/activate.
func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	if _, err := h.users.Activate(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to activate user")
		return
	}
	shared.RespondWithInfo(w, r, http.StatusOK, MsgUserActivated)
}
