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

const adminPath = "/admin"

// AdminHandler manages admin accounts.
type AdminHandler struct {
	admins service.AdminService
	logger *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admins service.AdminService, logger *slog.Logger) *AdminHandler {
	if admins == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("admin service and logger cannot be nil for AdminHandler")
	}
	return &AdminHandler{
		admins: admins,
		logger: logger.With(slog.String("component", "admin_handler")),
	}
}

// Create handles POST /admin.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	admin, err := h.admins.Create(r.Context(), req.input())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create admin")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("admin created via API",
		slog.String("admin_id", admin.ID.String()))
	respondEntity(w, r, http.StatusCreated, admin, entityPath(adminPath, admin.ID))
}

// List handles GET /admin.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page := hal.PageFromRequest(r)
	admins, total, err := h.admins.List(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list admins")
		return
	}
	respondCollection(w, r, "admins", admins, page, total, func(a *domain.Admin) string {
		return entityPath(adminPath, a.ID)
	})
}

// View handles GET /admin/{uuid}.
func (h *AdminHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	admin, err := h.admins.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get admin")
		return
	}
	respondEntity(w, r, http.StatusOK, admin, entityPath(adminPath, admin.ID))
}

// Update handles PATCH /admin/{uuid}.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	var req UpdateAdminRequest
	if !decodeAndValidate(w, r, &req) || !passwordConfirmed(w, r, req.passwordChange) {
		return
	}

	admin, err := h.admins.Update(r.Context(), id, req.update())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update admin")
		return
	}
	respondEntity(w, r, http.StatusOK, admin, entityPath(adminPath, admin.ID))
}

// Delete handles DELETE /admin/{uuid}.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	if err := h.admins.Delete(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "Failed to delete admin")
		return
	}
	shared.RespondNoContent(w, http.StatusNoContent)
}

// ViewMyAccount handles GET /admin/my-account.
func (h *AdminHandler) ViewMyAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := principalAdmin(w, r)
	if !ok {
		return
	}

	admin, err := h.admins.Get(r.Context(), current.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get admin")
		return
	}
	respondEntity(w, r, http.StatusOK, admin, adminPath+"/my-account")
}

// UpdateMyAccount handles PATCH /admin/my-account.
func (h *AdminHandler) UpdateMyAccount(w http.ResponseWriter, r *http.Request) {
	current, ok := principalAdmin(w, r)
	if !ok {
		return
	}

	var req UpdateMyAdminRequest
	if !decodeAndValidate(w, r, &req) || !passwordConfirmed(w, r, req.passwordChange) {
		return
	}

	admin, err := h.admins.Update(r.Context(), current.ID, req.update())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update admin")
		return
	}
	respondEntity(w, r, http.StatusOK, admin, adminPath+"/my-account")
}
