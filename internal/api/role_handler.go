package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/account-api/internal/api/hal"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
	"github.com/phrazzld/account-api/internal/service"
)

// RoleHandler lists the roles of one account family. basePath is the
// collection path, /admin/role or /user/role.
type RoleHandler struct {
	roles    service.RoleService
	basePath string
	logger   *slog.Logger
}

// NewRoleHandler creates a new RoleHandler.
func NewRoleHandler(roles service.RoleService, basePath string, logger *slog.Logger) *RoleHandler {
	if roles == nil || logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("role service and logger cannot be nil for RoleHandler")
	}
	return &RoleHandler{
		roles:    roles,
		basePath: basePath,
		logger:   logger.With(slog.String("component", "role_handler"), slog.String("path", basePath)),
	}
}

// List handles GET {basePath}.
func (h *RoleHandler) List(w http.ResponseWriter, r *http.Request) {
	page := hal.PageFromRequest(r)
	roles, total, err := h.roles.List(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list roles")
		return
	}
	respondCollection(w, r, "roles", roles, page, total, func(role domain.Role) string {
		return entityPath(h.basePath, role.ID)
	})
}

// View handles GET {basePath}/{uuid}.
func (h *RoleHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := handlePathUUID(w, r, logger.FromContextOrDefault(r.Context(), h.logger))
	if !ok {
		return
	}

	role, err := h.roles.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get role")
		return
	}
	respondEntity(w, r, http.StatusOK, role, entityPath(h.basePath, role.ID))
}
