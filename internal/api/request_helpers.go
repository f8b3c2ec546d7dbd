package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/domain"
	"github.com/phrazzld/account-api/internal/platform/logger"
)

// getPathUUID extracts a UUID from the URL path parameters.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// handlePathUUID extracts the uuid path parameter, writing a 400 when it is
// missing or malformed.
func handlePathUUID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	id, err := getPathUUID(r, "uuid")
	if err != nil {
		log.Debug("invalid uuid path parameter", slog.String("value", chi.URLParam(r, "uuid")))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, false
	}
	return id, true
}

// principalAdmin returns the admin acting on the request. The authorization
// gate guarantees it for admin-only routes; a mismatch is answered with 403.
func principalAdmin(w http.ResponseWriter, r *http.Request) (*domain.Admin, bool) {
	p, ok := shared.PrincipalFrom(r.Context())
	if !ok || p.Admin == nil {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return p.Admin, true
}

// principalUser returns the frontend user acting on the request.
func principalUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	p, ok := shared.PrincipalFrom(r.Context())
	if !ok || p.User == nil {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return p.User, true
}

// decodeAndValidate reads a JSON body into v and validates it. It writes the
// 400 response itself and reports false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("invalid request body",
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgInvalidRequest)
		return false
	}
	if err := shared.ValidateRequest(v); err != nil {
		respondValidation(w, r, err)
		return false
	}
	return true
}

// passwordConfirmed writes a 400 when a password change lacks its confirmation.
func passwordConfirmed(w http.ResponseWriter, r *http.Request, change passwordChange) bool {
	if change.mismatch() {
		shared.RespondWithError(w, r, http.StatusBadRequest, MsgValidatorPasswordMatch)
		return false
	}
	return true
}
