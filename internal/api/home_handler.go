package api

import (
	"net/http"

	"github.com/phrazzld/account-api/internal/api/shared"
)

// MsgWelcome is the body of the home resource.
const MsgWelcome = "Welcome to the account API."

// HomeHandler serves GET /.
type HomeHandler struct{}

// Get answers with a static welcome message.
func (h *HomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": MsgWelcome})
}
