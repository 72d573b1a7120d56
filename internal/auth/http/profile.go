package http

import (
	"net/http"

	"github.com/netwake/authd/internal/auth/service"
	"github.com/netwake/authd/pkg/httpx"
	"github.com/netwake/authd/pkg/slogx"
)

type ProfileHandler struct {
	AuthService *service.AuthService
}

type profileResponse struct {
	Email string `json:"email"`
}

// ServeHTTP handles GET /profile.
//
// Reads the session_id cookie; 200 with the user's email when it resolves,
// 403 otherwise.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	user, err := h.AuthService.GetUserBySessionID(ctx, sessionIDFromCookie(r))
	if err != nil {
		log.Error("session lookup failed", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}
	if user == nil {
		httpx.WriteJSON(w, http.StatusForbidden, messageResponse{
			Message: "forbidden",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profileResponse{Email: user.Email})
}
