package http

import (
	"net/http"

	"github.com/netwake/authd/internal/auth/service"
	"github.com/netwake/authd/pkg/httpx"
	"github.com/netwake/authd/pkg/slogx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /sessions.
//
// Form data: email, password. On valid credentials it issues a session,
// sets the session_id cookie, and responds 200; otherwise 401. A missing or
// empty email resolves to the same 401 as a genuine mismatch.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.FormValue("email")
	password := r.FormValue("password")

	valid, err := h.AuthService.ValidLogin(ctx, email, password)
	if err != nil {
		log.Error("login check failed", "email", slogx.Email(email), "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}
	if !valid {
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{
			Message: "invalid credentials",
		})
		return
	}

	sessionID, err := h.AuthService.CreateSession(ctx, email)
	if err != nil {
		log.Error("session creation failed", "email", slogx.Email(email), "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}
	if sessionID == "" {
		// The user vanished between the credential check and issuance.
		httpx.WriteJSON(w, http.StatusUnauthorized, messageResponse{
			Message: "invalid credentials",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Email:   email,
		Message: "logged in",
	})
}

type LogoutHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles DELETE /sessions.
//
// Reads the session_id cookie; 403 when it matches no user, otherwise the
// session is destroyed, the cookie cleared, and the client redirected home.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	if err := h.AuthService.DestroySession(ctx, user.ID); err != nil {
		log.Error("session destroy failed", "user_id", user.ID, "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// sessionIDFromCookie extracts the session id, treating a missing cookie the
// same as an empty one.
func sessionIDFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}
