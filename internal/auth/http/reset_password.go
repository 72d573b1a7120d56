package http

import (
	"errors"
	"net/http"

	"github.com/netwake/authd/internal/auth/service"
	"github.com/netwake/authd/pkg/httpx"
	"github.com/netwake/authd/pkg/slogx"
)

type ResetTokenHandler struct {
	AuthService *service.AuthService
}

type resetTokenResponse struct {
	Email      string `json:"email"`
	ResetToken string `json:"reset_token"`
}

// ServeHTTP handles POST /reset_password.
//
// Form data: email. Responds 200 with a fresh single-use reset token, or
// 403 when the email matches no user.
func (h *ResetTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.FormValue("email")

	token, err := h.AuthService.GetResetToken(ctx, email)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			httpx.WriteJSON(w, http.StatusForbidden, messageResponse{
				Message: "forbidden",
			})
			return
		}
		log.Error("reset token issuance failed", "email", slogx.Email(email), "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resetTokenResponse{
		Email:      email,
		ResetToken: token,
	})
}

type UpdatePasswordHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles PUT /reset_password.
//
// Form data: email, new_password, reset_token. Responds 200 when the token
// is consumed, or 403 when it is invalid (including already used).
func (h *UpdatePasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.FormValue("email")
	newPassword := r.FormValue("new_password")
	resetToken := r.FormValue("reset_token")

	if err := h.AuthService.UpdatePassword(ctx, resetToken, newPassword); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			httpx.WriteJSON(w, http.StatusForbidden, messageResponse{
				Message: "forbidden",
			})
			return
		}
		log.Error("password update failed", "email", slogx.Email(email), "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Email:   email,
		Message: "Password updated",
	})
}
