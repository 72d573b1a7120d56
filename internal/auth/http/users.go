package http

import (
	"errors"
	"net/http"

	"github.com/netwake/authd/internal/auth/service"
	"github.com/netwake/authd/pkg/httpx"
	"github.com/netwake/authd/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles POST /users.
//
// Form data: email, password. Responds 200 with the registered email, or
// 400 when the email is already registered.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	email := r.FormValue("email")
	password := r.FormValue("password")

	_, err := h.AuthService.RegisterUser(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyExists) {
			httpx.WriteJSON(w, http.StatusBadRequest, messageResponse{
				Message: "email already registered",
			})
			return
		}
		log.Error("registration failed", "email", slogx.Email(email), "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, messageResponse{
			Message: "internal error",
		})
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{
		Email:   email,
		Message: "user created",
	})
}
