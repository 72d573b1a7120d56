package http

import (
	"net/http"

	"github.com/netwake/authd/pkg/httpx"
)

// HomeHandler is the landing route; it just proves the service is talking.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Bienvenue"})
}
