package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/netwake/authd/internal/auth/service"
	"github.com/netwake/authd/internal/auth/store"
	"github.com/netwake/authd/pkg/httpx"
	"github.com/netwake/authd/pkg/slogx"
)

// SessionCookie is the cookie carrying the opaque session id. The same value
// is stored server-side on the user record.
const SessionCookie = "session_id"

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService *service.AuthService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.Mux.HandleFunc("GET /{$}", HomeHandler)

	r.Mux.Handle("POST /users", &RegisterHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /sessions", &LoginHandler{AuthService: r.AuthService})
	r.Mux.Handle("DELETE /sessions", &LogoutHandler{AuthService: r.AuthService})
	r.Mux.Handle("GET /profile", &ProfileHandler{AuthService: r.AuthService})
	r.Mux.Handle("POST /reset_password", &ResetTokenHandler{AuthService: r.AuthService})
	r.Mux.Handle("PUT /reset_password", &UpdatePasswordHandler{AuthService: r.AuthService})

	r.Mux.HandleFunc("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.HandleFunc("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

type messageResponse struct {
	Email   string `json:"email,omitempty"`
	Message string `json:"message"`
}
