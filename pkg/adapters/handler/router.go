package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/wadjakorntonsri/shrink-ray/pkg/ports"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter creates and configures the main application router
func NewRouter(log *zerolog.Logger, accounts ports.AccountService, links ports.LinkService, sessions ports.SessionStore, db Pinger) http.Handler {
	// Initialize Handlers
	ah := NewAccountHandler(accounts, sessions, log)
	lh := NewLinkHandler(links, log)

	// Initialize Middleware
	mw := NewMiddleware(sessions, log)

	mux := http.NewServeMux()

	// Public Routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("health check failed")
			writeJSON(w, http.StatusServiceUnavailable, messageResponse{Message: "database unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	})
	mux.HandleFunc("POST /api/users", ah.Register)
	mux.HandleFunc("POST /api/login", ah.Login)
	mux.HandleFunc("POST /api/logout", ah.Logout)
	mux.HandleFunc("GET /api/users/{targetUserId}/links", lh.ListForUser)
	mux.HandleFunc("GET /{targetLinkId}", lh.Redirect)

	// Protected Routes
	mux.Handle("POST /api/links", mw.AuthMiddleware(http.HandlerFunc(lh.Shorten)))
	mux.Handle("DELETE /api/users/{targetUserId}/links/{targetLinkId}", mw.AuthMiddleware(http.HandlerFunc(lh.Delete)))

	return mw.LoggingMiddleware(mw.SessionMiddleware(mux))
}
