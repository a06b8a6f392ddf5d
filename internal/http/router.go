package httpx

import (
	"log/slog"
	"net/http"

	"github.com/Dima4663737373/doodle/internal/app"
	"github.com/Dima4663737373/doodle/internal/store"
	"github.com/Dima4663737373/doodle/internal/ws"
	"github.com/Dima4663737373/doodle/pkg/auth"
	"github.com/Dima4663737373/doodle/pkg/metrics"
)

// NewRouter wires up all HTTP routes, middleware, and handlers.
// db may be nil; the relay itself has no postgres dependency.
func NewRouter(cfg app.Config, logger *slog.Logger, hub *ws.Hub, db *store.Postgres) http.Handler {
	mw := NewMiddleware(cfg)

	j := auth.New(cfg.JWTSecret)
	authAPI := &AuthAPI{DB: db, JWT: j}
	adminAPI := &AdminAPI{Hub: hub, DB: db}

	mux := http.NewServeMux()

	// Health / readiness / metrics
	mux.Handle("/healthz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/readyz", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) }))
	mux.Handle("/metrics", metrics.Handler())

	// WebSocket endpoint: relay participants, no auth, no rate limit
	mux.Handle("/ws", http.HandlerFunc(hub.ServeWS))

	// Operator auth endpoints
	mux.Handle("/api/auth/register", mw.Limit(http.HandlerFunc(authAPI.Register)))
	mux.Handle("/api/auth/login", mw.Limit(http.HandlerFunc(authAPI.Login)))
	mux.Handle("/api/auth/me", mw.Limit(mw.Auth(http.HandlerFunc(authAPI.Me))))

	// Admin endpoints (JWT-protected)
	mux.Handle("/api/rooms", mw.Limit(mw.Auth(http.HandlerFunc(adminAPI.Rooms))))
	mux.Handle("/api/sessions", mw.Limit(mw.Auth(http.HandlerFunc(adminAPI.Sessions))))

	// CORS applied globally
	return mw.CORS(mux)
}
