// Package httpapi is the HTTP surface of the trainhub server: the REST
// command endpoints, the push channel upgrade and the operational probes.
// Every mutation that succeeds is broadcast to the push clients so their
// mirrors converge on the stored state.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"trainhub/internal/logging"
	"trainhub/internal/server/config"
	"trainhub/internal/server/hub"
	"trainhub/internal/server/obs"
	"trainhub/internal/server/repositories/sessions"
	"trainhub/internal/server/repositories/users"
)

// ReadyProbe reports whether the API's backing store is reachable.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	logger     logging.Logger
	readyProbe ReadyProbe

	users    users.Repository
	sessions sessions.Repository
	hub      *hub.Hub
	upgrader websocket.Upgrader

	secretKey     []byte
	tokenValidity time.Duration

	rateLimitPerSecond int
	rateLimitBurst     int
	maxBodyBytes       int64
}

func New(cfg *config.Config, logger logging.Logger, rp ReadyProbe,
	usersRepo users.Repository, sessionsRepo sessions.Repository, h *hub.Hub) *API {

	a := &API{
		mux:                http.NewServeMux(),
		logger:             logger,
		readyProbe:         rp,
		users:              usersRepo,
		sessions:           sessionsRepo,
		hub:                h,
		upgrader:           websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		secretKey:          []byte(cfg.SecretKey),
		tokenValidity:      cfg.AccessTokenValidityDuration,
		rateLimitPerSecond: cfg.RateLimitPerSecond,
		rateLimitBurst:     cfg.RateLimitBurst,
		maxBodyBytes:       cfg.MaxBodyBytes,
	}

	a.mux.HandleFunc("GET /healthz", a.Healthz)
	a.mux.HandleFunc("GET /readyz", a.Ready)
	a.mux.Handle("GET /metrics", obs.Handler())

	a.mux.HandleFunc("POST /auth/login", a.Login)

	a.mux.HandleFunc("GET /users/", a.ListUsers)
	a.mux.HandleFunc("POST /users/", a.CreateUser)
	a.mux.HandleFunc("GET /users/{id}", a.GetUser)
	a.mux.HandleFunc("PUT /users/{id}", a.UpdateUser)
	a.mux.HandleFunc("DELETE /users/{id}", a.DeleteUser)

	a.mux.HandleFunc("GET /sessions/", a.ListSessions)
	a.mux.HandleFunc("POST /sessions/", a.CreateSession)
	a.mux.HandleFunc("GET /sessions/{id}", a.GetSession)
	a.mux.HandleFunc("PUT /sessions/{id}", a.UpdateSession)
	a.mux.HandleFunc("DELETE /sessions/{id}", a.DeleteSession)

	a.mux.HandleFunc("GET /analytics/users", a.UserAnalytics)
	a.mux.HandleFunc("GET /analytics/sessions", a.SessionAnalytics)
	a.mux.HandleFunc("GET /reports/sessions.csv", a.SessionReportCSV)

	a.mux.HandleFunc("GET /ws", a.ServeWS)

	return a
}

// Handler returns the fully composed http.Handler.
func (a *API) Handler() http.Handler {
	h := a.withAuth(a.mux)
	h = Logging(h, a.logger)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateLimitBurst, a.rateLimitPerSecond)
	h = CORS(h)
	return obs.Instrument(h)
}

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "trainhub-api",
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}
