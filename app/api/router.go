// Package api exposes the engine over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	leaderboardservice "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/application"
	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
)

// Pinger reports database reachability for /healthz. *bun.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services are the application services the routes call into.
type Services struct {
	Scoring     scoringservice.Service
	Leaderboard leaderboardservice.Service
	Reward      rewardservice.Service
}

// Handlers binds HTTP requests to the application services.
type Handlers struct {
	scoring     scoringservice.Service
	leaderboard leaderboardservice.Service
	reward      rewardservice.Service
	db          Pinger
	logger      *slog.Logger
}

// NewHandlers creates the HTTP handlers. db may be nil, in which case /healthz
// always reports ok.
func NewHandlers(svcs Services, db Pinger, logger *slog.Logger) *Handlers {
	return &Handlers{
		scoring:     svcs.Scoring,
		leaderboard: svcs.Leaderboard,
		reward:      svcs.Reward,
		db:          db,
		logger:      logger,
	}
}

// NewRouter builds the chi router with every engine route mounted under /v1.
// A nil registry leaves /metrics unmounted.
func NewRouter(h *Handlers, registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/tournaments", h.RegisterTournament)
		r.Route("/tournaments/{id}", func(r chi.Router) {
			r.Post("/entries", h.RegisterEntry)
			r.Put("/holdings", h.UpsertHoldings)
			r.Get("/scores", h.GetScores)

			r.Get("/stat-lines", h.GetStatLines)
			r.Post("/stat-lines", h.SubmitStatLines)
			r.Post("/stat-lines/import", h.ImportStatLines)

			r.Get("/leaderboard", h.GetLeaderboard)
			r.Post("/leaderboard/build", h.BuildLeaderboard)
		})

		r.Post("/reward-pools", h.CreatePool)
		r.Route("/reward-pools/{id}", func(r chi.Router) {
			r.Get("/", h.GetPool)
			r.Post("/distributions", h.Distribute)
			r.Get("/grants", h.ListGrants)
		})

		r.Post("/grants/{id}/advance", h.AdvanceGrant)
		r.Get("/participants/{id}/ledger", h.GetLedger)
	})
	return r
}

// Health pings the database.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "Health check failed", attr.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
