package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"

	"github.com/rays8417/tenjaku-sub001/app/api"
	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	"github.com/rays8417/tenjaku-sub001/app/modules/leaderboard"
	"github.com/rays8417/tenjaku-sub001/app/modules/reward"
	"github.com/rays8417/tenjaku-sub001/app/modules/scoring"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/config"
)

// App wires the database, event bus, modules and HTTP server together.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	Modules       *Modules
	HTTPServer    *http.Server

	wg sync.WaitGroup
}

// Modules holds the engine modules.
type Modules struct {
	Scoring     *scoring.Module
	Leaderboard *leaderboard.Module
	Reward      *reward.Module
}

// Services returns the application services of every module for the HTTP binding.
func (m *Modules) Services() api.Services {
	return api.Services{
		Scoring:     m.Scoring.ScoringService,
		Leaderboard: m.Leaderboard.LeaderboardService,
		Reward:      m.Reward.RewardService,
	}
}

// NewDB opens a bun handle over pgdriver.
func NewDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

// NewModules builds every module. With a nil router the modules only expose
// their services.
func NewModules(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	bus eventbus.EventBus,
	router *message.Router,
) (*Modules, error) {
	scoringModule, err := scoring.NewScoringModule(ctx, cfg, obs, db, bus, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scoring module: %w", err)
	}
	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, obs, db, bus, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	rewardModule, err := reward.NewRewardModule(ctx, obs, db, bus, router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize reward module: %w", err)
	}
	return &Modules{
		Scoring:     scoringModule,
		Leaderboard: leaderboardModule,
		Reward:      rewardModule,
	}, nil
}

// NewRouter creates the message router shared by every module. Handler errors
// that reach the router are retryable by construction, so every one is retried.
func NewRouter(obs *observability.Observability) (*message.Router, error) {
	wmLogger := watermill.NewSlogLogger(obs.Logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
			MaxInterval:     2 * time.Second,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	if obs.MetricsEnabled() {
		builder := metrics.NewPrometheusMetricsBuilder(obs.Registry, "tenjaku", "events")
		builder.AddPrometheusRouterMetrics(router)
	}
	return router, nil
}

// New initializes the application.
func New(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db := NewDB(cfg.Postgres.DSN)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	bus, err := eventbus.New(ctx, eventbus.Config{
		URL:              cfg.NATS.URL,
		QueueGroupPrefix: cfg.NATS.QueueGroupPrefix,
		SubscribersCount: cfg.NATS.SubscribersCount,
	}, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create event bus: %w", err)
	}

	router, err := NewRouter(obs)
	if err != nil {
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}

	modules, err := NewModules(ctx, cfg, obs, db, bus, router)
	if err != nil {
		_ = router.Close()
		_ = bus.Close()
		_ = db.Close()
		return nil, err
	}

	handlers := api.NewHandlers(modules.Services(), db, logger)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      api.NewRouter(handlers, obs.Registry),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	logger.InfoContext(ctx, "Application initialized",
		attr.String("http_addr", cfg.HTTP.Addr),
		attr.Bool("nats", cfg.NATS.URL != ""),
	)

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		Router:        router,
		Modules:       modules,
		HTTPServer:    server,
	}, nil
}

// Run serves events and HTTP until ctx is canceled or one of them fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	app.wg.Add(3)
	go app.Modules.Scoring.Run(ctx, &app.wg)
	go app.Modules.Leaderboard.Run(ctx, &app.wg)
	go app.Modules.Reward.Run(ctx, &app.wg)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := app.Router.Run(gctx); err != nil {
			return fmt.Errorf("message router stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.InfoContext(gctx, "HTTP server listening", attr.String("addr", app.HTTPServer.Addr))
		if err := app.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
		defer cancel()
		if err := app.HTTPServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", attr.Error(err))
		}
		return nil
	})
	return g.Wait()
}

// Close releases every resource. Safe to call after Run returns.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	for name, closer := range map[string]func() error{
		"scoring":     app.Modules.Scoring.Close,
		"leaderboard": app.Modules.Leaderboard.Close,
		"reward":      app.Modules.Reward.Close,
	} {
		if err := closer(); err != nil {
			logger.Error("Error closing module", attr.String("module", name), attr.Error(err))
			errs = append(errs, err)
		}
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for modules to stop")
	}

	if err := app.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	if err := app.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close event bus: %w", err))
	}
	if err := app.DB.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
