package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	leaderboardservice "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/handlers"
	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/router"
	"github.com/rays8417/tenjaku-sub001/app/observability"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	observability      *observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	metrics, err := obs.OperationMetrics("leaderboard")
	if err != nil {
		return nil, fmt.Errorf("failed to create leaderboard metrics: %w", err)
	}

	service := leaderboardservice.NewLeaderboardService(
		leaderboarddb.NewRepository(db),
		logger,
		metrics,
		obs.Tracer,
		db,
	)

	module := &Module{
		LeaderboardService: service,
		observability:      obs,
	}

	if router != nil {
		leaderboardRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, obs.Tracer, metrics)
		if err := leaderboardRouter.Configure(ctx, leaderboardhandlers.NewLeaderboardHandlers(service, logger)); err != nil {
			return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
		}
		module.LeaderboardRouter = leaderboardRouter
	}

	return module, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Leaderboard module stopped")
	return nil
}
