package reward

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewardhandlers "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/handlers"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	rewardrouter "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/router"
	"github.com/rays8417/tenjaku-sub001/app/observability"
)

// Module represents the reward module.
type Module struct {
	RewardService rewardservice.Service
	RewardRouter  *rewardrouter.RewardRouter
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewRewardModule creates a new instance of the Reward module.
func NewRewardModule(
	ctx context.Context,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "reward.NewRewardModule called")

	metrics, err := obs.OperationMetrics("reward")
	if err != nil {
		return nil, fmt.Errorf("failed to create reward metrics: %w", err)
	}

	service := rewardservice.NewRewardService(
		rewarddb.NewRepository(db),
		logger,
		metrics,
		obs.Tracer,
		db,
	)

	module := &Module{
		RewardService: service,
		observability: obs,
	}

	if router != nil {
		rewardRouter := rewardrouter.NewRewardRouter(logger, router, eventBus, obs.Tracer, metrics)
		if err := rewardRouter.Configure(ctx, rewardhandlers.NewRewardHandlers(service, logger)); err != nil {
			return nil, fmt.Errorf("failed to configure reward router: %w", err)
		}
		module.RewardRouter = rewardRouter
	}

	return module, nil
}

// Run starts the reward module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting reward module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Reward module goroutine stopped")
}

// Close stops the reward module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Logger
	logger.Info("Stopping reward module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Reward module stopped")
	return nil
}
