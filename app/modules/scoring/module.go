package scoring

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	"github.com/rays8417/tenjaku-sub001/app/modules/scoring/application/parsers"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
	scoringhandlers "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/handlers"
	scoringrouter "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/router"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/config"
)

// Module represents the scoring module.
type Module struct {
	ScoringService scoringservice.Service
	ScoringRouter  *scoringrouter.ScoringRouter
	observability  *observability.Observability
	cancelFunc     context.CancelFunc
}

// NewScoringModule creates a new instance of the Scoring module. router may be
// nil for bindings that only call the service, such as the CLI.
func NewScoringModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "scoring.NewScoringModule called")

	metrics, err := obs.OperationMetrics("scoring")
	if err != nil {
		return nil, fmt.Errorf("failed to create scoring metrics: %w", err)
	}

	repo := scoringdb.NewRepository(db)
	service := scoringservice.NewScoringService(
		repo,
		parsers.NewFactory(),
		logger,
		metrics,
		obs.Tracer,
		db,
		cfg.Scoring.DefaultPolicy,
	)

	module := &Module{
		ScoringService: service,
		observability:  obs,
	}

	if router != nil {
		scoringRouter := scoringrouter.NewScoringRouter(logger, router, eventBus, obs.Tracer, metrics)
		if err := scoringRouter.Configure(ctx, scoringhandlers.NewScoringHandlers(service, logger)); err != nil {
			return nil, fmt.Errorf("failed to configure scoring router: %w", err)
		}
		module.ScoringRouter = scoringRouter
	}

	return module, nil
}

// Run keeps the module alive until ctx is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Logger
	logger.InfoContext(ctx, "Starting scoring module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Scoring module goroutine stopped")
}

// Close stops the scoring module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Logger.Info("Scoring module stopped")
	return nil
}
