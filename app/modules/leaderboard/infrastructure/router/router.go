package leaderboardrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	"github.com/rays8417/tenjaku-sub001/app/events"
	leaderboardhandlers "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/handlers"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// LeaderboardRouter registers the leaderboard handlers on the shared message router.
type LeaderboardRouter struct {
	logger   *slog.Logger
	Router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
	metrics  observability.OperationMetrics
}

func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:   logger,
		Router:   router,
		eventBus: eventBus,
		tracer:   tracer,
		metrics:  metrics,
	}
}

type handlerDeps struct {
	router   *message.Router
	eventBus eventbus.EventBus
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  observability.OperationMetrics
}

func registerHandler[T any](
	deps handlerDeps,
	topic string,
	failureTopic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "leaderboard." + topic
	deps.router.AddHandler(
		handlerName,
		topic,
		deps.eventBus,
		"",
		deps.eventBus,
		handlerwrapper.WrapTransformingTyped[T](handlerName, deps.logger, deps.tracer, deps.metrics, events.DecodeFailure(failureTopic), handler),
	)
}

// Configure binds the leaderboard topics to handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Leaderboard Event Handlers")
	deps := handlerDeps{
		router:   r.Router,
		eventBus: r.eventBus,
		logger:   r.logger,
		tracer:   r.tracer,
		metrics:  r.metrics,
	}
	registerHandler(deps, events.LeaderboardBuildRequestedV1, events.LeaderboardBuildFailedV1, handlers.HandleBuildRequested)
	registerHandler(deps, events.ScoresRecalculatedV1, events.LeaderboardBuildFailedV1, handlers.HandleScoresRecalculated)
	return nil
}
