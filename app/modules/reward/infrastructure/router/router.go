package rewardrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	"github.com/rays8417/tenjaku-sub001/app/events"
	rewardhandlers "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/handlers"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// RewardRouter registers the reward handlers on the shared message router.
type RewardRouter struct {
	logger   *slog.Logger
	Router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
	metrics  observability.OperationMetrics
}

func NewRewardRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *RewardRouter {
	return &RewardRouter{
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
	handlerName := "reward." + topic
	deps.router.AddHandler(
		handlerName,
		topic,
		deps.eventBus,
		"",
		deps.eventBus,
		handlerwrapper.WrapTransformingTyped[T](handlerName, deps.logger, deps.tracer, deps.metrics, events.DecodeFailure(failureTopic), handler),
	)
}

// Configure binds the reward topics to handlers.
func (r *RewardRouter) Configure(ctx context.Context, handlers rewardhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Reward Event Handlers")
	deps := handlerDeps{
		router:   r.Router,
		eventBus: r.eventBus,
		logger:   r.logger,
		tracer:   r.tracer,
		metrics:  r.metrics,
	}
	registerHandler(deps, events.RewardDistributionRequestedV1, events.RewardDistributionFailedV1, handlers.HandleDistributionRequested)
	registerHandler(deps, events.GrantAdvanceRequestedV1, events.GrantAdvanceFailedV1, handlers.HandleGrantAdvanceRequested)
	return nil
}
