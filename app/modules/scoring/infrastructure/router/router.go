package scoringrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/rays8417/tenjaku-sub001/app/eventbus"
	"github.com/rays8417/tenjaku-sub001/app/events"
	scoringhandlers "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/handlers"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// ScoringRouter registers the scoring handlers on the shared message router.
type ScoringRouter struct {
	logger   *slog.Logger
	Router   *message.Router
	eventBus eventbus.EventBus
	tracer   trace.Tracer
	metrics  observability.OperationMetrics
}

func NewScoringRouter(
	logger *slog.Logger,
	router *message.Router,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	metrics observability.OperationMetrics,
) *ScoringRouter {
	return &ScoringRouter{
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
	handlerName := "scoring." + topic
	deps.router.AddHandler(
		handlerName,
		topic,
		deps.eventBus,
		"",
		deps.eventBus,
		handlerwrapper.WrapTransformingTyped[T](handlerName, deps.logger, deps.tracer, deps.metrics, events.DecodeFailure(failureTopic), handler),
	)
}

// Configure binds the scoring topics to handlers.
func (r *ScoringRouter) Configure(ctx context.Context, handlers scoringhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Scoring Event Handlers")
	deps := handlerDeps{
		router:   r.Router,
		eventBus: r.eventBus,
		logger:   r.logger,
		tracer:   r.tracer,
		metrics:  r.metrics,
	}
	registerHandler(deps, events.StatLinesSubmittedV1, events.StatLinesRejectedV1, handlers.HandleStatLinesSubmitted)
	return nil
}
