package scoringhandlers

import (
	"context"
	"log/slog"

	"github.com/rays8417/tenjaku-sub001/app/events"
	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// Handlers are the scoring event handlers registered on the router.
type Handlers interface {
	HandleStatLinesSubmitted(ctx context.Context, payload *events.StatLinesSubmittedPayloadV1) ([]handlerwrapper.Result, error)
}

// ScoringHandlers handles scoring events.
type ScoringHandlers struct {
	service scoringservice.Service
	logger  *slog.Logger
}

func NewScoringHandlers(service scoringservice.Service, logger *slog.Logger) Handlers {
	return &ScoringHandlers{service: service, logger: logger}
}

// HandleStatLinesSubmitted scores a batch of stat lines and announces the
// recalculated participant scores.
func (h *ScoringHandlers) HandleStatLinesSubmitted(ctx context.Context, payload *events.StatLinesSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	res, err := h.service.SubmitStatLines(ctx, payload.TournamentID, payload.StatLines)
	if err != nil {
		return events.FailureResults(events.StatLinesRejectedV1, payload.TournamentID.String(), err)
	}
	return []handlerwrapper.Result{{
		Topic: events.ScoresRecalculatedV1,
		Payload: events.ScoresRecalculatedPayloadV1{
			TournamentID:     res.TournamentID,
			StatLineCount:    res.StatLineCount,
			ParticipantCount: len(res.Scores),
		},
	}}, nil
}
