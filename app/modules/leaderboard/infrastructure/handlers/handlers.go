package leaderboardhandlers

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rays8417/tenjaku-sub001/app/events"
	leaderboardservice "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/application"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/handlerwrapper"
)

// Handlers are the leaderboard event handlers registered on the router.
type Handlers interface {
	HandleBuildRequested(ctx context.Context, payload *events.LeaderboardBuildRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleScoresRecalculated(ctx context.Context, payload *events.ScoresRecalculatedPayloadV1) ([]handlerwrapper.Result, error)
}

// LeaderboardHandlers handles leaderboard events.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
}

func NewLeaderboardHandlers(service leaderboardservice.Service, logger *slog.Logger) Handlers {
	return &LeaderboardHandlers{service: service, logger: logger}
}

func (h *LeaderboardHandlers) HandleBuildRequested(ctx context.Context, payload *events.LeaderboardBuildRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	return h.build(ctx, payload.TournamentID)
}

// HandleScoresRecalculated rebuilds the leaderboard after every score recompute.
func (h *LeaderboardHandlers) HandleScoresRecalculated(ctx context.Context, payload *events.ScoresRecalculatedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.DebugContext(ctx, "Scores recalculated, rebuilding leaderboard",
		attr.UUID("tournament_id", payload.TournamentID),
		attr.Int("participants", payload.ParticipantCount),
	)
	return h.build(ctx, payload.TournamentID)
}

func (h *LeaderboardHandlers) build(ctx context.Context, tournamentID uuid.UUID) ([]handlerwrapper.Result, error) {
	rows, err := h.service.BuildLeaderboard(ctx, tournamentID)
	if err != nil {
		return events.FailureResults(events.LeaderboardBuildFailedV1, tournamentID.String(), err)
	}

	out := make([]events.LeaderboardRowV1, len(rows))
	for i, r := range rows {
		out[i] = events.LeaderboardRowV1{
			ParticipantID: r.ParticipantID,
			Rank:          r.Rank,
			TotalScore:    r.TotalScore,
		}
	}
	return []handlerwrapper.Result{{
		Topic:   events.LeaderboardBuiltV1,
		Payload: events.LeaderboardBuiltPayloadV1{TournamentID: tournamentID, Rows: out},
	}}, nil
}
