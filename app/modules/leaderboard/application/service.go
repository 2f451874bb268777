package leaderboardservice

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaderboarddomain "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/domain"
	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// LeaderboardService implements Service.
type LeaderboardService struct {
	repo    leaderboarddb.Repository
	logger  *slog.Logger
	metrics observability.OperationMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	logger *slog.Logger,
	metrics observability.OperationMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	return &LeaderboardService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

var _ Service = (*LeaderboardService)(nil)

func (s *LeaderboardService) telemetry() operation.Telemetry {
	return operation.Telemetry{Logger: s.logger, Metrics: s.metrics, Tracer: s.tracer}
}

func (s *LeaderboardService) reader() bun.IDB {
	if s.db == nil {
		return nil
	}
	return s.db
}

func (s *LeaderboardService) requireTournament(ctx context.Context, db bun.IDB, op string, id uuid.UUID) error {
	exists, err := s.repo.TournamentExists(ctx, db, id)
	if err != nil {
		return apperr.Transaction(op, err)
	}
	if !exists {
		return apperr.NotFoundf(op, "tournament %s not found", id)
	}
	return nil
}

// BuildLeaderboard ranks the tournament's current participant scores and
// replaces the stored snapshot. A tournament without scores gets an empty
// leaderboard.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	const op = "leaderboard.BuildLeaderboard"
	attrs := []attribute.KeyValue{attribute.String("tournament_id", tournamentID.String())}
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) ([]leaderboarddb.LeaderboardRow, error) {
		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) ([]leaderboarddb.LeaderboardRow, error) {
			if err := s.requireTournament(ctx, tx, op, tournamentID); err != nil {
				return nil, err
			}
			if err := s.repo.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			standings, err := s.repo.GetStandings(ctx, tx, tournamentID)
			if err != nil {
				return nil, apperr.Transaction(op, err)
			}

			ranked := leaderboarddomain.Rank(standings)
			rows := make([]leaderboarddb.LeaderboardRow, len(ranked))
			for i, r := range ranked {
				rows[i] = leaderboarddb.LeaderboardRow{
					TournamentID:  tournamentID,
					ParticipantID: r.ParticipantID,
					Rank:          r.Rank,
					TotalScore:    r.TotalScore,
				}
			}
			if err := s.repo.ReplaceRows(ctx, tx, tournamentID, rows); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			s.metrics.RecordAmount(ctx, "leaderboard_rows_built", float64(len(rows)))
			s.logger.InfoContext(ctx, "Leaderboard rebuilt",
				attr.UUID("tournament_id", tournamentID),
				attr.Int("rows", len(rows)),
				attr.ExtractCorrelationID(ctx),
			)
			return rows, nil
		})
	})
}

// GetLeaderboard returns the stored snapshot ordered by rank.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	const op = "leaderboard.GetLeaderboard"
	attrs := []attribute.KeyValue{attribute.String("tournament_id", tournamentID.String())}
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) ([]leaderboarddb.LeaderboardRow, error) {
		if err := s.requireTournament(ctx, s.reader(), op, tournamentID); err != nil {
			return nil, err
		}
		rows, err := s.repo.GetRows(ctx, s.reader(), tournamentID)
		if err != nil {
			return nil, apperr.Transaction(op, err)
		}
		return rows, nil
	})
}
