package scoringservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// SubmitStatLines scores the given lines with the tournament's policy, stores
// them, and recomputes every participant score of the tournament. Submitting the
// same lines again leaves the stored state unchanged.
func (s *ScoringService) SubmitStatLines(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*SubmitStatLinesResult, error) {
	const op = "scoring.SubmitStatLines"
	return operation.Run(ctx, s.telemetry(), op, tournamentAttrs(tournamentID), func(ctx context.Context) (*SubmitStatLinesResult, error) {
		if len(lines) == 0 {
			return nil, apperr.Validationf(op, "at least one stat line is required")
		}
		if err := scoringdomain.ValidateStatLines(lines); err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*SubmitStatLinesResult, error) {
			t, err := s.loadTournament(ctx, tx, op, tournamentID)
			if err != nil {
				return nil, err
			}
			if err := s.repo.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			policy, err := s.resolvePolicy(ctx, op, t.ScoringPolicy)
			if err != nil {
				return nil, err
			}

			rows := make([]scoringdb.StatLine, 0, len(lines))
			for _, l := range lines {
				rows = append(rows, toStatLineRow(tournamentID, l, scoringdomain.ComputePoints(l, policy), policy.Name))
			}
			if err := s.repo.UpsertStatLines(ctx, tx, rows); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			points, scores, err := s.recomputeScores(ctx, tx, op, tournamentID)
			if err != nil {
				return nil, err
			}

			s.metrics.RecordAmount(ctx, "stat_lines_scored", float64(len(rows)))
			s.logger.InfoContext(ctx, "Stat lines scored",
				attr.UUID("tournament_id", tournamentID),
				attr.String("policy", policy.Name),
				attr.Int("stat_lines", len(rows)),
				attr.Int("participants", len(scores)),
			)
			return &SubmitStatLinesResult{
				TournamentID:  tournamentID,
				Policy:        policy.Name,
				StatLineCount: len(rows),
				PlayerPoints:  points,
				Scores:        scores,
			}, nil
		})
	})
}

// recomputeScores aggregates every entry of the tournament against the stored
// stat line points. Callers must hold the tournament lock.
func (s *ScoringService) recomputeScores(ctx context.Context, tx bun.IDB, op string, tournamentID uuid.UUID) (map[string]decimal.Decimal, []scoringdb.ParticipantScore, error) {
	points, err := s.pointsByPlayer(ctx, tx, op, tournamentID)
	if err != nil {
		return nil, nil, err
	}
	entries, err := s.repo.GetEntries(ctx, tx, tournamentID)
	if err != nil {
		return nil, nil, apperr.Transaction(op, err)
	}

	scores := make([]scoringdb.ParticipantScore, 0, len(entries))
	for _, e := range entries {
		scores = append(scores, toScoreRow(tournamentID, scoringdomain.Aggregate(fromEntryRow(e), points)))
	}
	if err := s.repo.UpsertScores(ctx, tx, scores); err != nil {
		return nil, nil, apperr.Transaction(op, err)
	}
	return points, scores, nil
}

func (s *ScoringService) pointsByPlayer(ctx context.Context, tx bun.IDB, op string, tournamentID uuid.UUID) (map[string]decimal.Decimal, error) {
	stored, err := s.repo.GetStatLines(ctx, tx, tournamentID)
	if err != nil {
		return nil, apperr.Transaction(op, err)
	}
	points := make(map[string]decimal.Decimal, len(stored))
	for _, l := range stored {
		points[l.PlayerKey] = l.Points
	}
	return points, nil
}

// ImportStatLines parses an uploaded scorecard and submits its lines.
func (s *ScoringService) ImportStatLines(ctx context.Context, tournamentID uuid.UUID, filename string, data []byte) (*SubmitStatLinesResult, error) {
	const op = "scoring.ImportStatLines"
	attrs := append(tournamentAttrs(tournamentID), attribute.String("file", filename))
	return operation.Run(ctx, s.telemetry(), op, attrs, func(ctx context.Context) (*SubmitStatLinesResult, error) {
		parser, err := s.parsers.GetParser(filename)
		if err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}
		lines, err := parser.Parse(data)
		if err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}
		s.logger.InfoContext(ctx, "Scorecard parsed",
			attr.UUID("tournament_id", tournamentID),
			attr.String("file", filename),
			attr.Int("stat_lines", len(lines)),
		)
		return s.SubmitStatLines(ctx, tournamentID, lines)
	})
}

// GetStatLines returns the stored lines of a tournament ordered by player key.
func (s *ScoringService) GetStatLines(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.StatLine, error) {
	const op = "scoring.GetStatLines"
	return operation.Run(ctx, s.telemetry(), op, tournamentAttrs(tournamentID), func(ctx context.Context) ([]scoringdb.StatLine, error) {
		if _, err := s.loadTournament(ctx, s.reader(), op, tournamentID); err != nil {
			return nil, err
		}
		lines, err := s.repo.GetStatLines(ctx, s.reader(), tournamentID)
		if err != nil {
			return nil, apperr.Transaction(op, err)
		}
		return lines, nil
	})
}

// GetParticipantScores returns scores ordered by total, highest first.
func (s *ScoringService) GetParticipantScores(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error) {
	const op = "scoring.GetParticipantScores"
	return operation.Run(ctx, s.telemetry(), op, tournamentAttrs(tournamentID), func(ctx context.Context) ([]scoringdb.ParticipantScore, error) {
		if _, err := s.loadTournament(ctx, s.reader(), op, tournamentID); err != nil {
			return nil, err
		}
		scores, err := s.repo.GetScores(ctx, s.reader(), tournamentID)
		if err != nil {
			return nil, apperr.Transaction(op, err)
		}
		return scores, nil
	})
}

func toStatLineRow(tournamentID uuid.UUID, l scoringdomain.StatLine, points decimal.Decimal, policy string) scoringdb.StatLine {
	return scoringdb.StatLine{
		TournamentID: tournamentID,
		PlayerKey:    l.PlayerKey,
		RunsScored:   l.RunsScored,
		BallsFaced:   l.BallsFaced,
		WicketsTaken: l.WicketsTaken,
		OversBowled:  l.OversBowled,
		RunsConceded: l.RunsConceded,
		Catches:      l.Catches,
		Stumpings:    l.Stumpings,
		RunOuts:      l.RunOuts,
		Points:       points,
		PolicyName:   policy,
	}
}

func toScoreRow(tournamentID uuid.UUID, score scoringdomain.ParticipantScore) scoringdb.ParticipantScore {
	return scoringdb.ParticipantScore{
		ParticipantID:         score.ParticipantID,
		TournamentID:          tournamentID,
		TotalScore:            score.TotalScore,
		CaptainMultiplier:     score.CaptainMultiplier,
		ViceCaptainMultiplier: score.ViceCaptainMultiplier,
	}
}

func fromEntryRow(e scoringdb.ParticipantEntry) scoringdomain.ParticipantEntry {
	return scoringdomain.ParticipantEntry{
		ParticipantID:  e.ParticipantID,
		PlayerKeys:     e.PlayerKeys,
		CaptainKey:     e.CaptainKey,
		ViceCaptainKey: e.ViceCaptainKey,
	}
}

func describeTournament(t *scoringdb.Tournament) string {
	return fmt.Sprintf("%s (%s)", t.Name, t.ID)
}
