package scoringservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// RegisterEntry stores a participant's roster and scores it against the stat
// lines already submitted for the tournament.
func (s *ScoringService) RegisterEntry(ctx context.Context, tournamentID uuid.UUID, entry scoringdomain.ParticipantEntry) (*scoringdb.ParticipantScore, error) {
	const op = "scoring.RegisterEntry"
	return operation.Run(ctx, s.telemetry(), op, tournamentAttrs(tournamentID), func(ctx context.Context) (*scoringdb.ParticipantScore, error) {
		if err := scoringdomain.ValidateEntry(entry); err != nil {
			return nil, apperr.Validationf(op, "%v", err)
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*scoringdb.ParticipantScore, error) {
			t, err := s.loadTournament(ctx, tx, op, tournamentID)
			if err != nil {
				return nil, err
			}
			if err := s.repo.AcquireTournamentLock(ctx, tx, tournamentID); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			row := &scoringdb.ParticipantEntry{
				TournamentID:   tournamentID,
				ParticipantID:  entry.ParticipantID,
				PlayerKeys:     append([]string(nil), entry.PlayerKeys...),
				CaptainKey:     entry.CaptainKey,
				ViceCaptainKey: entry.ViceCaptainKey,
			}
			if err := s.repo.UpsertEntry(ctx, tx, row); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			points, err := s.pointsByPlayer(ctx, tx, op, tournamentID)
			if err != nil {
				return nil, err
			}
			score := toScoreRow(tournamentID, scoringdomain.Aggregate(entry, points))
			scores := []scoringdb.ParticipantScore{score}
			if err := s.repo.UpsertScores(ctx, tx, scores); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			s.logger.InfoContext(ctx, "Participant entry registered",
				attr.String("tournament", describeTournament(t)),
				attr.String("participant_id", entry.ParticipantID),
				attr.Decimal("total_score", score.TotalScore),
			)
			return &scores[0], nil
		})
	})
}

// UpsertHoldings records participant stakes used by proportional reward pools.
func (s *ScoringService) UpsertHoldings(ctx context.Context, tournamentID uuid.UUID, holdings []HoldingInput) error {
	const op = "scoring.UpsertHoldings"
	_, err := operation.Run(ctx, s.telemetry(), op, tournamentAttrs(tournamentID), func(ctx context.Context) (struct{}, error) {
		if len(holdings) == 0 {
			return struct{}{}, apperr.Validationf(op, "at least one holding is required")
		}
		rows := make([]scoringdb.Holding, 0, len(holdings))
		seen := make(map[[2]string]struct{}, len(holdings))
		for _, h := range holdings {
			if strings.TrimSpace(h.ParticipantID) == "" || strings.TrimSpace(h.PlayerKey) == "" {
				return struct{}{}, apperr.Validationf(op, "participant id and player key are required")
			}
			if h.Amount.IsNegative() {
				return struct{}{}, apperr.Validationf(op, "holding of %s in %s must not be negative", h.ParticipantID, h.PlayerKey)
			}
			key := [2]string{h.ParticipantID, h.PlayerKey}
			if _, dup := seen[key]; dup {
				return struct{}{}, apperr.Validationf(op, "duplicate holding of %s in %s", h.ParticipantID, h.PlayerKey)
			}
			seen[key] = struct{}{}
			rows = append(rows, scoringdb.Holding{
				TournamentID:  tournamentID,
				ParticipantID: h.ParticipantID,
				PlayerKey:     h.PlayerKey,
				Amount:        h.Amount,
			})
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (struct{}, error) {
			if _, err := s.loadTournament(ctx, tx, op, tournamentID); err != nil {
				return struct{}{}, err
			}
			if err := s.repo.UpsertHoldings(ctx, tx, rows); err != nil {
				return struct{}{}, apperr.Transaction(op, err)
			}
			return struct{}{}, nil
		})
	})
	return err
}
