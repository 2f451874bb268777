package scoringdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rays8417/tenjaku-sub001/app/shared/pglock"
	"github.com/uptrace/bun"
)

// Impl is the bun implementation of Repository.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a Repository backed by db.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) conn(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateTournament(ctx context.Context, db bun.IDB, t *Tournament) error {
	if _, err := r.conn(db).NewInsert().Model(t).Returning("created_at").Exec(ctx); err != nil {
		return fmt.Errorf("scoringdb.CreateTournament: %w", err)
	}
	return nil
}

func (r *Impl) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error) {
	t := new(Tournament)
	err := r.conn(db).NewSelect().Model(t).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scoringdb.GetTournament: %w", err)
	}
	return t, nil
}

func (r *Impl) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	return pglock.Acquire(ctx, r.conn(db), pglock.TournamentKey(tournamentID))
}

func (r *Impl) UpsertStatLines(ctx context.Context, db bun.IDB, lines []StatLine) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := r.conn(db).NewInsert().
		Model(&lines).
		On("CONFLICT (tournament_id, player_key) DO UPDATE").
		Set("runs_scored = EXCLUDED.runs_scored").
		Set("balls_faced = EXCLUDED.balls_faced").
		Set("wickets_taken = EXCLUDED.wickets_taken").
		Set("overs_bowled = EXCLUDED.overs_bowled").
		Set("runs_conceded = EXCLUDED.runs_conceded").
		Set("catches = EXCLUDED.catches").
		Set("stumpings = EXCLUDED.stumpings").
		Set("run_outs = EXCLUDED.run_outs").
		Set("points = EXCLUDED.points").
		Set("policy_name = EXCLUDED.policy_name").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.UpsertStatLines: %w", err)
	}
	return nil
}

func (r *Impl) GetStatLines(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]StatLine, error) {
	var lines []StatLine
	err := r.conn(db).NewSelect().
		Model(&lines).
		Where("tournament_id = ?", tournamentID).
		Order("player_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoringdb.GetStatLines: %w", err)
	}
	return lines, nil
}

func (r *Impl) UpsertEntry(ctx context.Context, db bun.IDB, entry *ParticipantEntry) error {
	_, err := r.conn(db).NewInsert().
		Model(entry).
		On("CONFLICT (tournament_id, participant_id) DO UPDATE").
		Set("player_keys = EXCLUDED.player_keys").
		Set("captain_key = EXCLUDED.captain_key").
		Set("vice_captain_key = EXCLUDED.vice_captain_key").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.UpsertEntry: %w", err)
	}
	return nil
}

func (r *Impl) GetEntries(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]ParticipantEntry, error) {
	var entries []ParticipantEntry
	err := r.conn(db).NewSelect().
		Model(&entries).
		Where("tournament_id = ?", tournamentID).
		Order("created_at ASC", "participant_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoringdb.GetEntries: %w", err)
	}
	return entries, nil
}

func (r *Impl) UpsertScores(ctx context.Context, db bun.IDB, scores []ParticipantScore) error {
	if len(scores) == 0 {
		return nil
	}
	_, err := r.conn(db).NewInsert().
		Model(&scores).
		On("CONFLICT (participant_id, tournament_id) DO UPDATE").
		Set("total_score = EXCLUDED.total_score").
		Set("captain_multiplier = EXCLUDED.captain_multiplier").
		Set("vice_captain_multiplier = EXCLUDED.vice_captain_multiplier").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.UpsertScores: %w", err)
	}
	return nil
}

func (r *Impl) GetScores(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]ParticipantScore, error) {
	var scores []ParticipantScore
	err := r.conn(db).NewSelect().
		Model(&scores).
		Where("tournament_id = ?", tournamentID).
		OrderExpr("total_score DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoringdb.GetScores: %w", err)
	}
	return scores, nil
}

func (r *Impl) UpsertHoldings(ctx context.Context, db bun.IDB, holdings []Holding) error {
	if len(holdings) == 0 {
		return nil
	}
	_, err := r.conn(db).NewInsert().
		Model(&holdings).
		On("CONFLICT (tournament_id, participant_id, player_key) DO UPDATE").
		Set("amount = EXCLUDED.amount").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoringdb.UpsertHoldings: %w", err)
	}
	return nil
}
