package leaderboarddb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/domain"
	"github.com/rays8417/tenjaku-sub001/app/shared/pglock"
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

func (r *Impl) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	return pglock.Acquire(ctx, r.conn(db), pglock.TournamentKey(tournamentID))
}

func (r *Impl) TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error) {
	exists, err := r.conn(db).NewSelect().
		Table("tournaments").
		Where("id = ?", tournamentID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("leaderboarddb.TournamentExists: %w", err)
	}
	return exists, nil
}

func (r *Impl) GetStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddomain.Standing, error) {
	var scores []scoreStanding
	err := r.conn(db).NewSelect().
		Model(&scores).
		Where("tournament_id = ?", tournamentID).
		OrderExpr("total_score DESC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetStandings: %w", err)
	}

	standings := make([]leaderboarddomain.Standing, len(scores))
	for i, s := range scores {
		standings[i] = leaderboarddomain.Standing{
			ParticipantID: s.ParticipantID,
			TotalScore:    s.TotalScore,
			Seq:           s.ID,
		}
	}
	return standings, nil
}

func (r *Impl) ReplaceRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, rows []LeaderboardRow) error {
	conn := r.conn(db)
	if _, err := conn.NewDelete().
		Model((*LeaderboardRow)(nil)).
		Where("tournament_id = ?", tournamentID).
		Exec(ctx); err != nil {
		return fmt.Errorf("leaderboarddb.ReplaceRows: delete: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := conn.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("leaderboarddb.ReplaceRows: insert: %w", err)
	}
	return nil
}

func (r *Impl) GetRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]LeaderboardRow, error) {
	var rows []LeaderboardRow
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("tournament_id = ?", tournamentID).
		Order("rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("leaderboarddb.GetRows: %w", err)
	}
	return rows, nil
}
