package rewarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
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

func (r *Impl) TryLockPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (bool, error) {
	return pglock.TryAcquire(ctx, r.conn(db), pglock.RewardPoolKey(poolID))
}

func (r *Impl) TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error) {
	exists, err := r.conn(db).NewSelect().
		Table("tournaments").
		Where("id = ?", tournamentID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("rewarddb.TournamentExists: %w", err)
	}
	return exists, nil
}

// --- Pools ---

func (r *Impl) CreatePool(ctx context.Context, db bun.IDB, pool *RewardPool) error {
	if _, err := r.conn(db).NewInsert().Model(pool).Returning("created_at, updated_at").Exec(ctx); err != nil {
		return fmt.Errorf("rewarddb.CreatePool: %w", err)
	}
	return nil
}

func (r *Impl) GetPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (*RewardPool, error) {
	pool := new(RewardPool)
	err := r.conn(db).NewSelect().Model(pool).Where("id = ?", poolID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rewarddb.GetPool: %w", err)
	}
	return pool, nil
}

func (r *Impl) SavePoolRun(ctx context.Context, db bun.IDB, pool *RewardPool) error {
	pool.UpdatedAt = time.Now().UTC()
	res, err := r.conn(db).NewUpdate().
		Model(pool).
		Column("distributed_amount", "rules", "run_count", "last_run_id", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rewarddb.SavePoolRun: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Grants ---

func (r *Impl) InsertGrants(ctx context.Context, db bun.IDB, grants []RewardGrant) error {
	if len(grants) == 0 {
		return nil
	}
	if _, err := r.conn(db).NewInsert().Model(&grants).Exec(ctx); err != nil {
		return fmt.Errorf("rewarddb.InsertGrants: %w", err)
	}
	return nil
}

func (r *Impl) ListGrants(ctx context.Context, db bun.IDB, poolID uuid.UUID) ([]RewardGrant, error) {
	var grants []RewardGrant
	err := r.conn(db).NewSelect().
		Model(&grants).
		Where("reward_pool_id = ?", poolID).
		OrderExpr("created_at ASC, rank ASC NULLS LAST, participant_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.ListGrants: %w", err)
	}
	return grants, nil
}

func (r *Impl) ListRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) ([]RewardGrant, error) {
	var grants []RewardGrant
	err := r.conn(db).NewSelect().
		Model(&grants).
		Where("reward_pool_id = ?", poolID).
		Where("run_id = ?", runID).
		OrderExpr("rank ASC NULLS LAST, participant_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.ListRunGrants: %w", err)
	}
	return grants, nil
}

func (r *Impl) DeleteRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) error {
	_, err := r.conn(db).NewDelete().
		Model((*RewardGrant)(nil)).
		Where("reward_pool_id = ?", poolID).
		Where("run_id = ?", runID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rewarddb.DeleteRunGrants: %w", err)
	}
	return nil
}

func (r *Impl) GetGrantForUpdate(ctx context.Context, db bun.IDB, grantID uuid.UUID) (*RewardGrant, error) {
	grant := new(RewardGrant)
	err := r.conn(db).NewSelect().
		Model(grant).
		Where("id = ?", grantID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rewarddb.GetGrantForUpdate: %w", err)
	}
	return grant, nil
}

func (r *Impl) UpdateGrantStatus(ctx context.Context, db bun.IDB, grant *RewardGrant) error {
	grant.UpdatedAt = time.Now().UTC()
	_, err := r.conn(db).NewUpdate().
		Model(grant).
		Column("status", "external_ref", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rewarddb.UpdateGrantStatus: %w", err)
	}
	return nil
}

// --- Ledger ---

func (r *Impl) IncrementLifetimeEarnings(ctx context.Context, db bun.IDB, participantID string, amount decimal.Decimal) error {
	ledger := &ParticipantLedger{ParticipantID: participantID, LifetimeEarnings: amount}
	_, err := r.conn(db).NewInsert().
		Model(ledger).
		On("CONFLICT (participant_id) DO UPDATE").
		Set("lifetime_earnings = pl.lifetime_earnings + EXCLUDED.lifetime_earnings").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("rewarddb.IncrementLifetimeEarnings: %w", err)
	}
	return nil
}

func (r *Impl) GetLedger(ctx context.Context, db bun.IDB, participantID string) (*ParticipantLedger, error) {
	ledger := new(ParticipantLedger)
	err := r.conn(db).NewSelect().Model(ledger).Where("participant_id = ?", participantID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rewarddb.GetLedger: %w", err)
	}
	return ledger, nil
}

// --- Allocation inputs ---

func (r *Impl) GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.RankedParticipant, error) {
	var rows []leaderboardPosition
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("tournament_id = ?", tournamentID).
		Order("rank ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.GetLeaderboard: %w", err)
	}
	out := make([]rewarddomain.RankedParticipant, len(rows))
	for i, row := range rows {
		out[i] = rewarddomain.RankedParticipant{ParticipantID: row.ParticipantID, Rank: row.Rank}
	}
	return out, nil
}

func (r *Impl) GetHoldings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.Holding, error) {
	var rows []holding
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("tournament_id = ?", tournamentID).
		Order("participant_id ASC", "player_key ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.GetHoldings: %w", err)
	}
	out := make([]rewarddomain.Holding, len(rows))
	for i, row := range rows {
		out[i] = rewarddomain.Holding{ParticipantID: row.ParticipantID, PlayerKey: row.PlayerKey, Amount: row.Amount}
	}
	return out, nil
}

func (r *Impl) GetPlayerPoints(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (map[string]decimal.Decimal, error) {
	var rows []playerPoints
	err := r.conn(db).NewSelect().
		Model(&rows).
		Where("tournament_id = ?", tournamentID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.GetPlayerPoints: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		out[row.PlayerKey] = row.Points
	}
	return out, nil
}

func (r *Impl) GetEntrants(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]string, error) {
	var ids []string
	err := r.conn(db).NewSelect().
		Table("participant_entries").
		Column("participant_id").
		Where("tournament_id = ?", tournamentID).
		Order("participant_id ASC").
		Scan(ctx, &ids)
	if err != nil {
		return nil, fmt.Errorf("rewarddb.GetEntrants: %w", err)
	}
	return ids, nil
}
