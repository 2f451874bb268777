package rewarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
)

// Repository defines the contract for reward persistence. Every method takes
// the bun.IDB to run on; a nil db falls back to the repository's own handle.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - other errors: infrastructure failures
type Repository interface {
	// TryLockPool takes the pool's transaction-scoped advisory lock without
	// waiting. It reports false when another transaction holds it.
	TryLockPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (bool, error)

	TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error)
	CreatePool(ctx context.Context, db bun.IDB, pool *RewardPool) error
	GetPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (*RewardPool, error)
	// SavePoolRun writes the run bookkeeping columns and the rules used.
	SavePoolRun(ctx context.Context, db bun.IDB, pool *RewardPool) error

	InsertGrants(ctx context.Context, db bun.IDB, grants []RewardGrant) error
	ListGrants(ctx context.Context, db bun.IDB, poolID uuid.UUID) ([]RewardGrant, error)
	ListRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) ([]RewardGrant, error)
	DeleteRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) error
	// GetGrantForUpdate row-locks the grant until the transaction ends.
	GetGrantForUpdate(ctx context.Context, db bun.IDB, grantID uuid.UUID) (*RewardGrant, error)
	UpdateGrantStatus(ctx context.Context, db bun.IDB, grant *RewardGrant) error

	IncrementLifetimeEarnings(ctx context.Context, db bun.IDB, participantID string, amount decimal.Decimal) error
	GetLedger(ctx context.Context, db bun.IDB, participantID string) (*ParticipantLedger, error)

	GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.RankedParticipant, error)
	GetHoldings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.Holding, error)
	GetPlayerPoints(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (map[string]decimal.Decimal, error)
	GetEntrants(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]string, error)
}
