package rewardservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
)

// ------------------------
// Fake Reward Repo
// ------------------------

type FakeRewardRepo struct {
	trace []string

	TryLockPoolFunc               func(ctx context.Context, db bun.IDB, poolID uuid.UUID) (bool, error)
	TournamentExistsFunc          func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error)
	CreatePoolFunc                func(ctx context.Context, db bun.IDB, pool *rewarddb.RewardPool) error
	GetPoolFunc                   func(ctx context.Context, db bun.IDB, poolID uuid.UUID) (*rewarddb.RewardPool, error)
	SavePoolRunFunc               func(ctx context.Context, db bun.IDB, pool *rewarddb.RewardPool) error
	InsertGrantsFunc              func(ctx context.Context, db bun.IDB, grants []rewarddb.RewardGrant) error
	ListGrantsFunc                func(ctx context.Context, db bun.IDB, poolID uuid.UUID) ([]rewarddb.RewardGrant, error)
	ListRunGrantsFunc             func(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) ([]rewarddb.RewardGrant, error)
	DeleteRunGrantsFunc           func(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) error
	GetGrantForUpdateFunc         func(ctx context.Context, db bun.IDB, grantID uuid.UUID) (*rewarddb.RewardGrant, error)
	UpdateGrantStatusFunc         func(ctx context.Context, db bun.IDB, grant *rewarddb.RewardGrant) error
	IncrementLifetimeEarningsFunc func(ctx context.Context, db bun.IDB, participantID string, amount decimal.Decimal) error
	GetLedgerFunc                 func(ctx context.Context, db bun.IDB, participantID string) (*rewarddb.ParticipantLedger, error)
	GetLeaderboardFunc            func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.RankedParticipant, error)
	GetHoldingsFunc               func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.Holding, error)
	GetPlayerPointsFunc           func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (map[string]decimal.Decimal, error)
	GetEntrantsFunc               func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]string, error)
}

func NewFakeRewardRepo() *FakeRewardRepo {
	return &FakeRewardRepo{trace: []string{}}
}

func (f *FakeRewardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeRewardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeRewardRepo) TryLockPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (bool, error) {
	f.record("TryLockPool")
	if f.TryLockPoolFunc != nil {
		return f.TryLockPoolFunc(ctx, db, poolID)
	}
	return true, nil
}

func (f *FakeRewardRepo) TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error) {
	f.record("TournamentExists")
	if f.TournamentExistsFunc != nil {
		return f.TournamentExistsFunc(ctx, db, tournamentID)
	}
	return true, nil
}

func (f *FakeRewardRepo) CreatePool(ctx context.Context, db bun.IDB, pool *rewarddb.RewardPool) error {
	f.record("CreatePool")
	if f.CreatePoolFunc != nil {
		return f.CreatePoolFunc(ctx, db, pool)
	}
	return nil
}

func (f *FakeRewardRepo) GetPool(ctx context.Context, db bun.IDB, poolID uuid.UUID) (*rewarddb.RewardPool, error) {
	f.record("GetPool")
	if f.GetPoolFunc != nil {
		return f.GetPoolFunc(ctx, db, poolID)
	}
	return nil, rewarddb.ErrNotFound
}

func (f *FakeRewardRepo) SavePoolRun(ctx context.Context, db bun.IDB, pool *rewarddb.RewardPool) error {
	f.record("SavePoolRun")
	if f.SavePoolRunFunc != nil {
		return f.SavePoolRunFunc(ctx, db, pool)
	}
	return nil
}

func (f *FakeRewardRepo) InsertGrants(ctx context.Context, db bun.IDB, grants []rewarddb.RewardGrant) error {
	f.record("InsertGrants")
	if f.InsertGrantsFunc != nil {
		return f.InsertGrantsFunc(ctx, db, grants)
	}
	return nil
}

func (f *FakeRewardRepo) ListGrants(ctx context.Context, db bun.IDB, poolID uuid.UUID) ([]rewarddb.RewardGrant, error) {
	f.record("ListGrants")
	if f.ListGrantsFunc != nil {
		return f.ListGrantsFunc(ctx, db, poolID)
	}
	return nil, nil
}

func (f *FakeRewardRepo) ListRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) ([]rewarddb.RewardGrant, error) {
	f.record("ListRunGrants")
	if f.ListRunGrantsFunc != nil {
		return f.ListRunGrantsFunc(ctx, db, poolID, runID)
	}
	return nil, nil
}

func (f *FakeRewardRepo) DeleteRunGrants(ctx context.Context, db bun.IDB, poolID, runID uuid.UUID) error {
	f.record("DeleteRunGrants")
	if f.DeleteRunGrantsFunc != nil {
		return f.DeleteRunGrantsFunc(ctx, db, poolID, runID)
	}
	return nil
}

func (f *FakeRewardRepo) GetGrantForUpdate(ctx context.Context, db bun.IDB, grantID uuid.UUID) (*rewarddb.RewardGrant, error) {
	f.record("GetGrantForUpdate")
	if f.GetGrantForUpdateFunc != nil {
		return f.GetGrantForUpdateFunc(ctx, db, grantID)
	}
	return nil, rewarddb.ErrNotFound
}

func (f *FakeRewardRepo) UpdateGrantStatus(ctx context.Context, db bun.IDB, grant *rewarddb.RewardGrant) error {
	f.record("UpdateGrantStatus")
	if f.UpdateGrantStatusFunc != nil {
		return f.UpdateGrantStatusFunc(ctx, db, grant)
	}
	return nil
}

func (f *FakeRewardRepo) IncrementLifetimeEarnings(ctx context.Context, db bun.IDB, participantID string, amount decimal.Decimal) error {
	f.record("IncrementLifetimeEarnings")
	if f.IncrementLifetimeEarningsFunc != nil {
		return f.IncrementLifetimeEarningsFunc(ctx, db, participantID, amount)
	}
	return nil
}

func (f *FakeRewardRepo) GetLedger(ctx context.Context, db bun.IDB, participantID string) (*rewarddb.ParticipantLedger, error) {
	f.record("GetLedger")
	if f.GetLedgerFunc != nil {
		return f.GetLedgerFunc(ctx, db, participantID)
	}
	return nil, rewarddb.ErrNotFound
}

func (f *FakeRewardRepo) GetLeaderboard(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.RankedParticipant, error) {
	f.record("GetLeaderboard")
	if f.GetLeaderboardFunc != nil {
		return f.GetLeaderboardFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeRewardRepo) GetHoldings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]rewarddomain.Holding, error) {
	f.record("GetHoldings")
	if f.GetHoldingsFunc != nil {
		return f.GetHoldingsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeRewardRepo) GetPlayerPoints(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (map[string]decimal.Decimal, error) {
	f.record("GetPlayerPoints")
	if f.GetPlayerPointsFunc != nil {
		return f.GetPlayerPointsFunc(ctx, db, tournamentID)
	}
	return map[string]decimal.Decimal{}, nil
}

func (f *FakeRewardRepo) GetEntrants(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]string, error) {
	f.record("GetEntrants")
	if f.GetEntrantsFunc != nil {
		return f.GetEntrantsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

var _ rewarddb.Repository = (*FakeRewardRepo)(nil)
