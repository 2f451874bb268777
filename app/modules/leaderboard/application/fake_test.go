package leaderboardservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/domain"
	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
)

// ------------------------
// Fake Leaderboard Repo
// ------------------------

type FakeLeaderboardRepo struct {
	trace []string

	AcquireTournamentLockFunc func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error
	TournamentExistsFunc      func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error)
	GetStandingsFunc          func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddomain.Standing, error)
	ReplaceRowsFunc           func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, rows []leaderboarddb.LeaderboardRow) error
	GetRowsFunc               func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
}

func NewFakeLeaderboardRepo() *FakeLeaderboardRepo {
	return &FakeLeaderboardRepo{trace: []string{}}
}

func (f *FakeLeaderboardRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeaderboardRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLeaderboardRepo) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	f.record("AcquireTournamentLock")
	if f.AcquireTournamentLockFunc != nil {
		return f.AcquireTournamentLockFunc(ctx, db, tournamentID)
	}
	return nil
}

func (f *FakeLeaderboardRepo) TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error) {
	f.record("TournamentExists")
	if f.TournamentExistsFunc != nil {
		return f.TournamentExistsFunc(ctx, db, tournamentID)
	}
	return true, nil
}

func (f *FakeLeaderboardRepo) GetStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddomain.Standing, error) {
	f.record("GetStandings")
	if f.GetStandingsFunc != nil {
		return f.GetStandingsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeLeaderboardRepo) ReplaceRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, rows []leaderboarddb.LeaderboardRow) error {
	f.record("ReplaceRows")
	if f.ReplaceRowsFunc != nil {
		return f.ReplaceRowsFunc(ctx, db, tournamentID, rows)
	}
	return nil
}

func (f *FakeLeaderboardRepo) GetRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	f.record("GetRows")
	if f.GetRowsFunc != nil {
		return f.GetRowsFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

var _ leaderboarddb.Repository = (*FakeLeaderboardRepo)(nil)
