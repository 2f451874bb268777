package leaderboardhandlers

import (
	"context"

	"github.com/google/uuid"

	leaderboardservice "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/application"
	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
)

type FakeService struct {
	BuildLeaderboardFunc func(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
	calls                []uuid.UUID
}

func (f *FakeService) BuildLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	f.calls = append(f.calls, tournamentID)
	return f.BuildLeaderboardFunc(ctx, tournamentID)
}

func (f *FakeService) GetLeaderboard(context.Context, uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	return nil, nil
}

var _ leaderboardservice.Service = (*FakeService)(nil)
