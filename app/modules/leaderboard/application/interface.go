package leaderboardservice

import (
	"context"

	"github.com/google/uuid"

	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
)

// Service ranks participant scores into a persisted leaderboard.
type Service interface {
	BuildLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
	GetLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
}
