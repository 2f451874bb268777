package leaderboarddb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/domain"
)

// Repository defines the contract for leaderboard persistence.
// A nil db falls back to the repository's own handle.
type Repository interface {
	// AcquireTournamentLock shares the scoring module's lock key so a build
	// never observes a half-applied score recompute.
	AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error
	TournamentExists(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) (bool, error)

	// GetStandings returns every participant score of the tournament ordered by
	// total descending, then insertion order.
	GetStandings(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]leaderboarddomain.Standing, error)

	// ReplaceRows deletes the tournament's snapshot and inserts rows in its place.
	ReplaceRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID, rows []LeaderboardRow) error
	GetRows(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]LeaderboardRow, error)
}
