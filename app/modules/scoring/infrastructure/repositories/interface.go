package scoringdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the contract for scoring persistence. Every method takes the
// bun.IDB to run on so services can compose calls inside one transaction; a nil
// db falls back to the repository's own handle.
//
// Error semantics:
//   - ErrNotFound: record does not exist
//   - other errors: infrastructure failures
type Repository interface {
	CreateTournament(ctx context.Context, db bun.IDB, t *Tournament) error
	GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*Tournament, error)

	// AcquireTournamentLock serializes score writers and leaderboard builds of
	// one tournament for the rest of the transaction.
	AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error

	UpsertStatLines(ctx context.Context, db bun.IDB, lines []StatLine) error
	GetStatLines(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]StatLine, error)

	UpsertEntry(ctx context.Context, db bun.IDB, entry *ParticipantEntry) error
	GetEntries(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]ParticipantEntry, error)

	UpsertScores(ctx context.Context, db bun.IDB, scores []ParticipantScore) error
	// GetScores returns scores ordered by total descending, then insertion order.
	GetScores(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]ParticipantScore, error)

	UpsertHoldings(ctx context.Context, db bun.IDB, holdings []Holding) error
}
