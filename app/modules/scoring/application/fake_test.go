package scoringservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
)

// ------------------------
// Fake Scoring Repo
// ------------------------

type FakeScoringRepo struct {
	trace []string

	CreateTournamentFunc      func(ctx context.Context, db bun.IDB, t *scoringdb.Tournament) error
	GetTournamentFunc         func(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoringdb.Tournament, error)
	AcquireTournamentLockFunc func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error
	UpsertStatLinesFunc       func(ctx context.Context, db bun.IDB, lines []scoringdb.StatLine) error
	GetStatLinesFunc          func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StatLine, error)
	UpsertEntryFunc           func(ctx context.Context, db bun.IDB, entry *scoringdb.ParticipantEntry) error
	GetEntriesFunc            func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.ParticipantEntry, error)
	UpsertScoresFunc          func(ctx context.Context, db bun.IDB, scores []scoringdb.ParticipantScore) error
	GetScoresFunc             func(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error)
	UpsertHoldingsFunc        func(ctx context.Context, db bun.IDB, holdings []scoringdb.Holding) error
}

func NewFakeScoringRepo() *FakeScoringRepo {
	return &FakeScoringRepo{trace: []string{}}
}

func (f *FakeScoringRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoringRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Repository Interface Implementation ---

func (f *FakeScoringRepo) CreateTournament(ctx context.Context, db bun.IDB, t *scoringdb.Tournament) error {
	f.record("CreateTournament")
	if f.CreateTournamentFunc != nil {
		return f.CreateTournamentFunc(ctx, db, t)
	}
	return nil
}

func (f *FakeScoringRepo) GetTournament(ctx context.Context, db bun.IDB, id uuid.UUID) (*scoringdb.Tournament, error) {
	f.record("GetTournament")
	if f.GetTournamentFunc != nil {
		return f.GetTournamentFunc(ctx, db, id)
	}
	return nil, scoringdb.ErrNotFound
}

func (f *FakeScoringRepo) AcquireTournamentLock(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) error {
	f.record("AcquireTournamentLock")
	if f.AcquireTournamentLockFunc != nil {
		return f.AcquireTournamentLockFunc(ctx, db, tournamentID)
	}
	return nil
}

func (f *FakeScoringRepo) UpsertStatLines(ctx context.Context, db bun.IDB, lines []scoringdb.StatLine) error {
	f.record("UpsertStatLines")
	if f.UpsertStatLinesFunc != nil {
		return f.UpsertStatLinesFunc(ctx, db, lines)
	}
	return nil
}

func (f *FakeScoringRepo) GetStatLines(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.StatLine, error) {
	f.record("GetStatLines")
	if f.GetStatLinesFunc != nil {
		return f.GetStatLinesFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeScoringRepo) UpsertEntry(ctx context.Context, db bun.IDB, entry *scoringdb.ParticipantEntry) error {
	f.record("UpsertEntry")
	if f.UpsertEntryFunc != nil {
		return f.UpsertEntryFunc(ctx, db, entry)
	}
	return nil
}

func (f *FakeScoringRepo) GetEntries(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.ParticipantEntry, error) {
	f.record("GetEntries")
	if f.GetEntriesFunc != nil {
		return f.GetEntriesFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeScoringRepo) UpsertScores(ctx context.Context, db bun.IDB, scores []scoringdb.ParticipantScore) error {
	f.record("UpsertScores")
	if f.UpsertScoresFunc != nil {
		return f.UpsertScoresFunc(ctx, db, scores)
	}
	return nil
}

func (f *FakeScoringRepo) GetScores(ctx context.Context, db bun.IDB, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error) {
	f.record("GetScores")
	if f.GetScoresFunc != nil {
		return f.GetScoresFunc(ctx, db, tournamentID)
	}
	return nil, nil
}

func (f *FakeScoringRepo) UpsertHoldings(ctx context.Context, db bun.IDB, holdings []scoringdb.Holding) error {
	f.record("UpsertHoldings")
	if f.UpsertHoldingsFunc != nil {
		return f.UpsertHoldingsFunc(ctx, db, holdings)
	}
	return nil
}

var _ scoringdb.Repository = (*FakeScoringRepo)(nil)
