package scoringservice

import (
	"context"

	"github.com/google/uuid"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
)

// Service is the scoring use-case surface shared by the HTTP, event and CLI bindings.
type Service interface {
	RegisterTournament(ctx context.Context, cmd RegisterTournamentCommand) (*scoringdb.Tournament, error)
	RegisterEntry(ctx context.Context, tournamentID uuid.UUID, entry scoringdomain.ParticipantEntry) (*scoringdb.ParticipantScore, error)
	SubmitStatLines(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*SubmitStatLinesResult, error)
	ImportStatLines(ctx context.Context, tournamentID uuid.UUID, filename string, data []byte) (*SubmitStatLinesResult, error)
	UpsertHoldings(ctx context.Context, tournamentID uuid.UUID, holdings []HoldingInput) error
	GetParticipantScores(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error)
	GetStatLines(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.StatLine, error)
}
