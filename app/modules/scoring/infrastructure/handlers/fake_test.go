package scoringhandlers

import (
	"context"

	"github.com/google/uuid"

	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
)

type FakeService struct {
	SubmitStatLinesFunc func(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*scoringservice.SubmitStatLinesResult, error)
}

func (f *FakeService) RegisterTournament(context.Context, scoringservice.RegisterTournamentCommand) (*scoringdb.Tournament, error) {
	return nil, nil
}

func (f *FakeService) RegisterEntry(context.Context, uuid.UUID, scoringdomain.ParticipantEntry) (*scoringdb.ParticipantScore, error) {
	return nil, nil
}

func (f *FakeService) SubmitStatLines(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*scoringservice.SubmitStatLinesResult, error) {
	return f.SubmitStatLinesFunc(ctx, tournamentID, lines)
}

func (f *FakeService) ImportStatLines(context.Context, uuid.UUID, string, []byte) (*scoringservice.SubmitStatLinesResult, error) {
	return nil, nil
}

func (f *FakeService) UpsertHoldings(context.Context, uuid.UUID, []scoringservice.HoldingInput) error {
	return nil
}

func (f *FakeService) GetParticipantScores(context.Context, uuid.UUID) ([]scoringdb.ParticipantScore, error) {
	return nil, nil
}

func (f *FakeService) GetStatLines(context.Context, uuid.UUID) ([]scoringdb.StatLine, error) {
	return nil, nil
}

var _ scoringservice.Service = (*FakeService)(nil)
