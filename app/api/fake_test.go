package api

import (
	"context"
	"errors"

	"github.com/google/uuid"

	leaderboardservice "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/application"
	leaderboarddb "github.com/rays8417/tenjaku-sub001/app/modules/leaderboard/infrastructure/repositories"
	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
)

var errNotConfigured = errors.New("fake: not configured")

type FakeScoringService struct {
	RegisterTournamentFunc   func(ctx context.Context, cmd scoringservice.RegisterTournamentCommand) (*scoringdb.Tournament, error)
	RegisterEntryFunc        func(ctx context.Context, tournamentID uuid.UUID, entry scoringdomain.ParticipantEntry) (*scoringdb.ParticipantScore, error)
	SubmitStatLinesFunc      func(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*scoringservice.SubmitStatLinesResult, error)
	ImportStatLinesFunc      func(ctx context.Context, tournamentID uuid.UUID, filename string, data []byte) (*scoringservice.SubmitStatLinesResult, error)
	UpsertHoldingsFunc       func(ctx context.Context, tournamentID uuid.UUID, holdings []scoringservice.HoldingInput) error
	GetParticipantScoresFunc func(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error)
	GetStatLinesFunc         func(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.StatLine, error)
}

func (f *FakeScoringService) RegisterTournament(ctx context.Context, cmd scoringservice.RegisterTournamentCommand) (*scoringdb.Tournament, error) {
	if f.RegisterTournamentFunc == nil {
		return nil, errNotConfigured
	}
	return f.RegisterTournamentFunc(ctx, cmd)
}

func (f *FakeScoringService) RegisterEntry(ctx context.Context, tournamentID uuid.UUID, entry scoringdomain.ParticipantEntry) (*scoringdb.ParticipantScore, error) {
	if f.RegisterEntryFunc == nil {
		return nil, errNotConfigured
	}
	return f.RegisterEntryFunc(ctx, tournamentID, entry)
}

func (f *FakeScoringService) SubmitStatLines(ctx context.Context, tournamentID uuid.UUID, lines []scoringdomain.StatLine) (*scoringservice.SubmitStatLinesResult, error) {
	if f.SubmitStatLinesFunc == nil {
		return nil, errNotConfigured
	}
	return f.SubmitStatLinesFunc(ctx, tournamentID, lines)
}

func (f *FakeScoringService) ImportStatLines(ctx context.Context, tournamentID uuid.UUID, filename string, data []byte) (*scoringservice.SubmitStatLinesResult, error) {
	if f.ImportStatLinesFunc == nil {
		return nil, errNotConfigured
	}
	return f.ImportStatLinesFunc(ctx, tournamentID, filename, data)
}

func (f *FakeScoringService) UpsertHoldings(ctx context.Context, tournamentID uuid.UUID, holdings []scoringservice.HoldingInput) error {
	if f.UpsertHoldingsFunc == nil {
		return errNotConfigured
	}
	return f.UpsertHoldingsFunc(ctx, tournamentID, holdings)
}

func (f *FakeScoringService) GetParticipantScores(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.ParticipantScore, error) {
	if f.GetParticipantScoresFunc == nil {
		return nil, errNotConfigured
	}
	return f.GetParticipantScoresFunc(ctx, tournamentID)
}

func (f *FakeScoringService) GetStatLines(ctx context.Context, tournamentID uuid.UUID) ([]scoringdb.StatLine, error) {
	if f.GetStatLinesFunc == nil {
		return nil, errNotConfigured
	}
	return f.GetStatLinesFunc(ctx, tournamentID)
}

type FakeLeaderboardService struct {
	BuildLeaderboardFunc func(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
	GetLeaderboardFunc   func(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error)
}

func (f *FakeLeaderboardService) BuildLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	if f.BuildLeaderboardFunc == nil {
		return nil, errNotConfigured
	}
	return f.BuildLeaderboardFunc(ctx, tournamentID)
}

func (f *FakeLeaderboardService) GetLeaderboard(ctx context.Context, tournamentID uuid.UUID) ([]leaderboarddb.LeaderboardRow, error) {
	if f.GetLeaderboardFunc == nil {
		return nil, errNotConfigured
	}
	return f.GetLeaderboardFunc(ctx, tournamentID)
}

type FakeRewardService struct {
	CreatePoolFunc   func(ctx context.Context, cmd rewardservice.CreatePoolCommand) (*rewarddb.RewardPool, error)
	GetPoolFunc      func(ctx context.Context, poolID uuid.UUID) (*rewarddb.RewardPool, error)
	DistributeFunc   func(ctx context.Context, req rewardservice.DistributeRequest) (*rewardservice.DistributionResult, error)
	ListGrantsFunc   func(ctx context.Context, poolID uuid.UUID) ([]rewarddb.RewardGrant, error)
	AdvanceGrantFunc func(ctx context.Context, cmd rewardservice.AdvanceGrantCommand) (*rewarddb.RewardGrant, error)
	GetLedgerFunc    func(ctx context.Context, participantID string) (*rewarddb.ParticipantLedger, error)
}

func (f *FakeRewardService) CreatePool(ctx context.Context, cmd rewardservice.CreatePoolCommand) (*rewarddb.RewardPool, error) {
	if f.CreatePoolFunc == nil {
		return nil, errNotConfigured
	}
	return f.CreatePoolFunc(ctx, cmd)
}

func (f *FakeRewardService) GetPool(ctx context.Context, poolID uuid.UUID) (*rewarddb.RewardPool, error) {
	if f.GetPoolFunc == nil {
		return nil, errNotConfigured
	}
	return f.GetPoolFunc(ctx, poolID)
}

func (f *FakeRewardService) Distribute(ctx context.Context, req rewardservice.DistributeRequest) (*rewardservice.DistributionResult, error) {
	if f.DistributeFunc == nil {
		return nil, errNotConfigured
	}
	return f.DistributeFunc(ctx, req)
}

func (f *FakeRewardService) ListGrants(ctx context.Context, poolID uuid.UUID) ([]rewarddb.RewardGrant, error) {
	if f.ListGrantsFunc == nil {
		return nil, errNotConfigured
	}
	return f.ListGrantsFunc(ctx, poolID)
}

func (f *FakeRewardService) AdvanceGrant(ctx context.Context, cmd rewardservice.AdvanceGrantCommand) (*rewarddb.RewardGrant, error) {
	if f.AdvanceGrantFunc == nil {
		return nil, errNotConfigured
	}
	return f.AdvanceGrantFunc(ctx, cmd)
}

func (f *FakeRewardService) GetLedger(ctx context.Context, participantID string) (*rewarddb.ParticipantLedger, error) {
	if f.GetLedgerFunc == nil {
		return nil, errNotConfigured
	}
	return f.GetLedgerFunc(ctx, participantID)
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

var (
	_ scoringservice.Service     = (*FakeScoringService)(nil)
	_ leaderboardservice.Service = (*FakeLeaderboardService)(nil)
	_ rewardservice.Service      = (*FakeRewardService)(nil)
)
