package engine_integration_tests

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rays8417/tenjaku-sub001/app"
	rewardservice "github.com/rays8417/tenjaku-sub001/app/modules/reward/application"
	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	scoringservice "github.com/rays8417/tenjaku-sub001/app/modules/scoring/application"
	"github.com/rays8417/tenjaku-sub001/integration_tests/testutils"
)

// scoredTournament is a tournament with two entries, scored stat lines and a
// built leaderboard. Leader outscores RunnerUp through their captain.
type scoredTournament struct {
	Env          *testutils.TestEnvironment
	Modules      *app.Modules
	TournamentID uuid.UUID
	Leader       string
	RunnerUp     string
	LeaderStar   string
	RunnerUpStar string
}

func setupScoredTournament(t *testing.T) *scoredTournament {
	t.Helper()
	env := testutils.GetOrCreateTestEnv(t)
	ctx := env.Ctx
	require.NoError(t, testutils.CleanupDatabase(ctx, env.DB))

	gen := testutils.NewTestDataGenerator()
	t.Logf("data generator seed: %d", gen.Seed())
	modules := env.Modules(t)

	tournament, err := modules.Scoring.ScoringService.RegisterTournament(ctx, scoringservice.RegisterTournamentCommand{
		Name: gen.TournamentName(),
	})
	require.NoError(t, err)

	keys := gen.PlayerKeys(12)
	leader, runnerUp := gen.ParticipantID(), gen.ParticipantID()

	_, err = modules.Scoring.ScoringService.RegisterEntry(ctx, tournament.ID, gen.Entry(leader, keys[0:11], keys[0], keys[1]))
	require.NoError(t, err)
	_, err = modules.Scoring.ScoringService.RegisterEntry(ctx, tournament.ID, gen.Entry(runnerUp, keys[1:12], keys[11], keys[1]))
	require.NoError(t, err)

	lines := append(gen.FillerLines(keys[2:11]),
		gen.BattingLine(keys[0], 100, 60),
		gen.BattingLine(keys[1], 30, 25),
		gen.BattingLine(keys[11], 10, 8),
	)
	_, err = modules.Scoring.ScoringService.SubmitStatLines(ctx, tournament.ID, lines)
	require.NoError(t, err)

	rows, err := modules.Leaderboard.LeaderboardService.BuildLeaderboard(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, leader, rows[0].ParticipantID)
	require.Equal(t, runnerUp, rows[1].ParticipantID)

	return &scoredTournament{
		Env:          env,
		Modules:      modules,
		TournamentID: tournament.ID,
		Leader:       leader,
		RunnerUp:     runnerUp,
		LeaderStar:   keys[0],
		RunnerUpStar: keys[11],
	}
}

func (s *scoredTournament) reward() rewardservice.Service {
	return s.Modules.Reward.RewardService
}

func (s *scoredTournament) ctx() context.Context {
	return s.Env.Ctx
}

// createRulesPool creates a RULES pool paying 60% to rank 1 and 40% to rank 2.
func (s *scoredTournament) createRulesPool(t *testing.T, total string) *rewarddb.RewardPool {
	t.Helper()
	pool, err := s.reward().CreatePool(s.ctx(), rewardservice.CreatePoolCommand{
		TournamentID: s.TournamentID,
		Name:         "Top two",
		TotalAmount:  decimal.RequireFromString(total),
		Policy:       string(rewarddomain.PolicyRules),
		Rules: []rewarddomain.Rule{
			{Rank: rewarddomain.RankSelector{Lo: 1, Hi: 1}, Percentage: decimal.NewFromInt(60)},
			{Rank: rewarddomain.RankSelector{Lo: 2, Hi: 2}, Percentage: decimal.NewFromInt(40)},
		},
	})
	require.NoError(t, err)
	return pool
}

func grantsByParticipant(grants []rewarddb.RewardGrant) map[string]rewarddb.RewardGrant {
	out := make(map[string]rewarddb.RewardGrant, len(grants))
	for _, g := range grants {
		out[g.ParticipantID] = g
	}
	return out
}

func requireDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
