package rewardservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
)

func newTestService(repo rewarddb.Repository) *RewardService {
	return NewRewardService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

var cmpEmptyTrace = cmp.FilterValues(func(a, b []string) bool { return len(a) == 0 && len(b) == 0 }, cmp.Ignore())

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func rule(lo, hi int, pct string) rewarddomain.Rule {
	return rewarddomain.Rule{Rank: rewarddomain.RankSelector{Lo: lo, Hi: hi}, Percentage: dec(pct)}
}

func expectKind(t *testing.T, err error, want apperr.Kind) {
	t.Helper()
	if want == apperr.KindUnknown {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if got := apperr.KindOf(err); got != want {
		t.Fatalf("kind = %v, want %v (err=%v)", got, want, err)
	}
}

func TestRewardService_CreatePool(t *testing.T) {
	tournamentID := uuid.New()
	valid := CreatePoolCommand{TournamentID: tournamentID, Name: "Grand prize", TotalAmount: dec("1000"), Policy: "rules"}

	tests := []struct {
		name      string
		cmd       CreatePoolCommand
		setup     func(f *FakeRewardRepo)
		wantKind  apperr.Kind
		wantTrace []string
	}{
		{
			name:     "missing tournament id",
			cmd:      CreatePoolCommand{Name: "x", TotalAmount: dec("1"), Policy: "RULES"},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "fractional cents",
			cmd:      CreatePoolCommand{TournamentID: tournamentID, Name: "x", TotalAmount: dec("1.001"), Policy: "RULES"},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "unknown policy",
			cmd:      CreatePoolCommand{TournamentID: tournamentID, Name: "x", TotalAmount: dec("1"), Policy: "RAFFLE"},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "rules on proportional pool",
			cmd:      CreatePoolCommand{TournamentID: tournamentID, Name: "x", TotalAmount: dec("1"), Policy: "PROPORTIONAL", Rules: []rewarddomain.Rule{rule(1, 1, "10")}},
			wantKind: apperr.KindValidation,
		},
		{
			name:     "rules over one hundred percent",
			cmd:      CreatePoolCommand{TournamentID: tournamentID, Name: "x", TotalAmount: dec("1"), Policy: "RULES", Rules: []rewarddomain.Rule{rule(1, 1, "70"), rule(2, 2, "40")}},
			wantKind: apperr.KindValidation,
		},
		{
			name: "unknown tournament",
			cmd:  valid,
			setup: func(f *FakeRewardRepo) {
				f.TournamentExistsFunc = func(context.Context, bun.IDB, uuid.UUID) (bool, error) { return false, nil }
			},
			wantKind:  apperr.KindNotFound,
			wantTrace: []string{"TournamentExists"},
		},
		{
			name:      "creates pool",
			cmd:       valid,
			wantTrace: []string{"TournamentExists", "GetPool", "CreatePool"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRewardRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			got, err := newTestService(repo).CreatePool(context.Background(), tt.cmd)
			expectKind(t, err, tt.wantKind)
			if diff := cmp.Diff(tt.wantTrace, repo.Trace(), cmpEmptyTrace); diff != "" {
				t.Errorf("trace mismatch (-want +got):\n%s", diff)
			}
			if err == nil {
				if got.ID == uuid.Nil || got.Policy != string(rewarddomain.PolicyRules) {
					t.Errorf("unexpected pool %+v", got)
				}
			}
		})
	}
}

// poolRepo wires a fake that serves pool and records written grants.
type poolRepo struct {
	*FakeRewardRepo
	pool    *rewarddb.RewardPool
	grants  []rewarddb.RewardGrant
	saved   *rewarddb.RewardPool
	deleted bool
}

func newPoolRepo(pool *rewarddb.RewardPool) *poolRepo {
	r := &poolRepo{FakeRewardRepo: NewFakeRewardRepo(), pool: pool}
	r.GetPoolFunc = func(context.Context, bun.IDB, uuid.UUID) (*rewarddb.RewardPool, error) {
		cp := *r.pool
		return &cp, nil
	}
	r.InsertGrantsFunc = func(_ context.Context, _ bun.IDB, grants []rewarddb.RewardGrant) error {
		r.grants = grants
		return nil
	}
	r.SavePoolRunFunc = func(_ context.Context, _ bun.IDB, pool *rewarddb.RewardPool) error {
		r.saved = pool
		return nil
	}
	r.DeleteRunGrantsFunc = func(context.Context, bun.IDB, uuid.UUID, uuid.UUID) error {
		r.deleted = true
		return nil
	}
	return r
}

func rulesPool() *rewarddb.RewardPool {
	return &rewarddb.RewardPool{
		ID:           uuid.New(),
		TournamentID: uuid.New(),
		Name:         "Prize",
		TotalAmount:  dec("1000"),
		Policy:       string(rewarddomain.PolicyRules),
		Rules:        []rewarddomain.Rule{rule(1, 1, "50"), rule(2, 3, "30")},
	}
}

func threeRanks(context.Context, bun.IDB, uuid.UUID) ([]rewarddomain.RankedParticipant, error) {
	return []rewarddomain.RankedParticipant{
		{ParticipantID: "alice", Rank: 1},
		{ParticipantID: "bob", Rank: 2},
		{ParticipantID: "carol", Rank: 3},
	}, nil
}

func TestRewardService_Distribute_Rules(t *testing.T) {
	t.Run("allocates and commits a run", func(t *testing.T) {
		pool := rulesPool()
		repo := newPoolRepo(pool)
		repo.GetLeaderboardFunc = threeRanks

		res, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{PoolID: pool.ID})
		expectKind(t, err, apperr.KindUnknown)

		if diff := cmp.Diff([]string{"TryLockPool", "GetPool", "GetLeaderboard", "InsertGrants", "SavePoolRun"}, repo.Trace()); diff != "" {
			t.Errorf("trace mismatch (-want +got):\n%s", diff)
		}
		if !res.DistributedAmount.Equal(dec("800")) {
			t.Errorf("distributed = %s, want 800", res.DistributedAmount)
		}
		want := map[string]string{"alice": "500.00", "bob": "150.00", "carol": "150.00"}
		for _, g := range repo.grants {
			if want[g.ParticipantID] != g.Amount.StringFixed(2) {
				t.Errorf("%s got %s, want %s", g.ParticipantID, g.Amount, want[g.ParticipantID])
			}
			if g.Status != string(rewarddomain.StatusPending) || g.RunID != res.RunID || g.RewardPoolID != pool.ID {
				t.Errorf("unexpected grant %+v", g)
			}
		}
		if len(repo.grants) != 3 {
			t.Fatalf("inserted %d grants, want 3", len(repo.grants))
		}
		if repo.saved.RunCount != 1 || *repo.saved.LastRunID != res.RunID || !repo.saved.DistributedAmount.Equal(dec("800")) {
			t.Errorf("unexpected pool bookkeeping %+v", repo.saved)
		}
	})

	t.Run("request rules override stored rules", func(t *testing.T) {
		pool := rulesPool()
		repo := newPoolRepo(pool)
		repo.GetLeaderboardFunc = threeRanks

		res, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{
			PoolID:            pool.ID,
			Rules:             []rewarddomain.Rule{rule(1, 3, "100")},
			TotalRewardAmount: decPtr("100"),
		})
		expectKind(t, err, apperr.KindUnknown)
		if !res.DistributedAmount.Equal(dec("100")) {
			t.Errorf("distributed = %s, want 100", res.DistributedAmount)
		}
		if len(repo.saved.Rules) != 1 {
			t.Errorf("stored rules = %+v", repo.saved.Rules)
		}
	})

	tests := []struct {
		name      string
		req       func(pool *rewarddb.RewardPool) DistributeRequest
		mutate    func(pool *rewarddb.RewardPool, repo *poolRepo)
		wantKind  apperr.Kind
		wantTrace []string
	}{
		{
			name:     "invalid request rules",
			req:      func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID, Rules: []rewarddomain.Rule{rule(2, 1, "5")}} },
			wantKind: apperr.KindValidation,
		},
		{
			name: "lock held elsewhere",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			mutate: func(_ *rewarddb.RewardPool, r *poolRepo) {
				r.TryLockPoolFunc = func(context.Context, bun.IDB, uuid.UUID) (bool, error) { return false, nil }
			},
			wantKind:  apperr.KindConflict,
			wantTrace: []string{"TryLockPool"},
		},
		{
			name: "unknown pool",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			mutate: func(_ *rewarddb.RewardPool, r *poolRepo) {
				r.GetPoolFunc = nil
			},
			wantKind:  apperr.KindNotFound,
			wantTrace: []string{"TryLockPool", "GetPool"},
		},
		{
			name: "already distributed",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			mutate: func(p *rewarddb.RewardPool, _ *poolRepo) {
				run := uuid.New()
				p.RunCount, p.LastRunID = 1, &run
			},
			wantKind:  apperr.KindConflict,
			wantTrace: []string{"TryLockPool", "GetPool"},
		},
		{
			name: "rerun blocked by settled grant",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID, Rerun: true} },
			mutate: func(p *rewarddb.RewardPool, r *poolRepo) {
				run := uuid.New()
				p.RunCount, p.LastRunID = 1, &run
				r.ListRunGrantsFunc = func(context.Context, bun.IDB, uuid.UUID, uuid.UUID) ([]rewarddb.RewardGrant, error) {
					return []rewarddb.RewardGrant{
						{ID: uuid.New(), Status: string(rewarddomain.StatusPending)},
						{ID: uuid.New(), Status: string(rewarddomain.StatusProcessing)},
					}, nil
				}
			},
			wantKind:  apperr.KindPrecondition,
			wantTrace: []string{"TryLockPool", "GetPool", "ListRunGrants"},
		},
		{
			name: "amount above pool total",
			req: func(p *rewarddb.RewardPool) DistributeRequest {
				return DistributeRequest{PoolID: p.ID, TotalRewardAmount: decPtr("1000.01")}
			},
			wantKind:  apperr.KindValidation,
			wantTrace: []string{"TryLockPool", "GetPool"},
		},
		{
			name:      "empty leaderboard",
			req:       func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			wantKind:  apperr.KindPrecondition,
			wantTrace: []string{"TryLockPool", "GetPool", "GetLeaderboard"},
		},
		{
			name: "pool without rules",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			mutate: func(p *rewarddb.RewardPool, _ *poolRepo) {
				p.Rules = nil
			},
			wantKind:  apperr.KindValidation,
			wantTrace: []string{"TryLockPool", "GetPool"},
		},
		{
			name: "grant insert failure rolls back as transaction error",
			req:  func(p *rewarddb.RewardPool) DistributeRequest { return DistributeRequest{PoolID: p.ID} },
			mutate: func(_ *rewarddb.RewardPool, r *poolRepo) {
				r.GetLeaderboardFunc = threeRanks
				r.InsertGrantsFunc = func(context.Context, bun.IDB, []rewarddb.RewardGrant) error {
					return errors.New("unique violation")
				}
			},
			wantKind:  apperr.KindTransaction,
			wantTrace: []string{"TryLockPool", "GetPool", "GetLeaderboard", "InsertGrants"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := rulesPool()
			repo := newPoolRepo(pool)
			if tt.mutate != nil {
				tt.mutate(pool, repo)
			}
			_, err := newTestService(repo).Distribute(context.Background(), tt.req(pool))
			expectKind(t, err, tt.wantKind)
			if diff := cmp.Diff(tt.wantTrace, repo.Trace(), cmpEmptyTrace); diff != "" {
				t.Errorf("trace mismatch (-want +got):\n%s", diff)
			}
			if repo.saved != nil {
				t.Error("pool bookkeeping written on failure")
			}
		})
	}
}

func TestRewardService_Distribute_Rerun(t *testing.T) {
	pool := rulesPool()
	previous := uuid.New()
	pool.RunCount, pool.LastRunID = 1, &previous
	repo := newPoolRepo(pool)
	repo.GetLeaderboardFunc = threeRanks
	repo.ListRunGrantsFunc = func(_ context.Context, _ bun.IDB, _ uuid.UUID, runID uuid.UUID) ([]rewarddb.RewardGrant, error) {
		if runID != previous {
			t.Errorf("listed run %s, want %s", runID, previous)
		}
		return []rewarddb.RewardGrant{{ID: uuid.New(), Status: string(rewarddomain.StatusPending)}}, nil
	}

	res, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{PoolID: pool.ID, Rerun: true})
	expectKind(t, err, apperr.KindUnknown)
	if !repo.deleted {
		t.Error("previous run was not discarded")
	}
	if res.RunID == previous || repo.saved.RunCount != 2 {
		t.Errorf("run bookkeeping not advanced: run=%s count=%d", res.RunID, repo.saved.RunCount)
	}
	if !repo.saved.DistributedAmount.Equal(dec("800")) {
		t.Errorf("distributed amount must be overwritten, got %s", repo.saved.DistributedAmount)
	}
}

func TestRewardService_Distribute_Proportional(t *testing.T) {
	proportionalPool := func() *rewarddb.RewardPool {
		return &rewarddb.RewardPool{
			ID:           uuid.New(),
			TournamentID: uuid.New(),
			Name:         "Token pool",
			TotalAmount:  dec("100"),
			Policy:       string(rewarddomain.PolicyProportional),
		}
	}

	t.Run("splits by holding weighted score", func(t *testing.T) {
		pool := proportionalPool()
		repo := newPoolRepo(pool)
		repo.GetEntrantsFunc = func(context.Context, bun.IDB, uuid.UUID) ([]string, error) {
			return []string{"alice", "bob", "zed"}, nil
		}
		repo.GetHoldingsFunc = func(context.Context, bun.IDB, uuid.UUID) ([]rewarddomain.Holding, error) {
			return []rewarddomain.Holding{
				{ParticipantID: "alice", PlayerKey: "p1", Amount: dec("3")},
				{ParticipantID: "bob", PlayerKey: "p2", Amount: dec("7")},
			}, nil
		}
		repo.GetPlayerPointsFunc = func(context.Context, bun.IDB, uuid.UUID) (map[string]decimal.Decimal, error) {
			return map[string]decimal.Decimal{"p1": dec("10"), "p2": dec("10")}, nil
		}

		res, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{PoolID: pool.ID})
		expectKind(t, err, apperr.KindUnknown)
		if len(res.Allocations) != 3 {
			t.Errorf("allocations = %d, want 3 including the zero score entrant", len(res.Allocations))
		}
		if len(repo.grants) != 2 {
			t.Fatalf("grants = %d, want 2", len(repo.grants))
		}
		for _, g := range repo.grants {
			if g.Rank != nil {
				t.Errorf("proportional grant has rank %d", *g.Rank)
			}
		}
		if !res.DistributedAmount.Equal(dec("100")) {
			t.Errorf("distributed = %s", res.DistributedAmount)
		}
	})

	t.Run("no eligible score leaves pool untouched", func(t *testing.T) {
		pool := proportionalPool()
		repo := newPoolRepo(pool)
		repo.GetEntrantsFunc = func(context.Context, bun.IDB, uuid.UUID) ([]string, error) {
			return []string{"alice"}, nil
		}
		_, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{PoolID: pool.ID})
		expectKind(t, err, apperr.KindPrecondition)
		if repo.saved != nil || repo.grants != nil {
			t.Error("no-eligible distribution must not write")
		}
		if diff := cmp.Diff([]string{"TryLockPool", "GetPool", "GetEntrants", "GetHoldings", "GetPlayerPoints"}, repo.Trace()); diff != "" {
			t.Errorf("trace mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rules rejected", func(t *testing.T) {
		pool := proportionalPool()
		repo := newPoolRepo(pool)
		_, err := newTestService(repo).Distribute(context.Background(), DistributeRequest{PoolID: pool.ID, Rules: []rewarddomain.Rule{rule(1, 1, "10")}})
		expectKind(t, err, apperr.KindValidation)
	})
}

func TestRewardService_AdvanceGrant(t *testing.T) {
	grantID := uuid.New()
	ref := "tx-123"
	blank := " "

	tests := []struct {
		name       string
		from       rewarddomain.GrantStatus
		target     string
		ref        *string
		missing    bool
		wantKind   apperr.Kind
		wantCredit bool
		wantTrace  []string
	}{
		{name: "unknown target", from: rewarddomain.StatusPending, target: "PAID", wantKind: apperr.KindValidation},
		{name: "blank external ref", from: rewarddomain.StatusPending, target: "PROCESSING", ref: &blank, wantKind: apperr.KindValidation},
		{name: "missing grant", target: "PROCESSING", missing: true, wantKind: apperr.KindNotFound, wantTrace: []string{"GetGrantForUpdate"}},
		{
			name: "pending to processing credits ledger", from: rewarddomain.StatusPending, target: "PROCESSING", ref: &ref,
			wantCredit: true,
			wantTrace:  []string{"GetGrantForUpdate", "UpdateGrantStatus", "IncrementLifetimeEarnings"},
		},
		{
			name: "processing to completed", from: rewarddomain.StatusProcessing, target: "COMPLETED",
			wantTrace: []string{"GetGrantForUpdate", "UpdateGrantStatus"},
		},
		{
			name: "processing to failed keeps earnings", from: rewarddomain.StatusProcessing, target: "FAILED",
			wantTrace: []string{"GetGrantForUpdate", "UpdateGrantStatus"},
		},
		{
			name: "second processing is not pending", from: rewarddomain.StatusProcessing, target: "PROCESSING",
			wantKind:  apperr.KindPrecondition,
			wantTrace: []string{"GetGrantForUpdate"},
		},
		{
			name: "completed back to pending", from: rewarddomain.StatusCompleted, target: "PENDING",
			wantKind:  apperr.KindState,
			wantTrace: []string{"GetGrantForUpdate"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRewardRepo()
			if !tt.missing {
				repo.GetGrantForUpdateFunc = func(context.Context, bun.IDB, uuid.UUID) (*rewarddb.RewardGrant, error) {
					return &rewarddb.RewardGrant{ID: grantID, ParticipantID: "alice", Amount: dec("150"), Status: string(tt.from)}, nil
				}
			}
			var credited decimal.Decimal
			repo.IncrementLifetimeEarningsFunc = func(_ context.Context, _ bun.IDB, participantID string, amount decimal.Decimal) error {
				if participantID != "alice" {
					t.Errorf("credited %s", participantID)
				}
				credited = amount
				return nil
			}

			got, err := newTestService(repo).AdvanceGrant(context.Background(), AdvanceGrantCommand{GrantID: grantID, Target: tt.target, ExternalRef: tt.ref})
			expectKind(t, err, tt.wantKind)
			if diff := cmp.Diff(tt.wantTrace, repo.Trace(), cmpEmptyTrace); diff != "" {
				t.Errorf("trace mismatch (-want +got):\n%s", diff)
			}
			if tt.wantCredit && !credited.Equal(dec("150")) {
				t.Errorf("credited %s, want 150", credited)
			}
			if err == nil {
				if got.Status != tt.target {
					t.Errorf("status = %s, want %s", got.Status, tt.target)
				}
				if tt.ref != nil && (got.ExternalRef == nil || *got.ExternalRef != *tt.ref) {
					t.Errorf("external ref not stored")
				}
			}
		})
	}
}

func TestRewardService_GetLedger(t *testing.T) {
	repo := NewFakeRewardRepo()
	_, err := newTestService(repo).GetLedger(context.Background(), "alice")
	expectKind(t, err, apperr.KindNotFound)

	_, err = newTestService(repo).GetLedger(context.Background(), "")
	expectKind(t, err, apperr.KindValidation)

	repo.GetLedgerFunc = func(context.Context, bun.IDB, string) (*rewarddb.ParticipantLedger, error) {
		return &rewarddb.ParticipantLedger{ParticipantID: "alice", LifetimeEarnings: dec("42.50")}, nil
	}
	ledger, err := newTestService(repo).GetLedger(context.Background(), "alice")
	expectKind(t, err, apperr.KindUnknown)
	if !ledger.LifetimeEarnings.Equal(dec("42.5")) {
		t.Errorf("earnings = %s", ledger.LifetimeEarnings)
	}
}
