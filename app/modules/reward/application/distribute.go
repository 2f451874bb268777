package rewardservice

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
	"github.com/rays8417/tenjaku-sub001/app/observability/attr"
	"github.com/rays8417/tenjaku-sub001/app/shared/apperr"
	"github.com/rays8417/tenjaku-sub001/app/shared/operation"
	"github.com/rays8417/tenjaku-sub001/app/shared/txrunner"
)

// Distribute computes every grant of one run in memory and commits them with
// the pool bookkeeping in a single transaction.
//
// Only one distribution of a pool may be in flight; a concurrent caller gets a
// Conflict failure rather than waiting. A pool that already has a committed run
// is only recomputed when Rerun is set and no grant of that run has left PENDING.
func (s *RewardService) Distribute(ctx context.Context, req DistributeRequest) (*DistributionResult, error) {
	const op = "reward.Distribute"
	return operation.Run(ctx, s.telemetry(), op, poolAttrs(req.PoolID), func(ctx context.Context) (*DistributionResult, error) {
		if req.PoolID == uuid.Nil {
			return nil, apperr.Validationf(op, "pool_id is required")
		}
		if len(req.Rules) > 0 {
			if err := rewarddomain.ValidateRules(req.Rules); err != nil {
				return nil, apperr.Validationf(op, "%v", err)
			}
		}
		if req.TotalRewardAmount != nil {
			if err := rewarddomain.ValidateAmount(*req.TotalRewardAmount); err != nil {
				return nil, apperr.Validationf(op, "total_reward_amount: %v", err)
			}
		}

		return txrunner.InTx(ctx, s.db, op, func(ctx context.Context, tx bun.IDB) (*DistributionResult, error) {
			locked, err := s.repo.TryLockPool(ctx, tx, req.PoolID)
			if err != nil {
				return nil, apperr.Transaction(op, err)
			}
			if !locked {
				return nil, apperr.Conflictf(op, "a distribution of pool %s is already in progress", req.PoolID)
			}

			pool, err := s.loadPool(ctx, tx, op, req.PoolID)
			if err != nil {
				return nil, err
			}
			policy, err := rewarddomain.ParseDistributionPolicy(pool.Policy)
			if err != nil {
				return nil, apperr.Validationf(op, "%v", err)
			}

			if pool.Distributed() {
				if !req.Rerun {
					return nil, apperr.Conflictf(op, "reward pool %s is already distributed (run %s)", pool.ID, *pool.LastRunID)
				}
				if err := s.discardPendingRun(ctx, tx, op, pool); err != nil {
					return nil, err
				}
			}

			amount := pool.TotalAmount
			if req.TotalRewardAmount != nil {
				if req.TotalRewardAmount.GreaterThan(pool.TotalAmount) {
					return nil, apperr.Validationf(op, "total_reward_amount %s exceeds pool total %s", req.TotalRewardAmount, pool.TotalAmount)
				}
				amount = *req.TotalRewardAmount
			}

			var allocations []rewarddomain.Allocation
			switch policy {
			case rewarddomain.PolicyRules:
				rules := pool.Rules
				if len(req.Rules) > 0 {
					rules = req.Rules
				}
				if allocations, err = s.allocateByRules(ctx, tx, op, pool, amount, rules); err != nil {
					return nil, err
				}
				pool.Rules = rules
			case rewarddomain.PolicyProportional:
				if len(req.Rules) > 0 {
					return nil, apperr.Validationf(op, "rules only apply to the %s policy", rewarddomain.PolicyRules)
				}
				if allocations, err = s.allocateProportional(ctx, tx, op, pool, amount); err != nil {
					return nil, err
				}
			}

			runID := uuid.New()
			grants := make([]rewarddb.RewardGrant, 0, len(allocations))
			for _, a := range allocations {
				if !a.Amount.IsPositive() {
					continue
				}
				grants = append(grants, rewarddb.RewardGrant{
					ID:            uuid.New(),
					RewardPoolID:  pool.ID,
					RunID:         runID,
					TournamentID:  pool.TournamentID,
					ParticipantID: a.ParticipantID,
					Rank:          a.Rank,
					Amount:        a.Amount,
					Percentage:    a.Percentage,
					Status:        string(rewarddomain.StatusPending),
				})
			}
			distributed := rewarddomain.Sum(allocations)

			if err := s.repo.InsertGrants(ctx, tx, grants); err != nil {
				return nil, apperr.Transaction(op, err)
			}
			pool.DistributedAmount = distributed
			pool.RunCount++
			pool.LastRunID = &runID
			if err := s.repo.SavePoolRun(ctx, tx, pool); err != nil {
				return nil, apperr.Transaction(op, err)
			}

			s.metrics.RecordAmount(ctx, "reward_distributed", distributed.InexactFloat64())
			s.logger.InfoContext(ctx, "Reward pool distributed",
				attr.UUID("pool_id", pool.ID),
				attr.UUID("run_id", runID),
				attr.String("policy", string(policy)),
				attr.Int("run_count", pool.RunCount),
				attr.Int("grants", len(grants)),
				attr.Decimal("distributed_amount", distributed),
				attr.ExtractCorrelationID(ctx),
			)
			return &DistributionResult{
				Pool:              pool,
				RunID:             runID,
				Policy:            policy,
				DistributedAmount: distributed,
				Allocations:       allocations,
				Grants:            grants,
			}, nil
		})
	})
}

// discardPendingRun deletes the grants of the pool's last run so it can be
// recomputed. Any grant that has moved past PENDING blocks the rerun.
func (s *RewardService) discardPendingRun(ctx context.Context, tx bun.IDB, op string, pool *rewarddb.RewardPool) error {
	previous, err := s.repo.ListRunGrants(ctx, tx, pool.ID, *pool.LastRunID)
	if err != nil {
		return apperr.Transaction(op, err)
	}
	for _, g := range previous {
		if g.Status != string(rewarddomain.StatusPending) {
			return apperr.Preconditionf(op, "grant %s of run %s is %s; only pending runs can be redistributed", g.ID, *pool.LastRunID, g.Status)
		}
	}
	if err := s.repo.DeleteRunGrants(ctx, tx, pool.ID, *pool.LastRunID); err != nil {
		return apperr.Transaction(op, err)
	}
	s.logger.InfoContext(ctx, "Discarded pending distribution run",
		attr.UUID("pool_id", pool.ID),
		attr.UUID("run_id", *pool.LastRunID),
		attr.Int("grants", len(previous)),
	)
	return nil
}

func (s *RewardService) allocateByRules(ctx context.Context, tx bun.IDB, op string, pool *rewarddb.RewardPool, amount decimal.Decimal, rules []rewarddomain.Rule) ([]rewarddomain.Allocation, error) {
	if err := rewarddomain.ValidateRules(rules); err != nil {
		return nil, apperr.Validationf(op, "%v", err)
	}
	standings, err := s.repo.GetLeaderboard(ctx, tx, pool.TournamentID)
	if err != nil {
		return nil, apperr.Transaction(op, err)
	}
	if len(standings) == 0 {
		return nil, apperr.Preconditionf(op, "tournament %s has no leaderboard entries", pool.TournamentID)
	}
	return rewarddomain.AllocateByRules(amount, rules, standings), nil
}

func (s *RewardService) allocateProportional(ctx context.Context, tx bun.IDB, op string, pool *rewarddb.RewardPool, amount decimal.Decimal) ([]rewarddomain.Allocation, error) {
	entrants, err := s.repo.GetEntrants(ctx, tx, pool.TournamentID)
	if err != nil {
		return nil, apperr.Transaction(op, err)
	}
	holdings, err := s.repo.GetHoldings(ctx, tx, pool.TournamentID)
	if err != nil {
		return nil, apperr.Transaction(op, err)
	}
	points, err := s.repo.GetPlayerPoints(ctx, tx, pool.TournamentID)
	if err != nil {
		return nil, apperr.Transaction(op, err)
	}

	allocations, err := rewarddomain.AllocateProportional(amount, entrants, holdings, points)
	if err != nil {
		if errors.Is(err, rewarddomain.ErrNoEligibleScore) {
			return nil, apperr.Preconditionf(op, "no eligible score: no participant of tournament %s has a positive holding-weighted score", pool.TournamentID)
		}
		return nil, apperr.Transaction(op, err)
	}
	return allocations, nil
}
