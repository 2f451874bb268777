package rewardservice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	rewarddb "github.com/rays8417/tenjaku-sub001/app/modules/reward/infrastructure/repositories"
)

// CreatePoolCommand creates a reward pool. A zero ID is replaced by a new one.
type CreatePoolCommand struct {
	ID           uuid.UUID           `json:"id"`
	TournamentID uuid.UUID           `json:"tournament_id"`
	Name         string              `json:"name"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Policy       string              `json:"policy"`
	Rules        []rewarddomain.Rule `json:"rules,omitempty"`
}

// DistributeRequest asks for one distribution run of a pool. Rules replace the
// pool's stored rules when given. TotalRewardAmount defaults to the pool total.
// Rerun recomputes a pool whose previous grants are all still pending.
type DistributeRequest struct {
	PoolID            uuid.UUID           `json:"pool_id"`
	Rules             []rewarddomain.Rule `json:"rules,omitempty"`
	TotalRewardAmount *decimal.Decimal    `json:"total_reward_amount,omitempty"`
	Rerun             bool                `json:"rerun"`
}

// DistributionResult describes a committed run. Allocations include
// participants that were allocated nothing; Grants only the persisted rows.
type DistributionResult struct {
	Pool              *rewarddb.RewardPool            `json:"pool"`
	RunID             uuid.UUID                       `json:"run_id"`
	Policy            rewarddomain.DistributionPolicy `json:"policy"`
	DistributedAmount decimal.Decimal                 `json:"distributed_amount"`
	Allocations       []rewarddomain.Allocation       `json:"allocations"`
	Grants            []rewarddb.RewardGrant          `json:"grants"`
}

// AdvanceGrantCommand moves a grant to Target, recording ExternalRef when set.
type AdvanceGrantCommand struct {
	GrantID     uuid.UUID `json:"grant_id"`
	Target      string    `json:"target"`
	ExternalRef *string   `json:"external_ref,omitempty"`
}
