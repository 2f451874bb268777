package rewarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
)

// RewardPool is a tournament budget and the bookkeeping of its distribution runs.
type RewardPool struct {
	bun.BaseModel `bun:"table:reward_pools,alias:rp"`

	ID                uuid.UUID           `bun:"id,pk,type:uuid" json:"id"`
	TournamentID      uuid.UUID           `bun:"tournament_id,type:uuid,notnull" json:"tournament_id"`
	Name              string              `bun:"name,notnull" json:"name"`
	TotalAmount       decimal.Decimal     `bun:"total_amount,type:numeric(20,2),notnull" json:"total_amount"`
	DistributedAmount decimal.Decimal     `bun:"distributed_amount,type:numeric(20,2),notnull,default:0" json:"distributed_amount"`
	Policy            string              `bun:"policy,notnull" json:"policy"`
	Rules             []rewarddomain.Rule `bun:"rules,type:jsonb" json:"rules"`
	RunCount          int                 `bun:"run_count,notnull,default:0" json:"run_count"`
	LastRunID         *uuid.UUID          `bun:"last_run_id,type:uuid" json:"last_run_id"`
	CreatedAt         time.Time           `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt         time.Time           `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Distributed reports whether a run has committed grants for the pool.
func (p *RewardPool) Distributed() bool {
	return p.RunCount > 0 && p.LastRunID != nil
}

// RewardGrant is one participant's share of one distribution run.
type RewardGrant struct {
	bun.BaseModel `bun:"table:reward_grants,alias:rg"`

	ID            uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	RewardPoolID  uuid.UUID       `bun:"reward_pool_id,type:uuid,notnull" json:"reward_pool_id"`
	RunID         uuid.UUID       `bun:"run_id,type:uuid,notnull" json:"run_id"`
	TournamentID  uuid.UUID       `bun:"tournament_id,type:uuid,notnull" json:"tournament_id"`
	ParticipantID string          `bun:"participant_id,notnull" json:"participant_id"`
	Rank          *int            `bun:"rank" json:"rank"`
	Amount        decimal.Decimal `bun:"amount,type:numeric(20,2),notnull" json:"amount"`
	Percentage    decimal.Decimal `bun:"percentage,type:numeric(9,4),notnull" json:"percentage"`
	Status        string          `bun:"status,notnull" json:"status"`
	ExternalRef   *string         `bun:"external_ref" json:"external_ref"`
	CreatedAt     time.Time       `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ParticipantLedger holds lifetime earnings. It grows once per grant, when the
// grant enters PROCESSING.
type ParticipantLedger struct {
	bun.BaseModel `bun:"table:participant_ledgers,alias:pl"`

	ParticipantID    string          `bun:"participant_id,pk" json:"participant_id"`
	LifetimeEarnings decimal.Decimal `bun:"lifetime_earnings,type:numeric(20,2),notnull,default:0" json:"lifetime_earnings"`
	UpdatedAt        time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Read models over tables owned by the scoring and leaderboard modules.

type leaderboardPosition struct {
	bun.BaseModel `bun:"table:leaderboard_rows,alias:lr"`

	ParticipantID string `bun:"participant_id" json:"participant_id"`
	Rank          int    `bun:"rank" json:"rank"`
}

type holding struct {
	bun.BaseModel `bun:"table:holdings,alias:h"`

	ParticipantID string          `bun:"participant_id" json:"participant_id"`
	PlayerKey     string          `bun:"player_key" json:"player_key"`
	Amount        decimal.Decimal `bun:"amount" json:"amount"`
}

type playerPoints struct {
	bun.BaseModel `bun:"table:stat_lines,alias:sl"`

	PlayerKey string          `bun:"player_key" json:"player_key"`
	Points    decimal.Decimal `bun:"points" json:"points"`
}
