// Package events defines the topics and payloads exchanged over the event bus.
// Every payload is JSON encoded and versioned by its topic suffix.
package events

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	rewarddomain "github.com/rays8417/tenjaku-sub001/app/modules/reward/domain"
	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
)

// Scoring topics.
const (
	StatLinesSubmittedV1 = "scoring.stat_lines.submitted.v1"
	ScoresRecalculatedV1 = "scoring.scores.recalculated.v1"
	StatLinesRejectedV1  = "scoring.stat_lines.failed.v1"
)

// Leaderboard topics.
const (
	LeaderboardBuildRequestedV1 = "leaderboard.build.requested.v1"
	LeaderboardBuiltV1          = "leaderboard.build.succeeded.v1"
	LeaderboardBuildFailedV1    = "leaderboard.build.failed.v1"
)

// Reward topics.
const (
	RewardDistributionRequestedV1 = "reward.distribution.requested.v1"
	RewardDistributedV1           = "reward.distribution.succeeded.v1"
	RewardDistributionFailedV1    = "reward.distribution.failed.v1"
	GrantAdvanceRequestedV1       = "reward.grant.advance.requested.v1"
	GrantAdvancedV1               = "reward.grant.advance.succeeded.v1"
	GrantAdvanceFailedV1          = "reward.grant.advance.failed.v1"
)

// OperationFailedPayloadV1 is published on every failure topic.
type OperationFailedPayloadV1 struct {
	Subject string `json:"subject"`
	Kind    string `json:"kind"`
	Reason  string `json:"reason"`
}

type StatLinesSubmittedPayloadV1 struct {
	TournamentID uuid.UUID                `json:"tournament_id"`
	StatLines    []scoringdomain.StatLine `json:"stat_lines"`
}

type ScoresRecalculatedPayloadV1 struct {
	TournamentID     uuid.UUID `json:"tournament_id"`
	StatLineCount    int       `json:"stat_line_count"`
	ParticipantCount int       `json:"participant_count"`
}

type LeaderboardBuildRequestedPayloadV1 struct {
	TournamentID uuid.UUID `json:"tournament_id"`
}

type LeaderboardRowV1 struct {
	ParticipantID string          `json:"participant_id"`
	Rank          int             `json:"rank"`
	TotalScore    decimal.Decimal `json:"total_score"`
}

type LeaderboardBuiltPayloadV1 struct {
	TournamentID uuid.UUID          `json:"tournament_id"`
	Rows         []LeaderboardRowV1 `json:"rows"`
}

type RewardDistributionRequestedPayloadV1 struct {
	PoolID            uuid.UUID           `json:"pool_id"`
	Rules             []rewarddomain.Rule `json:"rules,omitempty"`
	TotalRewardAmount *decimal.Decimal    `json:"total_reward_amount,omitempty"`
	Rerun             bool                `json:"rerun"`
}

type RewardGrantV1 struct {
	GrantID       uuid.UUID       `json:"grant_id"`
	ParticipantID string          `json:"participant_id"`
	Rank          *int            `json:"rank,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
}

type RewardDistributedPayloadV1 struct {
	PoolID            uuid.UUID       `json:"pool_id"`
	RunID             uuid.UUID       `json:"run_id"`
	Policy            string          `json:"policy"`
	DistributedAmount decimal.Decimal `json:"distributed_amount"`
	Grants            []RewardGrantV1 `json:"grants"`
}

type GrantAdvanceRequestedPayloadV1 struct {
	GrantID     uuid.UUID `json:"grant_id"`
	Target      string    `json:"target"`
	ExternalRef *string   `json:"external_ref,omitempty"`
}

type GrantAdvancedPayloadV1 struct {
	GrantID       uuid.UUID       `json:"grant_id"`
	ParticipantID string          `json:"participant_id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
}
