package leaderboarddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// LeaderboardRow is one position of a tournament's latest leaderboard snapshot.
// The snapshot is replaced as a whole on every build.
type LeaderboardRow struct {
	bun.BaseModel `bun:"table:leaderboard_rows,alias:lr"`

	TournamentID  uuid.UUID       `bun:"tournament_id,pk,type:uuid" json:"tournament_id"`
	ParticipantID string          `bun:"participant_id,pk" json:"participant_id"`
	Rank          int             `bun:"rank,notnull" json:"rank"`
	TotalScore    decimal.Decimal `bun:"total_score,type:numeric(12,2),notnull" json:"total_score"`
	BuiltAt       time.Time       `bun:"built_at,nullzero,notnull,default:current_timestamp" json:"built_at"`
}

// scoreStanding reads the scoring module's participant_scores table.
type scoreStanding struct {
	bun.BaseModel `bun:"table:participant_scores,alias:ps"`

	ID            int64           `bun:"id" json:"id"`
	ParticipantID string          `bun:"participant_id" json:"participant_id"`
	TotalScore    decimal.Decimal `bun:"total_score" json:"total_score"`
}
