package scoringdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// Tournament is the minimal tournament record the engine needs: a name and the
// scoring policy its stat lines are evaluated with.
type Tournament struct {
	bun.BaseModel `bun:"table:tournaments,alias:t"`

	ID            uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name          string    `bun:"name,notnull" json:"name"`
	ScoringPolicy string    `bun:"scoring_policy,notnull" json:"scoring_policy"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// StatLine stores the raw line and the points computed from it.
type StatLine struct {
	bun.BaseModel `bun:"table:stat_lines,alias:sl"`

	TournamentID uuid.UUID       `bun:"tournament_id,pk,type:uuid" json:"tournament_id"`
	PlayerKey    string          `bun:"player_key,pk" json:"player_key"`
	RunsScored   int             `bun:"runs_scored,notnull,default:0" json:"runs_scored"`
	BallsFaced   int             `bun:"balls_faced,notnull,default:0" json:"balls_faced"`
	WicketsTaken int             `bun:"wickets_taken,notnull,default:0" json:"wickets_taken"`
	OversBowled  decimal.Decimal `bun:"overs_bowled,type:numeric(6,1),notnull,default:0" json:"overs_bowled"`
	RunsConceded int             `bun:"runs_conceded,notnull,default:0" json:"runs_conceded"`
	Catches      int             `bun:"catches,notnull,default:0" json:"catches"`
	Stumpings    int             `bun:"stumpings,notnull,default:0" json:"stumpings"`
	RunOuts      int             `bun:"run_outs,notnull,default:0" json:"run_outs"`
	Points       decimal.Decimal `bun:"points,type:numeric(12,2),notnull" json:"points"`
	PolicyName   string          `bun:"policy_name,notnull" json:"policy_name"`
	UpdatedAt    time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ParticipantEntry is a participant's roster for a tournament.
type ParticipantEntry struct {
	bun.BaseModel `bun:"table:participant_entries,alias:pe"`

	TournamentID   uuid.UUID `bun:"tournament_id,pk,type:uuid" json:"tournament_id"`
	ParticipantID  string    `bun:"participant_id,pk" json:"participant_id"`
	PlayerKeys     []string  `bun:"player_keys,array,notnull" json:"player_keys"`
	CaptainKey     string    `bun:"captain_key,notnull" json:"captain_key"`
	ViceCaptainKey string    `bun:"vice_captain_key,notnull" json:"vice_captain_key"`
	CreatedAt      time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// ParticipantScore is keyed by (participant_id, tournament_id). ID only records
// insertion order, which breaks ties when ranking.
type ParticipantScore struct {
	bun.BaseModel `bun:"table:participant_scores,alias:ps"`

	ID                    int64           `bun:"id,pk,autoincrement" json:"id"`
	ParticipantID         string          `bun:"participant_id,notnull" json:"participant_id"`
	TournamentID          uuid.UUID       `bun:"tournament_id,type:uuid,notnull" json:"tournament_id"`
	TotalScore            decimal.Decimal `bun:"total_score,type:numeric(12,2),notnull" json:"total_score"`
	CaptainMultiplier     decimal.Decimal `bun:"captain_multiplier,type:numeric(4,2),notnull" json:"captain_multiplier"`
	ViceCaptainMultiplier decimal.Decimal `bun:"vice_captain_multiplier,type:numeric(4,2),notnull" json:"vice_captain_multiplier"`
	UpdatedAt             time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Holding is a participant's stake in one player, used by proportional reward pools.
type Holding struct {
	bun.BaseModel `bun:"table:holdings,alias:h"`

	TournamentID  uuid.UUID       `bun:"tournament_id,pk,type:uuid" json:"tournament_id"`
	ParticipantID string          `bun:"participant_id,pk" json:"participant_id"`
	PlayerKey     string          `bun:"player_key,pk" json:"player_key"`
	Amount        decimal.Decimal `bun:"amount,type:numeric(20,8),notnull" json:"amount"`
	UpdatedAt     time.Time       `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}
