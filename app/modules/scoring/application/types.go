package scoringservice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	scoringdb "github.com/rays8417/tenjaku-sub001/app/modules/scoring/infrastructure/repositories"
)

// RegisterTournamentCommand creates a tournament. A zero ID is replaced by a new one
// and an empty policy selects the configured default.
type RegisterTournamentCommand struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ScoringPolicy string    `json:"scoring_policy"`
}

// SubmitStatLinesResult reports what a submission changed.
type SubmitStatLinesResult struct {
	TournamentID  uuid.UUID                    `json:"tournament_id"`
	Policy        string                       `json:"policy"`
	StatLineCount int                          `json:"stat_line_count"`
	PlayerPoints  map[string]decimal.Decimal   `json:"player_points"`
	Scores        []scoringdb.ParticipantScore `json:"scores"`
}

// HoldingInput is a participant's stake in one player.
type HoldingInput struct {
	ParticipantID string          `json:"participant_id"`
	PlayerKey     string          `json:"player_key"`
	Amount        decimal.Decimal `json:"amount"`
}
