package scoringdomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidStatLine is wrapped by every stat line validation failure.
var ErrInvalidStatLine = errors.New("invalid stat line")

var maxPartialOver = decimal.RequireFromString("0.5")

// StatLine is one player's raw performance in a tournament.
// OversBowled uses the decimal form reported by the feed (e.g. 3.5).
type StatLine struct {
	PlayerKey    string          `json:"player_key"`
	RunsScored   int             `json:"runs_scored"`
	BallsFaced   int             `json:"balls_faced"`
	WicketsTaken int             `json:"wickets_taken"`
	OversBowled  decimal.Decimal `json:"overs_bowled"`
	RunsConceded int             `json:"runs_conceded"`
	Catches      int             `json:"catches"`
	Stumpings    int             `json:"stumpings"`
	RunOuts      int             `json:"run_outs"`
}

// Validate rejects lines a caller must never submit: an empty key or negative counters.
func (s StatLine) Validate() error {
	if strings.TrimSpace(s.PlayerKey) == "" {
		return fmt.Errorf("%w: player key is required", ErrInvalidStatLine)
	}
	counters := []struct {
		name  string
		value int
	}{
		{"runs_scored", s.RunsScored},
		{"balls_faced", s.BallsFaced},
		{"wickets_taken", s.WicketsTaken},
		{"runs_conceded", s.RunsConceded},
		{"catches", s.Catches},
		{"stumpings", s.Stumpings},
		{"run_outs", s.RunOuts},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%w: %s for %s must not be negative", ErrInvalidStatLine, c.name, s.PlayerKey)
		}
	}
	if s.OversBowled.IsNegative() {
		return fmt.Errorf("%w: overs_bowled for %s must not be negative", ErrInvalidStatLine, s.PlayerKey)
	}
	// an over has six balls, so the part after the point never exceeds .5
	if s.OversBowled.Sub(s.OversBowled.Floor()).GreaterThan(maxPartialOver) {
		return fmt.Errorf("%w: overs_bowled %s for %s has more than 5 balls in the last over", ErrInvalidStatLine, s.OversBowled, s.PlayerKey)
	}
	return nil
}

// clamped returns a copy with every negative quantity raised to zero.
func (s StatLine) clamped() StatLine {
	c := s
	for _, v := range []*int{&c.RunsScored, &c.BallsFaced, &c.WicketsTaken, &c.RunsConceded, &c.Catches, &c.Stumpings, &c.RunOuts} {
		if *v < 0 {
			*v = 0
		}
	}
	if c.OversBowled.IsNegative() {
		c.OversBowled = decimal.Zero
	}
	return c
}

// ValidateStatLines validates every line and rejects duplicate player keys in one batch.
func ValidateStatLines(lines []StatLine) error {
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return err
		}
		if _, dup := seen[l.PlayerKey]; dup {
			return fmt.Errorf("%w: duplicate player key %s", ErrInvalidStatLine, l.PlayerKey)
		}
		seen[l.PlayerKey] = struct{}{}
	}
	return nil
}
