package scoringdomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RosterSize is the number of players in a participant entry.
const RosterSize = 11

var (
	CaptainMultiplier     = decimal.RequireFromString("1.5")
	ViceCaptainMultiplier = decimal.RequireFromString("1.25")
)

// ErrInvalidRoster is wrapped by every entry validation failure.
var ErrInvalidRoster = errors.New("invalid roster")

// ParticipantEntry is one participant's team selection for a tournament.
type ParticipantEntry struct {
	ParticipantID  string   `json:"participant_id"`
	PlayerKeys     []string `json:"player_keys"`
	CaptainKey     string   `json:"captain_key"`
	ViceCaptainKey string   `json:"vice_captain_key"`
}

// ParticipantScore is the aggregated total of one entry, with the multipliers
// that produced it.
type ParticipantScore struct {
	ParticipantID         string
	TotalScore            decimal.Decimal
	CaptainMultiplier     decimal.Decimal
	ViceCaptainMultiplier decimal.Decimal
}

// ValidateEntry checks the roster shape: exactly RosterSize distinct non-empty
// keys, with captain and vice-captain drawn from the roster.
func ValidateEntry(e ParticipantEntry) error {
	if strings.TrimSpace(e.ParticipantID) == "" {
		return fmt.Errorf("%w: participant id is required", ErrInvalidRoster)
	}
	if len(e.PlayerKeys) != RosterSize {
		return fmt.Errorf("%w: expected %d players, got %d", ErrInvalidRoster, RosterSize, len(e.PlayerKeys))
	}
	seen := make(map[string]struct{}, RosterSize)
	for _, k := range e.PlayerKeys {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: empty player key", ErrInvalidRoster)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: duplicate player %s", ErrInvalidRoster, k)
		}
		seen[k] = struct{}{}
	}
	if _, ok := seen[e.CaptainKey]; !ok {
		return fmt.Errorf("%w: captain %q is not in the roster", ErrInvalidRoster, e.CaptainKey)
	}
	if _, ok := seen[e.ViceCaptainKey]; !ok {
		return fmt.Errorf("%w: vice-captain %q is not in the roster", ErrInvalidRoster, e.ViceCaptainKey)
	}
	return nil
}

// Aggregate sums the roster's points. Unscored players contribute zero. When the
// captain and vice-captain are the same player only the captain multiplier applies.
func Aggregate(entry ParticipantEntry, pointsByPlayer map[string]decimal.Decimal) ParticipantScore {
	total := decimal.Zero
	for _, key := range entry.PlayerKeys {
		points, ok := pointsByPlayer[key]
		if !ok {
			continue
		}
		switch key {
		case entry.CaptainKey:
			points = points.Mul(CaptainMultiplier)
		case entry.ViceCaptainKey:
			points = points.Mul(ViceCaptainMultiplier)
		}
		total = total.Add(points)
	}
	return ParticipantScore{
		ParticipantID:         entry.ParticipantID,
		TotalScore:            total.Round(PointsDecimalPlaces),
		CaptainMultiplier:     CaptainMultiplier,
		ViceCaptainMultiplier: ViceCaptainMultiplier,
	}
}
