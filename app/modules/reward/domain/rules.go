package rewarddomain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidRule is wrapped by every rule validation failure.
var ErrInvalidRule = errors.New("invalid reward rule")

var hundred = decimal.NewFromInt(100)

// RankSelector matches leaderboard ranks Lo through Hi inclusive. A single rank
// has Lo == Hi.
type RankSelector struct {
	Lo int
	Hi int
}

// ParseRankSelector accepts "3" or "2-5".
func ParseRankSelector(s string) (RankSelector, error) {
	s = strings.TrimSpace(s)
	loStr, hiStr, isRange := strings.Cut(s, "-")
	lo, err := strconv.Atoi(strings.TrimSpace(loStr))
	if err != nil {
		return RankSelector{}, fmt.Errorf("%w: rank %q is not a number or range", ErrInvalidRule, s)
	}
	hi := lo
	if isRange {
		if hi, err = strconv.Atoi(strings.TrimSpace(hiStr)); err != nil {
			return RankSelector{}, fmt.Errorf("%w: rank %q is not a number or range", ErrInvalidRule, s)
		}
	}
	sel := RankSelector{Lo: lo, Hi: hi}
	return sel, sel.Validate()
}

func (r RankSelector) Validate() error {
	if r.Lo < 1 {
		return fmt.Errorf("%w: rank must be at least 1, got %d", ErrInvalidRule, r.Lo)
	}
	if r.Hi < r.Lo {
		return fmt.Errorf("%w: range %d-%d is inverted", ErrInvalidRule, r.Lo, r.Hi)
	}
	return nil
}

func (r RankSelector) IsRange() bool { return r.Hi != r.Lo }

func (r RankSelector) Contains(rank int) bool { return rank >= r.Lo && rank <= r.Hi }

func (r RankSelector) String() string {
	if r.IsRange() {
		return fmt.Sprintf("%d-%d", r.Lo, r.Hi)
	}
	return strconv.Itoa(r.Lo)
}

// MarshalJSON writes a single rank as a number and a range as "lo-hi".
func (r RankSelector) MarshalJSON() ([]byte, error) {
	if r.IsRange() {
		return json.Marshal(r.String())
	}
	return json.Marshal(r.Lo)
}

// UnmarshalJSON accepts 3, "3" or "2-5".
func (r *RankSelector) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*r = RankSelector{Lo: n, Hi: n}
		return r.Validate()
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: rank must be a number or a \"lo-hi\" string", ErrInvalidRule)
	}
	sel, err := ParseRankSelector(s)
	if err != nil {
		return err
	}
	*r = sel
	return nil
}

// Rule grants Percentage of the pool to the participants matched by Rank.
type Rule struct {
	Rank       RankSelector    `json:"rank"`
	Percentage decimal.Decimal `json:"percentage"`
}

// ValidateRules checks every selector, requires 0 < pct <= 100 per rule and
// caps the sum of percentages at 100.
func ValidateRules(rules []Rule) error {
	if len(rules) == 0 {
		return fmt.Errorf("%w: at least one rule is required", ErrInvalidRule)
	}
	sum := decimal.Zero
	for i, rule := range rules {
		if err := rule.Rank.Validate(); err != nil {
			return fmt.Errorf("rule %d: %w", i, err)
		}
		if !rule.Percentage.IsPositive() || rule.Percentage.GreaterThan(hundred) {
			return fmt.Errorf("%w: rule %d percentage %s must be in (0, 100]", ErrInvalidRule, i, rule.Percentage)
		}
		sum = sum.Add(rule.Percentage)
	}
	if sum.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentages sum to %s, more than 100", ErrInvalidRule, sum)
	}
	return nil
}
