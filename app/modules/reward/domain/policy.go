package rewarddomain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DistributionPolicy selects how a pool is split.
type DistributionPolicy string

const (
	// PolicyRules splits by rank or rank-range percentage rules.
	PolicyRules DistributionPolicy = "RULES"
	// PolicyProportional splits by each participant's holding-weighted score.
	PolicyProportional DistributionPolicy = "PROPORTIONAL"
)

var ErrUnknownDistributionPolicy = errors.New("unknown distribution policy")

func ParseDistributionPolicy(s string) (DistributionPolicy, error) {
	switch p := DistributionPolicy(strings.ToUpper(strings.TrimSpace(s))); p {
	case PolicyRules, PolicyProportional:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDistributionPolicy, s)
	}
}

var ErrInvalidAmount = errors.New("invalid amount")

// ValidateAmount requires a positive amount with at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive", ErrInvalidAmount, amount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: %s has more than two decimal places", ErrInvalidAmount, amount)
	}
	return nil
}
