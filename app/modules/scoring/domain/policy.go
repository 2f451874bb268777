package scoringdomain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrUnknownPolicy is returned by LookupPolicy for names that are not registered.
var ErrUnknownPolicy = errors.New("unknown scoring policy")

// EconomySource selects the run count used as the economy-rate numerator.
type EconomySource string

const (
	EconomyFromRunsConceded EconomySource = "runs_conceded"
	// EconomyFromRunsScored reproduces the historical offline calculation, which
	// divided the bowler's own batting runs by overs bowled.
	EconomyFromRunsScored EconomySource = "runs_scored"
)

// StrikeRateTier awards Bonus when the strike rate is at least MinStrikeRate.
type StrikeRateTier struct {
	MinStrikeRate decimal.Decimal
	Bonus         int
}

// ScoringPolicy is a named, versioned set of the point-table values that differed
// between historical scoring paths.
type ScoringPolicy struct {
	Name               string
	StrikeRateMinBalls int
	StrikeRateTiers    []StrikeRateTier
	StumpingPoints     int
	RunOutPoints       int
	EconomySource      EconomySource
}

// LegacyEconomy reports whether the policy reads economy from runs scored.
func (p ScoringPolicy) LegacyEconomy() bool {
	return p.EconomySource == EconomyFromRunsScored
}

func tiers(thresholds ...int64) []StrikeRateTier {
	bonuses := []int{2, 4, 6}
	out := make([]StrikeRateTier, len(thresholds))
	for i, t := range thresholds {
		out[i] = StrikeRateTier{MinStrikeRate: decimal.NewFromInt(t), Bonus: bonuses[i]}
	}
	// highest threshold first so the first match is the best tier
	sort.Slice(out, func(i, j int) bool { return out[i].MinStrikeRate.GreaterThan(out[j].MinStrikeRate) })
	return out
}

const (
	PolicyLiveV1    = "live-v1"
	PolicyOfflineV1 = "offline-v1"
	DefaultPolicy   = PolicyLiveV1
)

var policies = map[string]ScoringPolicy{
	PolicyLiveV1: {
		Name:               PolicyLiveV1,
		StrikeRateMinBalls: 1,
		StrikeRateTiers:    tiers(100, 120, 150),
		StumpingPoints:     12,
		RunOutPoints:       6,
		EconomySource:      EconomyFromRunsConceded,
	},
	PolicyOfflineV1: {
		Name:               PolicyOfflineV1,
		StrikeRateMinBalls: 10,
		StrikeRateTiers:    tiers(100, 150, 200),
		StumpingPoints:     10,
		RunOutPoints:       10,
		EconomySource:      EconomyFromRunsScored,
	},
}

// LookupPolicy resolves a policy by name. An empty name resolves to DefaultPolicy.
func LookupPolicy(name string) (ScoringPolicy, error) {
	if name == "" {
		name = DefaultPolicy
	}
	p, ok := policies[name]
	if !ok {
		return ScoringPolicy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
	return p, nil
}

// PolicyNames lists the registered policies in lexical order.
func PolicyNames() []string {
	names := make([]string, 0, len(policies))
	for n := range policies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
