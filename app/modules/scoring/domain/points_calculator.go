package scoringdomain

import "github.com/shopspring/decimal"

// Point table values shared by every policy.
const (
	PointsPerRun        = 1
	BallsPerBonusPoint  = 2
	HalfCenturyRuns     = 50
	HalfCenturyBonus    = 8
	CenturyRuns         = 100
	CenturyBonus        = 16
	PointsPerWicket     = 25
	ThreeWicketHaul     = 3
	ThreeWicketBonus    = 8
	FiveWicketHaul      = 5
	FiveWicketBonus     = 16
	PointsPerCatch      = 8
	EconomyMinOvers     = 2
	PointsDecimalPlaces = 2
)

type economyTier struct {
	below decimal.Decimal
	bonus int
}

var economyTiers = []economyTier{
	{below: decimal.NewFromInt(4), bonus: 6},
	{below: decimal.NewFromInt(6), bonus: 4},
	{below: decimal.NewFromInt(8), bonus: 2},
}

var (
	hundred      = decimal.NewFromInt(100)
	ballsPerOver = decimal.NewFromInt(6)
)

// ComputePoints converts a stat line into fantasy points under policy. It never
// fails: negative inputs are treated as zero and the result is rounded half-up
// to two decimal places.
func ComputePoints(stat StatLine, policy ScoringPolicy) decimal.Decimal {
	s := stat.clamped()
	total := battingPoints(s, policy).
		Add(bowlingPoints(s, policy)).
		Add(fieldingPoints(s, policy))
	return total.Round(PointsDecimalPlaces)
}

func battingPoints(s StatLine, policy ScoringPolicy) decimal.Decimal {
	points := s.RunsScored*PointsPerRun + s.BallsFaced/BallsPerBonusPoint

	if s.RunsScored >= HalfCenturyRuns {
		points += HalfCenturyBonus
	}
	if s.RunsScored >= CenturyRuns {
		points += CenturyBonus
	}

	minBalls := policy.StrikeRateMinBalls
	if minBalls < 1 {
		minBalls = 1
	}
	if s.BallsFaced >= minBalls {
		strikeRate := decimal.NewFromInt(int64(s.RunsScored)).Mul(hundred).Div(decimal.NewFromInt(int64(s.BallsFaced)))
		for _, tier := range policy.StrikeRateTiers {
			if strikeRate.GreaterThanOrEqual(tier.MinStrikeRate) {
				points += tier.Bonus
				break
			}
		}
	}
	return decimal.NewFromInt(int64(points))
}

func bowlingPoints(s StatLine, policy ScoringPolicy) decimal.Decimal {
	points := s.WicketsTaken * PointsPerWicket

	// one point per two balls bowled, counting a fractional over as decimal overs
	ballsBonus := s.OversBowled.Mul(ballsPerOver).Div(decimal.NewFromInt(BallsPerBonusPoint)).Floor()
	points += int(ballsBonus.IntPart())

	switch {
	case s.WicketsTaken >= FiveWicketHaul:
		points += FiveWicketBonus
	case s.WicketsTaken >= ThreeWicketHaul:
		points += ThreeWicketBonus
	}

	if s.OversBowled.GreaterThanOrEqual(decimal.NewFromInt(EconomyMinOvers)) {
		runs := s.RunsConceded
		if policy.LegacyEconomy() {
			runs = s.RunsScored
		}
		economy := decimal.NewFromInt(int64(runs)).Div(s.OversBowled)
		for _, tier := range economyTiers {
			if economy.LessThan(tier.below) {
				points += tier.bonus
				break
			}
		}
	}
	return decimal.NewFromInt(int64(points))
}

func fieldingPoints(s StatLine, policy ScoringPolicy) decimal.Decimal {
	points := s.Catches*PointsPerCatch + s.Stumpings*policy.StumpingPoints + s.RunOuts*policy.RunOutPoints
	return decimal.NewFromInt(int64(points))
}
