package rewarddomain

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// ErrNoEligibleScore means no participant has a positive holding-weighted score.
var ErrNoEligibleScore = errors.New("no eligible score")

// RankedParticipant is one leaderboard position as seen by the allocator.
type RankedParticipant struct {
	ParticipantID string
	Rank          int
}

// Holding is a participant's stake in one player.
type Holding struct {
	ParticipantID string
	PlayerKey     string
	Amount        decimal.Decimal
}

// Allocation is the computed share of one participant. Rank is nil for
// proportional allocations. Score is the holding-weighted score and is only
// set by AllocateProportional.
type Allocation struct {
	ParticipantID string          `json:"participant_id"`
	Rank          *int            `json:"rank,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Percentage    decimal.Decimal `json:"percentage"`
	Score         decimal.Decimal `json:"score"`
}

// AllocateByRules applies every rule to the leaderboard and accumulates the
// results per participant. A rule's nominal amount is floored to cents; a
// range rule splits it evenly and gives the leftover cents to the best rank
// in the range. Rules that match nobody contribute nothing.
//
// Allocations are returned ordered by best rank.
func AllocateByRules(total decimal.Decimal, rules []Rule, standings []RankedParticipant) []Allocation {
	byParticipant := make(map[string]*Allocation)
	add := func(p RankedParticipant, amount, pct decimal.Decimal) {
		a, ok := byParticipant[p.ParticipantID]
		if !ok {
			rank := p.Rank
			byParticipant[p.ParticipantID] = &Allocation{
				ParticipantID: p.ParticipantID,
				Rank:          &rank,
				Amount:        amount,
				Percentage:    pct,
			}
			return
		}
		a.Amount = a.Amount.Add(amount)
		a.Percentage = a.Percentage.Add(pct)
		if p.Rank < *a.Rank {
			rank := p.Rank
			a.Rank = &rank
		}
	}

	for _, rule := range rules {
		var matched []RankedParticipant
		for _, s := range standings {
			if rule.Rank.Contains(s.Rank) {
				matched = append(matched, s)
			}
		}
		if len(matched) == 0 {
			continue
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Rank < matched[j].Rank })

		nominal := total.Mul(rule.Percentage).Div(hundred).RoundFloor(2)
		count := decimal.NewFromInt(int64(len(matched)))
		share := nominal.Div(count).RoundFloor(2)
		remainder := nominal.Sub(share.Mul(count))
		pct := rule.Percentage.Div(count).Round(4)

		for i, p := range matched {
			amount := share
			if i == 0 {
				amount = amount.Add(remainder)
			}
			add(p, amount, pct)
		}
	}

	out := make([]Allocation, 0, len(byParticipant))
	for _, a := range byParticipant {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if *out[i].Rank != *out[j].Rank {
			return *out[i].Rank < *out[j].Rank
		}
		return out[i].ParticipantID < out[j].ParticipantID
	})
	return out
}

// AllocateProportional splits total by each participant's share of the
// positive holding-weighted scores. Every participant named in participants
// or holdings appears in the result; those with a score of zero or less get
// nothing. Shares are floored to cents and the remainder goes to the highest
// scorer, the smallest participant id winning ties.
//
// Allocations are returned ordered by participant id.
func AllocateProportional(total decimal.Decimal, participants []string, holdings []Holding, points map[string]decimal.Decimal) ([]Allocation, error) {
	scores := make(map[string]decimal.Decimal)
	for _, id := range participants {
		scores[id] = decimal.Zero
	}
	for _, h := range holdings {
		scores[h.ParticipantID] = scores[h.ParticipantID].Add(h.Amount.Mul(points[h.PlayerKey]))
	}

	ids := make([]string, 0, len(scores))
	grand := decimal.Zero
	for id, score := range scores {
		ids = append(ids, id)
		if score.IsPositive() {
			grand = grand.Add(score)
		}
	}
	if !grand.IsPositive() {
		return nil, ErrNoEligibleScore
	}
	sort.Strings(ids)

	out := make([]Allocation, len(ids))
	granted := decimal.Zero
	top := -1
	for i, id := range ids {
		score := scores[id]
		out[i] = Allocation{ParticipantID: id, Amount: decimal.Zero, Percentage: decimal.Zero, Score: score}
		if !score.IsPositive() {
			continue
		}
		out[i].Amount = total.Mul(score).Div(grand).RoundFloor(2)
		out[i].Percentage = score.Mul(hundred).Div(grand).Round(4)
		granted = granted.Add(out[i].Amount)
		if top < 0 || score.GreaterThan(out[top].Score) {
			top = i
		}
	}
	out[top].Amount = out[top].Amount.Add(total.Sub(granted))
	return out, nil
}

// Sum adds up allocation amounts.
func Sum(allocations []Allocation) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range allocations {
		sum = sum.Add(a.Amount)
	}
	return sum
}
