package leaderboarddomain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Standing is one participant's total as read from the score table. Seq is the
// score row's insertion order and is the only tie-breaker.
type Standing struct {
	ParticipantID string
	TotalScore    decimal.Decimal
	Seq           int64
}

// Row is one ranked leaderboard position.
type Row struct {
	ParticipantID string
	Rank          int
	TotalScore    decimal.Decimal
}

// Rank orders standings by total descending, then by Seq ascending, and assigns
// positions 1..n. Equal totals still get distinct consecutive ranks.
func Rank(standings []Standing) []Row {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].TotalScore.Cmp(sorted[j].TotalScore); c != 0 {
			return c > 0
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	rows := make([]Row, len(sorted))
	for i, s := range sorted {
		rows[i] = Row{
			ParticipantID: s.ParticipantID,
			Rank:          i + 1,
			TotalScore:    s.TotalScore,
		}
	}
	return rows
}
