package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
)

// TestDataGenerator creates realistic identifiers and stat lines for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a generator, seeded from the clock unless a seed is given.
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}
	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// Seed returns the seed, for reproducing a failing run.
func (g *TestDataGenerator) Seed() int64 { return g.seed }

// TournamentName returns a plausible tournament name.
func (g *TestDataGenerator) TournamentName() string {
	return g.faker.City() + " Premier League"
}

// ParticipantID returns a unique participant identifier.
func (g *TestDataGenerator) ParticipantID() string {
	return fmt.Sprintf("%s-%s", g.faker.Username(), g.faker.UUID()[:8])
}

// PlayerKeys returns n distinct player keys.
func (g *TestDataGenerator) PlayerKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%02d", g.faker.LastName(), i)
	}
	return keys
}

// Entry builds a participant entry.
func (g *TestDataGenerator) Entry(participantID string, roster []string, captain, vice string) scoringdomain.ParticipantEntry {
	return scoringdomain.ParticipantEntry{
		ParticipantID:  participantID,
		PlayerKeys:     roster,
		CaptainKey:     captain,
		ViceCaptainKey: vice,
	}
}

// BattingLine is a stat line with only batting figures.
func (g *TestDataGenerator) BattingLine(playerKey string, runs, balls int) scoringdomain.StatLine {
	return scoringdomain.StatLine{
		PlayerKey:  playerKey,
		RunsScored: runs,
		BallsFaced: balls,
	}
}

// FillerLines returns low batting lines with random figures for keys.
func (g *TestDataGenerator) FillerLines(keys []string) []scoringdomain.StatLine {
	lines := make([]scoringdomain.StatLine, 0, len(keys))
	for _, k := range keys {
		balls := g.faker.IntRange(1, 6)
		lines = append(lines, g.BattingLine(k, g.faker.IntRange(0, balls), balls))
	}
	return lines
}
