package parsers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
	"github.com/shopspring/decimal"
)

// ErrMalformedScorecard wraps every content error found while parsing.
var ErrMalformedScorecard = errors.New("malformed scorecard")

type column int

const (
	colPlayer column = iota
	colRuns
	colBalls
	colWickets
	colOvers
	colRunsConceded
	colCatches
	colStumpings
	colRunOuts
)

// headerAliases maps normalized header cells onto columns. Scorecards exported by
// different feeds disagree on naming, so the common variants are accepted.
var headerAliases = map[string]column{
	"player":        colPlayer,
	"player_key":    colPlayer,
	"name":          colPlayer,
	"runs":          colRuns,
	"r":             colRuns,
	"runs_scored":   colRuns,
	"balls":         colBalls,
	"b":             colBalls,
	"balls_faced":   colBalls,
	"wickets":       colWickets,
	"w":             colWickets,
	"wickets_taken": colWickets,
	"overs":         colOvers,
	"o":             colOvers,
	"overs_bowled":  colOvers,
	"runs_conceded": colRunsConceded,
	"conceded":      colRunsConceded,
	"catches":       colCatches,
	"ct":            colCatches,
	"stumpings":     colStumpings,
	"st":            colStumpings,
	"run_outs":      colRunOuts,
	"ro":            colRunOuts,
}

func normalizeHeader(cell string) string {
	h := strings.ToLower(strings.TrimSpace(cell))
	h = strings.ReplaceAll(h, " ", "_")
	return strings.ReplaceAll(h, "-", "_")
}

// buildColumnIndex maps each known column onto its position in header. Unknown
// headers are ignored; the player column is mandatory.
func buildColumnIndex(header []string) (map[column]int, error) {
	index := make(map[column]int, len(header))
	for i, cell := range header {
		col, ok := headerAliases[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: column %q appears twice", ErrMalformedScorecard, cell)
		}
		index[col] = i
	}
	if _, ok := index[colPlayer]; !ok {
		return nil, fmt.Errorf("%w: header row has no player column", ErrMalformedScorecard)
	}
	return index, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// rowsToStatLines converts a header row followed by player rows. Missing numeric
// cells default to zero.
func rowsToStatLines(rows [][]string) ([]scoringdomain.StatLine, error) {
	start := 0
	for start < len(rows) && isBlankRow(rows[start]) {
		start++
	}
	if start == len(rows) {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedScorecard)
	}
	index, err := buildColumnIndex(rows[start])
	if err != nil {
		return nil, err
	}

	var lines []scoringdomain.StatLine
	for n, row := range rows[start+1:] {
		if isBlankRow(row) {
			continue
		}
		lineNo := start + n + 2
		cell := func(c column) string {
			i, ok := index[c]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		intCell := func(c column, name string) (int, error) {
			v := cell(c)
			if v == "" || v == "-" {
				return 0, nil
			}
			n, err := strconv.Atoi(v)
			if err != nil {
				return 0, fmt.Errorf("%w: row %d: %s %q is not a whole number", ErrMalformedScorecard, lineNo, name, v)
			}
			return n, nil
		}

		line := scoringdomain.StatLine{PlayerKey: cell(colPlayer)}
		if line.PlayerKey == "" {
			return nil, fmt.Errorf("%w: row %d: missing player", ErrMalformedScorecard, lineNo)
		}
		fields := []struct {
			col  column
			name string
			dst  *int
		}{
			{colRuns, "runs", &line.RunsScored},
			{colBalls, "balls", &line.BallsFaced},
			{colWickets, "wickets", &line.WicketsTaken},
			{colRunsConceded, "runs_conceded", &line.RunsConceded},
			{colCatches, "catches", &line.Catches},
			{colStumpings, "stumpings", &line.Stumpings},
			{colRunOuts, "run_outs", &line.RunOuts},
		}
		for _, f := range fields {
			if *f.dst, err = intCell(f.col, f.name); err != nil {
				return nil, err
			}
		}
		if v := cell(colOvers); v != "" && v != "-" {
			overs, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d: overs %q is not a number", ErrMalformedScorecard, lineNo, v)
			}
			line.OversBowled = overs
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no player rows", ErrMalformedScorecard)
	}
	return lines, nil
}
