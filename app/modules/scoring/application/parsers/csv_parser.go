package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
)

// CSVParser parses comma separated scorecards with a header row.
type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) Parse(data []byte) ([]scoringdomain.StatLine, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV: %v", ErrMalformedScorecard, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: CSV file is empty", ErrMalformedScorecard)
	}
	return rowsToStatLines(records)
}
