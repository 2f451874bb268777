package parsers

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	scoringdomain "github.com/rays8417/tenjaku-sub001/app/modules/scoring/domain"
)

// ErrUnsupportedFile is returned for file types without a parser.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Parser turns an uploaded scorecard into stat lines.
type Parser interface {
	Parse(data []byte) ([]scoringdomain.StatLine, error)
}

// ParserFactory selects a Parser for a file name.
type ParserFactory interface {
	GetParser(filename string) (Parser, error)
}

// Factory creates the appropriate parser based on file extension.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) GetParser(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".csv":
		return NewCSVParser(), nil
	case ".xlsx":
		return NewXLSXParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFile, ext)
	}
}
