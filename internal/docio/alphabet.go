package docio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/snclab/snc2fst/internal/feature"
)

// LoadAlphabet reads a feature table: first row is a blank cell followed by
// symbol names, each further row is a feature name followed by cells in
// {"+", "-", "0"}. Blank cells read as "0". The delimiter comes from the
// extension (.tsv/.tab = tab, .csv = comma) or, failing that, the header.
func LoadAlphabet(path string) (*feature.Alphabet, error) {
	return LoadAlphabetDelimiter(path, 0)
}

// LoadAlphabetDelimiter is LoadAlphabet with an explicit delimiter override.
func LoadAlphabetDelimiter(path string, delimiter rune) (*feature.Alphabet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("alphabet file %s is empty", path)
	}
	delim := delimiter
	if delim == 0 {
		delim = detectDelimiter(path, firstLine(text))
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid feature table in %s: %w", path, err)
	}
	rows := records[:0]
	for _, row := range records {
		if !blankRow(row) {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("alphabet file %s has no data rows", path)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("alphabet header must contain a leading blank cell plus at least one symbol")
	}
	symbols := make([]string, 0, len(header)-1)
	for _, cell := range header[1:] {
		symbols = append(symbols, norm.NFC.String(strings.TrimSpace(cell)))
	}

	var features []string
	var cells [][]feature.Ternary
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		name := norm.NFC.String(strings.TrimSpace(row[0]))
		if name == "" {
			return nil, fmt.Errorf("feature name cannot be empty")
		}
		values := row[1:]
		if len(values) != len(symbols) {
			return nil, fmt.Errorf("row for feature %q has %d values; expected %d", name, len(values), len(symbols))
		}
		parsed := make([]feature.Ternary, len(values))
		for i, cell := range values {
			v, err := feature.ParseTernary(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("feature %q: %w", name, err)
			}
			parsed[i] = v
		}
		features = append(features, name)
		cells = append(cells, parsed)
	}
	return feature.NewAlphabet(symbols, features, cells)
}

func detectDelimiter(path, sample string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return '\t'
	case ".csv":
		return ','
	}
	if strings.ContainsRune(sample, '\t') && !strings.ContainsRune(sample, ',') {
		return '\t'
	}
	return ','
}

func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
