package docio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/snclab/snc2fst/internal/evaluator"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatTxt  = "txt"
	FormatCSV  = "csv"
	FormatTSV  = "tsv"
)

// ValidFormat reports whether name is a supported output format.
func ValidFormat(name string) bool {
	switch name {
	case FormatJSON, FormatTxt, FormatCSV, FormatTSV:
		return true
	}
	return false
}

// WriteOutput writes an evaluation output document in the given format.
func WriteOutput(w io.Writer, out *evaluator.Output, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatTxt:
		headers, rows := derivationTable(out)
		_, err := io.WriteString(w, renderASCIITable(headers, rows))
		return err
	case FormatCSV, FormatTSV:
		headers, rows := derivationTable(out)
		cw := csv.NewWriter(w)
		if format == FormatTSV {
			cw.Comma = '\t'
		}
		if err := cw.Write(headers); err != nil {
			return err
		}
		if err := cw.WriteAll(rows); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteOutputFile is WriteOutput against a file path. A failed write removes
// the partial file.
func WriteOutputFile(path string, out *evaluator.Output, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteOutput(f, out, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// derivationTable renders the classic derivation layout: one column per
// input word, one row per rule with "---" marking words the rule left
// unchanged, and a final SR row with the surface forms.
func derivationTable(out *evaluator.Output) ([]string, [][]string) {
	headers := make([]string, 0, len(out.Inputs)+1)
	headers = append(headers, "UR")
	for _, word := range out.Inputs {
		headers = append(headers, compactWord(word))
	}

	var rows [][]string
	prev := out.Inputs
	last := out.Inputs
	for _, row := range out.Rows {
		outputs := row.Outputs
		if outputs == nil {
			outputs = row.Output
		}
		cells := make([]string, 0, len(outputs)+1)
		cells = append(cells, row.RuleID)
		for i, word := range outputs {
			if i < len(prev) && sameWord(word, prev[i]) {
				cells = append(cells, "---")
			} else {
				cells = append(cells, compactWord(word))
			}
		}
		rows = append(rows, cells)
		prev = outputs
		last = outputs
	}

	final := make([]string, 0, len(last)+1)
	final = append(final, "SR")
	for _, word := range last {
		final = append(final, compactWord(word))
	}
	rows = append(rows, final)
	return headers, rows
}

func compactWord(word []string) string {
	return strings.Join(word, "")
}

func sameWord(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func renderASCIITable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	renderRow := func(cells []string) string {
		padded := make([]string, len(widths))
		for i := range widths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			padded[i] = cell + strings.Repeat(" ", widths[i]-len(cell))
		}
		return "| " + strings.Join(padded, " | ") + " |"
	}

	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	separator := "+-" + strings.Join(parts, "-+-") + "-+"

	lines := []string{separator, renderRow(headers), separator}
	for _, row := range rows {
		lines = append(lines, renderRow(row), separator)
	}
	return strings.Join(lines, "\n") + "\n"
}
