package docio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snclab/snc2fst/internal/feature"
)

const alphabetCSV = `,A,B,C,D
F1,+,-,0,+
F2,0,+,-,-
`

func TestLoadAlphabet_CSV(t *testing.T) {
	a, err := LoadAlphabet(writeFile(t, "alphabet.csv", alphabetCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"F1", "F2"}, a.Features())
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.Symbols())

	b, ok := a.Bundle("D")
	require.True(t, ok)
	assert.Equal(t, feature.Bundle{"F1": feature.Plus, "F2": feature.Minus}, b)
}

func TestLoadAlphabet_TSVByExtension(t *testing.T) {
	const tsv = "\tA\tB\nF1\t+\t-\n"
	a, err := LoadAlphabet(writeFile(t, "alphabet.tsv", tsv))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, a.Symbols())
}

func TestLoadAlphabet_DetectsTabFromContent(t *testing.T) {
	const tsv = "\tA\tB\nF1\t+\t-\n"
	a, err := LoadAlphabet(writeFile(t, "alphabet.txt", tsv))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, a.Symbols())
}

func TestLoadAlphabet_BlankCellsAreUnspec(t *testing.T) {
	const csv = ",A,B\nF1,+,\n"
	a, err := LoadAlphabet(writeFile(t, "alphabet.csv", csv))
	require.NoError(t, err)

	b, ok := a.Bundle("B")
	require.True(t, ok)
	assert.Empty(t, b)
}

func TestLoadAlphabet_SkipsBlankRows(t *testing.T) {
	const csv = ",A,B\n,,\nF1,+,-\n"
	a, err := LoadAlphabet(writeFile(t, "alphabet.csv", csv))
	require.NoError(t, err)
	assert.Equal(t, []string{"F1"}, a.Features())
}

func TestLoadAlphabet_StripsBOM(t *testing.T) {
	a, err := LoadAlphabet(writeFile(t, "alphabet.csv", "\ufeff"+alphabetCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.Symbols())
}

func TestLoadAlphabet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", "   \n"},
		{"short header", "A\nF1,+\n"},
		{"bad cell", ",A\nF1,x\n"},
		{"row shape", ",A,B\nF1,+\n"},
		{"empty feature name", ",A,B\n ,+,-\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadAlphabet(writeFile(t, "alphabet.csv", tt.content))
			assert.Error(t, err)
		})
	}
}
