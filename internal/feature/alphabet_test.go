package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioAlphabet(t *testing.T) *Alphabet {
	t.Helper()
	a, err := NewAlphabet(
		[]string{"A", "B", "C", "D"},
		[]string{"F1", "F2"},
		[][]Ternary{
			{Plus, Minus, Unspec, Plus},
			{Unspec, Plus, Minus, Minus},
		},
	)
	require.NoError(t, err)
	return a
}

func TestNewAlphabet_Bundles(t *testing.T) {
	a := scenarioAlphabet(t)

	assert.Equal(t, []string{"F1", "F2"}, a.Features())
	assert.Equal(t, []string{"A", "B", "C", "D"}, a.Symbols())

	b, ok := a.Bundle("A")
	require.True(t, ok)
	assert.Equal(t, Bundle{"F1": Plus}, b)

	b, ok = a.Bundle("C")
	require.True(t, ok)
	assert.Equal(t, Bundle{"F2": Minus}, b)

	_, ok = a.Bundle("Z")
	assert.False(t, ok)
}

func TestNewAlphabet_CollectsAllErrors(t *testing.T) {
	_, err := NewAlphabet(
		[]string{"A", "A", ""},
		[]string{"F1", "F1"},
		[][]Ternary{
			{Plus, Minus, Unspec},
			{Plus, Minus},
		},
	)
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)

	codes := make(map[string]int)
	for _, e := range schemaErr.Errors {
		codes[e.Code]++
	}
	assert.Equal(t, 1, codes[ErrDuplicateSymbol])
	assert.Equal(t, 1, codes[ErrDuplicateFeature])
	assert.Equal(t, 1, codes[ErrEmptyName])
	assert.Equal(t, 1, codes[ErrRowShape])
}

func TestNewAlphabet_Empty(t *testing.T) {
	_, err := NewAlphabet(nil, nil, nil)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Len(t, schemaErr.Errors, 2)
}

func TestFeatureIndex(t *testing.T) {
	a := scenarioAlphabet(t)

	idx, ok := a.FeatureIndex("F2")
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = a.FeatureIndex("F9")
	assert.False(t, ok)
	assert.True(t, a.HasFeature("F1"))
	assert.False(t, a.HasFeature("F9"))
}

func TestParseTernary(t *testing.T) {
	tests := []struct {
		in      string
		want    Ternary
		wantErr bool
	}{
		{"+", Plus, false},
		{"-", Minus, false},
		{"0", Unspec, false},
		{"", Unspec, false},
		{"x", Unspec, true},
	}
	for _, tt := range tests {
		got, err := ParseTernary(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
