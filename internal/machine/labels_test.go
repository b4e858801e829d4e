package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snclab/snc2fst/internal/feature"
)

func TestEncodeLabel_RoundTrip(t *testing.T) {
	for k := 0; k <= 3; k++ {
		sigma := SigmaSize(k)
		seen := make(map[int]bool, sigma)
		for label := 1; label <= sigma; label++ {
			tuple, err := DecodeLabel(label, k)
			require.NoError(t, err)
			encoded := EncodeLabel(tuple)
			assert.Equal(t, label, encoded, "k=%d", k)
			assert.NotZero(t, encoded, "label 0 is reserved for epsilon")
			assert.False(t, seen[encoded], "duplicate label for k=%d", k)
			seen[encoded] = true
		}
	}
}

func TestEncodeLabel_Digits(t *testing.T) {
	// Least significant coordinate first: 1 + Σ tᵢ·3ⁱ.
	assert.Equal(t, 1, EncodeLabel(Tuple{feature.Unspec, feature.Unspec}))
	assert.Equal(t, 2, EncodeLabel(Tuple{feature.Plus, feature.Unspec}))
	assert.Equal(t, 4, EncodeLabel(Tuple{feature.Unspec, feature.Plus}))
	assert.Equal(t, 9, EncodeLabel(Tuple{feature.Minus, feature.Minus}))
}

func TestDecodeLabel_Invalid(t *testing.T) {
	_, err := DecodeLabel(0, 2)
	assert.Error(t, err)
	_, err = DecodeLabel(-1, 2)
	assert.Error(t, err)
	_, err = DecodeLabel(10, 2) // 3^2 = 9 labels
	assert.Error(t, err)
}

func TestSigmaSize(t *testing.T) {
	assert.Equal(t, 1, SigmaSize(0))
	assert.Equal(t, 3, SigmaSize(1))
	assert.Equal(t, 27, SigmaSize(3))
}

func TestProjection(t *testing.T) {
	proj := NewProjection([]string{"F1", "F2", "F3"}, []string{"F1", "F3"})
	src := Tuple{feature.Plus, feature.Minus, feature.Unspec}
	dst := make(Tuple, 2)
	proj.Apply(dst, src)
	assert.Equal(t, Tuple{feature.Plus, feature.Unspec}, dst)
	assert.Equal(t, 2, proj.Size())
}

func TestTupleBundleConversions(t *testing.T) {
	order := []string{"F1", "F2"}
	b := feature.Bundle{"F1": feature.Plus}

	tuple := TupleFromBundle(b, order)
	assert.Equal(t, Tuple{feature.Plus, feature.Unspec}, tuple)

	back := BundleFromTuple(tuple, order)
	assert.True(t, b.Equal(back))

	// Nil memory reads as the empty bundle.
	assert.Empty(t, BundleFromTuple(nil, nil))
}

func TestSymbolTuple(t *testing.T) {
	a, err := feature.NewAlphabet(
		[]string{"A", "C"},
		[]string{"F1", "F2"},
		[][]feature.Ternary{
			{feature.Plus, feature.Unspec},
			{feature.Unspec, feature.Minus},
		},
	)
	require.NoError(t, err)

	tuple, ok := SymbolTuple(a, "A", []string{"F1", "F2"})
	require.True(t, ok)
	assert.Equal(t, Tuple{feature.Plus, feature.Unspec}, tuple)

	// Restricting V to a single feature projects the bundle.
	tuple, ok = SymbolTuple(a, "C", []string{"F2"})
	require.True(t, ok)
	assert.Equal(t, Tuple{feature.Minus}, tuple)

	_, ok = SymbolTuple(a, "Z", []string{"F1"})
	assert.False(t, ok)
}
