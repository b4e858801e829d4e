package machine

import (
	"fmt"

	"github.com/snclab/snc2fst/internal/feature"
)

// Tuple is a fixed-length vector of ternary values aligned with V_order
// (or P_order for memory tuples).
type Tuple []feature.Ternary

// Clone returns an independent copy.
func (t Tuple) Clone() Tuple {
	out := make(Tuple, len(t))
	copy(out, t)
	return out
}

// Equal reports coordinate-wise equality.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}

// SigmaSize returns 3^k, the size of the witness alphabet over k features.
func SigmaSize(k int) int {
	n := 1
	for i := 0; i < k; i++ {
		n *= 3
	}
	return n
}

// EncodeLabel maps a tuple to its integer label: 1 + Σᵢ tᵢ·3ⁱ.
// Label 0 is reserved for ε and never produced.
func EncodeLabel(t Tuple) int {
	label := 1
	base := 1
	for _, v := range t {
		label += int(v) * base
		base *= 3
	}
	return label
}

// DecodeLabel inverts EncodeLabel for a k-feature tuple.
func DecodeLabel(label, k int) (Tuple, error) {
	t := make(Tuple, k)
	if err := DecodeLabelInto(t, label); err != nil {
		return nil, err
	}
	return t, nil
}

// DecodeLabelInto decodes into a caller-owned tuple, avoiding allocation on
// hot paths. The tuple's length fixes k.
func DecodeLabelInto(dst Tuple, label int) error {
	if label <= 0 {
		return fmt.Errorf("invalid label %d", label)
	}
	v := label - 1
	for i := range dst {
		dst[i] = feature.Ternary(v % 3)
		v /= 3
	}
	if v != 0 {
		return fmt.Errorf("label %d out of range for %d features", label, len(dst))
	}
	return nil
}

// Projection selects the P coordinates out of a V tuple.
type Projection struct {
	indices []int
}

// NewProjection builds π_P for the given orders. Every feature of pOrder
// must appear in vOrder.
func NewProjection(vOrder, pOrder []string) Projection {
	vIndex := make(map[string]int, len(vOrder))
	for i, f := range vOrder {
		vIndex[f] = i
	}
	indices := make([]int, len(pOrder))
	for i, f := range pOrder {
		indices[i] = vIndex[f]
	}
	return Projection{indices: indices}
}

// Apply writes the projection of src into dst. dst must have the P length.
// No allocation.
func (p Projection) Apply(dst, src Tuple) {
	for i, idx := range p.indices {
		dst[i] = src[idx]
	}
}

// Size returns the number of projected coordinates.
func (p Projection) Size() int { return len(p.indices) }

// TupleFromBundle renders a bundle as a tuple aligned with order; absent
// features map to Unspec.
func TupleFromBundle(b feature.Bundle, order []string) Tuple {
	t := make(Tuple, len(order))
	for i, f := range order {
		t[i] = b.Get(f)
	}
	return t
}

// BundleFromTuple is the inverse rendering; Unspec coordinates are omitted.
// A nil tuple yields the empty bundle.
func BundleFromTuple(t Tuple, order []string) feature.Bundle {
	b := make(feature.Bundle, len(t))
	for i, v := range t {
		if v != feature.Unspec {
			b[order[i]] = v
		}
	}
	return b
}

// SymbolTuple projects an alphabet symbol onto V_order.
func SymbolTuple(a *feature.Alphabet, symbol string, vOrder []string) (Tuple, bool) {
	bundle, ok := a.Bundle(symbol)
	if !ok {
		return nil, false
	}
	return TupleFromBundle(bundle, vOrder), true
}
