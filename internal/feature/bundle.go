package feature

import (
	"sort"
	"strings"
)

// Bundle is a partial assignment of polarities to feature names. Absence of
// a feature means Unspec. The zero-length bundle is the full-underspecification
// identity.
type Bundle map[string]Polarity

// Clone returns an independent copy.
func (b Bundle) Clone() Bundle {
	out := make(Bundle, len(b))
	for f, p := range b {
		out[f] = p
	}
	return out
}

// Get returns the setting for a feature, Unspec when absent.
func (b Bundle) Get(feature string) Ternary {
	if p, ok := b[feature]; ok {
		return p
	}
	return Unspec
}

// Equal reports whether two bundles assign exactly the same polarities.
func (b Bundle) Equal(other Bundle) bool {
	if len(b) != len(other) {
		return false
	}
	for f, p := range b {
		if q, ok := other[f]; !ok || q != p {
			return false
		}
	}
	return true
}

// Restrict returns the bundle limited to the given features.
func (b Bundle) Restrict(features []string) Bundle {
	out := make(Bundle, len(features))
	for _, f := range features {
		if p, ok := b[f]; ok {
			out[f] = p
		}
	}
	return out
}

// Unify merges two bundles left-biased: features already present in b are
// never overwritten by other. Not commutative.
func (b Bundle) Unify(other Bundle) Bundle {
	out := b.Clone()
	for f, p := range other {
		if _, ok := out[f]; !ok {
			out[f] = p
		}
	}
	return out
}

// Subtract removes from b the literals that appear in other with the same
// polarity. A feature present in other with the opposite polarity is kept.
func (b Bundle) Subtract(other Bundle) Bundle {
	out := make(Bundle, len(b))
	for f, p := range b {
		if q, ok := other[f]; ok && q == p {
			continue
		}
		out[f] = p
	}
	return out
}

// String renders the bundle as sorted "[+F1 -F2]" notation for diagnostics.
func (b Bundle) String() string {
	feats := make([]string, 0, len(b))
	for f := range b {
		feats = append(feats, f)
	}
	sort.Strings(feats)
	var sb strings.Builder
	sb.WriteByte('[')
	for i, f := range feats {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(b[f].String())
		sb.WriteString(f)
	}
	sb.WriteByte(']')
	return sb.String()
}
