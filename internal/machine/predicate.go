package machine

import (
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/rule"
)

// Predicate is a compiled natural class: a conjunction of coordinate checks
// over V_order tuples. The empty class compiles to the constant-true
// predicate. Matching is O(|class|) with no allocation.
type Predicate struct {
	indices []int
	values  []feature.Ternary
}

// CompilePredicate lowers a class against V_order. Every class feature is in
// V by construction of the dependency analysis.
func CompilePredicate(c rule.Class, vOrder []string) Predicate {
	vIndex := make(map[string]int, len(vOrder))
	for i, f := range vOrder {
		vIndex[f] = i
	}
	p := Predicate{
		indices: make([]int, 0, len(c)),
		values:  make([]feature.Ternary, 0, len(c)),
	}
	for _, lit := range c {
		p.indices = append(p.indices, vIndex[lit.Feature])
		p.values = append(p.values, lit.Polarity)
	}
	return p
}

// Matches reports whether the tuple satisfies every literal.
func (p Predicate) Matches(t Tuple) bool {
	for i, idx := range p.indices {
		if t[idx] != p.values[i] {
			return false
		}
	}
	return true
}
