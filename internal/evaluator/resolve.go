package evaluator

import (
	"strings"

	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/machine"
)

// Resolver maps output bundles back to surface symbols. In strict mode the
// reconstructed bundle must match exactly one symbol; in non-strict mode an
// exact match of the reconstructed bundle is preferred (the first one in
// alphabet order), falling back to the first symbol whose V projection
// equals the output tuple.
type Resolver struct {
	alphabet *feature.Alphabet
	vOrder   []string
	vSet     map[string]bool
	strict   bool
	exact    map[string][]string // full-bundle key -> symbols in alphabet order
}

// NewResolver precomputes the full-bundle index for the alphabet.
func NewResolver(a *feature.Alphabet, vOrder []string, strict bool) *Resolver {
	r := &Resolver{
		alphabet: a,
		vOrder:   vOrder,
		vSet:     make(map[string]bool, len(vOrder)),
		strict:   strict,
		exact:    make(map[string][]string, len(a.Symbols())),
	}
	for _, f := range vOrder {
		r.vSet[f] = true
	}
	for _, sym := range a.Symbols() {
		bundle, _ := a.Bundle(sym)
		key := bundleKey(bundle, a.Features())
		r.exact[key] = append(r.exact[key], sym)
	}
	return r
}

// Resolve maps an output tuple over V, produced while rewriting the given
// input symbol, to a surface symbol. Features outside V carry over from the
// input symbol's bundle.
func (r *Resolver) Resolve(out machine.Tuple, inputSymbol string) (string, *RunError) {
	inputBundle, ok := r.alphabet.Bundle(inputSymbol)
	if !ok {
		return "", &RunError{
			Code: CodeUnknownSymbol, Symbol: inputSymbol,
			Message: "symbol is not in the alphabet",
		}
	}
	recon := make(feature.Bundle, len(inputBundle))
	for f, p := range inputBundle {
		if !r.vSet[f] {
			recon[f] = p
		}
	}
	for f, p := range machine.BundleFromTuple(out, r.vOrder) {
		recon[f] = p
	}

	matches := r.exact[bundleKey(recon, r.alphabet.Features())]
	if r.strict {
		if len(matches) == 1 {
			return matches[0], nil
		}
		msg := "output bundle has no symbol"
		if len(matches) > 1 {
			msg = "output bundle is ambiguous between " + strings.Join(matches, ", ")
		}
		return "", &RunError{
			Code: CodeResolution, Message: msg + ": " + recon.String(),
		}
	}
	if len(matches) > 0 {
		return matches[0], nil
	}
	// No exact match: fall back to the first symbol whose V projection
	// agrees with the output tuple.
	for _, sym := range r.alphabet.Symbols() {
		if t, _ := machine.SymbolTuple(r.alphabet, sym, r.vOrder); t.Equal(out) {
			return sym, nil
		}
	}
	return "", &RunError{
		Code: CodeResolution, Message: "no symbol consistent with output bundle " + recon.String(),
	}
}

func bundleKey(b feature.Bundle, order []string) string {
	var sb strings.Builder
	sb.Grow(len(order))
	for _, f := range order {
		switch b.Get(f) {
		case feature.Plus:
			sb.WriteByte('+')
		case feature.Minus:
			sb.WriteByte('-')
		default:
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
