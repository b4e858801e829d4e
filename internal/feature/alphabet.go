package feature

import (
	"fmt"
)

// Alphabet is an ordered set of surface symbols, each carrying a full bundle
// over the feature universe. Feature order is fixed by the table that built
// the alphabet and is the canonical order for every derived ordering.
type Alphabet struct {
	features     []string
	featureIndex map[string]int
	symbols      []string
	bundles      map[string]Bundle
}

// NewAlphabet builds an alphabet from parallel rows of cells: cells[f][s] is
// the value of features[f] for symbols[s]. All schema errors are collected.
func NewAlphabet(symbols, features []string, cells [][]Ternary) (*Alphabet, error) {
	var errs []ValidationError
	if len(symbols) == 0 {
		errs = append(errs, ValidationError{
			Field: "symbols", Message: "at least one symbol is required", Code: ErrNoSymbols,
		})
	}
	if len(features) == 0 {
		errs = append(errs, ValidationError{
			Field: "features", Message: "at least one feature is required", Code: ErrNoFeatures,
		})
	}
	errs = append(errs, checkNames("symbols", symbols, ErrDuplicateSymbol)...)
	errs = append(errs, checkNames("features", features, ErrDuplicateFeature)...)
	if len(cells) != len(features) {
		errs = append(errs, ValidationError{
			Field:   "rows",
			Message: fmt.Sprintf("have %d value rows; expected %d", len(cells), len(features)),
			Code:    ErrRowShape,
		})
	}
	for i, row := range cells {
		if i < len(features) && len(row) != len(symbols) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("rows[%d]", i),
				Message: fmt.Sprintf("feature %q has %d values; expected %d", features[i], len(row), len(symbols)),
				Code:    ErrRowShape,
			})
		}
	}
	if len(errs) > 0 {
		return nil, &SchemaError{Errors: errs}
	}

	a := &Alphabet{
		features:     append([]string(nil), features...),
		featureIndex: make(map[string]int, len(features)),
		symbols:      append([]string(nil), symbols...),
		bundles:      make(map[string]Bundle, len(symbols)),
	}
	for i, f := range features {
		a.featureIndex[f] = i
	}
	for s, sym := range symbols {
		bundle := make(Bundle)
		for f := range features {
			if v := cells[f][s]; v != Unspec {
				bundle[features[f]] = v
			}
		}
		a.bundles[sym] = bundle
	}
	return a, nil
}

func checkNames(field string, names []string, dupeCode string) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: "name cannot be empty",
				Code:    ErrEmptyName,
			})
			continue
		}
		if seen[name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("duplicate name %q", name),
				Code:    dupeCode,
			})
		}
		seen[name] = true
	}
	return errs
}

// Features returns the feature universe in table order. Callers must not
// mutate the returned slice.
func (a *Alphabet) Features() []string { return a.features }

// Symbols returns the symbol names in table order.
func (a *Alphabet) Symbols() []string { return a.symbols }

// HasFeature reports whether the universe contains the feature.
func (a *Alphabet) HasFeature(name string) bool {
	_, ok := a.featureIndex[name]
	return ok
}

// FeatureIndex returns the position of a feature in the universe order.
func (a *Alphabet) FeatureIndex(name string) (int, bool) {
	i, ok := a.featureIndex[name]
	return i, ok
}

// Bundle returns the symbol's bundle, or false for an unknown symbol. The
// returned bundle is shared; callers must not mutate it.
func (a *Alphabet) Bundle(symbol string) (Bundle, bool) {
	b, ok := a.bundles[symbol]
	return b, ok
}

// FeatureSet returns the universe as a membership set.
func (a *Alphabet) FeatureSet() map[string]bool {
	set := make(map[string]bool, len(a.features))
	for _, f := range a.features {
		set[f] = true
	}
	return set
}
