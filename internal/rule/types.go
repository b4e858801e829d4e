package rule

import (
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/outdsl"
)

// Direction is the scan direction of a rule's search.
type Direction string

const (
	Left  Direction = "LEFT"
	Right Direction = "RIGHT"
)

// Valid reports whether the direction is one of the two legal values.
func (d Direction) Valid() bool { return d == Left || d == Right }

// Literal is one valued-feature conjunct of a natural class.
type Literal struct {
	Polarity feature.Polarity
	Feature  string
}

// Class is a natural class: a conjunction of feature literals. The empty
// class matches every symbol.
type Class []Literal

// Bundle converts the class to a partial bundle. Later literals for the
// same feature win.
func (c Class) Bundle() feature.Bundle {
	b := make(feature.Bundle, len(c))
	for _, lit := range c {
		b[lit.Feature] = lit.Polarity
	}
	return b
}

// Rule is one validated Search & Change rule. Out holds the source text of
// the Out expression; OutAST its parsed form.
type Rule struct {
	ID     string
	Dir    Direction
	INR    Class
	TRM    Class
	CND    Class
	Out    string
	OutAST outdsl.Expr
}

// Document is a validated rules document: an id plus rules with unique ids.
type Document struct {
	ID    string
	Rules []Rule
}

// Find returns the rule with the given id.
func (d *Document) Find(id string) (Rule, bool) {
	for _, r := range d.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}
