package outdsl

import (
	"strings"

	"github.com/snclab/snc2fst/internal/feature"
)

// Expr is a sealed interface over the legal Out AST forms.
// Only INR, TRM, Lit, Proj, Unify, and Subtract implement it.
type Expr interface {
	exprNode()
	String() string
}

// INR denotes the search-initiator bundle bound at evaluation time.
type INR struct{}

// TRM denotes the terminator-memory bundle bound at evaluation time.
type TRM struct{}

// Lit is a singleton bundle {Feature ↦ Polarity}.
type Lit struct {
	Polarity feature.Polarity
	Feature  string
}

// Proj restricts a bundle to a feature list, or to the entire feature
// universe when All is set.
type Proj struct {
	Of       Expr
	Features []string
	All      bool
}

// Unify is the left-biased union of two bundles.
type Unify struct {
	Left, Right Expr
}

// Subtract removes exact polarity matches of the right bundle from the left.
type Subtract struct {
	Left, Right Expr
}

func (INR) exprNode()      {}
func (TRM) exprNode()      {}
func (Lit) exprNode()      {}
func (Proj) exprNode()     {}
func (Unify) exprNode()    {}
func (Subtract) exprNode() {}

func (INR) String() string { return "INR" }
func (TRM) String() string { return "TRM" }

func (l Lit) String() string {
	return "(lit " + l.Polarity.String() + " " + l.Feature + ")"
}

func (p Proj) String() string {
	var sb strings.Builder
	sb.WriteString("(proj ")
	sb.WriteString(p.Of.String())
	if p.All {
		sb.WriteString(" *)")
		return sb.String()
	}
	sb.WriteString(" (")
	sb.WriteString(strings.Join(p.Features, " "))
	sb.WriteString("))")
	return sb.String()
}

func (u Unify) String() string {
	return "(unify " + u.Left.String() + " " + u.Right.String() + ")"
}

func (s Subtract) String() string {
	return "(subtract " + s.Left.String() + " " + s.Right.String() + ")"
}

// Walk visits every node of the AST in depth-first order. The visitor
// returns false to stop descending into a node's children.
func Walk(e Expr, visit func(Expr) bool) {
	if !visit(e) {
		return
	}
	switch n := e.(type) {
	case Proj:
		Walk(n.Of, visit)
	case Unify:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	case Subtract:
		Walk(n.Left, visit)
		Walk(n.Right, visit)
	}
}
