package analysis

import (
	"github.com/snclab/snc2fst/internal/outdsl"
	"github.com/snclab/snc2fst/internal/rule"
)

// Result holds the derived feature sets for one rule. VOrder and POrder are
// the feature universe's order restricted to each set; POrder is always a
// subsequence of VOrder.
type Result struct {
	V      map[string]bool
	P      map[string]bool
	VOrder []string
	POrder []string
}

// Analyze computes V and P for the rule against the given feature universe
// (in canonical order). The rule must already be schema-valid.
func Analyze(r rule.Rule, universe []string) Result {
	v := make(map[string]bool)
	for _, class := range []rule.Class{r.INR, r.TRM, r.CND} {
		for _, lit := range class {
			v[lit.Feature] = true
		}
	}
	usesAll := false
	outdsl.Walk(r.OutAST, func(e outdsl.Expr) bool {
		switch n := e.(type) {
		case outdsl.Lit:
			v[n.Feature] = true
		case outdsl.Proj:
			if n.All {
				usesAll = true
			}
			for _, f := range n.Features {
				v[f] = true
			}
		}
		return true
	})
	if usesAll {
		v = make(map[string]bool, len(universe))
		for _, f := range universe {
			v[f] = true
		}
	}

	p := make(map[string]bool)
	fullTRM := false
	if exposesTRM(r.OutAST) {
		fullTRM = true
	} else {
		collectTainted(r.OutAST, false, p, &fullTRM)
	}
	if fullTRM {
		p = make(map[string]bool, len(v))
		for f := range v {
			p[f] = true
		}
	}

	res := Result{V: v, P: p}
	for _, f := range universe {
		if v[f] {
			res.VOrder = append(res.VOrder, f)
		}
		if p[f] {
			res.POrder = append(res.POrder, f)
		}
	}
	return res
}

// exposesTRM reports whether TRM reaches the top of the expression, or
// either operand of a Unify or Subtract, without a restricting feature-list
// projection (a `*` projection does not restrict). In that case every
// feature of V is treated as TRM-sensitive.
func exposesTRM(e outdsl.Expr) bool {
	switch n := e.(type) {
	case outdsl.TRM:
		return true
	case outdsl.Proj:
		if n.All {
			return exposesTRM(n.Of)
		}
		return false
	case outdsl.Unify:
		return exposesTRM(n.Left) || exposesTRM(n.Right)
	case outdsl.Subtract:
		return exposesTRM(n.Left) || exposesTRM(n.Right)
	}
	return false
}

// collectTainted walks the AST carrying an "inside a TRM-tainted subtree"
// flag. A subtree is tainted if it contains TRM or is combined with a
// sibling that does; every feature named under a tainted subtree enters P.
func collectTainted(e outdsl.Expr, inherited bool, p map[string]bool, fullTRM *bool) {
	switch n := e.(type) {
	case outdsl.Lit:
		if inherited {
			p[n.Feature] = true
		}
	case outdsl.Proj:
		tainted := inherited || containsTRM(n.Of)
		if tainted {
			if n.All {
				*fullTRM = true
			}
			for _, f := range n.Features {
				p[f] = true
			}
		}
		collectTainted(n.Of, tainted, p, fullTRM)
	case outdsl.Unify:
		tainted := inherited || containsTRM(n.Left) || containsTRM(n.Right)
		collectTainted(n.Left, tainted, p, fullTRM)
		collectTainted(n.Right, tainted, p, fullTRM)
	case outdsl.Subtract:
		tainted := inherited || containsTRM(n.Left) || containsTRM(n.Right)
		collectTainted(n.Left, tainted, p, fullTRM)
		collectTainted(n.Right, tainted, p, fullTRM)
	}
}

func containsTRM(e outdsl.Expr) bool {
	found := false
	outdsl.Walk(e, func(n outdsl.Expr) bool {
		if _, ok := n.(outdsl.TRM); ok {
			found = true
			return false
		}
		return !found
	})
	return found
}
