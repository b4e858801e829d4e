package outdsl

import (
	"github.com/snclab/snc2fst/internal/feature"
)

// Env carries the two bound bundles and the feature set visible to the
// expression. During machine construction Features is the rule's V set;
// during document validation it is the full universe.
type Env struct {
	INR      feature.Bundle
	TRM      feature.Bundle
	Features map[string]bool
}

// Eval interprets the expression under env. Evaluation is pure, recursive,
// and deterministic; the returned bundle is freshly allocated.
func Eval(e Expr, env Env) (feature.Bundle, error) {
	switch n := e.(type) {
	case INR:
		return env.INR.Clone(), nil
	case TRM:
		return env.TRM.Clone(), nil
	case Lit:
		if !env.Features[n.Feature] {
			return nil, evalErr(n, "unknown feature %q", n.Feature)
		}
		return feature.Bundle{n.Feature: n.Polarity}, nil
	case Proj:
		of, err := Eval(n.Of, env)
		if err != nil {
			return nil, err
		}
		if n.All {
			// The full-universe restriction: keep every visible feature.
			out := make(feature.Bundle, len(of))
			for f, p := range of {
				if env.Features[f] {
					out[f] = p
				}
			}
			return out, nil
		}
		for _, f := range n.Features {
			if !env.Features[f] {
				return nil, evalErr(n, "unknown feature %q", f)
			}
		}
		return of.Restrict(n.Features), nil
	case Unify:
		left, err := Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return left.Unify(right), nil
	case Subtract:
		left, err := Eval(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := Eval(n.Right, env)
		if err != nil {
			return nil, err
		}
		return left.Subtract(right), nil
	}
	return nil, evalErr(e, "illegal AST node")
}
