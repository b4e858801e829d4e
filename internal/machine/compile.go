package machine

import (
	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/rule"
)

// Compile lowers one rule to its merged transducer: dependency analysis
// supplies the orders, the predicates and Out evaluator are compiled against
// V_order, and the builder enumerates the canonical arc list.
func Compile(r rule.Rule, an analysis.Result, cfg BuildConfig) (*Machine, error) {
	b := NewBuilder(
		r.ID,
		an.VOrder,
		an.POrder,
		CompilePredicate(r.INR, an.VOrder),
		CompilePredicate(r.TRM, an.VOrder),
		CompilePredicate(r.CND, an.VOrder),
		NewOutEvaluator(r, an),
	)
	return b.Build(cfg)
}
