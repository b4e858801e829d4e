package machine

import (
	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/outdsl"
	"github.com/snclab/snc2fst/internal/rule"
)

// OutEvaluator binds a rule's Out AST to its V/P orders. The transducer
// builder and the reference evaluator each build one with NewOutEvaluator,
// so both run the same routine and cannot diverge on Out semantics.
type OutEvaluator struct {
	ast      outdsl.Expr
	vOrder   []string
	pOrder   []string
	features map[string]bool
}

// NewOutEvaluator prepares the shared eval_out routine for one rule.
func NewOutEvaluator(r rule.Rule, an analysis.Result) *OutEvaluator {
	return &OutEvaluator{
		ast:      r.OutAST,
		vOrder:   an.VOrder,
		pOrder:   an.POrder,
		features: an.V,
	}
}

// Emit evaluates the Out expression with INR bound to xV over V and TRM
// bound to the memory tuple over P (features in V \ P read as Unspec), and
// projects the result back onto V_order. memP may be nil for an empty
// terminator memory.
func (e *OutEvaluator) Emit(xV, memP Tuple) (Tuple, error) {
	env := outdsl.Env{
		INR:      BundleFromTuple(xV, e.vOrder),
		TRM:      BundleFromTuple(memP, e.pOrder),
		Features: e.features,
	}
	out, err := outdsl.Eval(e.ast, env)
	if err != nil {
		return nil, err
	}
	return TupleFromBundle(out, e.vOrder), nil
}
