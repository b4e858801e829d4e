package evaluator

import (
	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/machine"
	"github.com/snclab/snc2fst/internal/rule"
)

// Program is one rule prepared for evaluation: compiled predicates, the
// shared Out evaluator, and the π_P projection. The machine builder uses
// the identical pieces, which makes reference/compiled agreement a property
// of one code path rather than two.
type Program struct {
	Rule     rule.Rule
	Analysis analysis.Result

	isINR machine.Predicate
	isTRM machine.Predicate
	isCND machine.Predicate
	out   *machine.OutEvaluator
	proj  machine.Projection
}

// NewProgram prepares a rule for evaluation against the given universe.
func NewProgram(r rule.Rule, universe []string) *Program {
	an := analysis.Analyze(r, universe)
	return &Program{
		Rule:     r,
		Analysis: an,
		isINR:    machine.CompilePredicate(r.INR, an.VOrder),
		isTRM:    machine.CompilePredicate(r.TRM, an.VOrder),
		isCND:    machine.CompilePredicate(r.CND, an.VOrder),
		out:      machine.NewOutEvaluator(r, an),
		proj:     machine.NewProjection(an.VOrder, an.POrder),
	}
}

// Step is one position of a canonical-LEFT scan, recorded for cross-checks.
type Step struct {
	State  int // state before consuming the input
	ILabel int
	OLabel int
	Next   int
}

// scan runs the canonical LEFT machine over V tuples. The caller handles
// direction by reversing input and output around the scan.
func (p *Program) scan(word []machine.Tuple) ([]machine.Tuple, []Step, error) {
	outputs := make([]machine.Tuple, len(word))
	steps := make([]Step, len(word))
	var memP machine.Tuple // nil means qF
	trmP := make(machine.Tuple, len(p.Analysis.POrder))

	for i, xV := range word {
		before := stateFor(memP)
		out := xV
		if memP != nil && p.isINR.Matches(xV) {
			emitted, err := p.out.Emit(xV, memP)
			if err != nil {
				return nil, nil, err
			}
			out = emitted
		}
		// Memory transitions are driven by the input symbol, not the
		// rewritten one.
		if p.isTRM.Matches(xV) {
			if p.isCND.Matches(xV) {
				p.proj.Apply(trmP, xV)
				memP = trmP.Clone()
			} else {
				memP = nil
			}
		}
		outputs[i] = out
		steps[i] = Step{
			State:  before,
			ILabel: machine.EncodeLabel(xV),
			OLabel: machine.EncodeLabel(out),
			Next:   stateFor(memP),
		}
	}
	return outputs, steps, nil
}

func stateFor(memP machine.Tuple) int {
	if memP == nil {
		return 0
	}
	return 1 + (machine.EncodeLabel(memP) - 1)
}

// direction returns the effective scan direction, honouring an override.
func (p *Program) direction(override rule.Direction) rule.Direction {
	if override.Valid() {
		return override
	}
	return p.Rule.Dir
}

// ApplyTuples applies the rule to one word of V tuples, handling direction.
// The returned steps describe the canonical LEFT scan (over the reversed
// word for RIGHT rules).
func (p *Program) ApplyTuples(word []machine.Tuple, override rule.Direction) ([]machine.Tuple, []Step, error) {
	if p.direction(override) == rule.Right {
		reversed := reverseTuples(word)
		outputs, steps, err := p.scan(reversed)
		if err != nil {
			return nil, nil, err
		}
		return reverseTuples(outputs), steps, nil
	}
	return p.scan(word)
}

// ApplyWord applies the rule to a word of surface symbols and resolves the
// outputs back to symbols.
func (p *Program) ApplyWord(a *feature.Alphabet, res *Resolver, word []string, wordIdx int, override rule.Direction) ([]string, error) {
	tuples := make([]machine.Tuple, len(word))
	for i, sym := range word {
		t, ok := machine.SymbolTuple(a, sym, p.Analysis.VOrder)
		if !ok {
			return nil, &RunError{
				Code: CodeUnknownSymbol, RuleID: p.Rule.ID,
				Word: wordIdx, Position: i, Symbol: sym,
				Message: "symbol is not in the alphabet",
			}
		}
		tuples[i] = t
	}
	outputs, _, err := p.ApplyTuples(tuples, override)
	if err != nil {
		return nil, err
	}
	result := make([]string, len(word))
	for i, out := range outputs {
		sym, rerr := res.Resolve(out, word[i])
		if rerr != nil {
			rerr.RuleID = p.Rule.ID
			rerr.Word = wordIdx
			rerr.Position = i
			return nil, rerr
		}
		result[i] = sym
	}
	return result, nil
}

func reverseTuples(word []machine.Tuple) []machine.Tuple {
	out := make([]machine.Tuple, len(word))
	for i, t := range word {
		out[len(word)-1-i] = t
	}
	return out
}
