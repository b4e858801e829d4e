package evaluator

import (
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/machine"
	"github.com/snclab/snc2fst/internal/rule"
)

// Config carries the evaluation knobs.
type Config struct {
	// Strict requires output bundles to resolve to a unique symbol.
	Strict bool
	// IncludeInput switches output rows to the {rule_id, input, output} form.
	IncludeInput bool
	// DirectionOverride, when valid, overrides every rule's direction.
	DirectionOverride rule.Direction
	// Compare compiles each rule and asserts the reference trace against it.
	Compare bool
	// DumpVP returns the V/P sets alongside the result.
	DumpVP bool
	// Build configures compilation when Compare is set.
	Build machine.BuildConfig
}

// Row is one per-rule result row of the output document. Exactly one of
// Outputs or Input/Output is populated, depending on IncludeInput.
type Row struct {
	RuleID  string     `json:"rule_id"`
	Outputs [][]string `json:"outputs,omitempty"`
	Input   [][]string `json:"input,omitempty"`
	Output  [][]string `json:"output,omitempty"`
}

// RuleVP reports the derived feature sets for one rule.
type RuleVP struct {
	RuleID string   `json:"rule_id"`
	V      []string `json:"v"`
	P      []string `json:"p"`
}

// Output is the result document for one pipeline run.
type Output struct {
	ID     string     `json:"id"`
	Inputs [][]string `json:"inputs"`
	Rows   []Row      `json:"rows"`
	VP     []RuleVP   `json:"vp,omitempty"`
}

// Run applies the selected rules of a document, in document order, to every
// input word. Each rule's output feeds the next rule. Words must already be
// validated against the alphabet's symbol set or the run fails on first use.
func Run(doc *rule.Document, rules []rule.Rule, a *feature.Alphabet, words [][]string, cfg Config) (*Output, error) {
	out := &Output{ID: doc.ID, Inputs: cloneWords(words)}
	universe := a.Features()

	current := cloneWords(words)
	for _, r := range rules {
		prog := NewProgram(r, universe)
		res := NewResolver(a, prog.Analysis.VOrder, cfg.Strict)

		var compiled *machine.Machine
		if cfg.Compare {
			m, err := machine.Compile(r, prog.Analysis, cfg.Build)
			if err != nil {
				return nil, err
			}
			compiled = m
		}

		next := make([][]string, len(current))
		for w, word := range current {
			result, err := prog.ApplyWord(a, res, word, w, cfg.DirectionOverride)
			if err != nil {
				return nil, err
			}
			if compiled != nil {
				tuples := make([]machine.Tuple, len(word))
				for i, sym := range word {
					t, _ := machine.SymbolTuple(a, sym, prog.Analysis.VOrder)
					tuples[i] = t
				}
				if err := prog.Compare(compiled, tuples, w, cfg.DirectionOverride); err != nil {
					return nil, err
				}
			}
			next[w] = result
		}

		row := Row{RuleID: r.ID}
		if cfg.IncludeInput {
			row.Input = cloneWords(current)
			row.Output = cloneWords(next)
		} else {
			row.Outputs = cloneWords(next)
		}
		out.Rows = append(out.Rows, row)
		if cfg.DumpVP {
			out.VP = append(out.VP, RuleVP{
				RuleID: r.ID,
				V:      append([]string(nil), prog.Analysis.VOrder...),
				P:      append([]string(nil), prog.Analysis.POrder...),
			})
		}
		current = next
	}
	return out, nil
}

func cloneWords(words [][]string) [][]string {
	out := make([][]string, len(words))
	for i, w := range words {
		out[i] = append([]string(nil), w...)
	}
	return out
}
