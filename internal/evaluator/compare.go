package evaluator

import (
	"fmt"

	"github.com/snclab/snc2fst/internal/machine"
	"github.com/snclab/snc2fst/internal/rule"
)

// Compare replays the reference scan for one word against the compiled
// machine and asserts position-by-position agreement of output labels and
// state traces. The word is given as surface-order V tuples; direction is
// handled the same way on both sides.
func (p *Program) Compare(m *machine.Machine, word []machine.Tuple, wordIdx int, override rule.Direction) error {
	scanWord := word
	if p.direction(override) == rule.Right {
		scanWord = reverseTuples(word)
	}
	_, steps, err := p.scan(scanWord)
	if err != nil {
		return err
	}
	state := m.Start
	for i, step := range steps {
		if step.State != state {
			return &RunError{
				Code: CodeConsistency, RuleID: p.Rule.ID, Word: wordIdx, Position: i,
				Message: fmt.Sprintf("reference in state %d, machine in state %d", step.State, state),
			}
		}
		next, olabel, err := m.Step(state, step.ILabel)
		if err != nil {
			return &RunError{
				Code: CodeConsistency, RuleID: p.Rule.ID, Word: wordIdx, Position: i,
				Message: err.Error(),
			}
		}
		if olabel != step.OLabel {
			return &RunError{
				Code: CodeConsistency, RuleID: p.Rule.ID, Word: wordIdx, Position: i,
				Message: fmt.Sprintf("reference emits label %d, machine emits %d", step.OLabel, olabel),
			}
		}
		if next != step.Next {
			return &RunError{
				Code: CodeConsistency, RuleID: p.Rule.ID, Word: wordIdx, Position: i,
				Message: fmt.Sprintf("reference moves to state %d, machine to %d", step.Next, next),
			}
		}
		state = next
	}
	return nil
}
