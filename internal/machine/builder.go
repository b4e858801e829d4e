package machine

import (
	"fmt"
)

// DefaultMaxArcs is the default arc budget.
const DefaultMaxArcs = 5_000_000

// defaultProgressEvery is how many arcs pass between progress callbacks.
const defaultProgressEvery = 4096

// Arc is one transition of the merged transducer.
type Arc struct {
	Src    int `json:"src"`
	Dst    int `json:"dst"`
	ILabel int `json:"ilabel"`
	OLabel int `json:"olabel"`
}

// Machine is the merged canonical transducer T_V for one rule. The state
// space is qF = 0 plus one true-state per Σ_P tuple, numbered in base-3
// enumeration order of the memory tuple. Every state is final. Arcs are
// stored grouped by source state in ascending input-label order, so the arc
// for (state, ilabel) sits at index state·3^|V| + ilabel - 1.
type Machine struct {
	RuleID string
	VOrder []string
	POrder []string
	Start  int
	States int
	Arcs   []Arc
}

// BuildConfig carries the construction knobs.
type BuildConfig struct {
	// MaxArcs is the arc budget; 0 means DefaultMaxArcs.
	MaxArcs int
	// Progress, when set, is called from the building goroutine with
	// (arcs emitted, total arcs) every ProgressEvery arcs and once at the
	// end. It must not mutate the builder.
	Progress      func(done, total int)
	ProgressEvery int
}

// ProjectedArcs returns (1 + 3^pSize) · 3^vSize, the exact arc count of the
// merged machine.
func ProjectedArcs(vSize, pSize int) int {
	return (1 + SigmaSize(pSize)) * SigmaSize(vSize)
}

// Builder constructs T_V for one rule. It owns its arc list exclusively
// during construction; the finished Machine is immutable.
type Builder struct {
	ruleID string
	vOrder []string
	pOrder []string

	isINR Predicate
	isTRM Predicate
	isCND Predicate
	out   *OutEvaluator
	proj  Projection
}

// NewBuilder takes the rule's compiled predicates and Out evaluator and
// prepares π_P. The reference evaluator builds its own from the same
// CompilePredicate and NewOutEvaluator routines.
func NewBuilder(ruleID string, vOrder, pOrder []string, isINR, isTRM, isCND Predicate, out *OutEvaluator) *Builder {
	return &Builder{
		ruleID: ruleID,
		vOrder: vOrder,
		pOrder: pOrder,
		isINR:  isINR,
		isTRM:  isTRM,
		isCND:  isCND,
		out:    out,
		proj:   NewProjection(vOrder, pOrder),
	}
}

// Build constructs the full machine. On any failure every partially-built
// buffer is dropped; no partial machine escapes.
func (b *Builder) Build(cfg BuildConfig) (*Machine, error) {
	maxArcs := cfg.MaxArcs
	if maxArcs == 0 {
		maxArcs = DefaultMaxArcs
	}
	k := len(b.vOrder)
	pk := len(b.pOrder)
	sigmaV := SigmaSize(k)
	sigmaP := SigmaSize(pk)
	total := ProjectedArcs(k, pk)
	if total > maxArcs {
		return nil, &BudgetError{
			RuleID: b.ruleID, Projected: total, Max: maxArcs, VSize: k, PSize: pk,
		}
	}
	every := cfg.ProgressEvery
	if every <= 0 {
		every = defaultProgressEvery
	}

	m := &Machine{
		RuleID: b.ruleID,
		VOrder: append([]string(nil), b.vOrder...),
		POrder: append([]string(nil), b.pOrder...),
		Start:  0,
		States: 1 + sigmaP,
		Arcs:   make([]Arc, 0, total),
	}

	xV := make(Tuple, k)
	trmP := make(Tuple, pk)
	memP := make(Tuple, pk)
	done := 0

	for state := 0; state < m.States; state++ {
		if state > 0 {
			if err := DecodeLabelInto(memP, state); err != nil {
				return nil, &InvariantError{RuleID: b.ruleID, Message: err.Error()}
			}
		}
		for ilabel := 1; ilabel <= sigmaV; ilabel++ {
			if err := DecodeLabelInto(xV, ilabel); err != nil {
				return nil, &InvariantError{RuleID: b.ruleID, Message: err.Error()}
			}
			b.proj.Apply(trmP, xV)

			var next, olabel int
			if state == 0 {
				// qF: pass-through; a conditioned terminator arms the memory.
				if b.isTRM.Matches(xV) && b.isCND.Matches(xV) {
					next = 1 + (EncodeLabel(trmP) - 1)
				} else {
					next = 0
				}
				olabel = ilabel
			} else {
				if b.isTRM.Matches(xV) {
					if b.isCND.Matches(xV) {
						next = 1 + (EncodeLabel(trmP) - 1)
					} else {
						next = 0
					}
				} else {
					next = state
				}
				if b.isINR.Matches(xV) {
					outTuple, err := b.out.Emit(xV, memP)
					if err != nil {
						return nil, err
					}
					olabel = EncodeLabel(outTuple)
				} else {
					olabel = ilabel
				}
			}
			m.Arcs = append(m.Arcs, Arc{Src: state, Dst: next, ILabel: ilabel, OLabel: olabel})
			done++
			if cfg.Progress != nil && done%every == 0 {
				cfg.Progress(done, total)
			}
		}
	}
	if cfg.Progress != nil {
		cfg.Progress(done, total)
	}
	if err := m.verify(); err != nil {
		return nil, err
	}
	return m, nil
}

// Step follows the unique arc for (state, ilabel), relying on the dense
// canonical arc layout.
func (m *Machine) Step(state, ilabel int) (next, olabel int, err error) {
	sigmaV := SigmaSize(len(m.VOrder))
	if state < 0 || state >= m.States || ilabel < 1 || ilabel > sigmaV {
		return 0, 0, fmt.Errorf("no arc for state %d label %d", state, ilabel)
	}
	arc := m.Arcs[state*sigmaV+ilabel-1]
	return arc.Dst, arc.OLabel, nil
}

// StateFor maps a memory tuple to its state id; a nil memory is qF.
func (m *Machine) StateFor(memP Tuple) int {
	if memP == nil {
		return 0
	}
	return 1 + (EncodeLabel(memP) - 1)
}

// verify checks totality, determinism, and canonical arc order. A failure
// here is always a bug in the builder, never in the rule.
func (m *Machine) verify() error {
	sigmaV := SigmaSize(len(m.VOrder))
	if len(m.Arcs) != m.States*sigmaV {
		return &InvariantError{
			RuleID:  m.RuleID,
			Message: fmt.Sprintf("have %d arcs; expected %d", len(m.Arcs), m.States*sigmaV),
		}
	}
	for i, arc := range m.Arcs {
		wantSrc := i / sigmaV
		wantILabel := i%sigmaV + 1
		if arc.Src != wantSrc || arc.ILabel != wantILabel {
			return &InvariantError{
				RuleID:  m.RuleID,
				Message: fmt.Sprintf("arc %d is (%d,%d); expected (%d,%d)", i, arc.Src, arc.ILabel, wantSrc, wantILabel),
			}
		}
		if arc.Dst < 0 || arc.Dst >= m.States {
			return &InvariantError{
				RuleID:  m.RuleID,
				Message: fmt.Sprintf("arc %d targets unknown state %d", i, arc.Dst),
			}
		}
		if arc.OLabel < 1 || arc.OLabel > sigmaV {
			return &InvariantError{
				RuleID:  m.RuleID,
				Message: fmt.Sprintf("arc %d has output label %d outside Σ_V", i, arc.OLabel),
			}
		}
	}
	return nil
}
