package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snclab/snc2fst/internal/analysis"
	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/outdsl"
	"github.com/snclab/snc2fst/internal/rule"
)

var testUniverse = []string{"F1", "F2"}

func mkRule(t *testing.T, id string, inr, trm, cnd rule.Class, out string) rule.Rule {
	t.Helper()
	ast, err := outdsl.Parse(out)
	require.NoError(t, err)
	return rule.Rule{ID: id, Dir: rule.Left, INR: inr, TRM: trm, CND: cnd, Out: out, OutAST: ast}
}

func lit(p feature.Polarity, f string) rule.Literal {
	return rule.Literal{Polarity: p, Feature: f}
}

func compile(t *testing.T, r rule.Rule, cfg BuildConfig) *Machine {
	t.Helper()
	m, err := Compile(r, analysis.Analyze(r, testUniverse), cfg)
	require.NoError(t, err)
	return m
}

func TestBuild_IdentityRule(t *testing.T) {
	r := mkRule(t, "identity", nil, nil, nil, "INR")
	m := compile(t, r, BuildConfig{})

	// V = ∅: one witness symbol, qF plus one true-state.
	assert.Equal(t, 2, m.States)
	assert.Len(t, m.Arcs, 2)
	assert.Equal(t, []Arc{
		{Src: 0, Dst: 1, ILabel: 1, OLabel: 1},
		{Src: 1, Dst: 1, ILabel: 1, OLabel: 1},
	}, m.Arcs)
}

func TestBuild_TotalAndDeterministic(t *testing.T) {
	r := mkRule(t, "replace_f1",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(unify (proj TRM (F1)) INR)")
	m := compile(t, r, BuildConfig{})

	// V = {F1, F2}, P = {F1}: 4 states, 36 arcs.
	assert.Equal(t, 4, m.States)
	assert.Len(t, m.Arcs, 36)

	sigmaV := SigmaSize(len(m.VOrder))
	for state := 0; state < m.States; state++ {
		seen := make(map[int]bool, sigmaV)
		for _, arc := range m.Arcs[state*sigmaV : (state+1)*sigmaV] {
			assert.Equal(t, state, arc.Src)
			assert.False(t, seen[arc.ILabel], "duplicate input label %d in state %d", arc.ILabel, state)
			seen[arc.ILabel] = true
		}
		assert.Len(t, seen, sigmaV, "state %d is not total", state)
	}
}

func TestBuild_ArcSchema(t *testing.T) {
	// inr = [+F1], trm = [-F1], out = (lit - F1) over V = {F1}, P = ∅.
	r := mkRule(t, "flip",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F1")},
		nil,
		"(lit - F1)")
	m := compile(t, r, BuildConfig{})

	require.Equal(t, []string{"F1"}, m.VOrder)
	require.Empty(t, m.POrder)
	assert.Equal(t, []Arc{
		// qF passes everything through; the terminator arms the memory.
		{Src: 0, Dst: 0, ILabel: 1, OLabel: 1},
		{Src: 0, Dst: 0, ILabel: 2, OLabel: 2},
		{Src: 0, Dst: 1, ILabel: 3, OLabel: 3},
		// The true-state rewrites initiators and stays live.
		{Src: 1, Dst: 1, ILabel: 1, OLabel: 1},
		{Src: 1, Dst: 1, ILabel: 2, OLabel: 3},
		{Src: 1, Dst: 1, ILabel: 3, OLabel: 3},
	}, m.Arcs)
}

func TestBuild_CndGatesMemory(t *testing.T) {
	// A terminator failing cnd disarms the memory from a true-state.
	r := mkRule(t, "gated",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F1")},
		rule.Class{lit(feature.Plus, "F2")},
		"INR")
	m := compile(t, r, BuildConfig{})

	require.Equal(t, []string{"F1", "F2"}, m.VOrder)
	// xV = (-,0): trm matches, cnd does not.
	label := EncodeLabel(Tuple{feature.Minus, feature.Unspec})

	next, _, err := m.Step(0, label)
	require.NoError(t, err)
	assert.Equal(t, 0, next, "qF stays false without cnd")

	// From a true-state the failed condition resets to qF.
	trueState := 1
	next, _, err = m.Step(trueState, label)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	// xV = (-,+): trm and cnd both match and arm the memory.
	label = EncodeLabel(Tuple{feature.Minus, feature.Plus})
	next, _, err = m.Step(0, label)
	require.NoError(t, err)
	assert.NotEqual(t, 0, next)
}

func TestBuild_BudgetExceeded(t *testing.T) {
	// |V| = |P| = 2 projects (1+9)·9 = 90 arcs.
	r := mkRule(t, "budget",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"TRM")
	an := analysis.Analyze(r, testUniverse)
	require.Len(t, an.VOrder, 2)
	require.Len(t, an.POrder, 2)

	_, err := Compile(r, an, BuildConfig{MaxArcs: 10})
	require.Error(t, err)
	assert.True(t, IsBudgetError(err))

	var budgetErr *BudgetError
	require.ErrorAs(t, err, &budgetErr)
	assert.Equal(t, 90, budgetErr.Projected)
	assert.Equal(t, 10, budgetErr.Max)
}

func TestBuild_ProgressCallback(t *testing.T) {
	r := mkRule(t, "progress",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(unify (proj TRM (F1)) INR)")
	var calls []int
	m := compile(t, r, BuildConfig{
		ProgressEvery: 10,
		Progress:      func(done, total int) { calls = append(calls, done) },
	})

	require.Len(t, m.Arcs, 36)
	assert.Equal(t, []int{10, 20, 30, 36}, calls)
}

func TestProjectedArcs(t *testing.T) {
	assert.Equal(t, 2, ProjectedArcs(0, 0))
	assert.Equal(t, 90, ProjectedArcs(2, 2))
	assert.Equal(t, 36, ProjectedArcs(2, 1))
}

func TestStep_Bounds(t *testing.T) {
	r := mkRule(t, "identity", nil, nil, nil, "INR")
	m := compile(t, r, BuildConfig{})

	_, _, err := m.Step(5, 1)
	assert.Error(t, err)
	_, _, err = m.Step(0, 0)
	assert.Error(t, err)
	_, _, err = m.Step(0, 2)
	assert.Error(t, err)
}

func TestStateFor(t *testing.T) {
	r := mkRule(t, "replace_f1",
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(unify (proj TRM (F1)) INR)")
	m := compile(t, r, BuildConfig{})

	assert.Equal(t, 0, m.StateFor(nil))
	assert.Equal(t, 1, m.StateFor(Tuple{feature.Unspec}))
	assert.Equal(t, 2, m.StateFor(Tuple{feature.Plus}))
	assert.Equal(t, 3, m.StateFor(Tuple{feature.Minus}))
}
