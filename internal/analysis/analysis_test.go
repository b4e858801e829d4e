package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snclab/snc2fst/internal/feature"
	"github.com/snclab/snc2fst/internal/outdsl"
	"github.com/snclab/snc2fst/internal/rule"
)

var universe = []string{"F1", "F2", "F3"}

func mkRule(t *testing.T, inr, trm, cnd rule.Class, out string) rule.Rule {
	t.Helper()
	ast, err := outdsl.Parse(out)
	require.NoError(t, err)
	return rule.Rule{ID: "r", Dir: rule.Left, INR: inr, TRM: trm, CND: cnd, Out: out, OutAST: ast}
}

func lit(p feature.Polarity, f string) rule.Literal {
	return rule.Literal{Polarity: p, Feature: f}
}

func TestAnalyze_IdentityRule(t *testing.T) {
	r := mkRule(t, nil, nil, nil, "INR")
	an := Analyze(r, universe)

	assert.Empty(t, an.VOrder)
	assert.Empty(t, an.POrder)
}

func TestAnalyze_ClassAndProjFeatures(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(unify (proj TRM (F1)) INR)")
	an := Analyze(r, universe)

	assert.Equal(t, []string{"F1", "F2"}, an.VOrder)
	assert.Equal(t, []string{"F1"}, an.POrder)
}

func TestAnalyze_LitFeatureEntersV(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Plus, "F2")},
		nil,
		"(unify (lit - F1) (subtract INR (proj INR (F1))))")
	an := Analyze(r, universe)

	assert.Equal(t, []string{"F1", "F2"}, an.VOrder)
	// No TRM anywhere in the expression: nothing is terminator-sensitive.
	assert.Empty(t, an.POrder)
}

func TestAnalyze_BareTRMMakesPEqualV(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"TRM")
	an := Analyze(r, universe)

	assert.Equal(t, an.VOrder, an.POrder)
}

func TestAnalyze_UnifyWithTRMExposes(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(unify TRM INR)")
	an := Analyze(r, universe)

	assert.Equal(t, an.VOrder, an.POrder)
}

func TestAnalyze_SubtractTRMExposes(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(subtract INR TRM)")
	an := Analyze(r, universe)

	// TRM chooses what survives subtraction, so every feature of V is
	// terminator-sensitive.
	assert.Equal(t, an.VOrder, an.POrder)
}

func TestAnalyze_ProjAllExpandsVToUniverse(t *testing.T) {
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Plus, "F2")},
		nil,
		"(proj TRM *)")
	an := Analyze(r, universe)

	assert.Equal(t, universe, an.VOrder)
	assert.Equal(t, universe, an.POrder)
}

func TestAnalyze_ProjAllOfINR(t *testing.T) {
	r := mkRule(t, nil, rule.Class{lit(feature.Minus, "F2")}, nil, "(proj INR *)")
	an := Analyze(r, universe)

	assert.Equal(t, universe, an.VOrder)
	assert.Empty(t, an.POrder)
}

func TestAnalyze_TaintedSiblingLiteral(t *testing.T) {
	// The literal is combined with a TRM-tainted sibling under a
	// restricting projection, so only the named features are sensitive.
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F1")},
		rule.Class{lit(feature.Minus, "F2")},
		nil,
		"(proj (unify (lit - F3) TRM) (F3))")
	an := Analyze(r, universe)

	assert.Contains(t, an.P, "F3")
	assert.NotContains(t, an.P, "F1")
}

func TestAnalyze_OrderFollowsUniverse(t *testing.T) {
	// V order comes from the feature table, not from mention order.
	r := mkRule(t,
		rule.Class{lit(feature.Plus, "F3")},
		rule.Class{lit(feature.Minus, "F1")},
		nil,
		"INR")
	an := Analyze(r, universe)

	assert.Equal(t, []string{"F1", "F3"}, an.VOrder)
}

func TestAnalyze_PSubsetOfV(t *testing.T) {
	rules := []string{
		"INR",
		"TRM",
		"(unify (proj TRM (F1)) INR)",
		"(subtract INR TRM)",
		"(proj TRM *)",
		"(proj (unify (lit - F3) TRM) (F3))",
	}
	for _, out := range rules {
		r := mkRule(t,
			rule.Class{lit(feature.Plus, "F1")},
			rule.Class{lit(feature.Minus, "F2")},
			nil, out)
		an := Analyze(r, universe)
		for f := range an.P {
			assert.Contains(t, an.V, f, "out %s", out)
		}
	}
}
