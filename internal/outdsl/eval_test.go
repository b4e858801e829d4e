package outdsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snclab/snc2fst/internal/feature"
)

func testEnv(inr, trm feature.Bundle) Env {
	return Env{
		INR:      inr,
		TRM:      trm,
		Features: map[string]bool{"F1": true, "F2": true, "F3": true},
	}
}

func mustEval(t *testing.T, src string, env Env) feature.Bundle {
	t.Helper()
	ast, err := Parse(src)
	require.NoError(t, err)
	got, err := Eval(ast, env)
	require.NoError(t, err)
	return got
}

func TestEval_Atoms(t *testing.T) {
	env := testEnv(feature.Bundle{"F1": feature.Plus}, feature.Bundle{"F2": feature.Minus})

	assert.Equal(t, feature.Bundle{"F1": feature.Plus}, mustEval(t, "INR", env))
	assert.Equal(t, feature.Bundle{"F2": feature.Minus}, mustEval(t, "TRM", env))
}

func TestEval_ReturnsCopies(t *testing.T) {
	inr := feature.Bundle{"F1": feature.Plus}
	got := mustEval(t, "INR", testEnv(inr, nil))
	got["F2"] = feature.Minus
	assert.Equal(t, feature.Bundle{"F1": feature.Plus}, inr)
}

func TestEval_Lit(t *testing.T) {
	got := mustEval(t, "(lit - F2)", testEnv(nil, nil))
	assert.Equal(t, feature.Bundle{"F2": feature.Minus}, got)
}

func TestEval_Proj(t *testing.T) {
	env := testEnv(feature.Bundle{"F1": feature.Plus, "F2": feature.Minus}, nil)

	assert.Equal(t, feature.Bundle{"F1": feature.Plus}, mustEval(t, "(proj INR (F1))", env))
	assert.Equal(t, feature.Bundle{}, mustEval(t, "(proj INR (F3))", env))
	assert.Equal(t, feature.Bundle{}, mustEval(t, "(proj INR ())", env))
	assert.Equal(t,
		feature.Bundle{"F1": feature.Plus, "F2": feature.Minus},
		mustEval(t, "(proj INR *)", env))
}

func TestEval_UnifyNeverOverwrites(t *testing.T) {
	env := testEnv(
		feature.Bundle{"F1": feature.Plus},
		feature.Bundle{"F1": feature.Minus, "F2": feature.Plus},
	)

	got := mustEval(t, "(unify INR TRM)", env)
	assert.Equal(t, feature.Bundle{"F1": feature.Plus, "F2": feature.Plus}, got)

	got = mustEval(t, "(unify TRM INR)", env)
	assert.Equal(t, feature.Bundle{"F1": feature.Minus, "F2": feature.Plus}, got)
}

func TestEval_Subtract(t *testing.T) {
	env := testEnv(
		feature.Bundle{"F1": feature.Plus, "F2": feature.Minus},
		feature.Bundle{"F1": feature.Plus},
	)

	// Only the exact polarity match is removed.
	got := mustEval(t, "(subtract INR TRM)", env)
	assert.Equal(t, feature.Bundle{"F2": feature.Minus}, got)

	env.TRM = feature.Bundle{"F1": feature.Minus}
	got = mustEval(t, "(subtract INR TRM)", env)
	assert.Equal(t, feature.Bundle{"F1": feature.Plus, "F2": feature.Minus}, got)
}

func TestEval_SpreadExpression(t *testing.T) {
	// The spread idiom: drop INR's F1 and take a literal override instead.
	env := testEnv(feature.Bundle{"F1": feature.Plus, "F2": feature.Minus}, nil)
	got := mustEval(t, "(unify (lit - F1) (subtract INR (proj INR (F1))))", env)
	assert.Equal(t, feature.Bundle{"F1": feature.Minus, "F2": feature.Minus}, got)
}

func TestEval_UnknownFeature(t *testing.T) {
	env := testEnv(nil, nil)

	for _, src := range []string{"(lit + F9)", "(proj INR (F9))"} {
		ast, err := Parse(src)
		require.NoError(t, err)
		_, err = Eval(ast, env)
		require.Error(t, err, "source %s", src)
		assert.True(t, IsDslError(err))

		var dslErr *Error
		require.ErrorAs(t, err, &dslErr)
		assert.NotEmpty(t, dslErr.Expr)
	}
}
