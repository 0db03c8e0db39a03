package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintParseRoundTrip(t *testing.T) {
	inputs := []string{
		"(thiz.List_size >= 0)",
		"((x + 1) = arith_0)",
		"(all n: Node | ((n in thiz.List_head.(*Node_next)) implies (n.Node_value > -3)))",
		"(some a, b: Int | ((a < b) and (b != 0)))",
		"(not TruePred[])",
		"precondition_T_generateInvariant[QF.throw_0,QF.thiz_0,QF.T_f_0]",
		"((#thiz.List_head) <= 1)",
		"(\\old(thiz.List_size) = (thiz.List_size - 1))",
		"((x > 0) implies true else false)",
		"((a iff b) or (no thiz.List_head))",
		"(QF.List_size_1 = (QF.List_size_0 ++ (QF.thiz_0 -> 3)))",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			e, err := Parse(in)
			require.NoError(t, err)
			assert.Equal(t, in, e.String())
		})
	}
}

func TestParseHostSpellings(t *testing.T) {
	e, err := Parse("a && !b || c => d <=> e")
	require.NoError(t, err)
	assert.Equal(t, "((((a and (not b)) or c) implies d) iff e)", e.String())
}

func TestParsePrecedence(t *testing.T) {
	e := MustParse("x + y * 2 < z . f - 1")
	assert.Equal(t, "((x + (y * 2)) < (z.f - 1))", e.String())
}

func TestParseNegativeLiteral(t *testing.T) {
	e := MustParse("-8")
	lit, ok := e.(*Int)
	require.True(t, ok)
	assert.Equal(t, int64(-8), lit.Value)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("(a and")
	assert.Error(t, err)
}

func TestAndOrSimplification(t *testing.T) {
	a, b := Id("a"), Id("b")

	assert.True(t, IsTrue(And()))
	assert.Equal(t, "(a and b)", And(True(), a, nil, b).String())
	assert.True(t, IsFalse(And(a, False())))
	assert.True(t, IsFalse(Or()))
	assert.Equal(t, "(a or b)", Or(False(), a, b).String())
	assert.True(t, IsTrue(Or(a, True())))
	assert.Equal(t, "a", Implies(True(), a).String())
	assert.True(t, IsTrue(Implies(False(), a)))
	assert.Equal(t, "(b implies a)", Implies(b, a).String())
}

func TestConjuncts(t *testing.T) {
	e := MustParse("a and (b and c) and TruePred[]")
	parts := Conjuncts(e)
	require.Len(t, parts, 3)
	assert.Equal(t, "b", parts[1].String())
}

func TestFreeIdentsSkipsBoundNames(t *testing.T) {
	e := MustParse("all i: Int | (i > x) and (y = i)")
	assert.Equal(t, []string{"Int", "x", "y"}, FreeIdents(e))
	assert.True(t, Mentions(e, []string{"y"}))
	assert.False(t, Mentions(e, []string{"i"}))
}

func TestSubstituteRespectsBinding(t *testing.T) {
	e := MustParse("(x = 1) and (all x: Int | x > y)")
	out := Rename(e, map[string]string{"x": "x'", "y": "y'"})

	assert.Equal(t, "((x' = 1) and (all x: Int | (x > y')))", out.String())
	assert.Equal(t, "((x = 1) and (all x: Int | (x > y)))", e.String())
}
