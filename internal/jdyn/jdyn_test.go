package jdyn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taco/internal/errors"
	"taco/internal/formula"
)

func listModule() *Module {
	ret := Int
	return &Module{
		ID:    "examples_List",
		Class: "examples.List",
		Fields: []Field{
			{Name: "examples_List_size", Type: Int},
			{Name: "examples_List_head", Type: Ref("examples_Node")},
		},
		Predicates: []*Predicate{{
			Name:   "examples_List_object_invariant",
			Params: []Var{{Name: "thiz", Type: Ref("examples_List")}},
			Body:   formula.MustParse("(thiz.examples_List_size >= arith_0)"),
		}},
		Invariant:  "examples_List_object_invariant",
		ArithVars:  []ArithVar{{Name: "arith_0", Origin: OriginInvariant}},
		ArithPreds: []ArithPred{{Origin: OriginInvariant, Formula: formula.MustParse("(arith_0 = (0 - 1))")}},
		Programs: []*Program{
			{
				ID:       "examples_List_add_0",
				Method:   "add",
				Overload: 0,
				Params:   []Var{{Name: "thiz", Type: Ref("examples_List")}, {Name: "x", Type: Int}},
				Returns:  &ret,
				Locals:   []Var{{Name: "var_1_i", Type: Int}, {Name: "var_2_ok", Type: Bool}},
				Requires: formula.MustParse("(x > arith_1)"),
				Ensures:  formula.MustParse("(return = (\\old(thiz.examples_List_size) + x))"),
				ArithVars: []ArithVar{
					{Name: "arith_1", Origin: OriginRequires},
				},
				ArithPreds: []ArithPred{
					{Origin: OriginRequires, Formula: formula.MustParse("(arith_1 = (0 - 3))")},
				},
				Body: []Stmt{
					&Assign{Target: formula.Id("var_1_i"), Value: formula.Num(0)},
					&While{
						Cond:      formula.MustParse("(var_1_i < x)"),
						Invariant: formula.MustParse("(var_1_i <= x)"),
						Variant:   formula.MustParse("(x - var_1_i)"),
						Body: []Stmt{
							&Assign{Target: formula.MustParse("thiz.examples_List_size"), Value: formula.MustParse("(thiz.examples_List_size + 1)")},
							&Assign{Target: formula.Id("var_1_i"), Value: formula.MustParse("(var_1_i + 1)")},
						},
					},
					&If{
						Cond: formula.MustParse("(thiz.examples_List_head = null)"),
						Then: []Stmt{&Throw{Exception: "java_lang_NullPointerExceptionLit"}},
						Else: []Stmt{&Assume{Cond: formula.MustParse("(var_2_ok = true)")}},
					},
					&If{Cond: formula.Id("false"), Then: []Stmt{&Return{}}},
					&Assert{Cond: formula.MustParse("(var_1_i >= 0)")},
					&Return{Value: formula.MustParse("thiz.examples_List_size")},
				},
			},
			{
				ID:       "examples_List_add_1",
				Method:   "add",
				Overload: 1,
				Params:   []Var{{Name: "thiz", Type: Ref("examples_List")}},
			},
		},
	}
}

func TestPrintParseIsStable(t *testing.T) {
	m := listModule()
	text := Print(m)

	parsed, err := Parse("examples_List.dj", text)
	require.NoError(t, err)

	assert.Equal(t, text, Print(parsed))
	assert.Equal(t, "examples.List", parsed.Class)
	assert.Equal(t, "examples_List_object_invariant", parsed.Invariant)
}

func TestParseRecoversProgramMetadata(t *testing.T) {
	parsed, err := Parse("", Print(listModule()))
	require.NoError(t, err)

	second := parsed.Program("examples_List_add_1")
	require.NotNil(t, second)
	assert.Equal(t, "add", second.Method)
	assert.Equal(t, 1, second.Overload)
	assert.Nil(t, second.Returns)
	assert.True(t, formula.IsTrue(second.Requires))

	first := parsed.Program("examples_List_add_0")
	require.NotNil(t, first)
	require.NotNil(t, first.Returns)
	assert.Equal(t, Int, *first.Returns)
	assert.Equal(t, []Var{{Name: "var_1_i", Type: Int}, {Name: "var_2_ok", Type: Bool}}, first.Locals)
	assert.Equal(t, []ArithVar{{Name: "arith_1", Origin: OriginRequires}}, first.ArithVars)
	require.Len(t, first.Body, 6)

	loop, ok := first.Body[1].(*While)
	require.True(t, ok)
	assert.Equal(t, "(x - var_1_i)", loop.Variant.String())

	f, ok := parsed.Field("examples_List_head")
	require.True(t, ok)
	assert.Equal(t, Ref("examples_Node"), f.Type)
}

func TestRoundTripKeepsIdentifiers(t *testing.T) {
	dir := t.TempDir()

	out, err := RoundTrip([]*Module{listModule()}, dir)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "examples_List", out[0].ID)

	written, err := os.ReadFile(filepath.Join(dir, "examples_List.dj"))
	require.NoError(t, err)
	assert.Equal(t, Print(listModule()), string(written))
}

func TestRoundTripWithoutDirectoryWritesNothing(t *testing.T) {
	out, err := RoundTrip([]*Module{listModule()}, "")
	require.NoError(t, err)
	assert.Len(t, out[0].Programs, 2)
}

func TestSameIdentifiersReportsDifferences(t *testing.T) {
	a, b := listModule(), listModule()
	assert.NoError(t, SameIdentifiers(a, b))

	b.Programs = b.Programs[:1]
	err := SameIdentifiers(a, b)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorRoundTrip, errors.CodeOf(err))

	c := listModule()
	c.ID = "other"
	assert.Error(t, SameIdentifiers(a, c))

	d := listModule()
	d.Predicates = nil
	assert.Error(t, SameIdentifiers(a, d))
}

func TestProgramID(t *testing.T) {
	assert.Equal(t, "examples_List_add_2", ProgramID("examples_List", "add", 2))
	method, overload := splitProgramID("examples_List", "examples_List_remove_first_3")
	assert.Equal(t, "remove_first", method)
	assert.Equal(t, 3, overload)
}
