package alloy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taco/internal/arith"
	"taco/internal/config"
	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
	"taco/internal/library"
)

func counterModule(program *dyn.Program) *dyn.Module {
	program.Module = "Counter"
	return &dyn.Module{
		ID:     "Counter",
		Class:  "Counter",
		Fields: []jdyn.Field{{Name: "Counter_count", Type: jdyn.Int}},
		Invariant: &jdyn.Predicate{
			Name:   "Counter_object_invariant",
			Params: []jdyn.Var{{Name: "thiz", Type: jdyn.Ref("Counter")}},
			Body:   formula.MustParse("(thiz.Counter_count >= 0)"),
		},
		Programs: []*dyn.Program{program},
	}
}

func incProgram() *dyn.Program {
	ret := jdyn.Int
	return &dyn.Program{
		ID:      "Counter_inc_0",
		Method:  "inc",
		Params:  []jdyn.Var{{Name: "x", Type: jdyn.Int}},
		Locals:  []jdyn.Var{{Name: "t_0", Type: jdyn.Int}},
		Returns: &ret,
		Pre:     formula.MustParse("(x > 0)"),
		Post:    formula.MustParse("(return' = thiz.Counter_count')"),
		Body: []dyn.Stmt{
			&dyn.Assign{Target: "t_0", Value: formula.MustParse("add[thiz.Counter_count,x]")},
			&dyn.Update{Field: "Counter_count", Object: formula.Id("thiz"), Value: formula.Id("t_0")},
			&dyn.Return{Value: formula.MustParse("thiz.Counter_count")},
		},
	}
}

func assemble(t *testing.T, cfg *config.Config, modules ...*dyn.Module) *Specification {
	t.Helper()
	program := modules[0].Programs[0]
	spec, err := NewStage(cfg).Assemble(modules, arith.Collect(modules), modules[0].ID, program.ID)
	require.NoError(t, err)
	return spec
}

func TestAssembleSpecification(t *testing.T) {
	spec := assemble(t, config.Default(), counterModule(incProgram()))

	expected := "module Counter_inc_0\n\n" + library.Text(library.Prelude...) +
		`sig Counter extends java_lang_Object {}

pred Counter_object_invariant[thiz: Counter, Counter_count: Counter -> one Int] {
  (thiz.Counter_count >= 0)
}

pred precondition_Counter_inc[throw: java_lang_Throwable + null, thiz: Counter, x: Int, Counter_count: Counter -> one Int] {
  (throw = null)
  and Counter_object_invariant[thiz,Counter_count]
  and (x > 0)
}

pred postcondition_Counter_inc[thiz: Counter, x: Int, Counter_count: Counter -> one Int, Counter_count': Counter -> one Int, return': Int, throw': java_lang_Throwable + null] {
  (throw' = null)
  and Counter_object_invariant[thiz,Counter_count']
  and (return' = thiz.Counter_count')
}

pred Counter_inc_0[throw_0: java_lang_Throwable + null, thiz_0: Counter, x_0: Int, Counter_count_0: Counter -> one Int, return_0: Int, t_0_0: Int, t_0_1: Int, Counter_count_1: Counter -> one Int, return_1: Int] {
  (
    (t_0_1 = add[thiz_0.Counter_count_0,x_0])
    and (Counter_count_1 = (Counter_count_0 ++ (thiz_0 -> t_0_1)))
    and (return_1 = thiz_0.Counter_count_1)
  ) implies (
    postcondition_Counter_inc[thiz_0,x_0,Counter_count_0,Counter_count_1,return_1,throw_0]
  )
}

one sig QF {
  throw_0: one (java_lang_Throwable + null),
  thiz_0: one Counter,
  x_0: one Int,
  Counter_count_0: Counter -> one Int,
  return_0: one Int,
  t_0_0: one Int,
  t_0_1: one Int,
  Counter_count_1: Counter -> one Int,
  return_1: one Int
}

fact {
  precondition_Counter_inc[QF.throw_0,QF.thiz_0,QF.x_0,QF.Counter_count_0]
}

assert check_Counter_inc_0 {
  Counter_inc_0[QF.throw_0,QF.thiz_0,QF.x_0,QF.Counter_count_0,QF.return_0,QF.t_0_0,QF.t_0_1,QF.Counter_count_1,QF.return_1]
}

check check_Counter_inc_0 for 0 but 3 Counter, 4 int
`
	assert.Equal(t, expected, spec.Text)
	assert.Equal(t, "Counter_inc_0", spec.Name)
	assert.Equal(t, filepath.Join("output", "Counter_inc_0.als"), spec.Path)
}

func TestPredicateNames(t *testing.T) {
	assert.Equal(t, "precondition_examples_List_add", PreconditionName("examples_List", "add", 0))
	assert.Equal(t, "precondition_examples_List_add_2", PreconditionName("examples_List", "add", 2))
	assert.Equal(t, "postcondition_examples_List_add_1", PostconditionName("examples_List", "add", 1))
	assert.Equal(t, "check_examples_List_add_0", CheckName("examples_List_add_0"))
}

func TestArithmeticIsBoundInsideContracts(t *testing.T) {
	p := incProgram()
	p.Pre = formula.MustParse("(x > arith_0)")
	p.ArithVars = []jdyn.ArithVar{{Name: "arith_0", Origin: jdyn.OriginRequires}}
	p.ArithPreds = []jdyn.ArithPred{{Origin: jdyn.OriginRequires, Formula: formula.MustParse("(arith_0 = sub[0,1])")}}
	m := counterModule(p)
	m.Invariant.Body = formula.MustParse("(thiz.Counter_count >= arith_1)")
	m.ArithVars = []jdyn.ArithVar{{Name: "arith_1", Origin: jdyn.OriginInvariant}}
	m.ArithPreds = []jdyn.ArithPred{{Origin: jdyn.OriginInvariant, Formula: formula.MustParse("(arith_1 = add[0,0])")}}

	spec := assemble(t, config.Default(), m)

	assert.Contains(t, spec.Text, "  and (some arith_0: Int | ((arith_0 = sub[0,1]) and (x > arith_0)))\n")
	assert.Contains(t, spec.Text, "  (some arith_1: Int | ((arith_1 = add[0,0]) and (thiz.Counter_count >= arith_1)))\n")
	assert.Contains(t, spec.Text, "postcondition_Counter_inc[thiz: Counter")
}

func TestBranchesAndThrows(t *testing.T) {
	p := &dyn.Program{
		ID:       "Counter_check_1",
		Method:   "check",
		Overload: 1,
		Params:   []jdyn.Var{{Name: "x", Type: jdyn.Int}},
		Locals:   []jdyn.Var{{Name: "y", Type: jdyn.Int}},
		Pre:      formula.True(),
		Post:     formula.True(),
		Body: []dyn.Stmt{
			&dyn.Branch{
				Cond: formula.MustParse("(x < 0)"),
				Then: []dyn.Stmt{&dyn.Throw{Exception: "java_lang_IllegalArgumentExceptionLit"}},
			},
			&dyn.Assign{Target: "y", Value: formula.Num(1)},
			&dyn.Assert{Cond: formula.MustParse("(y = 1)")},
		},
	}
	spec := assemble(t, config.Default(), counterModule(p))

	assert.Contains(t, spec.Text, "one sig java_lang_IllegalArgumentExceptionLit extends java_lang_Throwable {}\n")
	assert.Contains(t, spec.Text, "pred precondition_Counter_check_1[")
	assert.Contains(t, spec.Text, "    ((x_0 < 0) implies (throw_1 = java_lang_IllegalArgumentExceptionLit) else (throw_1 = throw_0))\n")
	assert.Contains(t, spec.Text, "    and ((not (x_0 < 0)) implies (y_1 = 1) else (y_1 = y_0))\n")
	assert.Contains(t, spec.Text, "    ((not (x_0 < 0)) implies (y_1 = 1))\n")
	assert.Contains(t, spec.Text, "    and postcondition_Counter_check_1[thiz_0,x_0,Counter_count_0,Counter_count_0,throw_1]\n")
	assert.NotContains(t, spec.Text, "return_0", "void programs have no result variable")
}

func TestStatementsAfterReturnAreSkipped(t *testing.T) {
	p := incProgram()
	p.Body = append(p.Body, &dyn.Assign{Target: "t_0", Value: formula.Num(2)})

	spec := assemble(t, config.Default(), counterModule(p))
	assert.NotContains(t, spec.Text, "t_0_2")
}

func TestLoopUnrolling(t *testing.T) {
	p := &dyn.Program{
		ID:     "Counter_run_0",
		Method: "run",
		Params: []jdyn.Var{{Name: "x", Type: jdyn.Int}},
		Locals: []jdyn.Var{{Name: "i", Type: jdyn.Int}},
		Pre:    formula.True(),
		Post:   formula.True(),
		Body: []dyn.Stmt{
			&dyn.Loop{
				Cond:      formula.MustParse("(i < x)"),
				Invariant: formula.MustParse("(i <= x)"),
				Variant:   formula.MustParse("sub[x,i]"),
				Body:      []dyn.Stmt{&dyn.Assign{Target: "i", Value: formula.MustParse("add[i,1]")}},
			},
		},
	}
	cfg := config.Default()
	cfg.LoopUnroll = 1
	spec := assemble(t, cfg, counterModule(p))

	expected := `  (
    ((i_0 < x_0) implies (i_1 = add[i_0,1]) else (i_1 = i_0))
    and ((i_0 < x_0) implies (not (i_1 < x_0)))
  ) implies (
    (i_0 <= x_0)
    and ((i_0 < x_0) implies (sub[x_0,i_0] >= 0))
    and ((i_0 < x_0) implies (sub[x_0,i_1] < sub[x_0,i_0]))
    and ((i_0 < x_0) implies (i_1 <= x_0))
    and postcondition_Counter_run[thiz_0,x_0,Counter_count_0,Counter_count_0,throw_0]
  )
`
	assert.Contains(t, spec.Text, expected)

	cfg.LoopUnroll = 0
	spec = assemble(t, cfg, counterModule(p))
	assert.Contains(t, spec.Text, "  (\n    (not (i_0 < x_0))\n  ) implies (\n    (i_0 <= x_0)\n")
}

func TestJavaArithmeticComputations(t *testing.T) {
	p := incProgram()
	p.Body[0] = &dyn.Compute{Target: "t_0", Pred: "pred_java_primitive_integer_value_add", Args: []formula.Expr{formula.MustParse("thiz.Counter_count"), formula.Id("x")}}

	spec := assemble(t, config.Default(), counterModule(p))
	assert.Contains(t, spec.Text, "    pred_java_primitive_integer_value_add[thiz_0.Counter_count_0,x_0,t_0_1]\n")
}

func TestScopes(t *testing.T) {
	m := counterModule(incProgram())
	m.Fields = append(m.Fields, jdyn.Field{Name: "Counter_owner", Type: jdyn.Ref("java_util_Owner")})

	cfg := config.Default()
	cfg.TypeScopes = "Counter:5"
	cfg.BitWidth = 6
	spec := assemble(t, cfg, m)

	assert.Contains(t, spec.Text, "sig java_util_Owner extends java_lang_Object {}\n")
	assert.Contains(t, spec.Text, "Counter_owner: Counter -> one (java_util_Owner + null)")
	assert.True(t, strings.HasSuffix(spec.Text, "check check_Counter_inc_0 for 0 but 5 Counter, 3 java_util_Owner, 6 int\n"))
}

func TestMissingIndexEntry(t *testing.T) {
	m := counterModule(incProgram())

	_, err := NewStage(config.Default()).Assemble([]*dyn.Module{m}, arith.NewIndex(), "Counter", "Counter_inc_0")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorMissingArithmeticEntry, errors.CodeOf(err))

	index := arith.Collect([]*dyn.Module{m})
	delete(index.Programs, "Counter_inc_0")
	_, err = NewStage(config.Default()).Assemble([]*dyn.Module{m}, index, "Counter", "Counter_inc_0")
	var ae *errors.AssemblyError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, "Counter_inc_0", ae.ID)
}

func TestUnknownTarget(t *testing.T) {
	m := counterModule(incProgram())
	_, err := NewStage(config.Default()).Assemble([]*dyn.Module{m}, arith.Collect([]*dyn.Module{m}), "Counter", "Counter_dec_0")
	assert.Equal(t, errors.ErrorMethodNotFound, errors.CodeOf(err))
}

func TestWrite(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = filepath.Join(t.TempDir(), "nested")
	stage := NewStage(cfg)

	m := counterModule(incProgram())
	spec, err := stage.Assemble([]*dyn.Module{m}, arith.Collect([]*dyn.Module{m}), "Counter", "Counter_inc_0")
	require.NoError(t, err)
	require.NoError(t, stage.Write(spec))

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "Counter_inc_0.als"))
	require.NoError(t, err)
	assert.Equal(t, spec.Text, string(data))
}
