package alloy

import (
	"fmt"
	"strings"

	"taco/internal/dyn"
	"taco/internal/formula"
	"taco/internal/relational"
)

// stateVar is one version of a program variable, field relation or skolem
// constant. Every stateVar is a field of QF.
type stateVar struct {
	name string
	typ  string
	// relation is set for field relations, whose type already has a multiplicity
	relation bool
}

func (v stateVar) param() string { return v.name + ": " + v.typ }

func (v stateVar) qf() string {
	if v.relation {
		return v.param()
	}
	return v.name + ": one " + paren(v.typ)
}

// verification builds the verification condition of a program in static
// single assignment form: every assignment introduces a new version of its
// variable, constrained under the guard of the statement and copied from the
// previous version otherwise.
type verification struct {
	a        *assembler
	vars     []stateVar
	types    map[string]stateVar
	versions map[string]int

	transitions []formula.Expr
	obligations []formula.Expr
	// path is the branch condition of the current statement and done holds
	// when a return or throw already ended the execution
	path formula.Expr
	done formula.Expr
}

func newVerification(a *assembler) *verification {
	v := &verification{
		a:        a,
		types:    map[string]stateVar{},
		versions: map[string]int{},
		path:     formula.True(),
		done:     formula.False(),
	}
	v.declare(relational.ThrowVar, throwType(), false)
	v.declare(relational.ThisVar, a.module.ID, false)
	for _, p := range a.program.Params {
		v.declare(p.Name, valueType(p.Type), false)
	}
	for _, f := range a.fields {
		v.declare(f.name, relationType(f.owner, f.typ), true)
	}
	if a.program.Returns != nil {
		v.declare(relational.ResultVar, valueType(*a.program.Returns), false)
	}
	for _, l := range a.program.Locals {
		v.declare(l.Name, valueType(l.Type), false)
	}
	for _, s := range a.program.Skolems {
		v.vars = append(v.vars, stateVar{name: s.Name, typ: valueType(s.Type)})
	}
	return v
}

func (v *verification) declare(base, typ string, relation bool) {
	v.types[base] = stateVar{typ: typ, relation: relation}
	v.versions[base] = 0
	v.vars = append(v.vars, stateVar{name: versioned(base, 0), typ: typ, relation: relation})
}

func versioned(base string, n int) string {
	return fmt.Sprintf("%s_%d", base, n)
}

func (v *verification) current(base string) string {
	return versioned(base, v.versions[base])
}

// bump introduces the next version of base and returns the previous and the
// new version names.
func (v *verification) bump(base string) (string, string) {
	if _, ok := v.types[base]; !ok {
		v.declare(base, "Int", false)
	}
	old := v.current(base)
	v.versions[base]++
	t := v.types[base]
	next := v.current(base)
	v.vars = append(v.vars, stateVar{name: next, typ: t.typ, relation: t.relation})
	return old, next
}

// rename rewrites the free variables of e to their current versions.
func (v *verification) rename(e formula.Expr) formula.Expr {
	if e == nil {
		return nil
	}
	names := make(map[string]string, len(v.versions))
	for base := range v.versions {
		names[base] = v.current(base)
	}
	return formula.Rename(e, names)
}

func (v *verification) guard() formula.Expr {
	switch {
	case formula.IsFalse(v.done):
		return v.path
	case formula.IsTrue(v.done):
		return formula.False()
	}
	return formula.And(v.path, formula.Not(v.done))
}

func choose(g, then, otherwise formula.Expr) formula.Expr {
	if formula.IsTrue(g) {
		return then
	}
	return &formula.Ite{Cond: g, Then: then, Else: otherwise}
}

// assign sets base to value, already renamed, under the current guard.
func (v *verification) assign(base string, value formula.Expr) {
	g := v.guard()
	if formula.IsFalse(g) {
		return
	}
	old, next := v.bump(base)
	v.transitions = append(v.transitions, choose(g,
		formula.Eq(formula.Id(next), value),
		formula.Eq(formula.Id(next), formula.Id(old))))
}

func (v *verification) exit() {
	v.done = formula.Or(v.done, v.guard())
}

func (v *verification) build() {
	v.block(v.a.program.Body)
}

func (v *verification) block(stmts []dyn.Stmt) {
	for _, s := range stmts {
		v.stmt(s)
	}
}

func (v *verification) stmt(s dyn.Stmt) {
	switch s := s.(type) {
	case *dyn.Assign:
		v.assign(s.Target, v.rename(s.Value))
	case *dyn.Update:
		object, value := v.rename(s.Object), v.rename(s.Value)
		g := v.guard()
		if formula.IsFalse(g) {
			return
		}
		old, next := v.bump(s.Field)
		v.transitions = append(v.transitions, choose(g,
			formula.Eq(formula.Id(next), formula.Bin("++", formula.Id(old), formula.Bin("->", object, value))),
			formula.Eq(formula.Id(next), formula.Id(old))))
	case *dyn.Compute:
		args := make([]formula.Expr, len(s.Args))
		for i, arg := range s.Args {
			args[i] = v.rename(arg)
		}
		g := v.guard()
		if formula.IsFalse(g) {
			return
		}
		old, next := v.bump(s.Target)
		v.transitions = append(v.transitions, choose(g,
			formula.Apply(s.Pred, append(args, formula.Id(next))...),
			formula.Eq(formula.Id(next), formula.Id(old))))
	case *dyn.Branch:
		cond := v.rename(s.Cond)
		saved := v.path
		v.path = formula.And(saved, cond)
		v.block(s.Then)
		v.path = formula.And(saved, formula.Not(cond))
		v.block(s.Else)
		v.path = saved
	case *dyn.Loop:
		v.loop(s)
	case *dyn.Assert:
		v.obligations = append(v.obligations, formula.Implies(v.guard(), v.rename(s.Cond)))
	case *dyn.Assume:
		v.transitions = append(v.transitions, formula.Implies(v.guard(), v.rename(s.Cond)))
	case *dyn.Return:
		if s.Value != nil {
			v.assign(relational.ResultVar, v.rename(s.Value))
		}
		v.exit()
	case *dyn.Throw:
		v.assign(relational.ThrowVar, formula.Id(s.Exception))
		v.exit()
	}
}

// loop unrolls a loop the configured number of times. The invariant must
// hold whenever the condition is tested and the variant must be
// non-negative and decrease in every iteration. Executions that would run
// longer than the unrolling are discarded.
func (v *verification) loop(l *dyn.Loop) {
	saved := v.path
	for i := 0; i < v.a.cfg.LoopUnroll; i++ {
		v.block(l.Prelude)
		g := v.guard()
		if formula.IsFalse(g) {
			break
		}
		if l.Invariant != nil {
			v.obligations = append(v.obligations, formula.Implies(g, v.rename(l.Invariant)))
		}
		cond := v.rename(l.Cond)
		var before formula.Expr
		if l.Variant != nil {
			before = v.rename(l.Variant)
			v.obligations = append(v.obligations, formula.Implies(formula.And(g, cond), formula.Bin(">=", before, formula.Num(0))))
		}
		v.path = formula.And(v.path, cond)
		v.block(l.Body)
		if l.Variant != nil {
			v.obligations = append(v.obligations, formula.Implies(v.guard(), formula.Bin("<", v.rename(l.Variant), before)))
		}
	}

	v.block(l.Prelude)
	if g := v.guard(); !formula.IsFalse(g) {
		if l.Invariant != nil {
			v.obligations = append(v.obligations, formula.Implies(g, v.rename(l.Invariant)))
		}
		v.transitions = append(v.transitions, formula.Implies(g, formula.Not(v.rename(l.Cond))))
	}
	v.path = saved
}

// names returns every state variable in declaration order.
func (v *verification) names() []string {
	out := make([]string, len(v.vars))
	for i, s := range v.vars {
		out[i] = s.name
	}
	return out
}

func (v *verification) initial(base string) string { return versioned(base, 0) }

func (v *verification) preconditionArgs() []string {
	args := []string{v.initial(relational.ThrowVar), v.initial(relational.ThisVar)}
	for _, p := range v.a.program.Params {
		args = append(args, v.initial(p.Name))
	}
	for _, f := range v.a.fields {
		args = append(args, v.initial(f.name))
	}
	for _, s := range v.a.program.Skolems {
		args = append(args, s.Name)
	}
	return args
}

func (v *verification) postconditionArgs() []formula.Expr {
	var args []string
	args = append(args, v.initial(relational.ThisVar))
	for _, p := range v.a.program.Params {
		args = append(args, v.initial(p.Name))
	}
	for _, f := range v.a.fields {
		args = append(args, v.initial(f.name))
	}
	for _, f := range v.a.fields {
		args = append(args, v.current(f.name))
	}
	if v.a.program.Returns != nil {
		args = append(args, v.current(relational.ResultVar))
	}
	args = append(args, v.current(relational.ThrowVar))
	for _, s := range v.a.program.Skolems {
		args = append(args, s.Name)
	}

	out := make([]formula.Expr, len(args))
	for i, a := range args {
		out[i] = formula.Id(a)
	}
	return out
}

// writePred prints the verification condition as a predicate over every
// state variable: the transitions imply the obligations and the
// postcondition.
func (v *verification) writePred(b *strings.Builder) {
	params := make([]string, len(v.vars))
	for i, s := range v.vars {
		params[i] = s.param()
	}
	fmt.Fprintf(b, "pred %s[%s] {\n", v.a.program.ID, strings.Join(params, ", "))

	goals := append(v.obligations, formula.Apply(v.a.postconditionName(), v.postconditionArgs()...))
	if len(v.transitions) == 0 {
		writeConjuncts(b, "  ", goals)
	} else {
		b.WriteString("  (\n")
		writeConjuncts(b, "    ", v.transitions)
		b.WriteString("  ) implies (\n")
		writeConjuncts(b, "    ", goals)
		b.WriteString("  )\n")
	}
	b.WriteString("}\n\n")
}

func (v *verification) writeQF(b *strings.Builder) {
	fmt.Fprintf(b, "one sig %s {\n", QF)
	for i, s := range v.vars {
		sep := ","
		if i == len(v.vars)-1 {
			sep = ""
		}
		fmt.Fprintf(b, "  %s%s\n", s.qf(), sep)
	}
	b.WriteString("}\n\n")
}
