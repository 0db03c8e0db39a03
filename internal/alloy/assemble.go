// Package alloy assembles the relational specification of one check target
// from the relationally lowered modules and the arithmetic constraint index,
// and writes it where the model finder reads it.
package alloy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/slices"

	"taco/internal/arith"
	"taco/internal/config"
	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
	"taco/internal/library"
	"taco/internal/relational"
)

var log = commonlog.GetLogger("taco.alloy")

// Specification is an assembled relational specification. It is not modified
// after it has been written.
type Specification struct {
	Name string
	Text string
	Path string
}

// Stage assembles the specification of one pass.
type Stage struct {
	cfg *config.Config
}

func NewStage(cfg *config.Config) *Stage {
	return &Stage{cfg: cfg}
}

// Assemble builds the specification that checks program programID of module
// moduleID. Every module and program must have an index entry.
func (s *Stage) Assemble(modules []*dyn.Module, index *arith.Index, moduleID, programID string) (*Specification, error) {
	if err := index.Complete(modules); err != nil {
		return nil, err
	}

	var module *dyn.Module
	for _, m := range modules {
		if m.ID == moduleID {
			module = m
		}
	}
	if module == nil {
		return nil, &errors.MethodNotFoundError{Class: moduleID, Method: programID}
	}
	program := module.Program(programID)
	if program == nil {
		return nil, &errors.MethodNotFoundError{Class: moduleID, Method: programID}
	}

	moduleEntry, err := index.LookupModule(moduleID)
	if err != nil {
		return nil, err
	}
	programEntry, err := index.LookupProgram(programID)
	if err != nil {
		return nil, err
	}

	a := newAssembler(s.cfg, modules, module, program)
	spec := &Specification{
		Name: programID,
		Text: a.text(moduleEntry, programEntry),
		Path: filepath.Join(s.cfg.OutputDir, programID+Extension),
	}
	log.Infof("assembled %s (%d state variables)", spec.Name, len(a.vc.vars))
	return spec, nil
}

// Write stores the specification at its path, creating the directory.
func (s *Stage) Write(spec *Specification) error {
	dir := filepath.Dir(spec.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewIOError("create", dir, err)
	}
	if err := os.WriteFile(spec.Path, []byte(spec.Text), 0644); err != nil {
		return errors.NewIOError("write", spec.Path, err)
	}
	log.Infof("wrote %s", spec.Path)
	return nil
}

type field struct {
	name  string
	owner string
	typ   jdyn.Type
}

type assembler struct {
	cfg     *config.Config
	modules []*dyn.Module
	module  *dyn.Module
	program *dyn.Program
	fields  []field
	vc      *verification
}

func newAssembler(cfg *config.Config, modules []*dyn.Module, module *dyn.Module, program *dyn.Program) *assembler {
	a := &assembler{cfg: cfg, modules: modules, module: module, program: program}
	for _, m := range modules {
		for _, f := range m.Fields {
			a.fields = append(a.fields, field{name: f.Name, owner: m.ID, typ: f.Type})
		}
	}
	a.vc = newVerification(a)
	return a
}

func (a *assembler) text(moduleEntry, programEntry *arith.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module %s\n\n", a.program.ID)
	b.WriteString(library.Text(library.Prelude...))
	a.writeSigs(&b)

	writePred(&b, a.module.Invariant.Name, a.invariantParams(), []formula.Expr{
		withArith(moduleEntry, a.module.Invariant.Body),
	})
	writePred(&b, a.preconditionName(), a.preconditionParams(), []formula.Expr{
		formula.Eq(formula.Id(relational.ThrowVar), formula.Id(library.Null)),
		a.invariantCall(relational.ThisVar, a.fieldNames(false)),
		withArith(programEntry.ForOrigin(jdyn.OriginRequires), a.program.Pre),
	})
	writePred(&b, a.postconditionName(), a.postconditionParams(), []formula.Expr{
		formula.Eq(formula.Id(relational.Prime(relational.ThrowVar)), formula.Id(library.Null)),
		a.invariantCall(relational.ThisVar, a.fieldNames(true)),
		withArith(programEntry.ForOrigin(jdyn.OriginEnsures), a.program.Post),
	})

	a.vc.build()
	a.vc.writePred(&b)
	a.vc.writeQF(&b)

	fmt.Fprintf(&b, "%s\n  %s[%s]\n}\n\n", FactMarker, a.preconditionName(), strings.Join(qf(a.vc.preconditionArgs()), ","))
	fmt.Fprintf(&b, "assert %s {\n  %s[%s]\n}\n\n", CheckName(a.program.ID), a.program.ID, strings.Join(qf(a.vc.names()), ","))
	fmt.Fprintf(&b, "check %s %s %s\n", CheckName(a.program.ID), ScopeMarker, strings.Join(a.scopes(), ", "))
	return b.String()
}

func (a *assembler) preconditionName() string {
	return PreconditionName(a.module.ID, a.program.Method, a.program.Overload)
}

func (a *assembler) postconditionName() string {
	return PostconditionName(a.module.ID, a.program.Method, a.program.Overload)
}

// signatures returns the class signatures: every module, then every other
// class a type mentions, sorted.
func (a *assembler) signatures() []string {
	var sigs, extra []string
	for _, m := range a.modules {
		sigs = append(sigs, m.ID)
	}
	mention := func(t jdyn.Type) {
		if t.Kind == jdyn.KindRef && !slices.Contains(sigs, t.Class) && !slices.Contains(extra, t.Class) {
			extra = append(extra, t.Class)
		}
	}
	for _, f := range a.fields {
		mention(f.typ)
	}
	for _, vs := range [][]jdyn.Var{a.program.Params, a.program.Locals, a.program.Skolems} {
		for _, v := range vs {
			mention(v.Type)
		}
	}
	if a.program.Returns != nil {
		mention(*a.program.Returns)
	}
	slices.Sort(extra)
	return append(sigs, extra...)
}

func (a *assembler) writeSigs(b *strings.Builder) {
	for _, sig := range a.signatures() {
		fmt.Fprintf(b, "sig %s extends %s {}\n", sig, library.Object)
	}
	for _, lit := range a.program.Exceptions() {
		fmt.Fprintf(b, "one sig %s extends %s {}\n", lit, library.Throwable)
	}
	b.WriteString("\n")
}

func (a *assembler) scopes() []string {
	var out []string
	for _, sig := range a.signatures() {
		name := sig
		for _, m := range a.modules {
			if m.ID == sig {
				name = m.Class
			}
		}
		out = append(out, fmt.Sprintf("%d %s", a.cfg.ScopeFor(name), sig))
	}
	return append(out, fmt.Sprintf("%d int", a.cfg.BitWidth))
}

func (a *assembler) fieldNames(primed bool) []string {
	names := make([]string, len(a.fields))
	for i, f := range a.fields {
		names[i] = f.name
		if primed {
			names[i] = relational.Prime(f.name)
		}
	}
	return names
}

func (a *assembler) fieldParams(primed bool) []string {
	params := make([]string, len(a.fields))
	for i, f := range a.fields {
		name := f.name
		if primed {
			name = relational.Prime(name)
		}
		params[i] = name + ": " + relationType(f.owner, f.typ)
	}
	return params
}

func (a *assembler) invariantCall(this string, fields []string) formula.Expr {
	args := []formula.Expr{formula.Id(this)}
	for _, f := range fields {
		args = append(args, formula.Id(f))
	}
	return formula.Apply(a.module.Invariant.Name, args...)
}

func (a *assembler) invariantParams() []string {
	return append([]string{relational.ThisVar + ": " + a.module.ID}, a.fieldParams(false)...)
}

func (a *assembler) preconditionParams() []string {
	params := []string{
		relational.ThrowVar + ": " + throwType(),
		relational.ThisVar + ": " + a.module.ID,
	}
	params = append(params, varParams(a.program.Params)...)
	params = append(params, a.fieldParams(false)...)
	return append(params, varParams(a.program.Skolems)...)
}

func (a *assembler) postconditionParams() []string {
	params := []string{relational.ThisVar + ": " + a.module.ID}
	params = append(params, varParams(a.program.Params)...)
	params = append(params, a.fieldParams(false)...)
	params = append(params, a.fieldParams(true)...)
	if a.program.Returns != nil {
		params = append(params, relational.Prime(relational.ResultVar)+": "+valueType(*a.program.Returns))
	}
	params = append(params, relational.Prime(relational.ThrowVar)+": "+throwType())
	return append(params, varParams(a.program.Skolems)...)
}

// withArith binds the arithmetic side variables of an entry around f.
func withArith(entry *arith.Entry, f formula.Expr) formula.Expr {
	if len(entry.Vars) == 0 {
		return f
	}
	return &formula.Quant{
		Kind:   "some",
		Vars:   entry.Names(),
		Domain: formula.Id("Int"),
		Body:   formula.And(append(entry.Formulas(), f)...),
	}
}

func writePred(b *strings.Builder, name string, params []string, conjuncts []formula.Expr) {
	fmt.Fprintf(b, "pred %s[%s] {\n", name, strings.Join(params, ", "))
	writeConjuncts(b, "  ", conjuncts)
	b.WriteString("}\n\n")
}

// writeConjuncts prints one conjunct per line, dropping TruePred[] operands.
func writeConjuncts(b *strings.Builder, indent string, conjuncts []formula.Expr) {
	first := true
	for _, c := range conjuncts {
		if c == nil || formula.IsTrue(c) {
			continue
		}
		if first {
			fmt.Fprintf(b, "%s%s\n", indent, c)
		} else {
			fmt.Fprintf(b, "%sand %s\n", indent, c)
		}
		first = false
	}
	if first {
		fmt.Fprintf(b, "%s%s\n", indent, formula.True())
	}
}

func valueType(t jdyn.Type) string {
	switch t.Kind {
	case jdyn.KindInt:
		return "Int"
	case jdyn.KindBool:
		return library.Boolean
	}
	return t.Class + " + " + library.Null
}

func relationType(owner string, t jdyn.Type) string {
	return owner + " -> one " + paren(valueType(t))
}

func throwType() string {
	return library.Throwable + " + " + library.Null
}

func paren(s string) string {
	if strings.Contains(s, " ") {
		return "(" + s + ")"
	}
	return s
}

func varParams(vs []jdyn.Var) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.Name + ": " + valueType(v.Type)
	}
	return out
}

func qf(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = QF + "." + n
	}
	return out
}
