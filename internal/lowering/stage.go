// Package lowering translates annotated classes into intermediate modules:
// fields become relations, object invariants a predicate, and every method a
// program whose contract clauses are relational formulas.
package lowering

import (
	"strings"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/slices"

	"taco/internal/alpha"
	"taco/internal/arith"
	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

var log = commonlog.GetLogger("taco.lowering")

// InvariantSuffix ends the name of every object invariant predicate.
const InvariantSuffix = "_object_invariant"

// InvariantName returns the object invariant predicate name of a module.
func InvariantName(moduleID string) string {
	return moduleID + InvariantSuffix
}

// Failure is a unit that produced no module.
type Failure struct {
	Class string
	Pos   ast.Position
	Err   error
}

// Context maps source identifiers to the identifiers lowering produced.
type Context struct {
	// Modules maps qualified class names to module ids.
	Modules map[string]string
	// Programs maps "<qualified class>.<signature>" to program ids.
	Programs map[string]string
	// Params maps program ids to the names parameters are emitted as.
	Params   map[string]alpha.Scope
	Failures []Failure

	programs map[string][]string
}

func newContext() *Context {
	return &Context{
		Modules:  map[string]string{},
		Programs: map[string]string{},
		Params:   map[string]alpha.Scope{},
		programs: map[string][]string{},
	}
}

// ProgramsOf returns the program ids of a module in declaration order.
func (c *Context) ProgramsOf(moduleID string) []string {
	return c.programs[moduleID]
}

// Drop forgets the module of a class that failed after lowering and records
// the failure.
func (c *Context) Drop(qualified string, pos ast.Position, err error) {
	moduleID, ok := c.Modules[qualified]
	if !ok {
		return
	}
	for _, id := range c.programs[moduleID] {
		delete(c.Params, id)
	}
	for key := range c.Programs {
		if strings.HasPrefix(key, qualified+".") {
			delete(c.Programs, key)
		}
	}
	delete(c.programs, moduleID)
	delete(c.Modules, qualified)
	c.Failures = append(c.Failures, Failure{Class: qualified, Pos: pos, Err: err})
}

// Diagnostics returns one warning per skipped unit.
func (c *Context) Diagnostics() []errors.CompilerError {
	var out []errors.CompilerError
	for _, f := range c.Failures {
		out = append(out, errors.UnitSkipped(f.Class, f.Err, f.Pos))
	}
	return out
}

// Target resolves the configured check target to its module and program ids.
// A method given with a parameter list, "add(int,boolean)", selects the
// overload with that signature; otherwise the "_N" suffix does.
func (c *Context) Target(cfg *config.Config) (string, string, error) {
	base, overload := config.SplitMethod(config.NormalizeMethod(cfg.MethodToCheck))
	signature := ""
	if strings.Contains(cfg.MethodToCheck, "(") {
		signature = strings.Join(strings.Fields(cfg.MethodToCheck), "")
	}

	names := make([]string, 0, len(c.Modules))
	for name := range c.Modules {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		if !config.SameClass(name, cfg.ClassToCheck) {
			continue
		}
		moduleID := c.Modules[name]
		programs := c.ProgramsOf(moduleID)
		programID := jdyn.ProgramID(moduleID, base, overload)
		if signature != "" {
			programID = c.Programs[name+"."+signature]
		}
		if programID != "" && slices.Contains(programs, programID) {
			return moduleID, programID, nil
		}
		return "", "", &errors.MethodNotFoundError{Class: cfg.ClassToCheck, Method: cfg.MethodToCheck, Available: programs}
	}
	return "", "", &errors.MethodNotFoundError{Class: cfg.ClassToCheck, Method: cfg.MethodToCheck}
}

// Stage lowers the units of one pass.
type Stage struct {
	cfg       *config.Config
	extractor *arith.Extractor
}

func NewStage(cfg *config.Config, extractor *arith.Extractor) *Stage {
	return &Stage{cfg: cfg, extractor: extractor}
}

// Lower emits one module per relevant unit, in input order. A unit that cannot
// be lowered is recorded in the context and skipped, unless it is the class
// under check, which aborts the pass.
func (s *Stage) Lower(units []*ast.Class) ([]*jdyn.Module, *Context, error) {
	units = withEntryPoint(units, s.cfg)

	table := newClassTable(units)
	ctx := newContext()
	log.Infof("lowering %d classes", len(units))

	var modules []*jdyn.Module
	for _, info := range table.infos {
		qualified := info.class.QualifiedName()
		if !s.cfg.IsRelevant(qualified) {
			log.Debugf("skipping irrelevant class %s", qualified)
			continue
		}
		module, terr := s.lowerClass(table, info, ctx)
		if terr != nil {
			if config.SameClass(qualified, s.cfg.ClassToCheck) {
				return nil, ctx, terr
			}
			log.Warningf("skipping class %s: %s", qualified, terr)
			ctx.Failures = append(ctx.Failures, Failure{Class: qualified, Pos: info.class.Pos, Err: terr})
			continue
		}
		ctx.Modules[qualified] = module.ID
		for _, p := range module.Programs {
			ctx.programs[module.ID] = append(ctx.programs[module.ID], p.ID)
		}
		modules = append(modules, module)
	}
	return modules, ctx, nil
}

func (s *Stage) lowerClass(table *classTable, info *classInfo, ctx *Context) (*jdyn.Module, *errors.TranslationError) {
	c := info.class
	module := &jdyn.Module{
		ID:        info.id,
		Class:     c.QualifiedName(),
		Fields:    info.ownFields(),
		Invariant: InvariantName(info.id),
	}

	for _, f := range c.Fields {
		if _, ok := table.resolve(f.Type); !ok {
			return nil, errors.Unsupported("array field '"+f.Name+"'", c.Name, f.Pos)
		}
	}

	l := newLowerer(table, info, c.Name)
	var invariants []formula.Expr
	for _, inv := range c.Invariants {
		invariants = append(invariants, l.cond(alpha.RenameExpr(inv.Expr, nil)))
	}
	if l.err != nil {
		return nil, l.err
	}
	body, side := s.extractor.Extract(formula.And(invariants...), jdyn.OriginInvariant)
	module.ArithVars, module.ArithPreds = side.Vars, side.Preds
	module.Predicates = append(module.Predicates, &jdyn.Predicate{
		Name:   module.Invariant,
		Params: []jdyn.Var{{Name: thisVar, Type: jdyn.Ref(info.id)}},
		Body:   body,
	})

	overloads := map[string]int{}
	pending := map[string]string{}
	bindings := map[string]alpha.Scope{}
	for _, m := range c.Methods {
		overload := overloads[m.Name]
		overloads[m.Name]++

		p, params, terr := s.lowerMethod(table, info, m, overload)
		if terr != nil {
			return nil, terr
		}
		module.Programs = append(module.Programs, p)
		pending[c.QualifiedName()+"."+m.Signature()] = p.ID
		bindings[p.ID] = params
		log.Debugf("lowered %s to %s", m.Signature(), p.ID)
	}
	for k, v := range pending {
		ctx.Programs[k] = v
	}
	for k, v := range bindings {
		ctx.Params[k] = v
	}
	return module, nil
}

func (s *Stage) lowerMethod(table *classTable, info *classInfo, m *ast.Method, overload int) (*jdyn.Program, alpha.Scope, *errors.TranslationError) {
	l := newLowerer(table, info, m.Signature())
	p := &jdyn.Program{
		ID:       jdyn.ProgramID(info.id, m.Name, overload),
		Method:   m.Name,
		Overload: overload,
	}

	renamed := alpha.RenameMethod(m)
	for _, param := range m.Params {
		typ, ok := table.resolve(param.Type)
		if !ok {
			return nil, nil, errors.Unsupported("array parameter '"+param.Name+"'", l.method, param.Pos)
		}
		name := renamed.Params[param.Name]
		p.Params = append(p.Params, jdyn.Var{Name: name, Type: typ})
		l.vars[name] = typ
	}
	if m.Return != nil {
		typ, ok := table.resolve(m.Return)
		if !ok {
			return nil, nil, errors.Unsupported("array return type", l.method, m.Pos)
		}
		p.Returns = &typ
		l.returns = &typ
	}

	for _, d := range renamed.Declarations {
		typ, ok := table.resolve(d.Type)
		if !ok {
			return nil, nil, errors.Unsupported("array local '"+d.Original+"'", l.method, d.Pos)
		}
		p.Locals = append(p.Locals, jdyn.Var{Name: d.Unique, Type: typ})
		l.vars[d.Unique] = typ
	}

	var requires, ensures []formula.Expr
	for _, c := range m.ClausesOf(ast.Precondition) {
		requires = append(requires, l.cond(alpha.RenameExpr(c.Expr, renamed.Params)))
	}
	for _, c := range m.ClausesOf(ast.Postcondition) {
		ensures = append(ensures, l.cond(alpha.RenameExpr(c.Expr, renamed.Params)))
	}
	p.Body = l.block(renamed.Body)
	if l.err != nil {
		return nil, nil, l.err
	}

	var side arith.Side
	p.Requires, side = s.extractor.Extract(formula.And(requires...), jdyn.OriginRequires)
	p.ArithVars, p.ArithPreds = side.Vars, side.Preds
	p.Ensures, side = s.extractor.Extract(formula.And(ensures...), jdyn.OriginEnsures)
	p.ArithVars = append(p.ArithVars, side.Vars...)
	p.ArithPreds = append(p.ArithPreds, side.Preds...)
	return p, renamed.Params, nil
}

// withEntryPoint adds an empty generateInvariant method to the class under
// check when the pass targets it and the class does not declare one. The
// input units are left untouched.
func withEntryPoint(units []*ast.Class, cfg *config.Config) []*ast.Class {
	if !cfg.IsGenerateInvariant() {
		return units
	}
	out := slices.Clone(units)
	for i, c := range out {
		if !config.SameClass(c.QualifiedName(), cfg.ClassToCheck) || c.Method(config.GenerateInvariantMethod) != nil {
			continue
		}
		clone := *c
		clone.Methods = append(slices.Clone(c.Methods), &ast.Method{Pos: c.Pos, Name: config.GenerateInvariantMethod})
		out[i] = &clone
		log.Debugf("added %s to %s", config.GenerateInvariantMethod, c.QualifiedName())
	}
	return out
}
