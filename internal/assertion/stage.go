// Package assertion merges the assertion annotations of classes and methods,
// written in the relational assertion language, into the modules produced by
// contract lowering.
package assertion

import (
	"strings"

	"github.com/tliron/commonlog"

	"taco/internal/alpha"
	"taco/internal/arith"
	"taco/internal/ast"
	"taco/internal/config"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
	"taco/internal/lowering"
)

var log = commonlog.GetLogger("taco.assertion")

// Stage conjoins annotations into invariant predicates and program contracts.
type Stage struct {
	cfg       *config.Config
	extractor *arith.Extractor
}

func NewStage(cfg *config.Config, extractor *arith.Extractor) *Stage {
	return &Stage{cfg: cfg, extractor: extractor}
}

// parsed is one annotation read from the source, before name resolution.
type parsed struct {
	annotation *ast.Annotation
	// program is nil for class annotations
	program *jdyn.Program
	// params maps parameter names to the names they are emitted as
	params alpha.Scope
	f      formula.Expr
}

// Merge parses the annotations of every unit that produced a module and
// conjoins them into that module. Arithmetic in annotations is named exactly
// like arithmetic in contract clauses. A unit whose annotations do not parse
// is dropped from the returned modules and recorded in ctx, unless it is the
// class under check, which aborts the pass.
func (s *Stage) Merge(modules []*jdyn.Module, units []*ast.Class, ctx *lowering.Context) ([]*jdyn.Module, error) {
	byID := map[string]*jdyn.Module{}
	for _, m := range modules {
		byID[m.ID] = m
	}

	dropped := map[string]bool{}
	pending := map[*ast.Class][]parsed{}
	for _, c := range units {
		qualified := c.QualifiedName()
		module, ok := byID[ctx.Modules[qualified]]
		if !ok {
			continue
		}
		annotations, err := readUnit(c, module, ctx)
		if err != nil {
			if config.SameClass(qualified, s.cfg.ClassToCheck) {
				return nil, err
			}
			log.Warningf("skipping class %s: %s", qualified, err)
			ctx.Drop(qualified, c.Pos, err)
			dropped[module.ID] = true
			continue
		}
		pending[c] = annotations
	}

	kept := make([]*jdyn.Module, 0, len(modules))
	for _, m := range modules {
		if !dropped[m.ID] {
			kept = append(kept, m)
		}
	}

	r := newResolver(kept, units)
	merged := 0
	for _, c := range units {
		module := byID[ctx.Modules[c.QualifiedName()]]
		for _, a := range pending[c] {
			if a.program == nil {
				if a.annotation.Kind != ast.AnnotationInvariant {
					log.Warningf("ignoring @%s on class %s", a.annotation.Kind, c.QualifiedName())
					continue
				}
				s.mergeInvariant(module, r.resolve(a.f, module.ID, nil))
				merged++
				continue
			}
			locals := make([]string, 0, len(a.program.Params))
			for _, v := range a.program.Params {
				locals = append(locals, v.Name)
			}
			f := r.resolve(formula.Rename(a.f, renamedOnly(a.params)), module.ID, locals)
			if s.mergeContract(a.program, a.annotation.Kind, f) {
				merged++
			}
		}
	}

	log.Infof("merged %d annotations", merged)
	return kept, nil
}

// readUnit parses every annotation of a class and of its methods. The first
// malformed one fails the whole unit.
func readUnit(c *ast.Class, module *jdyn.Module, ctx *lowering.Context) ([]parsed, error) {
	var out []parsed
	for _, a := range c.Annotations {
		f, err := parse(a)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed{annotation: a, f: f})
	}
	for _, m := range c.Methods {
		if len(m.Annotations) == 0 {
			continue
		}
		id := ctx.Programs[c.QualifiedName()+"."+m.Signature()]
		p := module.Program(id)
		if p == nil {
			continue
		}
		for _, a := range m.Annotations {
			f, err := parse(a)
			if err != nil {
				return nil, err
			}
			out = append(out, parsed{annotation: a, program: p, params: ctx.Params[id], f: f})
		}
	}
	return out, nil
}

func parse(a *ast.Annotation) (formula.Expr, error) {
	f, err := formula.Parse(a.Text)
	if err != nil {
		return nil, &errors.AnnotationError{Text: a.Text, Message: err.Error(), Position: a.Pos}
	}
	return f, nil
}

// renamedOnly keeps the parameters emitted under another name.
func renamedOnly(params alpha.Scope) map[string]string {
	out := map[string]string{}
	for from, to := range params {
		if from != to {
			out[from] = to
		}
	}
	return out
}

func (s *Stage) mergeInvariant(module *jdyn.Module, f formula.Expr) {
	pred := module.Predicate(module.Invariant)
	if pred == nil {
		pred = &jdyn.Predicate{
			Name:   module.Invariant,
			Params: []jdyn.Var{{Name: "thiz", Type: jdyn.Ref(module.ID)}},
			Body:   formula.True(),
		}
		module.Predicates = append(module.Predicates, pred)
	}
	f, side := s.extractor.Extract(f, jdyn.OriginInvariant)
	pred.Body = formula.And(pred.Body, f)
	module.ArithVars = append(module.ArithVars, side.Vars...)
	module.ArithPreds = append(module.ArithPreds, side.Preds...)
}

// mergeContract reports whether the annotation applies to programs.
func (s *Stage) mergeContract(p *jdyn.Program, kind ast.AnnotationKind, f formula.Expr) bool {
	var origin jdyn.Origin
	switch kind {
	case ast.AnnotationRequires:
		origin = jdyn.OriginRequires
	case ast.AnnotationEnsures:
		origin = jdyn.OriginEnsures
	default:
		log.Warningf("ignoring @%s on program %s", kind, p.ID)
		return false
	}

	f, side := s.extractor.Extract(f, origin)
	if origin == jdyn.OriginRequires {
		p.Requires = formula.And(p.Requires, f)
	} else {
		p.Ensures = formula.And(p.Ensures, f)
	}
	p.ArithVars = append(p.ArithVars, side.Vars...)
	p.ArithPreds = append(p.ArithPreds, side.Preds...)
	return true
}

// resolver rewrites host names of the assertion language into relation names.
type resolver struct {
	// fields maps module id, then host field name, to the field relation
	fields  map[string]map[string]string
	order   []string
	classes map[string]string
}

func newResolver(modules []*jdyn.Module, units []*ast.Class) *resolver {
	r := &resolver{fields: map[string]map[string]string{}, classes: map[string]string{}}
	for _, m := range modules {
		own := map[string]string{}
		for _, f := range m.Fields {
			own[strings.TrimPrefix(f.Name, m.ID+"_")] = f.Name
		}
		r.fields[m.ID] = own
		r.order = append(r.order, m.ID)
	}
	for _, c := range units {
		id := config.SanitizeName(c.QualifiedName())
		r.classes[c.Name] = id
		r.classes[c.QualifiedName()] = id
	}
	return r
}

func (r *resolver) resolve(e formula.Expr, self string, bound []string) formula.Expr {
	switch n := e.(type) {
	case *formula.Ident:
		return r.ident(n, self, bound)
	case *formula.Join:
		return formula.Dot(r.resolve(n.Left, self, bound), r.navigation(n.Right, self, bound))
	case *formula.Call:
		args := make([]formula.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = r.resolve(a, self, bound)
		}
		return formula.Apply(n.Name, args...)
	case *formula.Unary:
		return &formula.Unary{Op: n.Op, X: r.resolve(n.X, self, bound)}
	case *formula.Binary:
		return formula.Bin(n.Op, r.resolve(n.X, self, bound), r.resolve(n.Y, self, bound))
	case *formula.Quant:
		inner := append(append([]string{}, bound...), n.Vars...)
		return &formula.Quant{
			Kind:   n.Kind,
			Vars:   n.Vars,
			Domain: r.resolve(n.Domain, self, bound),
			Body:   r.resolve(n.Body, self, inner),
		}
	case *formula.Old:
		return &formula.Old{X: r.resolve(n.X, self, bound)}
	case *formula.Ite:
		return &formula.Ite{
			Cond: r.resolve(n.Cond, self, bound),
			Then: r.resolve(n.Then, self, bound),
			Else: r.resolve(n.Else, self, bound),
		}
	}
	return e
}

func (r *resolver) ident(n *formula.Ident, self string, bound []string) formula.Expr {
	name := n.Name
	for _, b := range bound {
		if b == name {
			return n
		}
	}
	if name == "this" {
		return formula.Id("thiz")
	}
	if rel, ok := r.fields[self][name]; ok {
		return formula.Dot(formula.Id("thiz"), formula.Id(rel))
	}
	if id, ok := r.classes[name]; ok {
		return formula.Id(id)
	}
	return n
}

// navigation resolves the right-hand side of a join, where a bare name is a
// field relation of any module, the current one first.
func (r *resolver) navigation(e formula.Expr, self string, bound []string) formula.Expr {
	switch n := e.(type) {
	case *formula.Ident:
		if rel, ok := r.fields[self][n.Name]; ok {
			return formula.Id(rel)
		}
		for _, id := range r.order {
			if rel, ok := r.fields[id][n.Name]; ok {
				return formula.Id(rel)
			}
		}
		return n
	case *formula.Unary:
		return &formula.Unary{Op: n.Op, X: r.navigation(n.X, self, bound)}
	case *formula.Join:
		return formula.Dot(r.navigation(n.Left, self, bound), r.navigation(n.Right, self, bound))
	}
	return r.resolve(e, self, bound)
}
