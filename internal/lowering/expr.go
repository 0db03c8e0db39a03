package lowering

import (
	"taco/internal/ast"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

const (
	thisVar   = "thiz"
	resultVar = "return"
	trueAtom  = "true"
	falseAtom = "false"
	nullAtom  = "null"
)

// lowerer translates the expressions and statements of one method or of the
// object invariants of one class. It keeps the first error and keeps going
// with placeholders so that callers check once.
type lowerer struct {
	table   *classTable
	self    *classInfo
	method  string
	vars    map[string]jdyn.Type
	returns *jdyn.Type
	err     *errors.TranslationError
}

func newLowerer(table *classTable, self *classInfo, method string) *lowerer {
	return &lowerer{table: table, self: self, method: method, vars: map[string]jdyn.Type{}}
}

func (l *lowerer) fail(err *errors.TranslationError) {
	if l.err == nil {
		l.err = err
	}
}

func (l *lowerer) unsupported(construct string, pos ast.Position) {
	l.fail(errors.Unsupported(construct, l.method, pos))
}

// cond lowers a host expression in a boolean position.
func (l *lowerer) cond(e ast.Expr) formula.Expr {
	switch n := e.(type) {
	case *ast.BoolLit:
		if n.Value {
			return formula.True()
		}
		return formula.False()

	case *ast.Unary:
		if n.Op == "!" {
			return formula.Not(l.cond(n.X))
		}

	case *ast.Binary:
		switch n.Op {
		case "&&":
			return formula.Bin("and", l.cond(n.X), l.cond(n.Y))
		case "||":
			return formula.Bin("or", l.cond(n.X), l.cond(n.Y))
		case "==>":
			return formula.Bin("implies", l.cond(n.X), l.cond(n.Y))
		case "<==>":
			return formula.Bin("iff", l.cond(n.X), l.cond(n.Y))
		case "==":
			x, _ := l.term(n.X)
			y, _ := l.term(n.Y)
			return formula.Eq(x, y)
		case "!=", "<", "<=", ">", ">=":
			x, _ := l.term(n.X)
			y, _ := l.term(n.Y)
			return formula.Bin(n.Op, x, y)
		}

	case *ast.Old:
		return &formula.Old{X: l.cond(n.Expr)}

	case *ast.Quantified:
		return l.quantified(n)
	}

	t, typ := l.term(e)
	if typ.Kind != jdyn.KindBool {
		l.unsupported("non-boolean condition '"+e.String()+"'", e.NodePos())
	}
	return formula.Eq(t, formula.Id(trueAtom))
}

func (l *lowerer) quantified(q *ast.Quantified) formula.Expr {
	typ, ok := l.table.resolve(q.Type)
	if !ok {
		l.unsupported("array quantifier", q.Pos)
	}

	saved, had := l.vars[q.Var]
	l.vars[q.Var] = typ
	defer func() {
		if had {
			l.vars[q.Var] = saved
		} else {
			delete(l.vars, q.Var)
		}
	}()

	body := l.cond(q.Body)
	out := &formula.Quant{Vars: []string{q.Var}, Domain: formula.Id(domain(typ))}
	if q.Forall {
		out.Kind = "all"
		if q.Range != nil {
			body = formula.Bin("implies", l.cond(q.Range), body)
		}
	} else {
		out.Kind = "some"
		if q.Range != nil {
			body = formula.Bin("and", l.cond(q.Range), body)
		}
	}
	out.Body = body
	return out
}

// term lowers a host expression in a value position and returns its type.
func (l *lowerer) term(e ast.Expr) (formula.Expr, jdyn.Type) {
	switch n := e.(type) {
	case *ast.IntLit:
		return formula.Num(n.Value), jdyn.Int

	case *ast.BoolLit:
		if n.Value {
			return formula.Id(trueAtom), jdyn.Bool
		}
		return formula.Id(falseAtom), jdyn.Bool

	case *ast.NullLit:
		return formula.Id(nullAtom), jdyn.Ref(nullAtom)

	case *ast.This:
		return formula.Id(thisVar), jdyn.Ref(l.self.id)

	case *ast.Result:
		if l.returns == nil {
			l.fail(errors.UnknownIdentifier(`\result`, l.method, n.Pos))
			return formula.Id(resultVar), jdyn.Int
		}
		return formula.Id(resultVar), *l.returns

	case *ast.Ident:
		return l.ident(n)

	case *ast.FieldAccess:
		obj, typ := l.term(n.X)
		return l.field(obj, typ, n.Field, n.Pos)

	case *ast.Old:
		inner, typ := l.term(n.Expr)
		return &formula.Old{X: inner}, typ

	case *ast.Unary:
		if n.Op == "-" {
			x, _ := l.term(n.X)
			return &formula.Unary{Op: "-", X: x}, jdyn.Int
		}
		return l.boolTerm(e), jdyn.Bool

	case *ast.Binary:
		if formula.IsArithmetic(n.Op) {
			x, _ := l.term(n.X)
			y, _ := l.term(n.Y)
			return formula.Bin(n.Op, x, y), jdyn.Int
		}
		return l.boolTerm(e), jdyn.Bool

	case *ast.Quantified:
		return l.boolTerm(e), jdyn.Bool

	case *ast.StringLit:
		l.unsupported("string literal", n.Pos)
	case *ast.Index:
		l.unsupported("array access", n.Pos)
	case *ast.New:
		l.unsupported("object creation", n.Pos)
	case *ast.Call:
		l.unsupported("method call '"+n.Name+"'", n.Pos)
	default:
		l.unsupported("expression '"+e.String()+"'", e.NodePos())
	}
	return formula.Id(nullAtom), jdyn.Ref(nullAtom)
}

// boolTerm turns a condition into a boolean value.
func (l *lowerer) boolTerm(e ast.Expr) formula.Expr {
	return &formula.Ite{Cond: l.cond(e), Then: formula.Id(trueAtom), Else: formula.Id(falseAtom)}
}

func (l *lowerer) ident(n *ast.Ident) (formula.Expr, jdyn.Type) {
	if typ, ok := l.vars[n.Name]; ok {
		return formula.Id(n.Name), typ
	}
	if _, ok := l.self.fields[n.Name]; ok {
		return l.field(formula.Id(thisVar), jdyn.Ref(l.self.id), n.Name, n.Pos)
	}
	l.fail(errors.UnknownIdentifier(n.Name, l.method, n.Pos))
	return formula.Id(n.Name), jdyn.Int
}

// field joins obj with the relation of the named field of its class.
func (l *lowerer) field(obj formula.Expr, typ jdyn.Type, name string, pos ast.Position) (formula.Expr, jdyn.Type) {
	if typ.Kind == jdyn.KindRef {
		if info := l.table.lookup(typ.Class); info != nil {
			if f, ok := info.fields[name]; ok {
				return formula.Dot(obj, formula.Id(f.Name)), f.Type
			}
		}
	}
	l.fail(errors.UnknownIdentifier(name, l.method, pos))
	return formula.Dot(obj, formula.Id(name)), jdyn.Int
}
