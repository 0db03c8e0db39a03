package relational

import (
	"fmt"

	"taco/internal/ast"
	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
	"taco/internal/library"
)

func (l *lowerer) block(stmts []jdyn.Stmt) []dyn.Stmt {
	var out []dyn.Stmt
	for _, s := range stmts {
		out = append(out, l.stmt(s)...)
	}
	return out
}

func (l *lowerer) stmt(s jdyn.Stmt) []dyn.Stmt {
	var out []dyn.Stmt
	switch s := s.(type) {
	case *jdyn.Assign:
		value := l.expr(s.Value, &out)
		switch t := s.Target.(type) {
		case *formula.Ident:
			out = append(out, &dyn.Assign{Target: t.Name, Value: value})
		case *formula.Join:
			field, ok := t.Right.(*formula.Ident)
			if !ok {
				l.fail(errors.Unsupported("assignment to '"+t.String()+"'", l.owner, ast.Position{}))
				return nil
			}
			object := l.expr(t.Left, &out)
			out = append(out, &dyn.Update{Field: field.Name, Object: object, Value: value})
		default:
			l.fail(errors.Unsupported("assignment to '"+s.Target.String()+"'", l.owner, ast.Position{}))
		}
	case *jdyn.If:
		cond := l.expr(s.Cond, &out)
		out = append(out, &dyn.Branch{Cond: cond, Then: l.block(s.Then), Else: l.block(s.Else)})
	case *jdyn.While:
		loop := &dyn.Loop{}
		loop.Cond = l.expr(s.Cond, &loop.Prelude)
		loop.Body = l.block(s.Body)
		if s.Invariant != nil {
			l.checkLiterals(s.Invariant)
			loop.Invariant = inline(s.Invariant)
		}
		if s.Variant != nil {
			l.checkLiterals(s.Variant)
			loop.Variant = inline(s.Variant)
		}
		out = append(out, loop)
	case *jdyn.Assert:
		cond := l.expr(s.Cond, &out)
		out = append(out, &dyn.Assert{Cond: cond})
	case *jdyn.Assume:
		cond := l.expr(s.Cond, &out)
		out = append(out, &dyn.Assume{Cond: cond})
	case *jdyn.Return:
		var value formula.Expr
		if s.Value != nil {
			value = l.expr(s.Value, &out)
		}
		out = append(out, &dyn.Return{Value: value})
	case *jdyn.Throw:
		out = append(out, &dyn.Throw{Exception: s.Exception})
	}
	return out
}

// expr flattens the arithmetic of a body expression into temporaries whose
// defining statements are appended to out, innermost first.
func (l *lowerer) expr(e formula.Expr, out *[]dyn.Stmt) formula.Expr {
	l.checkLiterals(e)
	return l.flatten(e, out)
}

func (l *lowerer) flatten(e formula.Expr, out *[]dyn.Stmt) formula.Expr {
	if op, a, b, ok := operation(e); ok {
		a = l.flatten(a, out)
		b = l.flatten(b, out)
		t := l.temp()
		if l.java {
			pred, _ := library.ArithmeticPredicate(op)
			*out = append(*out, &dyn.Compute{Target: t, Pred: pred, Args: []formula.Expr{a, b}})
		} else {
			fn, _ := library.ArithmeticFunction(op)
			*out = append(*out, &dyn.Assign{Target: t, Value: formula.Apply(fn, a, b)})
		}
		return formula.Id(t)
	}

	switch n := e.(type) {
	case *formula.Binary:
		return formula.Bin(n.Op, l.flatten(n.X, out), l.flatten(n.Y, out))
	case *formula.Unary:
		return &formula.Unary{Op: n.Op, X: l.flatten(n.X, out)}
	case *formula.Join:
		return formula.Dot(l.flatten(n.Left, out), l.flatten(n.Right, out))
	case *formula.Call:
		args := make([]formula.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = l.flatten(a, out)
		}
		return formula.Apply(n.Name, args...)
	case *formula.Ite:
		return &formula.Ite{
			Cond: l.flatten(n.Cond, out),
			Then: l.flatten(n.Then, out),
			Else: l.flatten(n.Else, out),
		}
	case *formula.Quant:
		return inline(n)
	}
	return e
}

func (l *lowerer) temp() string {
	name := fmt.Sprintf("%s%d", TempPrefix, l.temps)
	l.temps++
	l.program.Locals = append(l.program.Locals, jdyn.Var{Name: name, Type: jdyn.Int})
	return name
}

func (l *lowerer) fail(err *errors.TranslationError) {
	if l.err == nil {
		l.err = err
	}
}
