package lowering

import (
	"taco/internal/ast"
	"taco/internal/formula"
	"taco/internal/jdyn"
)

// block lowers a renamed method body. Nested blocks are flattened since every
// local already carries a unique name.
func (l *lowerer) block(b *ast.Block) []jdyn.Stmt {
	if b == nil {
		return nil
	}
	var out []jdyn.Stmt
	for _, s := range b.Stmts {
		out = append(out, l.stmt(s)...)
	}
	return out
}

func (l *lowerer) stmt(s ast.Stmt) []jdyn.Stmt {
	switch n := s.(type) {
	case *ast.Block:
		return l.block(n)

	case *ast.Assign:
		target := l.target(n.Target)
		value, _ := l.term(n.Value)
		return []jdyn.Stmt{&jdyn.Assign{Target: target, Value: value}}

	case *ast.If:
		return []jdyn.Stmt{&jdyn.If{
			Cond: l.cond(n.Cond),
			Then: l.block(n.Then),
			Else: l.block(n.Else),
		}}

	case *ast.While:
		w := &jdyn.While{Cond: l.cond(n.Cond)}
		var invariants []formula.Expr
		for _, inv := range n.Invariants {
			invariants = append(invariants, l.cond(inv.Expr))
		}
		if len(invariants) > 0 {
			w.Invariant = formula.And(invariants...)
		}
		if n.Variant != nil {
			w.Variant, _ = l.term(n.Variant.Expr)
		}
		w.Body = l.block(n.Body)
		return []jdyn.Stmt{w}

	case *ast.Return:
		ret := &jdyn.Return{}
		if n.Value != nil {
			ret.Value, _ = l.term(n.Value)
		}
		return []jdyn.Stmt{ret}

	case *ast.Throw:
		created, ok := n.Exception.(*ast.New)
		if !ok {
			l.unsupported("throw of '"+n.Exception.String()+"'", n.Pos)
			return nil
		}
		return []jdyn.Stmt{&jdyn.Throw{Exception: l.table.exceptionLiteral(created.Type)}}

	case *ast.Assert:
		return []jdyn.Stmt{&jdyn.Assert{Cond: l.cond(n.Cond)}}

	case *ast.Assume:
		return []jdyn.Stmt{&jdyn.Assume{Cond: l.cond(n.Cond)}}

	case *ast.ExprStmt:
		if call, ok := n.Expr.(*ast.Call); ok {
			l.unsupported("method call '"+call.Name+"'", n.Pos)
		} else {
			l.unsupported("expression statement", n.Pos)
		}
		return nil

	case *ast.VarDecl:
		// declarations are hoisted by the renamer
		return nil
	}

	l.unsupported("statement '"+s.String()+"'", s.NodePos())
	return nil
}

// target lowers the left-hand side of an assignment.
func (l *lowerer) target(e ast.Expr) formula.Expr {
	switch n := e.(type) {
	case *ast.Ident, *ast.FieldAccess:
		t, _ := l.term(n)
		return t
	}
	l.unsupported("assignment to '"+e.String()+"'", e.NodePos())
	return formula.Id(nullAtom)
}
