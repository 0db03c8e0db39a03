// Package alpha gives every local variable of a method body a process-wide
// unique name so that nested scopes never collide once contract clauses and
// bodies are flattened into relational formulas.
package alpha

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/tliron/commonlog"
	"golang.org/x/exp/maps"

	"taco/internal/ast"
)

var log = commonlog.GetLogger("taco.alpha")

// counter is shared by every Renamer of the process and never reset, so two
// renamings of the same body never produce the same unique name.
var counter atomic.Int64

// Scope maps original variable names to the unique names visible in a block.
type Scope map[string]string

// Clone returns a private copy of the scope for a nested block.
func (s Scope) Clone() Scope {
	if s == nil {
		return Scope{}
	}
	return maps.Clone(s)
}

// Declaration is a hoisted local variable.
type Declaration struct {
	Original string
	Unique   string
	Type     *ast.TypeRef
	Pos      ast.Position
}

// Result is a renamed method body and the declarations dropped from it.
type Result struct {
	Body *ast.Block
	// Params maps parameter names to the names they are emitted as.
	Params       Scope
	Declarations []Declaration
}

// Renamer rewrites blocks. It only accumulates the hoisted declarations; the
// name mapping is passed by value through the recursion.
type Renamer struct {
	decls []Declaration
}

func NewRenamer() *Renamer {
	return &Renamer{}
}

// Fresh returns a new unique name for original.
func Fresh(original string) string {
	return fmt.Sprintf("var_%d_%s", counter.Add(1), strings.ReplaceAll(original, "$", "_"))
}

// reserved holds the words of the module text and of the relational language
// that a host name cannot be emitted as.
var reserved = map[string]bool{
	"abstract": true, "all": true, "and": true, "as": true, "assert": true,
	"but": true, "check": true, "disj": true, "else": true, "exactly": true,
	"extends": true, "fact": true, "for": true, "fun": true, "iden": true,
	"iff": true, "implies": true, "in": true, "Int": true, "let": true,
	"lone": true, "module": true, "no": true, "none": true, "not": true,
	"one": true, "open": true, "or": true, "pred": true, "run": true,
	"seq": true, "set": true, "sig": true, "some": true, "sum": true,
	"univ": true, "enum": true, "private": true, "this": true, "String": true,

	"arithpred": true, "arithvar": true, "assume": true, "body": true,
	"class": true, "decreases": true, "ensures": true, "field": true,
	"if": true, "invariant": true, "program": true, "requires": true,
	"return": true, "returns": true, "throw": true, "var": true, "while": true,

	"thiz": true, "QF": true, "true": true, "false": true, "null": true,
	"boolean": true, "Bool": true,
}

// generated are the prefixes of names introduced during translation.
var generated = []string{"var_", "arith_", "t_", "sk_"}

// Binding returns the name a parameter or quantified variable is emitted
// as: the original when it can stand in the relational output, a fresh name
// otherwise.
func Binding(original string) string {
	if reserved[original] || strings.ContainsRune(original, '$') {
		return Fresh(original)
	}
	for _, prefix := range generated {
		if strings.HasPrefix(original, prefix) {
			return Fresh(original)
		}
	}
	return original
}

// RenameMethod renames a method body. Parameters are bound through Binding.
func RenameMethod(m *ast.Method) *Result {
	scope := Scope{}
	for _, p := range m.Params {
		scope[p.Name] = Binding(p.Name)
	}

	r := NewRenamer()
	body := m.Body
	if body == nil {
		body = &ast.Block{Pos: m.Pos}
	}
	renamed := r.RenameBlock(body, scope)
	log.Debugf("renamed %s: %d locals hoisted", m.Signature(), len(r.decls))

	return &Result{Body: renamed, Params: scope, Declarations: r.Declarations()}
}

// Declarations returns the declarations hoisted so far, in source order.
func (r *Renamer) Declarations() []Declaration {
	return append([]Declaration(nil), r.decls...)
}

// RenameBlock returns a renamed copy of b. inherited is never modified.
func (r *Renamer) RenameBlock(b *ast.Block, inherited Scope) *ast.Block {
	scope := inherited.Clone()
	out := &ast.Block{Pos: b.Pos}
	for _, s := range b.Stmts {
		out.Stmts = append(out.Stmts, r.renameStmt(s, scope)...)
	}
	return out
}

// renameStmt may bind names in scope; declarations yield zero or one statement.
func (r *Renamer) renameStmt(s ast.Stmt, scope Scope) []ast.Stmt {
	switch s := s.(type) {
	case *ast.VarDecl:
		var init ast.Expr
		if s.Init != nil {
			init = RenameExpr(s.Init, scope)
		}
		unique := Fresh(s.Name)
		scope[s.Name] = unique
		r.decls = append(r.decls, Declaration{Original: s.Name, Unique: unique, Type: s.Type, Pos: s.Pos})
		if init == nil {
			return nil
		}
		return []ast.Stmt{&ast.Assign{Pos: s.Pos, Target: &ast.Ident{Pos: s.Pos, Name: unique}, Value: init}}

	case *ast.Assign:
		return []ast.Stmt{&ast.Assign{Pos: s.Pos, Target: RenameExpr(s.Target, scope), Value: RenameExpr(s.Value, scope)}}

	case *ast.Block:
		return []ast.Stmt{r.RenameBlock(s, scope)}

	case *ast.If:
		out := &ast.If{Pos: s.Pos, Cond: RenameExpr(s.Cond, scope), Then: r.RenameBlock(s.Then, scope)}
		if s.Else != nil {
			out.Else = r.RenameBlock(s.Else, scope)
		}
		return []ast.Stmt{out}

	case *ast.While:
		out := &ast.While{Pos: s.Pos, Cond: RenameExpr(s.Cond, scope)}
		for _, inv := range s.Invariants {
			out.Invariants = append(out.Invariants, renameClause(inv, scope))
		}
		if s.Variant != nil {
			out.Variant = renameClause(s.Variant, scope)
		}
		out.Body = r.RenameBlock(s.Body, scope)
		return []ast.Stmt{out}

	case *ast.Return:
		out := &ast.Return{Pos: s.Pos}
		if s.Value != nil {
			out.Value = RenameExpr(s.Value, scope)
		}
		return []ast.Stmt{out}

	case *ast.Throw:
		return []ast.Stmt{&ast.Throw{Pos: s.Pos, Exception: RenameExpr(s.Exception, scope)}}

	case *ast.Assert:
		return []ast.Stmt{&ast.Assert{Pos: s.Pos, Cond: RenameExpr(s.Cond, scope)}}

	case *ast.Assume:
		return []ast.Stmt{&ast.Assume{Pos: s.Pos, Cond: RenameExpr(s.Cond, scope)}}

	case *ast.ExprStmt:
		return []ast.Stmt{&ast.ExprStmt{Pos: s.Pos, Expr: RenameExpr(s.Expr, scope)}}
	}
	return []ast.Stmt{s}
}

func renameClause(c *ast.Clause, scope Scope) *ast.Clause {
	return &ast.Clause{Pos: c.Pos, Kind: c.Kind, Expr: RenameExpr(c.Expr, scope)}
}

// RenameExpr rewrites variable references of e to the names visible in scope.
// Quantified variables shadow outer bindings inside their body.
func RenameExpr(e ast.Expr, scope Scope) ast.Expr {
	switch e := e.(type) {
	case *ast.Ident:
		if unique, ok := scope[e.Name]; ok {
			return &ast.Ident{Pos: e.Pos, Name: unique}
		}
		return e
	case *ast.Old:
		return &ast.Old{Pos: e.Pos, Expr: RenameExpr(e.Expr, scope)}
	case *ast.FieldAccess:
		return &ast.FieldAccess{Pos: e.Pos, X: RenameExpr(e.X, scope), Field: e.Field}
	case *ast.Call:
		out := &ast.Call{Pos: e.Pos, Name: e.Name, Args: renameExprs(e.Args, scope)}
		if e.Recv != nil {
			out.Recv = RenameExpr(e.Recv, scope)
		}
		return out
	case *ast.Index:
		return &ast.Index{Pos: e.Pos, X: RenameExpr(e.X, scope), Index: RenameExpr(e.Index, scope)}
	case *ast.New:
		return &ast.New{Pos: e.Pos, Type: e.Type, Args: renameExprs(e.Args, scope)}
	case *ast.Unary:
		return &ast.Unary{Pos: e.Pos, Op: e.Op, X: RenameExpr(e.X, scope)}
	case *ast.Binary:
		return &ast.Binary{Pos: e.Pos, Op: e.Op, X: RenameExpr(e.X, scope), Y: RenameExpr(e.Y, scope)}
	case *ast.Quantified:
		inner := scope.Clone()
		v := Binding(e.Var)
		inner[e.Var] = v
		out := &ast.Quantified{Pos: e.Pos, Forall: e.Forall, Var: v, Type: e.Type, Body: RenameExpr(e.Body, inner)}
		if e.Range != nil {
			out.Range = RenameExpr(e.Range, inner)
		}
		return out
	}
	return e
}

func renameExprs(es []ast.Expr, scope Scope) []ast.Expr {
	out := make([]ast.Expr, len(es))
	for i, e := range es {
		out[i] = RenameExpr(e, scope)
	}
	return out
}
