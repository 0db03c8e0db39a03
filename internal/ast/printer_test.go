package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassString(t *testing.T) {
	class := &Class{
		Name: "Counter",
		Fields: []*Field{
			{Name: "count", Type: &TypeRef{Name: "int"}},
		},
		Invariants: []*Clause{
			{Kind: ObjectInvariant, Expr: &Binary{Op: ">=", X: &Ident{Name: "count"}, Y: &IntLit{Value: 0}}},
		},
		Methods: []*Method{
			{Name: "reset", Body: &Block{}},
		},
	}

	expected := "class Counter {\n  int count;\n  invariant (count >= 0);\n  void reset() {}\n}"
	assert.Equal(t, expected, class.String())
}

func TestMethodStringWithContract(t *testing.T) {
	m := &Method{
		Name:   "inc",
		Params: []*Param{{Name: "by", Type: &TypeRef{Name: "int"}}},
		Return: &TypeRef{Name: "int"},
		Clauses: []*Clause{
			{Kind: Precondition, Expr: &Binary{Op: ">", X: &Ident{Name: "by"}, Y: &IntLit{Value: 0}}},
			{Kind: Postcondition, Expr: &Binary{Op: "==", X: &Result{}, Y: &Old{Expr: &Ident{Name: "count"}}}},
		},
		Body: &Block{Stmts: []Stmt{
			&Return{Value: &Ident{Name: "count"}},
		}},
	}

	expected := "requires (by > 0);\nensures (\\result == \\old(count));\nint inc(int by) {\n  return count;\n}"
	assert.Equal(t, expected, m.String())
	assert.Equal(t, "inc(int)", m.Signature())
}

func TestWhileStringCarriesLoopClauses(t *testing.T) {
	w := &While{
		Cond:       &Binary{Op: "<", X: &Ident{Name: "i"}, Y: &Ident{Name: "n"}},
		Invariants: []*Clause{{Kind: LoopInvariant, Expr: &Binary{Op: "<=", X: &Ident{Name: "i"}, Y: &Ident{Name: "n"}}}},
		Variant:    &Clause{Kind: LoopVariant, Expr: &Binary{Op: "-", X: &Ident{Name: "n"}, Y: &Ident{Name: "i"}}},
		Body:       &Block{},
	}

	assert.Equal(t, "loop_invariant (i <= n);\ndecreases (n - i);\nwhile ((i < n)) {}", w.String())
}

func TestQualifiedNameAndLookup(t *testing.T) {
	class := &Class{
		Package: "java.util",
		Name:    "List",
		Fields:  []*Field{{Name: "size", Type: &TypeRef{Name: "int"}}},
		Methods: []*Method{{Name: "add"}, {Name: "add"}},
	}

	assert.Equal(t, "java.util.List", class.QualifiedName())
	assert.NotNil(t, class.Field("size"))
	assert.Nil(t, class.Field("head"))
	assert.Same(t, class.Methods[0], class.Method("add"))
	assert.Equal(t, "Node", (&TypeRef{Name: "a.b.Node"}).Simple())
	assert.True(t, IsArithmetic("%"))
	assert.False(t, IsArithmetic("=="))
}
