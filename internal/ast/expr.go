package ast

type Ident struct {
	Pos  Position
	Name string
}

type IntLit struct {
	Pos   Position
	Value int64
}

type BoolLit struct {
	Pos   Position
	Value bool
}

type StringLit struct {
	Pos   Position
	Value string
}

type NullLit struct {
	Pos Position
}

type This struct {
	Pos Position
}

// Result is the JML "\result" keyword.
type Result struct {
	Pos Position
}

// Old is the JML "\old(e)" pre-state expression.
type Old struct {
	Pos  Position
	Expr Expr
}

// FieldAccess is "X.Field".
type FieldAccess struct {
	Pos   Position
	X     Expr
	Field string
}

// Call is "name(args)" or "Recv.name(args)".
type Call struct {
	Pos  Position
	Recv Expr
	Name string
	Args []Expr
}

type Index struct {
	Pos   Position
	X     Expr
	Index Expr
}

type New struct {
	Pos  Position
	Type string
	Args []Expr
}

// Unary operators: "!" and "-".
type Unary struct {
	Pos Position
	Op  string
	X   Expr
}

// Binary operators use host spelling: "==>", "||", "&&", "==", "!=", "<",
// "<=", ">", ">=", "+", "-", "*", "/", "%".
type Binary struct {
	Pos Position
	Op  string
	X   Expr
	Y   Expr
}

// Quantified is "(\forall T v; range; body)" or the \exists form. Range may be nil.
type Quantified struct {
	Pos    Position
	Forall bool
	Var    string
	Type   *TypeRef
	Range  Expr
	Body   Expr
}

// IsArithmetic reports whether op is an integer arithmetic operator.
func IsArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}
