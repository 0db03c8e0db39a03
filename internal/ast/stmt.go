package ast

// Block is a lexical scope of statements.
type Block struct {
	Pos   Position
	Stmts []Stmt
}

// VarDecl declares a local variable, optionally with an initializer.
// Example: "int x = a + 1;"
type VarDecl struct {
	Pos  Position
	Name string
	Type *TypeRef
	Init Expr
}

// Assign writes Value into Target, an Ident or a FieldAccess.
type Assign struct {
	Pos    Position
	Target Expr
	Value  Expr
}

type If struct {
	Pos  Position
	Cond Expr
	Then *Block
	Else *Block
}

// While carries its loop invariants and optional variant.
type While struct {
	Pos        Position
	Cond       Expr
	Invariants []*Clause
	Variant    *Clause
	Body       *Block
}

type Return struct {
	Pos   Position
	Value Expr
}

// Throw raises Exception, normally a New expression.
type Throw struct {
	Pos       Position
	Exception Expr
}

type Assert struct {
	Pos  Position
	Cond Expr
}

type Assume struct {
	Pos  Position
	Cond Expr
}

type ExprStmt struct {
	Pos  Position
	Expr Expr
}
