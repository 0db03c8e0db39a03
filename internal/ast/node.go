package ast

// Position tracks location information for error reporting and tooling
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

type Node interface {
	NodePos() Position
	String() string
}

type Stmt interface {
	Node
	isStmt()
}

type Expr interface {
	Node
	isExpr()
}

func (c *Class) NodePos() Position      { return c.Pos }
func (f *Field) NodePos() Position      { return f.Pos }
func (m *Method) NodePos() Position     { return m.Pos }
func (p *Param) NodePos() Position      { return p.Pos }
func (c *Clause) NodePos() Position     { return c.Pos }
func (a *Annotation) NodePos() Position { return a.Pos }

func (b *Block) NodePos() Position       { return b.Pos }
func (v *VarDecl) NodePos() Position     { return v.Pos }
func (a *Assign) NodePos() Position      { return a.Pos }
func (i *If) NodePos() Position          { return i.Pos }
func (w *While) NodePos() Position       { return w.Pos }
func (r *Return) NodePos() Position      { return r.Pos }
func (t *Throw) NodePos() Position       { return t.Pos }
func (a *Assert) NodePos() Position      { return a.Pos }
func (a *Assume) NodePos() Position      { return a.Pos }
func (e *ExprStmt) NodePos() Position    { return e.Pos }
func (i *Ident) NodePos() Position       { return i.Pos }
func (l *IntLit) NodePos() Position      { return l.Pos }
func (l *BoolLit) NodePos() Position     { return l.Pos }
func (l *StringLit) NodePos() Position   { return l.Pos }
func (n *NullLit) NodePos() Position     { return n.Pos }
func (t *This) NodePos() Position        { return t.Pos }
func (r *Result) NodePos() Position      { return r.Pos }
func (o *Old) NodePos() Position         { return o.Pos }
func (f *FieldAccess) NodePos() Position { return f.Pos }
func (c *Call) NodePos() Position        { return c.Pos }
func (i *Index) NodePos() Position       { return i.Pos }
func (n *New) NodePos() Position         { return n.Pos }
func (u *Unary) NodePos() Position       { return u.Pos }
func (b *Binary) NodePos() Position      { return b.Pos }
func (q *Quantified) NodePos() Position  { return q.Pos }

func (*Block) isStmt()    {}
func (*VarDecl) isStmt()  {}
func (*Assign) isStmt()   {}
func (*If) isStmt()       {}
func (*While) isStmt()    {}
func (*Return) isStmt()   {}
func (*Throw) isStmt()    {}
func (*Assert) isStmt()   {}
func (*Assume) isStmt()   {}
func (*ExprStmt) isStmt() {}

func (*Ident) isExpr()       {}
func (*IntLit) isExpr()      {}
func (*BoolLit) isExpr()     {}
func (*StringLit) isExpr()   {}
func (*NullLit) isExpr()     {}
func (*This) isExpr()        {}
func (*Result) isExpr()      {}
func (*Old) isExpr()         {}
func (*FieldAccess) isExpr() {}
func (*Call) isExpr()        {}
func (*Index) isExpr()       {}
func (*New) isExpr()         {}
func (*Unary) isExpr()       {}
func (*Binary) isExpr()      {}
func (*Quantified) isExpr()  {}
