package ast

import (
	"fmt"
	"strings"
)

func (c *Class) String() string {
	var b strings.Builder

	if c.Package != "" {
		b.WriteString(fmt.Sprintf("package %s;\n\n", c.Package))
	}
	for _, a := range c.Annotations {
		b.WriteString(a.String() + "\n")
	}
	b.WriteString("class " + c.Name)
	if c.Superclass != "" {
		b.WriteString(" extends " + c.Superclass)
	}
	b.WriteString(" {\n")
	for _, f := range c.Fields {
		b.WriteString("  " + f.String() + "\n")
	}
	for _, inv := range c.Invariants {
		b.WriteString("  " + inv.String() + "\n")
	}
	for _, m := range c.Methods {
		b.WriteString("  " + strings.ReplaceAll(m.String(), "\n", "\n  ") + "\n")
	}
	b.WriteString("}")

	return b.String()
}

func (f *Field) String() string {
	return fmt.Sprintf("%s %s;", f.Type, f.Name)
}

func (t *TypeRef) String() string {
	if t == nil {
		return "void"
	}
	if t.Array {
		return t.Name + "[]"
	}
	return t.Name
}

func (m *Method) String() string {
	var b strings.Builder

	for _, a := range m.Annotations {
		b.WriteString(a.String() + "\n")
	}
	for _, c := range m.Clauses {
		b.WriteString(c.String() + "\n")
	}

	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	b.WriteString(fmt.Sprintf("%s %s(%s)", m.Return, m.Name, strings.Join(params, ", ")))
	if len(m.Throws) > 0 {
		b.WriteString(" throws " + strings.Join(m.Throws, ", "))
	}
	b.WriteString(" ")
	if m.Body != nil {
		b.WriteString(m.Body.String())
	} else {
		b.WriteString("{}")
	}

	return b.String()
}

func (p *Param) String() string {
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

func (c *Clause) String() string {
	return fmt.Sprintf("%s %s;", c.Kind, c.Expr)
}

func (a *Annotation) String() string {
	return fmt.Sprintf("@%s(%q)", a.Kind, a.Text)
}

func (b *Block) String() string {
	if len(b.Stmts) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString("  " + strings.ReplaceAll(s.String(), "\n", "\n  ") + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

func (v *VarDecl) String() string {
	if v.Init == nil {
		return fmt.Sprintf("%s %s;", v.Type, v.Name)
	}
	return fmt.Sprintf("%s %s = %s;", v.Type, v.Name, v.Init)
}

func (a *Assign) String() string {
	return fmt.Sprintf("%s = %s;", a.Target, a.Value)
}

func (i *If) String() string {
	s := fmt.Sprintf("if (%s) %s", i.Cond, i.Then)
	if i.Else != nil {
		s += " else " + i.Else.String()
	}
	return s
}

func (w *While) String() string {
	var b strings.Builder
	for _, inv := range w.Invariants {
		b.WriteString(inv.String() + "\n")
	}
	if w.Variant != nil {
		b.WriteString(w.Variant.String() + "\n")
	}
	b.WriteString(fmt.Sprintf("while (%s) %s", w.Cond, w.Body))
	return b.String()
}

func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", r.Value)
}

func (t *Throw) String() string {
	return fmt.Sprintf("throw %s;", t.Exception)
}

func (a *Assert) String() string {
	return fmt.Sprintf("assert %s;", a.Cond)
}

func (a *Assume) String() string {
	return fmt.Sprintf("assume %s;", a.Cond)
}

func (e *ExprStmt) String() string {
	return e.Expr.String() + ";"
}

func (i *Ident) String() string { return i.Name }

func (l *IntLit) String() string { return fmt.Sprintf("%d", l.Value) }

func (l *BoolLit) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

func (l *StringLit) String() string { return fmt.Sprintf("%q", l.Value) }

func (*NullLit) String() string { return "null" }

func (*This) String() string { return "this" }

func (*Result) String() string { return `\result` }

func (o *Old) String() string { return fmt.Sprintf(`\old(%s)`, o.Expr) }

func (f *FieldAccess) String() string { return fmt.Sprintf("%s.%s", f.X, f.Field) }

func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	if c.Recv != nil {
		return fmt.Sprintf("%s.%s(%s)", c.Recv, c.Name, strings.Join(args, ", "))
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(args, ", "))
}

func (i *Index) String() string { return fmt.Sprintf("%s[%s]", i.X, i.Index) }

func (n *New) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("new %s(%s)", n.Type, strings.Join(args, ", "))
}

func (u *Unary) String() string { return fmt.Sprintf("%s%s", u.Op, u.X) }

func (b *Binary) String() string { return fmt.Sprintf("(%s %s %s)", b.X, b.Op, b.Y) }

func (q *Quantified) String() string {
	kw := `\exists`
	if q.Forall {
		kw = `\forall`
	}
	if q.Range == nil {
		return fmt.Sprintf("(%s %s %s; %s)", kw, q.Type, q.Var, q.Body)
	}
	return fmt.Sprintf("(%s %s %s; %s; %s)", kw, q.Type, q.Var, q.Range, q.Body)
}
