package formula

import (
	"fmt"
	"strings"
)

// The printer fully parenthesizes compound nodes so that Parse(e.String())
// rebuilds the same tree.

func (i *Ident) String() string { return i.Name }

func (n *Int) String() string { return fmt.Sprintf("%d", n.Value) }

func (j *Join) String() string { return j.Left.String() + "." + j.Right.String() }

func (c *Call) String() string {
	return c.Name + "[" + joinExprs(c.Args, ",") + "]"
}

func (u *Unary) String() string {
	switch u.Op {
	case "not", "some", "no", "one", "lone":
		return "(" + u.Op + " " + u.X.String() + ")"
	default:
		return "(" + u.Op + u.X.String() + ")"
	}
}

func (b *Binary) String() string {
	return "(" + b.X.String() + " " + b.Op + " " + b.Y.String() + ")"
}

func (q *Quant) String() string {
	return fmt.Sprintf("(%s %s: %s | %s)", q.Kind, strings.Join(q.Vars, ", "), q.Domain, q.Body)
}

func (o *Old) String() string { return `\old(` + o.X.String() + ")" }

func (i *Ite) String() string {
	return fmt.Sprintf("(%s implies %s else %s)", i.Cond, i.Then, i.Else)
}

func joinExprs(es []Expr, sep string) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.String()
	}
	return strings.Join(parts, sep)
}
