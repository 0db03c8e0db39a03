package formula

import (
	"github.com/alecthomas/participle/v2"
)

// Options are the participle options every grammar embedding ExprNode uses.
func Options() []participle.Option {
	return []participle.Option{
		participle.Lexer(Lexer),
		participle.Elide("Whitespace", "Comment"),
		participle.UseLookahead(1024),
	}
}

var exprParser = participle.MustBuild[ExprNode](Options()...)

// Parse parses a single formula.
func Parse(source string) (Expr, error) {
	node, err := exprParser.ParseString("", source)
	if err != nil {
		return nil, err
	}
	return node.Convert(), nil
}

// MustParse is Parse for trusted input; it panics on error.
func MustParse(source string) Expr {
	e, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return e
}

// Convert builds the formula tree of a parsed node.
func (n *ExprNode) Convert() Expr {
	return n.Iff.convert()
}

func (n *IffNode) convert() Expr {
	left := n.Left.convert()
	if n.Right == nil {
		return left
	}
	return Bin("iff", left, n.Right.convert())
}

func (n *ImpliesNode) convert() Expr {
	left := n.Left.convert()
	if n.Then == nil {
		return left
	}
	if n.Else != nil {
		return &Ite{Cond: left, Then: n.Then.convert(), Else: n.Else.convert()}
	}
	return Bin("implies", left, n.Then.convert())
}

func (n *OrNode) convert() Expr {
	out := n.Left.convert()
	for _, r := range n.Right {
		out = Bin("or", out, r.convert())
	}
	return out
}

func (n *AndNode) convert() Expr {
	out := n.Left.convert()
	for _, r := range n.Right {
		out = Bin("and", out, r.convert())
	}
	return out
}

func (n *NegNode) convert() Expr {
	switch {
	case n.Not != nil:
		return Not(n.Not.convert())
	case n.Quant != nil:
		return &Quant{
			Kind:   n.Quant.Kind,
			Vars:   n.Quant.Vars,
			Domain: n.Quant.Domain.convert(),
			Body:   n.Quant.Body.Convert(),
		}
	default:
		return n.Cmp.convert()
	}
}

func (n *CmpNode) convert() Expr {
	left := n.Left.convert()
	if n.Mult != "" {
		left = &Unary{Op: n.Mult, X: left}
	}
	if n.Op == "" {
		return left
	}
	return Bin(n.Op, left, n.Right.convert())
}

func (n *SumNode) convert() Expr {
	out := n.Left.convert()
	for _, r := range n.Right {
		out = Bin(r.Op, out, r.Right.convert())
	}
	return out
}

func (n *ProdNode) convert() Expr {
	out := n.Left.convert()
	for _, r := range n.Right {
		out = Bin(r.Op, out, r.Right.convert())
	}
	return out
}

func (n *UnaryNode) convert() Expr {
	if n.Join != nil {
		return n.Join.convert()
	}
	operand := n.Operand.convert()
	if lit, ok := operand.(*Int); ok && n.Op == "-" {
		return Num(-lit.Value)
	}
	return &Unary{Op: n.Op, X: operand}
}

func (n *JoinNode) convert() Expr {
	out := n.Head.convert()
	for _, t := range n.Tail {
		out = Dot(out, t.convert())
	}
	return out
}

func (n *PrimaryNode) convert() Expr {
	switch {
	case n.Paren != nil:
		return n.Paren.Convert()
	case n.Old != nil:
		return &Old{X: n.Old.Convert()}
	case n.Int != nil:
		return Num(*n.Int)
	default:
		return n.Call.convert()
	}
}

func (n *CallNode) convert() Expr {
	if n.Args == nil {
		return Id(n.Name)
	}
	args := make([]Expr, len(n.Args.List))
	for i, a := range n.Args.List {
		args[i] = a.Convert()
	}
	return Apply(n.Name, args...)
}
