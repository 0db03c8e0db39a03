package formula

import "golang.org/x/exp/slices"

// Rewrite rebuilds e bottom-up, replacing every node by fn(node). The input
// tree is never modified. bound holds the quantifier-bound names in scope at
// the visited node.
func Rewrite(e Expr, fn func(e Expr, bound []string) Expr) Expr {
	return rewrite(e, nil, fn)
}

func rewrite(e Expr, bound []string, fn func(Expr, []string) Expr) Expr {
	var out Expr
	switch n := e.(type) {
	case *Ident, *Int:
		out = n
	case *Join:
		out = &Join{Left: rewrite(n.Left, bound, fn), Right: rewrite(n.Right, bound, fn)}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = rewrite(a, bound, fn)
		}
		out = &Call{Name: n.Name, Args: args}
	case *Unary:
		out = &Unary{Op: n.Op, X: rewrite(n.X, bound, fn)}
	case *Binary:
		out = &Binary{Op: n.Op, X: rewrite(n.X, bound, fn), Y: rewrite(n.Y, bound, fn)}
	case *Quant:
		inner := append(slices.Clone(bound), n.Vars...)
		out = &Quant{
			Kind:   n.Kind,
			Vars:   slices.Clone(n.Vars),
			Domain: rewrite(n.Domain, bound, fn),
			Body:   rewrite(n.Body, inner, fn),
		}
	case *Old:
		out = &Old{X: rewrite(n.X, bound, fn)}
	case *Ite:
		out = &Ite{
			Cond: rewrite(n.Cond, bound, fn),
			Then: rewrite(n.Then, bound, fn),
			Else: rewrite(n.Else, bound, fn),
		}
	default:
		out = e
	}
	return fn(out, bound)
}

// Walk visits every node of e in pre-order with the bound names in scope.
func Walk(e Expr, fn func(e Expr, bound []string)) {
	walk(e, nil, fn)
}

func walk(e Expr, bound []string, fn func(Expr, []string)) {
	if e == nil {
		return
	}
	fn(e, bound)
	switch n := e.(type) {
	case *Join:
		walk(n.Left, bound, fn)
		walk(n.Right, bound, fn)
	case *Call:
		for _, a := range n.Args {
			walk(a, bound, fn)
		}
	case *Unary:
		walk(n.X, bound, fn)
	case *Binary:
		walk(n.X, bound, fn)
		walk(n.Y, bound, fn)
	case *Quant:
		walk(n.Domain, bound, fn)
		walk(n.Body, append(slices.Clone(bound), n.Vars...), fn)
	case *Old:
		walk(n.X, bound, fn)
	case *Ite:
		walk(n.Cond, bound, fn)
		walk(n.Then, bound, fn)
		walk(n.Else, bound, fn)
	}
}

// FreeIdents returns the identifiers of e not bound by a quantifier, in
// first-occurrence order without duplicates.
func FreeIdents(e Expr) []string {
	var out []string
	Walk(e, func(n Expr, bound []string) {
		id, ok := n.(*Ident)
		if !ok || slices.Contains(bound, id.Name) || slices.Contains(out, id.Name) {
			return
		}
		out = append(out, id.Name)
	})
	return out
}

// Mentions reports whether any of names occurs free in e.
func Mentions(e Expr, names []string) bool {
	for _, id := range FreeIdents(e) {
		if slices.Contains(names, id) {
			return true
		}
	}
	return false
}

// Substitute replaces free identifiers by the mapped expressions.
func Substitute(e Expr, subst map[string]Expr) Expr {
	return Rewrite(e, func(n Expr, bound []string) Expr {
		id, ok := n.(*Ident)
		if !ok || slices.Contains(bound, id.Name) {
			return n
		}
		if r, ok := subst[id.Name]; ok {
			return r
		}
		return n
	})
}

// Rename replaces free identifiers by other identifiers.
func Rename(e Expr, names map[string]string) Expr {
	subst := make(map[string]Expr, len(names))
	for from, to := range names {
		subst[from] = Id(to)
	}
	return Substitute(e, subst)
}
