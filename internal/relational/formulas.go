package relational

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"taco/internal/dyn"
	"taco/internal/errors"
	"taco/internal/formula"
	"taco/internal/jdyn"
	"taco/internal/library"
)

type lowerer struct {
	java     bool
	bitwidth int
	// owner names the program or predicate in error messages
	owner   string
	state   map[string]bool
	program *dyn.Program
	temps   int
	skolems int
	err     *errors.TranslationError
}

func (s *Stage) newLowerer(owner string, state map[string]bool) *lowerer {
	return &lowerer{
		java:     s.cfg.UseJavaArithmetic,
		bitwidth: s.cfg.BitWidth,
		owner:    owner,
		state:    state,
	}
}

// contract lowers a requires, ensures or invariant formula. Arithmetic left
// in a contract depends on quantified variables and stays inline as integer
// functions.
func (l *lowerer) contract(e formula.Expr, post bool) formula.Expr {
	if e == nil {
		return formula.True()
	}
	l.checkLiterals(e)
	e = inline(e)
	if post {
		return l.prime(e)
	}
	return stripOld(e)
}

// arithPred lowers "arith_n = a op b" to the configured arithmetic mode.
func (l *lowerer) arithPred(p jdyn.ArithPred) jdyn.ArithPred {
	l.checkLiterals(p.Formula)
	f := p.Formula
	if eq, ok := f.(*formula.Binary); ok && eq.Op == "=" {
		if v, ok := eq.X.(*formula.Ident); ok {
			rhs, old := eq.Y, false
			if o, ok := rhs.(*formula.Old); ok {
				rhs, old = o.X, true
			}
			if op, a, b, ok := operation(rhs); ok {
				if old {
					a, b = &formula.Old{X: a}, &formula.Old{X: b}
				}
				f = l.apply(op, a, b, v)
			}
		}
	}

	if p.Origin == jdyn.OriginEnsures {
		f = l.prime(inline(f))
	} else {
		f = stripOld(inline(f))
	}
	return jdyn.ArithPred{Origin: p.Origin, Formula: f}
}

// apply builds "v = fn[a, b]" or, with host-native arithmetic, "pred[a, b, v]".
func (l *lowerer) apply(op string, a, b formula.Expr, v *formula.Ident) formula.Expr {
	if l.java {
		pred, _ := library.ArithmeticPredicate(op)
		return formula.Apply(pred, a, b, v)
	}
	fn, _ := library.ArithmeticFunction(op)
	return formula.Eq(v, formula.Apply(fn, a, b))
}

// operation splits an arithmetic node into its operator and operands.
// Negation is subtraction from zero.
func operation(e formula.Expr) (string, formula.Expr, formula.Expr, bool) {
	switch n := e.(type) {
	case *formula.Binary:
		if formula.IsArithmetic(n.Op) {
			return n.Op, n.X, n.Y, true
		}
	case *formula.Unary:
		if n.Op == "-" {
			return "-", formula.Num(0), n.X, true
		}
	}
	return "", nil, nil, false
}

// inline rewrites every arithmetic operation into an integer function call.
func inline(e formula.Expr) formula.Expr {
	return formula.Rewrite(e, func(n formula.Expr, _ []string) formula.Expr {
		if op, a, b, ok := operation(n); ok {
			fn, _ := library.ArithmeticFunction(op)
			return formula.Apply(fn, a, b)
		}
		return n
	})
}

// prime renames free state variables to their post-state names. Names under
// \old keep their pre-state name and the \old wrapper is dropped.
func (l *lowerer) prime(e formula.Expr) formula.Expr {
	return formula.Rewrite(e, func(n formula.Expr, bound []string) formula.Expr {
		switch n := n.(type) {
		case *formula.Ident:
			if l.state[n.Name] && !slices.Contains(bound, n.Name) {
				return formula.Id(Prime(n.Name))
			}
		case *formula.Old:
			return unprime(n.X)
		}
		return n
	})
}

func unprime(e formula.Expr) formula.Expr {
	return formula.Rewrite(e, func(n formula.Expr, _ []string) formula.Expr {
		if id, ok := n.(*formula.Ident); ok && strings.HasSuffix(id.Name, "'") {
			return formula.Id(strings.TrimSuffix(id.Name, "'"))
		}
		return n
	})
}

// stripOld drops \old wrappers from a pre-state formula.
func stripOld(e formula.Expr) formula.Expr {
	return formula.Rewrite(e, func(n formula.Expr, _ []string) formula.Expr {
		if o, ok := n.(*formula.Old); ok {
			return o.X
		}
		return n
	})
}

// skolemize replaces every top-level conjunct "kind v: D | body" whose domain
// is a signature name by body over fresh program variables constrained to D.
func (l *lowerer) skolemize(e formula.Expr, kind string) formula.Expr {
	if e == nil {
		return nil
	}
	conjuncts := formula.Conjuncts(e)
	for i, c := range conjuncts {
		q, ok := c.(*formula.Quant)
		if !ok || q.Kind != kind {
			continue
		}
		domain, ok := q.Domain.(*formula.Ident)
		if !ok {
			continue
		}

		names := map[string]string{}
		var ranges []formula.Expr
		for _, v := range q.Vars {
			sk := fmt.Sprintf("%s%d_%s", SkolemPrefix, l.skolems, v)
			l.skolems++
			names[v] = sk
			l.program.Skolems = append(l.program.Skolems, jdyn.Var{Name: sk, Type: skolemType(domain.Name)})
			ranges = append(ranges, formula.Bin("in", formula.Id(sk), domain))
		}

		body := formula.Rename(q.Body, names)
		if kind == "some" {
			conjuncts[i] = formula.And(append(ranges, body)...)
		} else {
			conjuncts[i] = formula.Implies(formula.And(ranges...), body)
		}
	}
	return formula.And(conjuncts...)
}

func skolemType(domain string) jdyn.Type {
	switch domain {
	case "Int":
		return jdyn.Int
	case library.Boolean:
		return jdyn.Bool
	}
	return jdyn.Ref(domain)
}

// checkLiterals records the first integer literal of e that does not fit the
// bit width.
func (l *lowerer) checkLiterals(e formula.Expr) {
	if e == nil || l.err != nil {
		return
	}
	hi := int64(1)<<(l.bitwidth-1) - 1
	lo := -hi - 1
	formula.Walk(e, func(n formula.Expr, _ []string) {
		lit, ok := n.(*formula.Int)
		if !ok || l.err != nil {
			return
		}
		if lit.Value < lo || lit.Value > hi {
			l.err = errors.LiteralOutOfRange(lit.Value, l.bitwidth, l.owner)
		}
	})
}
