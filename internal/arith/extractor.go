// Package arith keeps the arithmetic side table: the variables and defining
// formulas introduced for integer sub-expressions of contracts, per program
// and per module.
package arith

import (
	"fmt"

	"golang.org/x/exp/slices"

	"taco/internal/formula"
	"taco/internal/jdyn"
)

// VarPrefix starts the name of every arithmetic side variable.
const VarPrefix = "arith_"

// Extractor names arithmetic sub-expressions. One Extractor serves a whole
// run so that names never repeat across modules.
type Extractor struct {
	next int
}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Side collects the variables and defining predicates of one extraction.
type Side struct {
	Vars  []jdyn.ArithVar
	Preds []jdyn.ArithPred
}

// Add appends another side set.
func (s *Side) Add(o Side) {
	s.Vars = append(s.Vars, o.Vars...)
	s.Preds = append(s.Preds, o.Preds...)
}

// Extract replaces every arithmetic operation of e that does not depend on a
// quantified variable by a fresh variable, bottom-up, so that each defining
// predicate has exactly one operator. Operations under \old are defined under
// \old as well.
func (x *Extractor) Extract(e formula.Expr, origin jdyn.Origin) (formula.Expr, Side) {
	var side Side
	if e == nil {
		return nil, side
	}
	out := x.extract(e, nil, false, origin, &side)
	return out, side
}

func (x *Extractor) extract(e formula.Expr, bound []string, inOld bool, origin jdyn.Origin, side *Side) formula.Expr {
	switch n := e.(type) {
	case *formula.Binary:
		node := formula.Bin(n.Op,
			x.extract(n.X, bound, inOld, origin, side),
			x.extract(n.Y, bound, inOld, origin, side))
		if formula.IsArithmetic(n.Op) && !formula.Mentions(node, bound) {
			return x.name(node, inOld, origin, side)
		}
		return node
	case *formula.Unary:
		node := &formula.Unary{Op: n.Op, X: x.extract(n.X, bound, inOld, origin, side)}
		if n.Op == "-" && !formula.Mentions(node, bound) {
			return x.name(node, inOld, origin, side)
		}
		return node
	case *formula.Quant:
		inner := append(slices.Clone(bound), n.Vars...)
		return &formula.Quant{
			Kind:   n.Kind,
			Vars:   slices.Clone(n.Vars),
			Domain: x.extract(n.Domain, bound, inOld, origin, side),
			Body:   x.extract(n.Body, inner, inOld, origin, side),
		}
	case *formula.Old:
		return &formula.Old{X: x.extract(n.X, bound, true, origin, side)}
	case *formula.Join:
		return formula.Dot(x.extract(n.Left, bound, inOld, origin, side), x.extract(n.Right, bound, inOld, origin, side))
	case *formula.Call:
		args := make([]formula.Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = x.extract(a, bound, inOld, origin, side)
		}
		return formula.Apply(n.Name, args...)
	case *formula.Ite:
		return &formula.Ite{
			Cond: x.extract(n.Cond, bound, inOld, origin, side),
			Then: x.extract(n.Then, bound, inOld, origin, side),
			Else: x.extract(n.Else, bound, inOld, origin, side),
		}
	}
	return e
}

func (x *Extractor) name(node formula.Expr, inOld bool, origin jdyn.Origin, side *Side) formula.Expr {
	v := fmt.Sprintf("%s%d", VarPrefix, x.next)
	x.next++

	var def formula.Expr = node
	if inOld {
		def = &formula.Old{X: node}
	}
	side.Vars = append(side.Vars, jdyn.ArithVar{Name: v, Origin: origin})
	side.Preds = append(side.Preds, jdyn.ArithPred{Origin: origin, Formula: formula.Eq(formula.Id(v), def)})
	return formula.Id(v)
}
