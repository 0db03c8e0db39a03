package jdyn

import (
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"

	"taco/internal/formula"
)

var moduleParser = participle.MustBuild[moduleNode](formula.Options()...)

// Parse reads a module printed by Print.
func Parse(filename, source string) (*Module, error) {
	node, err := moduleParser.ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return node.convert(), nil
}

func (n *moduleNode) convert() *Module {
	m := &Module{ID: n.ID, Class: n.Class}
	for _, item := range n.Items {
		switch {
		case item.Field != nil:
			m.Fields = append(m.Fields, Field{Name: item.Field.Name, Type: ParseType(item.Field.Type)})
		case item.Pred != nil:
			m.Predicates = append(m.Predicates, &Predicate{
				Name:   item.Pred.Name,
				Params: convertVars(item.Pred.Params),
				Body:   item.Pred.Body.Convert(),
			})
		case item.Invariant != "":
			m.Invariant = item.Invariant
		case item.ArithVar != nil:
			m.ArithVars = append(m.ArithVars, item.ArithVar.convert())
		case item.ArithPred != nil:
			m.ArithPreds = append(m.ArithPreds, item.ArithPred.convert())
		case item.Program != nil:
			m.Programs = append(m.Programs, item.Program.convert(n.ID))
		}
	}
	return m
}

func convertVars(nodes []*varNode) []Var {
	out := make([]Var, len(nodes))
	for i, v := range nodes {
		out[i] = Var{Name: v.Name, Type: ParseType(v.Type)}
	}
	return out
}

func (n *arithVarNode) convert() ArithVar {
	return ArithVar{Name: n.Name, Origin: Origin(n.Origin)}
}

func (n *arithPredNode) convert() ArithPred {
	return ArithPred{Origin: Origin(n.Origin), Formula: n.Formula.Convert()}
}

func (n *programNode) convert(module string) *Program {
	method, overload := splitProgramID(module, n.ID)
	p := &Program{
		ID:       n.ID,
		Method:   method,
		Overload: overload,
		Params:   convertVars(n.Params),
		Locals:   convertVars(n.Locals),
		Requires: n.Requires.Convert(),
		Ensures:  n.Ensures.Convert(),
		Body:     convertStmts(n.Body),
	}
	if n.Returns != "" {
		t := ParseType(n.Returns)
		p.Returns = &t
	}
	for _, a := range n.Arith {
		if a.Var != nil {
			p.ArithVars = append(p.ArithVars, a.Var.convert())
		} else {
			p.ArithPreds = append(p.ArithPreds, a.Pred.convert())
		}
	}
	return p
}

// splitProgramID recovers method and overload from "<module>_<method>_<n>".
func splitProgramID(module, id string) (string, int) {
	rest := strings.TrimPrefix(id, module+"_")
	i := strings.LastIndex(rest, "_")
	if i < 0 {
		return rest, 0
	}
	n, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return rest, 0
	}
	return rest[:i], n
}

func convertStmts(nodes []*stmtNode) []Stmt {
	var out []Stmt
	for _, n := range nodes {
		out = append(out, n.convert())
	}
	return out
}

func (n *stmtNode) convert() Stmt {
	switch {
	case n.If != nil:
		return &If{Cond: n.If.Cond.Convert(), Then: convertStmts(n.If.Then), Else: convertStmts(n.If.Else)}
	case n.While != nil:
		w := &While{Cond: n.While.Cond.Convert(), Body: convertStmts(n.While.Body)}
		if n.While.Invariant != nil {
			w.Invariant = n.While.Invariant.Convert()
		}
		if n.While.Variant != nil {
			w.Variant = n.While.Variant.Convert()
		}
		return w
	case n.Assert != nil:
		return &Assert{Cond: n.Assert.Convert()}
	case n.Assume != nil:
		return &Assume{Cond: n.Assume.Convert()}
	case n.Return != nil:
		r := &Return{}
		if n.Return.Value != nil {
			r.Value = n.Return.Value.Convert()
		}
		return r
	case n.Throw != "":
		return &Throw{Exception: n.Throw}
	default:
		return &Assign{Target: n.Assign.Target.Convert(), Value: n.Assign.Value.Convert()}
	}
}
