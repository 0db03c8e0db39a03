// Package dyn is the second intermediate representation, produced by
// relational lowering. Arithmetic is expressed in the target arithmetic mode,
// body expressions are flattened so that every arithmetic operation has its
// own statement, and postconditions refer to post-state values with primes.
package dyn

import (
	"taco/internal/formula"
	"taco/internal/jdyn"
)

// Module is the relational lowering of one class.
type Module struct {
	ID     string
	Class  string
	Fields []jdyn.Field
	// Invariant is the object invariant predicate over "thiz".
	Invariant  *jdyn.Predicate
	ArithVars  []jdyn.ArithVar
	ArithPreds []jdyn.ArithPred
	Programs   []*Program
}

// Program is the relational lowering of one method.
type Program struct {
	ID       string
	Module   string
	Method   string
	Overload int
	Params   []jdyn.Var
	// Locals holds renamed locals followed by the temporaries of flattening.
	Locals  []jdyn.Var
	Returns *jdyn.Type
	// Pre is the precondition over the pre-state.
	Pre formula.Expr
	// Post is the postcondition; post-state names carry a prime.
	Post       formula.Expr
	ArithVars  []jdyn.ArithVar
	ArithPreds []jdyn.ArithPred
	// Skolems are the variables introduced by quantifier removal.
	Skolems []jdyn.Var
	Body    []Stmt
}

// Stmt is a relational program statement.
type Stmt interface {
	isStmt()
}

// Assign sets a local, parameter or temporary.
type Assign struct {
	Target string
	Value  formula.Expr
}

// Update sets field Field of Object.
type Update struct {
	Field  string
	Object formula.Expr
	Value  formula.Expr
}

// Compute sets Target through the arithmetic predicate Pred[Args..., Target].
type Compute struct {
	Target string
	Pred   string
	Args   []formula.Expr
}

type Branch struct {
	Cond formula.Expr
	Then []Stmt
	Else []Stmt
}

// Loop evaluates Prelude before every test of Cond.
type Loop struct {
	Prelude   []Stmt
	Cond      formula.Expr
	Invariant formula.Expr
	Variant   formula.Expr
	Body      []Stmt
}

type Assert struct {
	Cond formula.Expr
}

type Assume struct {
	Cond formula.Expr
}

type Return struct {
	Value formula.Expr
}

type Throw struct {
	Exception string
}

func (*Assign) isStmt()  {}
func (*Update) isStmt()  {}
func (*Compute) isStmt() {}
func (*Branch) isStmt()  {}
func (*Loop) isStmt()    {}
func (*Assert) isStmt()  {}
func (*Assume) isStmt()  {}
func (*Return) isStmt()  {}
func (*Throw) isStmt()   {}

// Program returns the program with the given id.
func (m *Module) Program(id string) *Program {
	for _, p := range m.Programs {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Walk visits every statement of stmts in pre-order, descending into branches
// and loops.
func Walk(stmts []Stmt, fn func(Stmt)) {
	for _, s := range stmts {
		fn(s)
		switch s := s.(type) {
		case *Branch:
			Walk(s.Then, fn)
			Walk(s.Else, fn)
		case *Loop:
			Walk(s.Prelude, fn)
			Walk(s.Body, fn)
		}
	}
}

// Exceptions returns the exception signatures thrown by a program body, in
// first-occurrence order.
func (p *Program) Exceptions() []string {
	var out []string
	seen := map[string]bool{}
	Walk(p.Body, func(s Stmt) {
		if t, ok := s.(*Throw); ok && !seen[t.Exception] {
			seen[t.Exception] = true
			out = append(out, t.Exception)
		}
	})
	return out
}
