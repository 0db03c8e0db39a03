// Package jdyn is the first intermediate representation: one module per
// translated class holding its fields, predicates and programs, with
// contracts and bodies expressed as relational formulas.
package jdyn

import (
	"strconv"

	"taco/internal/formula"
)

// Kind classifies a variable or field type.
type Kind int

const (
	KindInt Kind = iota
	KindBool
	KindRef
)

// Type is Int, Bool or a reference to the class with the given module id.
type Type struct {
	Kind  Kind
	Class string
}

var (
	Int  = Type{Kind: KindInt}
	Bool = Type{Kind: KindBool}
)

// Ref returns the reference type of a class module.
func Ref(class string) Type { return Type{Kind: KindRef, Class: class} }

// ParseType is the inverse of Type.String.
func ParseType(name string) Type {
	switch name {
	case "Int":
		return Int
	case "Bool":
		return Bool
	default:
		return Ref(name)
	}
}

// Var is a typed parameter, local or field signature.
type Var struct {
	Name string
	Type Type
}

// Field is a class field relation, named "<module>_<field>".
type Field struct {
	Name string
	Type Type
}

// Origin names the contract clause an arithmetic side entry came from.
type Origin string

const (
	OriginRequires  Origin = "requires"
	OriginEnsures   Origin = "ensures"
	OriginInvariant Origin = "invariant"
)

// ArithVar is a variable standing for one arithmetic sub-expression of a contract.
type ArithVar struct {
	Name   string
	Origin Origin
}

// ArithPred defines an ArithVar, "arith_n = (a op b)".
type ArithPred struct {
	Origin  Origin
	Formula formula.Expr
}

// Predicate is a named formula over its parameters.
type Predicate struct {
	Name   string
	Params []Var
	Body   formula.Expr
}

// Module is the lowering of one class.
type Module struct {
	ID         string
	Class      string
	Fields     []Field
	Predicates []*Predicate
	// Invariant is the name of the object invariant predicate.
	Invariant  string
	ArithVars  []ArithVar
	ArithPreds []ArithPred
	Programs   []*Program
}

// Program is the lowering of one method.
type Program struct {
	ID       string
	Method   string
	Overload int
	Params   []Var
	// Returns is nil for void methods.
	Returns    *Type
	Locals     []Var
	Requires   formula.Expr
	Ensures    formula.Expr
	ArithVars  []ArithVar
	ArithPreds []ArithPred
	Body       []Stmt
}

// Stmt is a program statement.
type Stmt interface {
	isStmt()
}

// Assign is "Target := Value". Target is a local, a parameter or a field join.
type Assign struct {
	Target formula.Expr
	Value  formula.Expr
}

type If struct {
	Cond formula.Expr
	Then []Stmt
	Else []Stmt
}

// While carries the conjunction of its loop invariants and its optional variant.
type While struct {
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

// Throw raises the exception whose literal signature is Exception.
type Throw struct {
	Exception string
}

func (*Assign) isStmt() {}
func (*If) isStmt()     {}
func (*While) isStmt()  {}
func (*Assert) isStmt() {}
func (*Assume) isStmt() {}
func (*Return) isStmt() {}
func (*Throw) isStmt()  {}

// Program returns the program with the given id.
func (m *Module) Program(id string) *Program {
	for _, p := range m.Programs {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Predicate returns the predicate with the given name.
func (m *Module) Predicate(name string) *Predicate {
	for _, p := range m.Predicates {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Field returns the field relation with the given name.
func (m *Module) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// ProgramID derives the program identifier of a method overload.
func ProgramID(module, method string, overload int) string {
	return module + "_" + method + "_" + strconv.Itoa(overload)
}
