package ast

import "strings"

// Class is one annotated program unit: a class together with its fields,
// object invariants and annotated methods.
// Example: "class List { int size; invariant size >= 0; ... }"
type Class struct {
	Pos         Position
	Package     string
	Name        string
	Superclass  string
	Fields      []*Field
	Invariants  []*Clause
	Annotations []*Annotation
	Methods     []*Method
}

// QualifiedName returns the package-qualified class name.
func (c *Class) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Method looks up the first method with the given name.
func (c *Class) Method(name string) *Method {
	for _, m := range c.Methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Field looks up a field by name.
func (c *Class) Field(name string) *Field {
	for _, f := range c.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

type Field struct {
	Pos  Position
	Name string
	Type *TypeRef
}

// TypeRef is a reference to a host type such as "int", "boolean" or "java.util.List".
type TypeRef struct {
	Name  string
	Array bool
}

// Simple returns the unqualified type name.
func (t *TypeRef) Simple() string {
	if i := strings.LastIndex(t.Name, "."); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Method is a method body paired with its contract clauses.
// Return is nil for void methods.
type Method struct {
	Pos         Position
	Name        string
	Params      []*Param
	Return      *TypeRef
	Throws      []string
	Clauses     []*Clause
	Annotations []*Annotation
	Body        *Block
}

// Signature renders the method as name(paramTypes), the identifier used in
// diagnostics and in the lowering context.
func (m *Method) Signature() string {
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type.String()
	}
	return m.Name + "(" + strings.Join(types, ",") + ")"
}

// ClausesOf returns the method clauses of the given kind in source order.
func (m *Method) ClausesOf(kind ClauseKind) []*Clause {
	var out []*Clause
	for _, c := range m.Clauses {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

type Param struct {
	Pos  Position
	Name string
	Type *TypeRef
}

type ClauseKind int

const (
	Precondition ClauseKind = iota
	Postcondition
	LoopInvariant
	LoopVariant
	Assertion
	Assumption
	ObjectInvariant
)

func (k ClauseKind) String() string {
	switch k {
	case Precondition:
		return "requires"
	case Postcondition:
		return "ensures"
	case LoopInvariant:
		return "loop_invariant"
	case LoopVariant:
		return "decreases"
	case Assertion:
		return "assert"
	case Assumption:
		return "assume"
	case ObjectInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Clause is a contract clause carrying a host-language formula.
type Clause struct {
	Pos  Position
	Kind ClauseKind
	Expr Expr
}

type AnnotationKind string

const (
	AnnotationInvariant AnnotationKind = "Invariant"
	AnnotationRequires  AnnotationKind = "Requires"
	AnnotationEnsures   AnnotationKind = "Ensures"
)

// Annotation carries a formula of the relational assertion language as
// unparsed text, e.g. @Invariant("all n: this.*next | n.value > 0").
type Annotation struct {
	Pos  Position
	Kind AnnotationKind
	Text string
}
