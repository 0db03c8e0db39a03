package library

import (
	"fmt"
	"strings"

	"taco/internal/formula"
)

// ModuleDefinition defines a pre-built relational library module
type ModuleDefinition struct {
	Name       string                         // Module name (e.g., "java_lang", "boolean")
	Sigs       []SigDefinition                // Signatures in declaration order
	Predicates map[string]PredicateDefinition // Predicates by name
	Order      []string                       // Predicate emission order
	Functions  map[string]string              // Host operator to integer function (e.g., "+" -> "add")
}

// SigDefinition defines a signature of a library module
type SigDefinition struct {
	Name     string // Signature name (e.g., "java_lang_Object")
	Parent   string // Extended signature, empty for top-level signatures
	Abstract bool   // Whether the signature has no atoms of its own
	One      bool   // Whether the signature has exactly one atom
}

// PredicateDefinition defines a predicate of a library module
type PredicateDefinition struct {
	Name       string                // Predicate name (e.g., "pred_java_primitive_integer_value_add")
	Parameters []ParameterDefinition // Predicate parameters
	Body       string                // Predicate body in the relational language
}

// ParameterDefinition defines a predicate parameter
type ParameterDefinition struct {
	Name string // Parameter name
	Type string // Parameter signature (e.g., "Int")
}

// Names of the signatures every specification relies on.
const (
	Null      = "null"
	Object    = "java_lang_Object"
	Throwable = "java_lang_Throwable"
	Boolean   = "boolean"
	True      = "true"
	False     = "false"
)

// JavaArithmeticPrefix starts the name of every host-native arithmetic predicate.
const JavaArithmeticPrefix = "pred_java_primitive_integer_value_"

// Helper function for creating parameters
func NewParam(name, typ string) ParameterDefinition {
	return ParameterDefinition{Name: name, Type: typ}
}

// Helper function for creating predicate definitions
func NewPredicate(name, body string, params ...ParameterDefinition) PredicateDefinition {
	return PredicateDefinition{Name: name, Parameters: params, Body: body}
}

var operators = []struct {
	op       string
	function string
}{
	{"+", "add"},
	{"-", "sub"},
	{"*", "mul"},
	{"/", "div"},
	{"%", "rem"},
}

// GetLibraryModules returns all pre-built library modules
func GetLibraryModules() map[string]*ModuleDefinition {
	integer := &ModuleDefinition{
		Name:       "java_primitive_integer_value",
		Predicates: map[string]PredicateDefinition{},
		Functions:  map[string]string{},
	}
	for _, o := range operators {
		name := JavaArithmeticPrefix + o.function
		integer.Functions[o.op] = o.function
		integer.Predicates[name] = NewPredicate(name,
			fmt.Sprintf("r = %s[a, b]", o.function),
			NewParam("a", "Int"), NewParam("b", "Int"), NewParam("r", "Int"))
		integer.Order = append(integer.Order, name)
	}

	return map[string]*ModuleDefinition{
		"java_lang": {
			Name: "java_lang",
			Sigs: []SigDefinition{
				{Name: Null, One: true},
				{Name: Object, Abstract: true},
				{Name: Throwable, Parent: Object, Abstract: true},
			},
		},
		"boolean": {
			Name: "boolean",
			Sigs: []SigDefinition{
				{Name: Boolean, Abstract: true},
				{Name: True, Parent: Boolean, One: true},
				{Name: False, Parent: Boolean, One: true},
			},
			Predicates: map[string]PredicateDefinition{
				formula.TruePredName:  NewPredicate(formula.TruePredName, ""),
				formula.FalsePredName: NewPredicate(formula.FalsePredName, "not "+formula.TruePredName+"[]"),
			},
			Order: []string{formula.TruePredName, formula.FalsePredName},
		},
		"java_primitive_integer_value": integer,
	}
}

// Prelude lists the modules emitted at the top of every specification.
var Prelude = []string{"java_lang", "boolean", "java_primitive_integer_value"}

// GetModuleDefinition returns the definition for a library module
func GetModuleDefinition(name string) *ModuleDefinition {
	return GetLibraryModules()[name]
}

// ArithmeticFunction returns the integer function of a host operator.
func ArithmeticFunction(op string) (string, bool) {
	fn, ok := GetModuleDefinition("java_primitive_integer_value").Functions[op]
	return fn, ok
}

// ArithmeticPredicate returns the host-native predicate of a host operator.
func ArithmeticPredicate(op string) (string, bool) {
	fn, ok := ArithmeticFunction(op)
	if !ok {
		return "", false
	}
	return JavaArithmeticPrefix + fn, true
}

// Text renders the named modules, in order, as relational declarations.
func Text(names ...string) string {
	modules := GetLibraryModules()
	var b strings.Builder
	for _, name := range names {
		m, ok := modules[name]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "// %s\n", m.Name)
		for _, s := range m.Sigs {
			b.WriteString(s.String())
			b.WriteString("\n")
		}
		for _, p := range m.Order {
			b.WriteString(m.Predicates[p].String())
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s SigDefinition) String() string {
	var b strings.Builder
	if s.Abstract {
		b.WriteString("abstract ")
	}
	if s.One {
		b.WriteString("one ")
	}
	b.WriteString("sig " + s.Name)
	if s.Parent != "" {
		b.WriteString(" extends " + s.Parent)
	}
	b.WriteString(" {}")
	return b.String()
}

func (p PredicateDefinition) String() string {
	params := make([]string, len(p.Parameters))
	for i, param := range p.Parameters {
		params[i] = param.Name + ": " + param.Type
	}
	if p.Body == "" {
		return fmt.Sprintf("pred %s[%s] {}", p.Name, strings.Join(params, ", "))
	}
	return fmt.Sprintf("pred %s[%s] {\n  %s\n}", p.Name, strings.Join(params, ", "), p.Body)
}
