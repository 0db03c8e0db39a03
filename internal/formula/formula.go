package formula

// Expr is a relational formula or term. Both intermediate representations
// and the assembled specification are built from these nodes.
type Expr interface {
	String() string
	isExpr()
}

// Ident is a variable, relation, signature or atom name.
type Ident struct {
	Name string
}

// Int is an integer literal.
type Int struct {
	Value int64
}

// Join is the relational join "Left.Right".
type Join struct {
	Left  Expr
	Right Expr
}

// Call is a predicate or function application "Name[Args]".
type Call struct {
	Name string
	Args []Expr
}

// Unary operators: "not", "-", "#", "*", "^", "some", "no", "one", "lone".
type Unary struct {
	Op string
	X  Expr
}

// Binary operators: "and", "or", "implies", "iff", "=", "!=", "in", "<",
// "<=", ">", ">=", "+", "-", "*", "/", "%", "++", "->".
// Arithmetic operators denote integer arithmetic until relational lowering
// replaces them.
type Binary struct {
	Op string
	X  Expr
	Y  Expr
}

// Quant is "(Kind Vars: Domain | Body)" with Kind one of all, some, no, lone, one.
type Quant struct {
	Kind   string
	Vars   []string
	Domain Expr
	Body   Expr
}

// Old refers to the pre-state value of X inside a postcondition.
type Old struct {
	X Expr
}

// Ite is the conditional term "(Cond implies Then else Else)".
type Ite struct {
	Cond Expr
	Then Expr
	Else Expr
}

func (*Ident) isExpr()  {}
func (*Int) isExpr()    {}
func (*Join) isExpr()   {}
func (*Call) isExpr()   {}
func (*Unary) isExpr()  {}
func (*Binary) isExpr() {}
func (*Quant) isExpr()  {}
func (*Old) isExpr()    {}
func (*Ite) isExpr()    {}

const (
	TruePredName  = "TruePred"
	FalsePredName = "FalsePred"
)

func Id(name string) *Ident { return &Ident{Name: name} }

func Num(v int64) *Int { return &Int{Value: v} }

func Dot(left Expr, right Expr) *Join { return &Join{Left: left, Right: right} }

func Apply(name string, args ...Expr) *Call { return &Call{Name: name, Args: args} }

func Bin(op string, x, y Expr) *Binary { return &Binary{Op: op, X: x, Y: y} }

func Not(x Expr) *Unary { return &Unary{Op: "not", X: x} }

func Eq(x, y Expr) *Binary { return Bin("=", x, y) }

// True is the always-holding formula.
func True() *Call { return Apply(TruePredName) }

// False is the never-holding formula.
func False() *Call { return Apply(FalsePredName) }

// IsTrue reports whether e is the TruePred[] formula.
func IsTrue(e Expr) bool {
	c, ok := e.(*Call)
	return ok && c.Name == TruePredName && len(c.Args) == 0
}

// IsFalse reports whether e is the FalsePred[] formula.
func IsFalse(e Expr) bool {
	c, ok := e.(*Call)
	return ok && c.Name == FalsePredName && len(c.Args) == 0
}

// And conjoins formulas, dropping TruePred[] operands.
func And(fs ...Expr) Expr {
	var out Expr
	for _, f := range fs {
		if f == nil || IsTrue(f) {
			continue
		}
		if IsFalse(f) {
			return False()
		}
		if out == nil {
			out = f
		} else {
			out = Bin("and", out, f)
		}
	}
	if out == nil {
		return True()
	}
	return out
}

// Or disjoins formulas, dropping FalsePred[] operands.
func Or(fs ...Expr) Expr {
	var out Expr
	for _, f := range fs {
		if f == nil || IsFalse(f) {
			continue
		}
		if IsTrue(f) {
			return True()
		}
		if out == nil {
			out = f
		} else {
			out = Bin("or", out, f)
		}
	}
	if out == nil {
		return False()
	}
	return out
}

// Implies builds "g implies f", simplifying trivial guards.
func Implies(g, f Expr) Expr {
	switch {
	case IsTrue(g):
		return f
	case IsFalse(g), IsTrue(f):
		return True()
	}
	return Bin("implies", g, f)
}

// Conjuncts flattens a conjunction into its operands.
func Conjuncts(e Expr) []Expr {
	if b, ok := e.(*Binary); ok && b.Op == "and" {
		return append(Conjuncts(b.X), Conjuncts(b.Y)...)
	}
	if IsTrue(e) {
		return nil
	}
	return []Expr{e}
}

// IsArithmetic reports whether op is an integer arithmetic operator.
func IsArithmetic(op string) bool {
	switch op {
	case "+", "-", "*", "/", "%":
		return true
	}
	return false
}
