package formula

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes relational formulas. It is shared with the intermediate
// module text grammar, hence the statement punctuation.
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{"Comment", `--[^\n]*|//[^\n]*`, nil},

		// Pre-state marker
		{"Old", `\\old`, nil},

		// Identifiers may carry primes and dollars
		{"Ident", `[a-zA-Z_$][a-zA-Z0-9_$']*`, nil},

		// Integer literals
		{"Int", `[0-9]+`, nil},

		// Operators (longest first)
		{"Operator", `<=>|=>|:=|&&|\|\||!=|<=|>=|\+\+|->|[-+*/%#^!=<>]`, nil},

		// Punctuation
		{"Punctuation", `[()\[\]{}.,:;|]`, nil},

		// Whitespace
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type ExprNode struct {
	Iff *IffNode `@@`
}

type IffNode struct {
	Left  *ImpliesNode `@@`
	Right *IffNode     `[ ( "iff" | "<=>" ) @@ ]`
}

type ImpliesNode struct {
	Left *OrNode      `@@`
	Then *ImpliesNode `[ ( "implies" | "=>" ) @@`
	Else *ImpliesNode `  [ "else" @@ ] ]`
}

type OrNode struct {
	Left  *AndNode   `@@`
	Right []*AndNode `( ( "or" | "||" ) @@ )*`
}

type AndNode struct {
	Left  *NegNode   `@@`
	Right []*NegNode `( ( "and" | "&&" ) @@ )*`
}

type NegNode struct {
	Not   *NegNode   `  ( "not" | "!" ) @@`
	Quant *QuantNode `| @@`
	Cmp   *CmpNode   `| @@`
}

type QuantNode struct {
	Kind   string    `@( "all" | "some" | "no" | "lone" | "one" )`
	Vars   []string  `@Ident ( "," @Ident )* ":"`
	Domain *SumNode  `@@ "|"`
	Body   *ExprNode `@@`
}

type CmpNode struct {
	Mult  string   `[ @( "some" | "no" | "one" | "lone" ) ]`
	Left  *SumNode `@@`
	Op    string   `[ @( "=" | "!=" | "in" | "<=" | ">=" | "<" | ">" )`
	Right *SumNode `  @@ ]`
}

type SumNode struct {
	Left  *ProdNode `@@`
	Right []*SumOp  `@@*`
}

type SumOp struct {
	Op    string    `@( "+" | "-" | "++" | "->" )`
	Right *ProdNode `@@`
}

type ProdNode struct {
	Left  *UnaryNode `@@`
	Right []*ProdOp  `@@*`
}

type ProdOp struct {
	Op    string     `@( "*" | "/" | "%" )`
	Right *UnaryNode `@@`
}

type UnaryNode struct {
	Op      string     `( @( "-" | "#" | "*" | "^" )`
	Operand *UnaryNode `  @@ )`
	Join    *JoinNode  `| @@`
}

type JoinNode struct {
	Head *PrimaryNode   `@@`
	Tail []*PrimaryNode `( "." @@ )*`
}

type PrimaryNode struct {
	Paren *ExprNode `  "(" @@ ")"`
	Old   *ExprNode `| Old "(" @@ ")"`
	Int   *int64    `| @Int`
	Call  *CallNode `| @@`
}

type CallNode struct {
	Name string    `@Ident`
	Args *ArgsNode `@@?`
}

type ArgsNode struct {
	Open bool        `@"["`
	List []*ExprNode `[ @@ ( "," @@ )* ] "]"`
}
