package jdyn

import "taco/internal/formula"

// The module text grammar embeds formula.ExprNode for every formula and
// shares its lexer.

type moduleNode struct {
	ID    string        `"module" @Ident`
	Class string        `"class" @Ident ( @"." @Ident )* "{"`
	Items []*moduleItem `@@* "}"`
}

type moduleItem struct {
	Field     *fieldNode     `  @@`
	Pred      *predNode      `| @@`
	Invariant string         `| "invariant" @Ident ";"`
	ArithVar  *arithVarNode  `| @@`
	ArithPred *arithPredNode `| @@`
	Program   *programNode   `| @@`
}

type fieldNode struct {
	Name string `"field" @Ident ":"`
	Type string `@Ident ";"`
}

type varNode struct {
	Name string `@Ident ":"`
	Type string `@Ident`
}

type predNode struct {
	Name   string            `"pred" @Ident "["`
	Params []*varNode        `[ @@ ( "," @@ )* ] "]" "{"`
	Body   *formula.ExprNode `@@ "}"`
}

type arithVarNode struct {
	Origin string `"arithvar" @( "requires" | "ensures" | "invariant" )`
	Name   string `@Ident ";"`
}

type arithPredNode struct {
	Origin  string            `"arithpred" @( "requires" | "ensures" | "invariant" )`
	Formula *formula.ExprNode `@@ ";"`
}

type programNode struct {
	ID       string            `"program" @Ident "["`
	Params   []*varNode        `[ @@ ( "," @@ )* ] "]"`
	Returns  string            `[ "returns" @Ident ] "{"`
	Locals   []*varNode        `( "var" @@ ";" )*`
	Requires *formula.ExprNode `"requires" "{" @@ "}"`
	Ensures  *formula.ExprNode `"ensures" "{" @@ "}"`
	Arith    []*programArith   `@@*`
	Body     []*stmtNode       `"body" "{" @@* "}" "}"`
}

type programArith struct {
	Var  *arithVarNode  `  @@`
	Pred *arithPredNode `| @@`
}

type stmtNode struct {
	If     *ifNode           `  @@`
	While  *whileNode        `| @@`
	Assert *formula.ExprNode `| "assert" @@ ";"`
	Assume *formula.ExprNode `| "assume" @@ ";"`
	Return *returnNode       `| @@`
	Throw  string            `| "throw" @Ident ";"`
	Assign *assignNode       `| @@`
}

type ifNode struct {
	Cond *formula.ExprNode `"if" @@ "{"`
	Then []*stmtNode       `@@* "}"`
	Else []*stmtNode       `[ "else" "{" @@* "}" ]`
}

type whileNode struct {
	Cond      *formula.ExprNode `"while" @@`
	Invariant *formula.ExprNode `[ "invariant" "{" @@ "}" ]`
	Variant   *formula.ExprNode `[ "decreases" "{" @@ "}" ]`
	Body      []*stmtNode       `"{" @@* "}"`
}

type returnNode struct {
	Keyword bool              `@"return"`
	Value   *formula.ExprNode `@@? ";"`
}

type assignNode struct {
	Target *formula.ExprNode `@@ ":="`
	Value  *formula.ExprNode `@@ ";"`
}
