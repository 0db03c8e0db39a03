package parser

import "strconv"

type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers + literals
	IDENTIFIER
	NUMBER
	HEX_NUMBER
	STRING

	// Keywords
	PACKAGE
	IMPORT
	CLASS
	EXTENDS
	MODIFIER
	VOID
	IF
	ELSE
	WHILE
	FOR
	RETURN
	THROW
	THROWS
	NEW
	THIS
	NULL
	TRUE
	FALSE
	ASSERT
	ASSUME

	// Contract keywords
	REQUIRES
	ENSURES
	INVARIANT
	LOOP_INVARIANT
	DECREASES
	RESULT
	OLD
	FORALL
	EXISTS

	// Operators
	PLUS
	INCREMENT
	MINUS
	DECREMENT
	STAR
	SLASH
	PERCENT
	BANG
	BANG_EQUAL
	EQUAL
	EQUAL_EQUAL
	IMPLIES
	EQUIVALENT
	LESS
	LESS_EQUAL
	GREATER
	GREATER_EQUAL
	AND
	OR

	// Assignment operators
	PLUS_EQUAL
	MINUS_EQUAL
	STAR_EQUAL
	SLASH_EQUAL
	PERCENT_EQUAL

	// Separators
	COMMA
	DOT
	SEMICOLON
	AT

	// Brackets
	LEFT_PAREN
	RIGHT_PAREN
	LEFT_BRACE
	RIGHT_BRACE
	LEFT_BRACKET
	RIGHT_BRACKET
)

var tokenNames = map[TokenType]string{
	ILLEGAL:    "ILLEGAL",
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	NUMBER:     "NUMBER",
	HEX_NUMBER: "HEX_NUMBER",
	STRING:     "STRING",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	for lexeme, tt := range KEYWORDS {
		if tt == t && tt != MODIFIER {
			return lexeme
		}
	}
	for lexeme, tt := range SPECIAL_WORDS {
		if tt == t {
			return lexeme
		}
	}
	for _, op := range operators {
		if op.typ == t {
			return "'" + op.text + "'"
		}
	}
	if t == MODIFIER {
		return "modifier"
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Offset int // 0-based absolute index in input
}
