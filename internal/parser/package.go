// Package parser is the front end of the annotated host language: a
// hand-written scanner and a recursive descent parser with Pratt-style
// expressions producing ast.Class units.
package parser

import (
	"os"

	"taco/internal/ast"
	"taco/internal/errors"
)

type Parser struct {
	filename string
	tokens   []Token
	current  int
	errors   []ParseError

	// contract clauses and annotations waiting for the next method
	pendingClauses     []*ast.Clause
	pendingAnnotations []*ast.Annotation

	// loop clauses waiting for the next loop
	loopClauses []*ast.Clause
}

type ParseError struct {
	Message  string
	Position Position
}

func NewParser(filename string, tokens []Token) *Parser {
	return &Parser{filename: filename, tokens: tokens}
}

// Errors returns the parse errors found so far.
func (p *Parser) Errors() []ParseError {
	return p.errors
}

func ParseSource(path string, source string) ([]*ast.Class, []ParseError, []ScanError) {
	scanner := NewScanner(source)
	tokens := scanner.ScanTokens()

	parser := NewParser(path, tokens)
	classes := parser.ParseUnit()

	return classes, parser.errors, scanner.errors
}

// ParseFile reads and parses a source file. Scan and parse errors are returned
// as positioned diagnostics.
func ParseFile(path string) ([]*ast.Class, []errors.CompilerError, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.NewIOError("read", path, err)
	}

	classes, parseErrors, scanErrors := ParseSource(path, string(source))
	return classes, Diagnostics(path, parseErrors, scanErrors), nil
}

// Diagnostics converts scan and parse errors into reportable diagnostics.
func Diagnostics(path string, parseErrors []ParseError, scanErrors []ScanError) []errors.CompilerError {
	var out []errors.CompilerError
	for _, e := range scanErrors {
		out = append(out, errors.NewDiagnostic(errors.ErrorSyntax, e.Message, toPos(path, e.Position)).
			WithLength(max(e.Length, 1)).
			Build())
	}
	for _, e := range parseErrors {
		out = append(out, errors.SyntaxError(e.Message, toPos(path, e.Position)))
	}
	return out
}

func toPos(path string, pos Position) ast.Position {
	return ast.Position{Filename: path, Line: pos.Line, Column: pos.Column, Offset: pos.Offset}
}
