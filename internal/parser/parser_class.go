package parser

import (
	"taco/internal/ast"
)

// ParseUnit parses a compilation unit: an optional package declaration,
// imports and one or more classes.
func (p *Parser) ParseUnit() []*ast.Class {
	pkg := ""
	if p.match(PACKAGE) {
		pkg = p.parseQualifiedName("expected package name")
		p.consume(SEMICOLON, "expected ';' after package declaration")
	}

	for p.match(IMPORT) {
		p.parseQualifiedName("expected import name")
		if p.match(DOT) {
			p.consume(STAR, "expected '*' or name in import")
		}
		p.consume(SEMICOLON, "expected ';' after import")
	}

	var classes []*ast.Class
	for !p.isAtEnd() {
		var annotations []*ast.Annotation
		for p.check(AT) {
			if a := p.parseAnnotation(); a != nil {
				annotations = append(annotations, a)
			}
		}
		p.skipModifiers()

		if !p.check(CLASS) {
			p.errorAtCurrent("expected class declaration")
			p.synchronize()
			continue
		}
		if c := p.parseClass(pkg); c != nil {
			c.Annotations = append(annotations, c.Annotations...)
			classes = append(classes, c)
		}
	}
	return classes
}

func (p *Parser) skipModifiers() {
	for p.match(MODIFIER) {
	}
}

func (p *Parser) parseClass(pkg string) *ast.Class {
	start := p.consume(CLASS, "expected 'class' keyword")

	name, ok := p.consumeIdent("expected class name")
	if !ok {
		p.synchronize()
		return nil
	}

	class := &ast.Class{Pos: p.makePos(start), Package: pkg, Name: name.Lexeme}
	if p.match(EXTENDS) {
		class.Superclass = p.parseQualifiedName("expected superclass name")
	}

	p.consume(LEFT_BRACE, "expected '{' to start class body")
	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		p.parseMember(class)
	}
	p.consume(RIGHT_BRACE, "expected '}' to close class body")

	if len(p.pendingClauses) > 0 || len(p.pendingAnnotations) > 0 {
		p.errorAtCurrent("method contract not followed by a method")
		p.pendingClauses, p.pendingAnnotations = nil, nil
	}
	return class
}

func (p *Parser) parseMember(class *ast.Class) {
	switch {
	case p.check(AT):
		a := p.parseAnnotation()
		if a == nil {
			return
		}
		if a.Kind == ast.AnnotationInvariant {
			class.Annotations = append(class.Annotations, a)
		} else {
			p.pendingAnnotations = append(p.pendingAnnotations, a)
		}
		return

	case p.check(INVARIANT):
		class.Invariants = append(class.Invariants, p.parseClause(ast.ObjectInvariant))
		return

	case p.check(REQUIRES):
		p.pendingClauses = append(p.pendingClauses, p.parseClause(ast.Precondition))
		return

	case p.check(ENSURES):
		p.pendingClauses = append(p.pendingClauses, p.parseClause(ast.Postcondition))
		return
	}

	p.skipModifiers()
	start := p.peek()

	var ret *ast.TypeRef
	if !p.match(VOID) {
		if !p.check(IDENTIFIER) {
			p.errorAtCurrent("expected field or method declaration")
			p.synchronize()
			return
		}
		ret = p.parseType()
	}

	name, ok := p.consumeIdent("expected member name")
	if !ok {
		p.synchronize()
		return
	}

	if p.check(LEFT_PAREN) {
		class.Methods = append(class.Methods, p.parseMethod(start, ret, name.Lexeme))
		return
	}

	if ret == nil {
		p.errorAtCurrent("field cannot have type void")
	}
	if p.check(EQUAL) {
		p.errorAtCurrent("field initializers are not supported")
		p.synchronize()
		return
	}
	p.consume(SEMICOLON, "expected ';' after field declaration")
	class.Fields = append(class.Fields, &ast.Field{Pos: p.makePos(name), Name: name.Lexeme, Type: ret})
}

// parseClause parses "<keyword> expr;".
func (p *Parser) parseClause(kind ast.ClauseKind) *ast.Clause {
	start := p.advance()
	expr := p.parseExpr()
	p.consume(SEMICOLON, "expected ';' after "+kind.String()+" clause")
	return &ast.Clause{Pos: p.makePos(start), Kind: kind, Expr: expr}
}

// parseAnnotation parses @Invariant("..."), @Requires("...") or @Ensures("...").
func (p *Parser) parseAnnotation() *ast.Annotation {
	start := p.consume(AT, "expected '@'")
	name, ok := p.consumeIdent("expected annotation name")
	if !ok {
		p.synchronize()
		return nil
	}

	p.consume(LEFT_PAREN, "expected '(' after annotation name")
	text := p.consume(STRING, "expected string argument")
	p.consume(RIGHT_PAREN, "expected ')' after annotation argument")

	kind := ast.AnnotationKind(name.Lexeme)
	switch kind {
	case ast.AnnotationInvariant, ast.AnnotationRequires, ast.AnnotationEnsures:
	default:
		p.errors = append(p.errors, ParseError{Message: "unknown annotation @" + name.Lexeme, Position: name.Position})
		return nil
	}
	return &ast.Annotation{Pos: p.makePos(start), Kind: kind, Text: text.Lexeme}
}

func (p *Parser) parseMethod(start Token, ret *ast.TypeRef, name string) *ast.Method {
	m := &ast.Method{
		Pos:         p.makePos(start),
		Name:        name,
		Return:      ret,
		Clauses:     p.pendingClauses,
		Annotations: p.pendingAnnotations,
	}
	p.pendingClauses, p.pendingAnnotations = nil, nil

	m.Params = p.parseParameters()

	if p.match(THROWS) {
		for {
			m.Throws = append(m.Throws, p.parseQualifiedName("expected exception name"))
			if !p.match(COMMA) {
				break
			}
		}
	}

	if p.match(SEMICOLON) {
		return m
	}
	m.Body = p.parseBlock()
	return m
}

// parseParameters parses the parameter list in parentheses
func (p *Parser) parseParameters() []*ast.Param {
	p.consume(LEFT_PAREN, "expected '(' after method name")
	var params []*ast.Param

	for !p.check(RIGHT_PAREN) && !p.isAtEnd() {
		p.skipModifiers()
		typ := p.parseType()
		name, ok := p.consumeIdent("expected parameter name")
		if !ok {
			break
		}

		params = append(params, &ast.Param{Pos: p.makePos(name), Name: name.Lexeme, Type: typ})

		if !p.match(COMMA) {
			break
		}
	}

	p.consume(RIGHT_PAREN, "expected ')' after parameter list")
	return params
}
