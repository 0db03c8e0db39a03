package parser

import "taco/internal/ast"

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(tt TokenType) bool {
	if p.isAtEnd() {
		return tt == EOF
	}
	return p.peek().Type == tt
}

func (p *Parser) checkAt(n int, tt TokenType) bool {
	if p.current+n >= len(p.tokens) {
		return false
	}
	return p.tokens[p.current+n].Type == tt
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt TokenType, message string) Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAtCurrent(message)
	illegal := Token{Type: ILLEGAL, Position: p.peek().Position}
	p.advance()
	return illegal
}

func (p *Parser) peek() Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() Token {
	return p.tokens[p.current-1]
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == EOF
}

func (p *Parser) errorAtCurrent(message string) {
	pos := p.peek().Position
	p.errors = append(p.errors, ParseError{
		Message:  message,
		Position: pos,
	})
}

func (p *Parser) makePos(tok Token) ast.Position {
	return ast.Position{
		Filename: p.filename,
		Offset:   tok.Position.Offset,
		Line:     tok.Position.Line,
		Column:   tok.Position.Column,
	}
}

// synchronize skips to the next statement or member boundary after an error.
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON || p.previous().Type == RIGHT_BRACE {
			return
		}

		switch p.peek().Type {
		case CLASS, IF, WHILE, FOR, RETURN, THROW, REQUIRES, ENSURES, AT:
			return
		}

		p.advance()
	}
}

// consumeIdent consumes an identifier token and returns its lexeme
func (p *Parser) consumeIdent(message string) (Token, bool) {
	tok := p.consume(IDENTIFIER, message)
	return tok, tok.Type != ILLEGAL
}

// parseQualifiedName parses a dotted name such as java.lang.Object
func (p *Parser) parseQualifiedName(message string) string {
	tok, ok := p.consumeIdent(message)
	if !ok {
		return ""
	}
	name := tok.Lexeme
	for p.check(DOT) && p.checkAt(1, IDENTIFIER) {
		p.advance()
		name += "." + p.advance().Lexeme
	}
	return name
}

// parseType parses a type reference: a possibly qualified name with an optional "[]".
func (p *Parser) parseType() *ast.TypeRef {
	name := p.parseQualifiedName("expected type name")
	ref := &ast.TypeRef{Name: name}
	if p.check(LEFT_BRACKET) && p.checkAt(1, RIGHT_BRACKET) {
		p.advance()
		p.advance()
		ref.Array = true
	}
	return ref
}

// startsDeclaration reports whether the tokens ahead read "Type name".
func (p *Parser) startsDeclaration() bool {
	if !p.check(IDENTIFIER) {
		return false
	}
	n := 1
	for p.checkAt(n, DOT) && p.checkAt(n+1, IDENTIFIER) {
		n += 2
	}
	if p.checkAt(n, LEFT_BRACKET) && p.checkAt(n+1, RIGHT_BRACKET) {
		n += 2
	}
	return p.checkAt(n, IDENTIFIER)
}
