package parser

import (
	"strconv"

	"taco/internal/ast"
)

var binaryPrecedence = map[TokenType]int{
	EQUIVALENT:    1,
	IMPLIES:       2,
	OR:            3,
	AND:           4,
	EQUAL_EQUAL:   5,
	BANG_EQUAL:    5,
	LESS:          6,
	LESS_EQUAL:    6,
	GREATER:       6,
	GREATER_EQUAL: 6,
	PLUS:          7,
	MINUS:         7,
	STAR:          8,
	SLASH:         8,
	PERCENT:       8,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrattExpr(0)
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parsePrefixExpr()

	for {
		tok := p.peek()
		prec, ok := binaryPrecedence[tok.Type]
		if !ok || prec < minPrec {
			break
		}

		p.advance()
		next := prec + 1
		if tok.Type == IMPLIES {
			// right associative
			next = prec
		}
		right := p.parsePrattExpr(next)

		expr = &ast.Binary{
			Pos: expr.NodePos(),
			Op:  tok.Lexeme,
			X:   expr,
			Y:   right,
		}
	}

	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.match(MINUS, BANG) {
		op := p.previous()
		value := p.parsePrefixExpr()
		if lit, ok := value.(*ast.IntLit); ok && op.Type == MINUS {
			return &ast.IntLit{Pos: p.makePos(op), Value: -lit.Value}
		}
		return &ast.Unary{
			Pos: p.makePos(op),
			Op:  op.Lexeme,
			X:   value,
		}
	}

	return p.parsePostfixExpr(p.parsePrimaryExpr())
}

func (p *Parser) parsePostfixExpr(expr ast.Expr) ast.Expr {
	for {
		if p.match(DOT) {
			field, ok := p.consumeIdent("expected member name after '.'")
			if !ok {
				return expr
			}
			if p.match(LEFT_PAREN) {
				args := p.parseExprList()
				p.consume(RIGHT_PAREN, "expected ')' after arguments")
				expr = &ast.Call{Pos: expr.NodePos(), Recv: expr, Name: field.Lexeme, Args: args}
			} else {
				expr = &ast.FieldAccess{Pos: expr.NodePos(), X: expr, Field: field.Lexeme}
			}
		} else if p.match(LEFT_BRACKET) {
			index := p.parseExpr()
			p.consume(RIGHT_BRACKET, "expected ']' after index")
			expr = &ast.Index{Pos: expr.NodePos(), X: expr, Index: index}
		} else {
			break
		}
	}

	return expr
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()
	pos := p.makePos(tok)

	switch {
	case p.match(NUMBER, HEX_NUMBER):
		value, err := strconv.ParseInt(tok.Lexeme, 0, 64)
		if err != nil {
			p.errors = append(p.errors, ParseError{Message: "invalid integer literal " + tok.Lexeme, Position: tok.Position})
		}
		return &ast.IntLit{Pos: pos, Value: value}

	case p.match(STRING):
		return &ast.StringLit{Pos: pos, Value: tok.Lexeme}

	case p.match(TRUE, FALSE):
		return &ast.BoolLit{Pos: pos, Value: tok.Type == TRUE}

	case p.match(NULL):
		return &ast.NullLit{Pos: pos}

	case p.match(THIS):
		return &ast.This{Pos: pos}

	case p.match(RESULT):
		return &ast.Result{Pos: pos}

	case p.match(OLD):
		p.consume(LEFT_PAREN, `expected '(' after \old`)
		inner := p.parseExpr()
		p.consume(RIGHT_PAREN, `expected ')' after \old expression`)
		return &ast.Old{Pos: pos, Expr: inner}

	case p.match(NEW):
		typ := p.parseQualifiedName("expected type after 'new'")
		p.consume(LEFT_PAREN, "expected '(' after type")
		args := p.parseExprList()
		p.consume(RIGHT_PAREN, "expected ')' after constructor arguments")
		return &ast.New{Pos: pos, Type: typ, Args: args}

	case p.match(IDENTIFIER):
		if p.match(LEFT_PAREN) {
			args := p.parseExprList()
			p.consume(RIGHT_PAREN, "expected ')' after arguments")
			return &ast.Call{Pos: pos, Name: tok.Lexeme, Args: args}
		}
		return &ast.Ident{Pos: pos, Name: tok.Lexeme}

	case p.match(LEFT_PAREN):
		if p.check(FORALL) || p.check(EXISTS) {
			return p.parseQuantified(pos)
		}
		inner := p.parseExpr()
		p.consume(RIGHT_PAREN, "expected ')'")
		return inner
	}

	p.errorAtCurrent("unexpected token in expression")
	p.advance()
	return &ast.Ident{Pos: pos, Name: "error"}
}

// parseQuantified parses the rest of "(\forall T x; range; body)" or
// "(\exists T x; body)" after the opening parenthesis.
func (p *Parser) parseQuantified(pos ast.Position) ast.Expr {
	forall := p.advance().Type == FORALL
	typ := p.parseType()
	name, _ := p.consumeIdent("expected quantified variable name")
	p.consume(SEMICOLON, "expected ';' after quantified variable")

	q := &ast.Quantified{Pos: pos, Forall: forall, Var: name.Lexeme, Type: typ}
	first := p.parseExpr()
	if p.match(SEMICOLON) {
		q.Range = first
		q.Body = p.parseExpr()
	} else {
		q.Body = first
	}
	p.consume(RIGHT_PAREN, "expected ')' to close quantifier")
	return q
}

func (p *Parser) parseExprList() []ast.Expr {
	var args []ast.Expr
	if p.check(RIGHT_PAREN) {
		return args
	}

	for {
		args = append(args, p.parseExpr())
		if !p.match(COMMA) {
			break
		}
	}

	return args
}
