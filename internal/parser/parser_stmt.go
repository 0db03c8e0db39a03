package parser

import "taco/internal/ast"

func (p *Parser) parseBlock() *ast.Block {
	start := p.consume(LEFT_BRACE, "expected '{' to start block")
	block := &ast.Block{Pos: p.makePos(start)}

	for !p.check(RIGHT_BRACE) && !p.isAtEnd() {
		before := p.current
		if s := p.parseStatement(); s != nil {
			block.Stmts = append(block.Stmts, s)
		}
		if p.current == before {
			p.synchronize()
		}
	}

	if len(p.loopClauses) > 0 {
		p.errorAtCurrent("loop clause not followed by a loop")
		p.loopClauses = nil
	}
	p.consume(RIGHT_BRACE, "expected '}' to close block")
	return block
}

// parseBody parses a statement in a branch or loop position as a block.
func (p *Parser) parseBody() *ast.Block {
	if p.check(LEFT_BRACE) {
		return p.parseBlock()
	}
	start := p.peek()
	block := &ast.Block{Pos: p.makePos(start)}
	if s := p.parseStatement(); s != nil {
		block.Stmts = append(block.Stmts, s)
	}
	return block
}

// parseStatement returns nil for statements that only record state, such as
// loop clauses and empty statements.
func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.check(LEFT_BRACE):
		return p.parseBlock()
	case p.check(IF):
		return p.parseIf()
	case p.check(WHILE):
		return p.parseWhile()
	case p.check(FOR):
		return p.parseFor()
	case p.check(RETURN):
		return p.parseReturn()
	case p.check(THROW):
		start := p.advance()
		value := p.parseExpr()
		p.consume(SEMICOLON, "expected ';' after throw statement")
		return &ast.Throw{Pos: p.makePos(start), Exception: value}
	case p.check(ASSERT):
		start := p.advance()
		cond := p.parseExpr()
		p.consume(SEMICOLON, "expected ';' after assert statement")
		return &ast.Assert{Pos: p.makePos(start), Cond: cond}
	case p.check(ASSUME):
		start := p.advance()
		cond := p.parseExpr()
		p.consume(SEMICOLON, "expected ';' after assume statement")
		return &ast.Assume{Pos: p.makePos(start), Cond: cond}
	case p.check(LOOP_INVARIANT):
		p.loopClauses = append(p.loopClauses, p.parseClause(ast.LoopInvariant))
		return nil
	case p.check(DECREASES):
		p.loopClauses = append(p.loopClauses, p.parseClause(ast.LoopVariant))
		return nil
	case p.match(SEMICOLON):
		return nil
	}

	s := p.parseSimpleStatement()
	p.consume(SEMICOLON, "expected ';' after statement")
	return s
}

// parseSimpleStatement parses a declaration, an assignment, an increment or
// an expression statement, without the terminating ';'. Compound assignments
// and increments become plain assignments.
func (p *Parser) parseSimpleStatement() ast.Stmt {
	if p.startsDeclaration() {
		start := p.peek()
		typ := p.parseType()
		name, _ := p.consumeIdent("expected variable name")
		decl := &ast.VarDecl{Pos: p.makePos(start), Name: name.Lexeme, Type: typ}
		if p.match(EQUAL) {
			decl.Init = p.parseExpr()
		}
		return decl
	}

	expr := p.parseExpr()
	pos := expr.NodePos()

	switch {
	case p.match(EQUAL):
		return &ast.Assign{Pos: pos, Target: expr, Value: p.parseExpr()}
	case p.match(PLUS_EQUAL, MINUS_EQUAL, STAR_EQUAL, SLASH_EQUAL, PERCENT_EQUAL):
		op := p.previous().Lexeme[:1]
		return &ast.Assign{Pos: pos, Target: expr, Value: &ast.Binary{Pos: pos, Op: op, X: expr, Y: p.parseExpr()}}
	case p.match(INCREMENT):
		return &ast.Assign{Pos: pos, Target: expr, Value: &ast.Binary{Pos: pos, Op: "+", X: expr, Y: &ast.IntLit{Pos: pos, Value: 1}}}
	case p.match(DECREMENT):
		return &ast.Assign{Pos: pos, Target: expr, Value: &ast.Binary{Pos: pos, Op: "-", X: expr, Y: &ast.IntLit{Pos: pos, Value: 1}}}
	}
	return &ast.ExprStmt{Pos: pos, Expr: expr}
}

func (p *Parser) parseIf() *ast.If {
	start := p.consume(IF, "expected 'if'")
	p.consume(LEFT_PAREN, "expected '(' after 'if'")
	cond := p.parseExpr()
	p.consume(RIGHT_PAREN, "expected ')' after if condition")

	stmt := &ast.If{Pos: p.makePos(start), Cond: cond, Then: p.parseBody()}
	if p.match(ELSE) {
		stmt.Else = p.parseBody()
	}
	return stmt
}

// takeLoopClauses hands the pending loop clauses to the loop being parsed.
func (p *Parser) takeLoopClauses(w *ast.While) {
	for _, c := range p.loopClauses {
		if c.Kind == ast.LoopVariant {
			w.Variant = c
		} else {
			w.Invariants = append(w.Invariants, c)
		}
	}
	p.loopClauses = nil
}

func (p *Parser) parseWhile() *ast.While {
	start := p.consume(WHILE, "expected 'while'")
	w := &ast.While{Pos: p.makePos(start)}
	p.takeLoopClauses(w)

	p.consume(LEFT_PAREN, "expected '(' after 'while'")
	w.Cond = p.parseExpr()
	p.consume(RIGHT_PAREN, "expected ')' after loop condition")
	w.Body = p.parseBody()
	return w
}

// parseFor desugars "for (init; cond; update) body" into
// "{ init; while (cond) { body; update } }".
func (p *Parser) parseFor() ast.Stmt {
	start := p.consume(FOR, "expected 'for'")
	pos := p.makePos(start)
	w := &ast.While{Pos: pos}
	p.takeLoopClauses(w)

	p.consume(LEFT_PAREN, "expected '(' after 'for'")
	var init, update ast.Stmt
	if !p.check(SEMICOLON) {
		init = p.parseSimpleStatement()
	}
	p.consume(SEMICOLON, "expected ';' after for initializer")

	if p.check(SEMICOLON) {
		w.Cond = &ast.BoolLit{Pos: pos, Value: true}
	} else {
		w.Cond = p.parseExpr()
	}
	p.consume(SEMICOLON, "expected ';' after for condition")

	if !p.check(RIGHT_PAREN) {
		update = p.parseSimpleStatement()
	}
	p.consume(RIGHT_PAREN, "expected ')' after for clauses")

	body := p.parseBody()
	w.Body = &ast.Block{Pos: body.Pos, Stmts: body.Stmts}
	if update != nil {
		w.Body.Stmts = append(w.Body.Stmts, update)
	}

	outer := &ast.Block{Pos: pos}
	if init != nil {
		outer.Stmts = append(outer.Stmts, init)
	}
	outer.Stmts = append(outer.Stmts, w)
	return outer
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.consume(RETURN, "expected 'return'")
	var value ast.Expr
	if !p.check(SEMICOLON) {
		value = p.parseExpr()
	}
	p.consume(SEMICOLON, "expected ';' after return statement")

	return &ast.Return{Pos: p.makePos(start), Value: value}
}
