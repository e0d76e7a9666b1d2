package parser

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/token"
)

func (p *Parser) parseBlock() ast.NodeID {
	start := p.advance().Span // {
	var stmts []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		before := p.pos
		if id := p.parseBlockStatement(); id.IsValid() {
			stmts = append(stmts, id)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close block")
	return p.tree.NewBlock(p.spanFrom(start), stmts)
}

func (p *Parser) parseStatement() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.LBrace:
		return p.parseBlock()
	case token.Semicolon:
		p.advance()
		return p.tree.NewEmpty(tok.Span)
	case token.KwIf:
		return p.parseIf()
	case token.KwWhile:
		return p.parseWhile()
	case token.KwFor:
		return p.parseFor()
	case token.KwBreak:
		p.advance()
		p.expectSemicolon("break")
		return p.tree.NewBreak(p.spanFrom(tok.Span))
	case token.KwReturn:
		p.advance()
		value := ast.NoNodeID
		if !p.atOr(token.Semicolon, token.RBrace, token.EOF) {
			value = p.parseExpr()
		}
		p.expectSemicolon("return statement")
		return p.tree.NewReturn(p.spanFrom(tok.Span), value)
	case token.RBrace, token.EOF:
		p.err(diag.SynUnexpectedToken, "unexpected '"+tok.Kind.String()+"'")
		return ast.NoNodeID
	}
	x := p.parseExpr()
	if !x.IsValid() {
		p.syncStmt()
		return ast.NoNodeID
	}
	p.expectSemicolon("expression")
	return p.tree.NewExprStmt(p.spanFrom(tok.Span), x)
}

func (p *Parser) expectSemicolon(after string) {
	if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+after); !ok {
		p.syncStmt()
	}
}

func (p *Parser) parseParenCond(what string) ast.NodeID {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+what); !ok {
		return ast.NoNodeID
	}
	cond := p.parseExpr()
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after "+what+" condition"); !ok {
		for !p.atOr(token.RParen, token.LBrace, token.Semicolon, token.EOF) {
			p.advance()
		}
		p.eat(token.RParen)
	}
	return cond
}

// parseBody parses a loop or branch body, which must be a statement, not a declaration.
func (p *Parser) parseBody() ast.NodeID {
	if p.atOr(token.KwClass, token.KwVoid) || p.startsType() {
		p.err(diag.SynUnexpectedToken, "declaration is not allowed here; wrap it in a block")
		return p.parseBlockStatement()
	}
	return p.parseStatement()
}

func (p *Parser) parseIf() ast.NodeID {
	start := p.advance().Span
	cond := p.parseParenCond("if")
	then := p.parseBody()
	els := ast.NoNodeID
	if p.eat(token.KwElse) {
		els = p.parseBody()
	}
	return p.tree.NewIf(p.spanFrom(start), cond, then, els)
}

func (p *Parser) parseWhile() ast.NodeID {
	start := p.advance().Span
	cond := p.parseParenCond("while")
	body := p.parseBody()
	return p.tree.NewWhile(p.spanFrom(start), cond, body)
}

// parseFor parses `for (init; cond; update) body`; every header part is optional.
func (p *Parser) parseFor() ast.NodeID {
	start := p.advance().Span
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after for"); !ok {
		p.syncStmt()
		return ast.NoNodeID
	}
	initDecl := ast.NoNodeID
	var initExprs []ast.NodeID
	if !p.at(token.Semicolon) {
		if p.startsType() {
			ds := p.peek().Span
			if typ := p.parseType(); typ.IsValid() {
				initDecl = p.parseVarDeclRest(ds, typ)
			}
		} else {
			initExprs = p.parseExprList()
		}
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for initializer")
	cond := ast.NoNodeID
	if !p.at(token.Semicolon) {
		cond = p.parseExpr()
	}
	p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after for condition")
	var update []ast.NodeID
	if !p.at(token.RParen) {
		update = p.parseExprList()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close for header"); !ok {
		for !p.atOr(token.RParen, token.LBrace, token.EOF) {
			p.advance()
		}
		p.eat(token.RParen)
	}
	body := p.parseBody()
	return p.tree.NewFor(p.spanFrom(start), initDecl, initExprs, cond, update, body)
}

func (p *Parser) parseExprList() []ast.NodeID {
	var out []ast.NodeID
	for {
		x := p.parseExpr()
		if !x.IsValid() {
			return out
		}
		out = append(out, x)
		if !p.eat(token.Comma) {
			return out
		}
	}
}
