package parser

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
)

// parseBlockStatement parses one item of a block or of the program:
// a variable declaration, a function, a class or a statement.
func (p *Parser) parseBlockStatement() ast.NodeID {
	switch {
	case p.at(token.KwClass):
		return p.parseClassDecl()
	case p.at(token.KwVoid):
		return p.parseFuncDecl(p.parseResultType())
	case p.startsType():
		start := p.peek().Span
		typ := p.parseType()
		if !typ.IsValid() {
			p.syncStmt()
			return ast.NoNodeID
		}
		if p.peek().Kind == token.Ident && p.peekN(1).Kind == token.LParen {
			return p.parseFuncDecl(typ)
		}
		id := p.parseVarDeclRest(start, typ)
		if _, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after variable declaration"); !ok {
			p.syncStmt()
		}
		return id
	default:
		return p.parseStatement()
	}
}

// startsType reports whether the upcoming tokens begin a declaration with a type:
// a primitive type keyword, a function type, or `Name ident` for class types.
func (p *Parser) startsType() bool {
	switch p.peek().Kind {
	case token.KwInt, token.KwFloat, token.KwBoolean, token.KwString, token.KwFunction:
		return true
	case token.Ident:
		return p.peekN(1).Kind == token.Ident
	}
	return false
}

// parseVarDeclRest parses `declarator (',' declarator)*` after the type.
func (p *Parser) parseVarDeclRest(start source.Span, typ ast.NodeID) ast.NodeID {
	var decls []ast.NodeID
	for {
		name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			break
		}
		init := ast.NoNodeID
		if p.eat(token.Assign) {
			init = p.parseExpr()
		}
		decls = append(decls, p.tree.NewDeclarator(name.Span.Cover(p.lastSpan), name.Text, name.Span, init))
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.tree.NewVarDecl(p.spanFrom(start), typ, decls)
}

func (p *Parser) parseResultType() ast.NodeID {
	if p.at(token.KwVoid) {
		tok := p.advance()
		return p.tree.NewVoidType(tok.Span)
	}
	return p.parseType()
}

// parseType parses a primitive, class or function type.
func (p *Parser) parseType() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.KwInt, token.KwFloat, token.KwBoolean, token.KwString:
		p.advance()
		return p.tree.NewPrimitiveType(tok.Span, tok.Kind)
	case token.Ident:
		p.advance()
		return p.tree.NewNamedType(tok.Span, tok.Text)
	case token.KwFunction:
		p.advance()
		result := p.parseResultType()
		if !result.IsValid() {
			return ast.NoNodeID
		}
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' in function type"); !ok {
			return ast.NoNodeID
		}
		var params []ast.NodeID
		if !p.at(token.RParen) {
			for {
				pt := p.parseType()
				if !pt.IsValid() {
					return ast.NoNodeID
				}
				params = append(params, pt)
				if !p.eat(token.Comma) {
					break
				}
			}
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close function type"); !ok {
			return ast.NoNodeID
		}
		return p.tree.NewFuncType(p.spanFrom(tok.Span), result, params)
	}
	p.err(diag.SynExpectType, "expected type")
	return ast.NoNodeID
}

// parseFuncDecl parses `IDENT '(' params ')' block`; result is NoNodeID for constructors.
func (p *Parser) parseFuncDecl(result ast.NodeID) ast.NodeID {
	start := p.peek().Span
	if result.IsValid() {
		start = p.tree.Span(result)
	}
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name")
	if !ok {
		p.syncStmt()
		return ast.NoNodeID
	}
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name"); !ok {
		p.syncStmt()
		return ast.NoNodeID
	}
	var params []ast.NodeID
	if !p.at(token.RParen) {
		for {
			pstart := p.peek().Span
			pt := p.parseType()
			if !pt.IsValid() {
				break
			}
			pname, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
			if !ok {
				break
			}
			params = append(params, p.tree.NewParam(p.spanFrom(pstart), pt, pname.Text, pname.Span))
			if !p.eat(token.Comma) {
				break
			}
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		for !p.atOr(token.RParen, token.LBrace, token.EOF) {
			p.advance()
		}
		p.eat(token.RParen)
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' to start function body")
		p.syncStmt()
		return ast.NoNodeID
	}
	body := p.parseBlock()
	return p.tree.NewFuncDecl(p.spanFrom(start), name.Text, name.Span, result, params, body)
}

func (p *Parser) parseClassDecl() ast.NodeID {
	start := p.advance().Span // class
	name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected class name")
	if !ok {
		p.syncStmt()
		return ast.NoNodeID
	}
	extends := ast.NoNodeID
	if p.eat(token.KwExtends) {
		if tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parent class name"); ok {
			extends = p.tree.NewNamedType(tok.Span, tok.Text)
		}
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' to start class body"); !ok {
		p.syncStmt()
		return ast.NoNodeID
	}

	outer := p.className
	p.className = name.Text
	var members []ast.NodeID
	for !p.atOr(token.RBrace, token.EOF) {
		before := p.pos
		if id := p.parseMember(); id.IsValid() {
			members = append(members, id)
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.className = outer
	p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}' to close class body")
	return p.tree.NewClassDecl(p.spanFrom(start), name.Text, name.Span, extends, members)
}

// parseMember parses a field, method, constructor or nested class.
func (p *Parser) parseMember() ast.NodeID {
	switch {
	case p.eat(token.Semicolon):
		return ast.NoNodeID
	case p.at(token.KwClass), p.at(token.KwVoid), p.startsType():
		return p.parseBlockStatement()
	case p.at(token.Ident) && p.peekN(1).Kind == token.LParen:
		if name := p.peek(); name.Text != p.className {
			p.report(diag.SynExpectType, name.Span, "function "+name.Text+" needs a result type; only constructors omit it")
		}
		return p.parseFuncDecl(ast.NoNodeID)
	}
	p.err(diag.SynUnexpectedToken, "expected field, method or constructor declaration, got '"+p.peek().Kind.String()+"'")
	p.syncStmt()
	return ast.NoNodeID
}
