package parser

import (
	"strconv"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/token"
)

// Binary operator precedence, higher binds tighter. Assignment is handled
// separately because it is right associative.
const (
	precLogicalOr      = 1 // ||
	precLogicalAnd     = 2 // &&
	precEquality       = 3 // == !=
	precComparison     = 4 // < <= > >=
	precAdditive       = 5 // + -
	precMultiplicative = 6 // * / %
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.OrOr:
		return precLogicalOr
	case token.AndAnd:
		return precLogicalAnd
	case token.EqEq, token.BangEq:
		return precEquality
	case token.Lt, token.LtEq, token.Gt, token.GtEq:
		return precComparison
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.Percent:
		return precMultiplicative
	}
	return -1
}

func (p *Parser) parseExpr() ast.NodeID {
	return p.parseAssignment()
}

// parseAssignment: lhs (= | += | -= | *= | /= | %=) assignment, right associative.
func (p *Parser) parseAssignment() ast.NodeID {
	lhs := p.parseBinary(precLogicalOr)
	if !lhs.IsValid() {
		return ast.NoNodeID
	}
	if op := p.peek(); op.Kind.IsAssign() {
		p.advance()
		rhs := p.parseAssignment()
		if !rhs.IsValid() {
			return ast.NoNodeID
		}
		return p.tree.NewBinary(p.tree.Span(lhs).Cover(p.tree.Span(rhs)), op.Kind, lhs, rhs)
	}
	return lhs
}

func (p *Parser) parseBinary(minPrec int) ast.NodeID {
	left := p.parseUnary()
	if !left.IsValid() {
		return ast.NoNodeID
	}
	for {
		op := p.peek()
		prec := binaryPrec(op.Kind)
		if prec < minPrec {
			return left
		}
		p.advance()
		right := p.parseBinary(prec + 1)
		if !right.IsValid() {
			return ast.NoNodeID
		}
		left = p.tree.NewBinary(p.tree.Span(left).Cover(p.tree.Span(right)), op.Kind, left, right)
	}
}

func (p *Parser) parseUnary() ast.NodeID {
	op := p.peek()
	switch op.Kind {
	case token.Bang, token.Minus, token.Plus, token.PlusPlus, token.MinusMinus:
		p.advance()
		operand := p.parseUnary()
		if !operand.IsValid() {
			return ast.NoNodeID
		}
		return p.tree.NewUnary(op.Span.Cover(p.tree.Span(operand)), op.Kind, operand)
	}
	return p.parsePostfix()
}

// parsePostfix handles member access, method calls and postfix ++/--.
func (p *Parser) parsePostfix() ast.NodeID {
	x := p.parsePrimary()
	if !x.IsValid() {
		return ast.NoNodeID
	}
	for {
		switch p.peek().Kind {
		case token.Dot:
			p.advance()
			name, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected member name after '.'")
			if !ok {
				return ast.NoNodeID
			}
			if p.at(token.LParen) {
				args, ok := p.parseArgs()
				if !ok {
					return ast.NoNodeID
				}
				x = p.tree.NewCall(p.tree.Span(x).Cover(p.lastSpan), ast.CallNamed, x, name.Text, name.Span, args)
				continue
			}
			x = p.tree.NewSelector(p.tree.Span(x).Cover(name.Span), x, name.Text, name.Span)
		case token.PlusPlus, token.MinusMinus:
			op := p.advance()
			x = p.tree.NewPostfix(p.tree.Span(x).Cover(op.Span), op.Kind, x)
		default:
			return x
		}
	}
}

func (p *Parser) parseArgs() ([]ast.NodeID, bool) {
	p.advance() // (
	var args []ast.NodeID
	if !p.at(token.RParen) {
		args = p.parseExprList()
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close argument list"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() ast.NodeID {
	tok := p.peek()
	switch tok.Kind {
	case token.IntLit:
		p.advance()
		if _, err := strconv.ParseInt(tok.Text, 0, 64); err != nil {
			p.report(diag.LexBadNumber, tok.Span, "invalid integer literal: "+tok.Text)
		}
		return p.tree.NewLiteral(tok.Span, ast.LitInt, tok.Text)
	case token.FloatLit:
		p.advance()
		if _, err := strconv.ParseFloat(tok.Text, 64); err != nil {
			p.report(diag.LexBadNumber, tok.Span, "invalid float literal: "+tok.Text)
		}
		return p.tree.NewLiteral(tok.Span, ast.LitFloat, tok.Text)
	case token.StringLit:
		p.advance()
		return p.tree.NewLiteral(tok.Span, ast.LitString, tok.Text)
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.tree.NewLiteral(tok.Span, ast.LitBool, tok.Text)
	case token.KwNull:
		p.advance()
		return p.tree.NewLiteral(tok.Span, ast.LitNull, tok.Text)
	case token.Ident:
		p.advance()
		if p.at(token.LParen) {
			return p.finishCall(tok.Span, ast.CallNamed, tok.Text, tok.Span)
		}
		return p.tree.NewIdent(tok.Span, tok.Text)
	case token.KwThis:
		p.advance()
		if p.at(token.LParen) {
			return p.finishCall(tok.Span, ast.CallThis, "this", tok.Span)
		}
		return p.tree.NewThis(tok.Span)
	case token.KwSuper:
		p.advance()
		if p.at(token.LParen) {
			return p.finishCall(tok.Span, ast.CallSuper, "super", tok.Span)
		}
		return p.tree.NewSuper(tok.Span)
	case token.LParen:
		p.advance()
		x := p.parseExpr()
		if !x.IsValid() {
			return ast.NoNodeID
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID
		}
		return x
	}
	p.err(diag.SynExpectExpression, "expected expression, got '"+tok.Kind.String()+"'")
	return ast.NoNodeID
}

func (p *Parser) finishCall(start source.Span, target ast.CallTarget, name string, nameSpan source.Span) ast.NodeID {
	args, ok := p.parseArgs()
	if !ok {
		return ast.NoNodeID
	}
	return p.tree.NewCall(p.spanFrom(start), target, ast.NoNodeID, name, nameSpan, args)
}
