package lexer

import (
	"playscript/internal/diag"
	"playscript/internal/token"
)

// scanNumber accepts 123, 0x1F, 1.5, .5, 1., 1e3 and 2.5E-3.
// Malformed forms are reported and returned as Invalid.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return lx.finishNumber(start, kind)
	}

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok && (b1 == 'x' || b1 == 'X') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			digits := 0
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
				digits++
			}
			sp := lx.cursor.SpanFrom(start)
			if digits == 0 || isIdentContinueByte(lx.cursor.Peek()) {
				return lx.badNumber(start, "malformed hexadecimal literal")
			}
			return token.Token{Kind: token.IntLit, Span: sp, Text: lx.text(sp)}
		}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	if lx.cursor.Peek() == 'e' || lx.cursor.Peek() == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if lx.cursor.Peek() == '+' || lx.cursor.Peek() == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if isIdentStartByte(lx.cursor.Peek()) {
		return lx.badNumber(start, "identifier character directly after number")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

// badNumber swallows the rest of an alphanumeric run so one mistake yields one error.
func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
