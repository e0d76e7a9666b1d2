package lexer

import (
	"playscript/internal/diag"
)

// skipTrivia consumes whitespace, // line comments and /* block comments */.
// Block comments do not nest.
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case ' ', '\t', '\r', '\n', '\f':
			lx.cursor.Bump()
			continue
		case '/':
			if lx.skipComment() {
				continue
			}
		}
		return
	}
}

func (lx *Lexer) skipComment() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		return true
	case '*':
		lx.cursor.Bump()
		lx.cursor.Bump()
		for !lx.cursor.EOF() {
			if c0, c1, ok := lx.cursor.Peek2(); ok && c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				return true
			}
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
		return true
	}
	return false
}
