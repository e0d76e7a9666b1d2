package lexer

import (
	"strings"

	"playscript/internal/diag"
	"playscript/internal/token"

	"golang.org/x/text/unicode/norm"
)

// scanString scans a "..." literal. Token.Text holds the decoded, NFC-normalised value;
// supported escapes are \n \t \r \" \\ and \0.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case '"':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: norm.NFC.String(sb.String())}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			esc := lx.cursor.Bump()
			switch esc {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '"', '\\':
				sb.WriteByte(esc)
			default:
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence")
				sb.WriteByte(esc)
			}
		default:
			sb.WriteByte(lx.cursor.Bump())
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
