package token

import (
	"playscript/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a numeric, boolean, null or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, FloatLit, StringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwClass && t.Kind <= KwString
}

// IsPrimitiveType reports whether the token names a built-in primitive type.
func (t Token) IsPrimitiveType() bool {
	switch t.Kind {
	case KwInt, KwFloat, KwBoolean, KwString:
		return true
	default:
		return false
	}
}

func (t Token) IsIdent() bool { return t.Kind == Ident }
