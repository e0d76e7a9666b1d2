package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal or 0x-prefixed integer literal.
	IntLit
	// FloatLit is a floating point literal.
	FloatLit
	// StringLit is a double-quoted string literal.
	StringLit

	KwClass    // class
	KwExtends  // extends
	KwFunction // function
	KwIf       // if
	KwElse     // else
	KwWhile    // while
	KwFor      // for
	KwBreak    // break
	KwReturn   // return
	KwThis     // this
	KwSuper    // super
	KwTrue     // true
	KwFalse    // false
	KwNull     // null
	KwVoid     // void
	KwInt      // int
	KwFloat    // float
	KwBoolean  // boolean
	KwString   // string

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	BangEq        // !=
	Bang          // !
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	AndAnd        // &&
	OrOr          // ||
	Dot           // .
	Comma         // ,
	Semicolon     // ;
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	StringLit:     "StringLit",
	KwClass:       "class",
	KwExtends:     "extends",
	KwFunction:    "function",
	KwIf:          "if",
	KwElse:        "else",
	KwWhile:       "while",
	KwFor:         "for",
	KwBreak:       "break",
	KwReturn:      "return",
	KwThis:        "this",
	KwSuper:       "super",
	KwTrue:        "true",
	KwFalse:       "false",
	KwNull:        "null",
	KwVoid:        "void",
	KwInt:         "int",
	KwFloat:       "float",
	KwBoolean:     "boolean",
	KwString:      "string",
	Plus:          "+",
	Minus:         "-",
	Star:          "*",
	Slash:         "/",
	Percent:       "%",
	Assign:        "=",
	PlusAssign:    "+=",
	MinusAssign:   "-=",
	StarAssign:    "*=",
	SlashAssign:   "/=",
	PercentAssign: "%=",
	PlusPlus:      "++",
	MinusMinus:    "--",
	EqEq:          "==",
	BangEq:        "!=",
	Bang:          "!",
	Lt:            "<",
	LtEq:          "<=",
	Gt:            ">",
	GtEq:          ">=",
	AndAnd:        "&&",
	OrOr:          "||",
	Dot:           ".",
	Comma:         ",",
	Semicolon:     ";",
	LParen:        "(",
	RParen:        ")",
	LBrace:        "{",
	RBrace:        "}",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// IsAssign reports whether k is '=' or one of the compound assignments.
func (k Kind) IsAssign() bool {
	switch k {
	case Assign, PlusAssign, MinusAssign, StarAssign, SlashAssign, PercentAssign:
		return true
	default:
		return false
	}
}

// IsCompoundAssign reports whether k is an operator-assignment such as '+='.
func (k Kind) IsCompoundAssign() bool {
	return k != Assign && k.IsAssign()
}

// BaseOp maps a compound assignment to its arithmetic operator ('+=' -> '+').
func (k Kind) BaseOp() Kind {
	switch k {
	case PlusAssign:
		return Plus
	case MinusAssign:
		return Minus
	case StarAssign:
		return Star
	case SlashAssign:
		return Slash
	case PercentAssign:
		return Percent
	default:
		return Invalid
	}
}

// IsComparison covers equality and relational operators.
func (k Kind) IsComparison() bool {
	switch k {
	case EqEq, BangEq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}
