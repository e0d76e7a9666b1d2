package token

var keywords = map[string]Kind{
	"class":    KwClass,
	"extends":  KwExtends,
	"function": KwFunction,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"break":    KwBreak,
	"return":   KwReturn,
	"this":     KwThis,
	"super":    KwSuper,
	"true":     KwTrue,
	"false":    KwFalse,
	"null":     KwNull,
	"void":     KwVoid,
	"int":      KwInt,
	"float":    KwFloat,
	"boolean":  KwBoolean,
	"string":   KwString,
}

// LookupKeyword returns the keyword kind for ident, if any.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
