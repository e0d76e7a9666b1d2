package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindNull
	KindVoid
	KindFunction
	KindClass
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "boolean"
	case KindString:
		return "string"
	case KindNull:
		return "null"
	case KindVoid:
		return "void"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// IsPrimitive reports whether k is one of the singleton primitive kinds.
func (k Kind) IsPrimitive() bool {
	return k >= KindInt && k <= KindNull
}

// Type is a compact descriptor. Payload indexes FnInfo or ClassInfo storage.
type Type struct {
	Kind    Kind
	Payload uint32
}
