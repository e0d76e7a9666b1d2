package ast

import (
	"playscript/internal/source"
)

type Kind uint8

const (
	KindInvalid Kind = iota

	KindProgram
	KindBlock
	KindVarDecl
	KindDeclarator
	KindFuncDecl
	KindParam
	KindClassDecl

	KindIf
	KindWhile
	KindFor
	KindBreak
	KindReturn
	KindExprStmt
	KindEmpty

	KindIdent
	KindLiteral
	KindBinary
	KindUnary   // prefix ! - + ++ --
	KindPostfix // postfix ++ --
	KindCall
	KindSelector
	KindThis
	KindSuper

	KindTypePrimitive
	KindTypeName
	KindTypeFunc
	KindTypeVoid
)

var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindProgram:       "Program",
	KindBlock:         "Block",
	KindVarDecl:       "VarDecl",
	KindDeclarator:    "Declarator",
	KindFuncDecl:      "FuncDecl",
	KindParam:         "Param",
	KindClassDecl:     "ClassDecl",
	KindIf:            "If",
	KindWhile:         "While",
	KindFor:           "For",
	KindBreak:         "Break",
	KindReturn:        "Return",
	KindExprStmt:      "ExprStmt",
	KindEmpty:         "Empty",
	KindIdent:         "Ident",
	KindLiteral:       "Literal",
	KindBinary:        "Binary",
	KindUnary:         "Unary",
	KindPostfix:       "Postfix",
	KindCall:          "Call",
	KindSelector:      "Selector",
	KindThis:          "This",
	KindSuper:         "Super",
	KindTypePrimitive: "TypePrimitive",
	KindTypeName:      "TypeName",
	KindTypeFunc:      "TypeFunc",
	KindTypeVoid:      "TypeVoid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// IsExpr reports whether nodes of kind k carry a value.
func (k Kind) IsExpr() bool {
	return k >= KindIdent && k <= KindSuper
}

// IsType reports whether k is a type expression.
func (k Kind) IsType() bool {
	return k >= KindTypePrimitive && k <= KindTypeVoid
}

// Node is the common header of every tree node. Kind-specific data lives in
// the payload arenas of Tree and is reached through the typed accessors.
type Node struct {
	Kind    Kind
	Span    source.Span
	Parent  NodeID
	Payload PayloadID
}
