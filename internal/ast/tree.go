package ast

import (
	"playscript/internal/source"
)

// Tree owns every node of one parsed compilation unit.
type Tree struct {
	File source.FileID
	Root NodeID

	Nodes *Arena[Node]

	Blocks      *Arena[BlockData]
	VarDecls    *Arena[VarDeclData]
	Declarators *Arena[DeclaratorData]
	FuncDecls   *Arena[FuncDeclData]
	Params      *Arena[ParamData]
	ClassDecls  *Arena[ClassDeclData]
	Ifs         *Arena[IfData]
	Whiles      *Arena[WhileData]
	Fors        *Arena[ForData]
	Returns     *Arena[ReturnData]
	ExprStmts   *Arena[ExprStmtData]
	Idents      *Arena[IdentData]
	Literals    *Arena[LiteralData]
	Binaries    *Arena[BinaryData]
	Unaries     *Arena[UnaryData]
	Calls       *Arena[CallData]
	Selectors   *Arena[SelectorData]
	TypeRefs    *Arena[TypeRefData]
	FuncTypes   *Arena[FuncTypeData]
}

// NewTree creates an empty tree; capHint sizes the node arena.
func NewTree(file source.FileID, capHint uint) *Tree {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Tree{
		File:        file,
		Nodes:       NewArena[Node](capHint),
		Blocks:      NewArena[BlockData](small),
		VarDecls:    NewArena[VarDeclData](small),
		Declarators: NewArena[DeclaratorData](small),
		FuncDecls:   NewArena[FuncDeclData](small),
		Params:      NewArena[ParamData](small),
		ClassDecls:  NewArena[ClassDeclData](small),
		Ifs:         NewArena[IfData](small),
		Whiles:      NewArena[WhileData](small),
		Fors:        NewArena[ForData](small),
		Returns:     NewArena[ReturnData](small),
		ExprStmts:   NewArena[ExprStmtData](small),
		Idents:      NewArena[IdentData](capHint / 4),
		Literals:    NewArena[LiteralData](small),
		Binaries:    NewArena[BinaryData](small),
		Unaries:     NewArena[UnaryData](small),
		Calls:       NewArena[CallData](small),
		Selectors:   NewArena[SelectorData](small),
		TypeRefs:    NewArena[TypeRefData](small),
		FuncTypes:   NewArena[FuncTypeData](small),
	}
}

// Get returns the node header, or nil for NoNodeID.
func (t *Tree) Get(id NodeID) *Node {
	return t.Nodes.Get(uint32(id))
}

// Kind returns KindInvalid for unknown ids.
func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Get(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Get(id); n != nil {
		return n.Span
	}
	return source.Span{File: t.File}
}

func (t *Tree) Parent(id NodeID) NodeID {
	if n := t.Get(id); n != nil {
		return n.Parent
	}
	return NoNodeID
}

// Len returns the number of allocated nodes.
func (t *Tree) Len() uint32 {
	return t.Nodes.Len()
}

func (t *Tree) newNode(kind Kind, span source.Span, payload uint32, children ...NodeID) NodeID {
	id := NodeID(t.Nodes.Allocate(Node{Kind: kind, Span: span, Payload: PayloadID(payload)}))
	t.adopt(id, children...)
	return id
}

func (t *Tree) adopt(parent NodeID, children ...NodeID) {
	for _, c := range children {
		if n := t.Get(c); n != nil {
			n.Parent = parent
		}
	}
}

func (t *Tree) payload(id NodeID, kind Kind) (uint32, bool) {
	n := t.Get(id)
	if n == nil || n.Kind != kind {
		return 0, false
	}
	return uint32(n.Payload), true
}
