package ast

import (
	"playscript/internal/source"
	"playscript/internal/token"
)

// TypeRefData is shared by primitive (Prim set) and class-name (Name set) type nodes.
type TypeRefData struct {
	Prim token.Kind
	Name string
}

// FuncTypeData is the type literal `function R(P1, P2)`.
type FuncTypeData struct {
	Result NodeID
	Params []NodeID
}

func (t *Tree) NewPrimitiveType(span source.Span, prim token.Kind) NodeID {
	p := t.TypeRefs.Allocate(TypeRefData{Prim: prim})
	return t.newNode(KindTypePrimitive, span, p)
}

func (t *Tree) NewNamedType(span source.Span, name string) NodeID {
	p := t.TypeRefs.Allocate(TypeRefData{Name: name})
	return t.newNode(KindTypeName, span, p)
}

func (t *Tree) NewVoidType(span source.Span) NodeID {
	return t.newNode(KindTypeVoid, span, 0)
}

// TypeRef returns the data of a primitive or named type node.
func (t *Tree) TypeRef(id NodeID) (*TypeRefData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != KindTypePrimitive && n.Kind != KindTypeName) {
		return nil, false
	}
	return t.TypeRefs.Get(uint32(n.Payload)), true
}

func (t *Tree) NewFuncType(span source.Span, result NodeID, params []NodeID) NodeID {
	p := t.FuncTypes.Allocate(FuncTypeData{Result: result, Params: append([]NodeID(nil), params...)})
	id := t.newNode(KindTypeFunc, span, p, result)
	t.adopt(id, params...)
	return id
}

func (t *Tree) FuncType(id NodeID) (*FuncTypeData, bool) {
	p, ok := t.payload(id, KindTypeFunc)
	if !ok {
		return nil, false
	}
	return t.FuncTypes.Get(p), true
}
