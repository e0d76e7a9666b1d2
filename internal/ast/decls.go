package ast

import (
	"playscript/internal/source"
)

// BlockData holds the statements of a Program or a Block.
type BlockData struct {
	Stmts []NodeID
}

type VarDeclData struct {
	Type  NodeID
	Decls []NodeID // KindDeclarator
}

type DeclaratorData struct {
	Name     string
	NameSpan source.Span
	Init     NodeID // NoNodeID when absent
}

// FuncDeclData describes a function, method or constructor.
// Result is NoNodeID for constructors.
type FuncDeclData struct {
	Name     string
	NameSpan source.Span
	Result   NodeID
	Params   []NodeID // KindParam
	Body     NodeID   // KindBlock
}

type ParamData struct {
	Type     NodeID
	Name     string
	NameSpan source.Span
}

type ClassDeclData struct {
	Name     string
	NameSpan source.Span
	Extends  NodeID // KindTypeName or NoNodeID
	Members  []NodeID
}

func (t *Tree) NewProgram(span source.Span, stmts []NodeID) NodeID {
	p := t.Blocks.Allocate(BlockData{Stmts: append([]NodeID(nil), stmts...)})
	id := t.newNode(KindProgram, span, p, stmts...)
	t.Root = id
	return id
}

func (t *Tree) NewBlock(span source.Span, stmts []NodeID) NodeID {
	p := t.Blocks.Allocate(BlockData{Stmts: append([]NodeID(nil), stmts...)})
	return t.newNode(KindBlock, span, p, stmts...)
}

// Block returns statements of a Block or Program node.
func (t *Tree) Block(id NodeID) (*BlockData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != KindBlock && n.Kind != KindProgram) {
		return nil, false
	}
	return t.Blocks.Get(uint32(n.Payload)), true
}

func (t *Tree) NewVarDecl(span source.Span, typ NodeID, decls []NodeID) NodeID {
	p := t.VarDecls.Allocate(VarDeclData{Type: typ, Decls: append([]NodeID(nil), decls...)})
	id := t.newNode(KindVarDecl, span, p, typ)
	t.adopt(id, decls...)
	return id
}

func (t *Tree) VarDecl(id NodeID) (*VarDeclData, bool) {
	p, ok := t.payload(id, KindVarDecl)
	if !ok {
		return nil, false
	}
	return t.VarDecls.Get(p), true
}

func (t *Tree) NewDeclarator(span source.Span, name string, nameSpan source.Span, init NodeID) NodeID {
	p := t.Declarators.Allocate(DeclaratorData{Name: name, NameSpan: nameSpan, Init: init})
	return t.newNode(KindDeclarator, span, p, init)
}

func (t *Tree) Declarator(id NodeID) (*DeclaratorData, bool) {
	p, ok := t.payload(id, KindDeclarator)
	if !ok {
		return nil, false
	}
	return t.Declarators.Get(p), true
}

func (t *Tree) NewFuncDecl(span source.Span, name string, nameSpan source.Span, result NodeID, params []NodeID, body NodeID) NodeID {
	p := t.FuncDecls.Allocate(FuncDeclData{
		Name:     name,
		NameSpan: nameSpan,
		Result:   result,
		Params:   append([]NodeID(nil), params...),
		Body:     body,
	})
	id := t.newNode(KindFuncDecl, span, p, result, body)
	t.adopt(id, params...)
	return id
}

func (t *Tree) FuncDecl(id NodeID) (*FuncDeclData, bool) {
	p, ok := t.payload(id, KindFuncDecl)
	if !ok {
		return nil, false
	}
	return t.FuncDecls.Get(p), true
}

func (t *Tree) NewParam(span source.Span, typ NodeID, name string, nameSpan source.Span) NodeID {
	p := t.Params.Allocate(ParamData{Type: typ, Name: name, NameSpan: nameSpan})
	return t.newNode(KindParam, span, p, typ)
}

func (t *Tree) Param(id NodeID) (*ParamData, bool) {
	p, ok := t.payload(id, KindParam)
	if !ok {
		return nil, false
	}
	return t.Params.Get(p), true
}

func (t *Tree) NewClassDecl(span source.Span, name string, nameSpan source.Span, extends NodeID, members []NodeID) NodeID {
	p := t.ClassDecls.Allocate(ClassDeclData{
		Name:     name,
		NameSpan: nameSpan,
		Extends:  extends,
		Members:  append([]NodeID(nil), members...),
	})
	id := t.newNode(KindClassDecl, span, p, extends)
	t.adopt(id, members...)
	return id
}

func (t *Tree) ClassDecl(id NodeID) (*ClassDeclData, bool) {
	p, ok := t.payload(id, KindClassDecl)
	if !ok {
		return nil, false
	}
	return t.ClassDecls.Get(p), true
}
