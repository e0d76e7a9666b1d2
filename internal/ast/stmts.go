package ast

import (
	"playscript/internal/source"
)

type IfData struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

type WhileData struct {
	Cond NodeID
	Body NodeID
}

// ForData is a C-style loop. Init is either a single VarDecl (InitDecl) or a list of
// expressions (InitExprs); Cond may be absent.
type ForData struct {
	InitDecl  NodeID
	InitExprs []NodeID
	Cond      NodeID
	Update    []NodeID
	Body      NodeID
}

type ReturnData struct {
	Value NodeID
}

type ExprStmtData struct {
	X NodeID
}

func (t *Tree) NewIf(span source.Span, cond, then, els NodeID) NodeID {
	p := t.Ifs.Allocate(IfData{Cond: cond, Then: then, Else: els})
	return t.newNode(KindIf, span, p, cond, then, els)
}

func (t *Tree) If(id NodeID) (*IfData, bool) {
	p, ok := t.payload(id, KindIf)
	if !ok {
		return nil, false
	}
	return t.Ifs.Get(p), true
}

func (t *Tree) NewWhile(span source.Span, cond, body NodeID) NodeID {
	p := t.Whiles.Allocate(WhileData{Cond: cond, Body: body})
	return t.newNode(KindWhile, span, p, cond, body)
}

func (t *Tree) While(id NodeID) (*WhileData, bool) {
	p, ok := t.payload(id, KindWhile)
	if !ok {
		return nil, false
	}
	return t.Whiles.Get(p), true
}

func (t *Tree) NewFor(span source.Span, initDecl NodeID, initExprs []NodeID, cond NodeID, update []NodeID, body NodeID) NodeID {
	p := t.Fors.Allocate(ForData{
		InitDecl:  initDecl,
		InitExprs: append([]NodeID(nil), initExprs...),
		Cond:      cond,
		Update:    append([]NodeID(nil), update...),
		Body:      body,
	})
	id := t.newNode(KindFor, span, p, initDecl, cond, body)
	t.adopt(id, initExprs...)
	t.adopt(id, update...)
	return id
}

func (t *Tree) For(id NodeID) (*ForData, bool) {
	p, ok := t.payload(id, KindFor)
	if !ok {
		return nil, false
	}
	return t.Fors.Get(p), true
}

func (t *Tree) NewBreak(span source.Span) NodeID {
	return t.newNode(KindBreak, span, 0)
}

func (t *Tree) NewEmpty(span source.Span) NodeID {
	return t.newNode(KindEmpty, span, 0)
}

func (t *Tree) NewReturn(span source.Span, value NodeID) NodeID {
	p := t.Returns.Allocate(ReturnData{Value: value})
	return t.newNode(KindReturn, span, p, value)
}

func (t *Tree) Return(id NodeID) (*ReturnData, bool) {
	p, ok := t.payload(id, KindReturn)
	if !ok {
		return nil, false
	}
	return t.Returns.Get(p), true
}

func (t *Tree) NewExprStmt(span source.Span, x NodeID) NodeID {
	p := t.ExprStmts.Allocate(ExprStmtData{X: x})
	return t.newNode(KindExprStmt, span, p, x)
}

func (t *Tree) ExprStmt(id NodeID) (*ExprStmtData, bool) {
	p, ok := t.payload(id, KindExprStmt)
	if !ok {
		return nil, false
	}
	return t.ExprStmts.Get(p), true
}
