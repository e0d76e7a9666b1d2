package ast

import (
	"playscript/internal/source"
	"playscript/internal/token"
)

type IdentData struct {
	Name string
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBool
	LitNull
)

func (k LitKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitString:
		return "string"
	case LitBool:
		return "bool"
	case LitNull:
		return "null"
	}
	return "?"
}

// LiteralData keeps the literal text; string literals hold their decoded value.
type LiteralData struct {
	Kind  LitKind
	Value string
}

type BinaryData struct {
	Op    token.Kind
	Left  NodeID
	Right NodeID
}

// UnaryData is shared by prefix (KindUnary) and postfix (KindPostfix) nodes.
type UnaryData struct {
	Op      token.Kind
	Operand NodeID
}

// CallTarget distinguishes plain calls from constructor chaining.
type CallTarget uint8

const (
	CallNamed CallTarget = iota // f(...) or recv.f(...)
	CallThis                    // this(...)
	CallSuper                   // super(...)
)

// CallData describes f(args), recv.f(args), this(args) and super(args).
// Receiver is NoNodeID for unqualified calls.
type CallData struct {
	Target   CallTarget
	Receiver NodeID
	Name     string
	NameSpan source.Span
	Args     []NodeID
}

// SelectorData is a field access X.Name.
type SelectorData struct {
	X        NodeID
	Name     string
	NameSpan source.Span
}

func (t *Tree) NewIdent(span source.Span, name string) NodeID {
	p := t.Idents.Allocate(IdentData{Name: name})
	return t.newNode(KindIdent, span, p)
}

func (t *Tree) Ident(id NodeID) (*IdentData, bool) {
	p, ok := t.payload(id, KindIdent)
	if !ok {
		return nil, false
	}
	return t.Idents.Get(p), true
}

func (t *Tree) NewLiteral(span source.Span, kind LitKind, value string) NodeID {
	p := t.Literals.Allocate(LiteralData{Kind: kind, Value: value})
	return t.newNode(KindLiteral, span, p)
}

func (t *Tree) Literal(id NodeID) (*LiteralData, bool) {
	p, ok := t.payload(id, KindLiteral)
	if !ok {
		return nil, false
	}
	return t.Literals.Get(p), true
}

func (t *Tree) NewBinary(span source.Span, op token.Kind, left, right NodeID) NodeID {
	p := t.Binaries.Allocate(BinaryData{Op: op, Left: left, Right: right})
	return t.newNode(KindBinary, span, p, left, right)
}

func (t *Tree) Binary(id NodeID) (*BinaryData, bool) {
	p, ok := t.payload(id, KindBinary)
	if !ok {
		return nil, false
	}
	return t.Binaries.Get(p), true
}

func (t *Tree) NewUnary(span source.Span, op token.Kind, operand NodeID) NodeID {
	p := t.Unaries.Allocate(UnaryData{Op: op, Operand: operand})
	return t.newNode(KindUnary, span, p, operand)
}

func (t *Tree) NewPostfix(span source.Span, op token.Kind, operand NodeID) NodeID {
	p := t.Unaries.Allocate(UnaryData{Op: op, Operand: operand})
	return t.newNode(KindPostfix, span, p, operand)
}

// Unary returns operator data for prefix and postfix nodes.
func (t *Tree) Unary(id NodeID) (*UnaryData, bool) {
	n := t.Get(id)
	if n == nil || (n.Kind != KindUnary && n.Kind != KindPostfix) {
		return nil, false
	}
	return t.Unaries.Get(uint32(n.Payload)), true
}

func (t *Tree) NewCall(span source.Span, target CallTarget, receiver NodeID, name string, nameSpan source.Span, args []NodeID) NodeID {
	p := t.Calls.Allocate(CallData{
		Target:   target,
		Receiver: receiver,
		Name:     name,
		NameSpan: nameSpan,
		Args:     append([]NodeID(nil), args...),
	})
	id := t.newNode(KindCall, span, p, receiver)
	t.adopt(id, args...)
	return id
}

func (t *Tree) Call(id NodeID) (*CallData, bool) {
	p, ok := t.payload(id, KindCall)
	if !ok {
		return nil, false
	}
	return t.Calls.Get(p), true
}

func (t *Tree) NewSelector(span source.Span, x NodeID, name string, nameSpan source.Span) NodeID {
	p := t.Selectors.Allocate(SelectorData{X: x, Name: name, NameSpan: nameSpan})
	return t.newNode(KindSelector, span, p, x)
}

func (t *Tree) Selector(id NodeID) (*SelectorData, bool) {
	p, ok := t.payload(id, KindSelector)
	if !ok {
		return nil, false
	}
	return t.Selectors.Get(p), true
}

func (t *Tree) NewThis(span source.Span) NodeID {
	return t.newNode(KindThis, span, 0)
}

func (t *Tree) NewSuper(span source.Span) NodeID {
	return t.newNode(KindSuper, span, 0)
}
