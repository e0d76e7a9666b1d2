package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
)

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeBlock              // program root, plain blocks, for headers
	ScopeFunction           // function, method or constructor
	ScopeClass              // class body
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeBlock:
		return "block"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	default:
		return "invalid"
	}
}

// Scope models a lexical scope. Function and class scopes are owned by the
// symbol that declares them.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     SymbolID
	Decl      ast.NodeID
	Span      source.Span
	NameIndex map[string][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
