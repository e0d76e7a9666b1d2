package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolVariable
	SymbolFunction
	SymbolClass
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolVariable:
		return "variable"
	case SymbolFunction:
		return "function"
	case SymbolClass:
		return "class"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint8

const (
	SymbolFlagParam SymbolFlags = 1 << iota
	SymbolFlagThis
	SymbolFlagSuper
	SymbolFlagDefaultCtor
)

// Strings returns a slice of textual flag labels.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 2)
	if f&SymbolFlagParam != 0 {
		labels = append(labels, "param")
	}
	if f&SymbolFlagThis != 0 {
		labels = append(labels, "this")
	}
	if f&SymbolFlagSuper != 0 {
		labels = append(labels, "super")
	}
	if f&SymbolFlagDefaultCtor != 0 {
		labels = append(labels, "default-ctor")
	}
	return labels
}

// Symbol is one declared name.
//
// Type holds the declared type of a variable, the function type of a function
// (its own identity, structurally comparable) or the nominal type of a class.
type Symbol struct {
	Kind  SymbolKind
	Name  string
	Flags SymbolFlags
	Scope ScopeID // enclosing scope
	Decl  ast.NodeID
	Span  source.Span
	Type  types.TypeID

	// functions and classes
	Owns ScopeID

	// functions
	Params  []SymbolID
	Closure []SymbolID

	// classes
	ParentClass SymbolID
	This        SymbolID
	Super       SymbolID
	DefaultCtor SymbolID
}

func (s *Symbol) Has(f SymbolFlags) bool { return s.Flags&f != 0 }
