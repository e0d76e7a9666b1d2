package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
)

// Scopes owns every scope of a table. IDs are 1-based; 0 is NoScopeID.
type Scopes struct {
	arena *ast.Arena[Scope]
}

func NewScopes(capHint uint) *Scopes {
	return &Scopes{arena: ast.NewArena[Scope](max(capHint, 32))}
}

// New allocates a scope and appends it to the children of parent.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, owner SymbolID, decl ast.NodeID, span source.Span) ScopeID {
	id := ScopeID(s.arena.Allocate(Scope{
		Kind:      kind,
		Parent:    parent,
		Owner:     owner,
		Decl:      decl,
		Span:      span,
		NameIndex: make(map[string][]SymbolID),
	}))
	if p := s.Get(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Get returns nil for NoScopeID and unknown IDs.
func (s *Scopes) Get(id ScopeID) *Scope { return s.arena.Get(uint32(id)) }

func (s *Scopes) Len() int { return int(s.arena.Len()) }

// Symbols owns every symbol of a table. IDs are 1-based; 0 is NoSymbolID.
type Symbols struct {
	arena *ast.Arena[Symbol]
}

func NewSymbols(capHint uint) *Symbols {
	return &Symbols{arena: ast.NewArena[Symbol](max(capHint, 64))}
}

// New stores a copy of sym.
func (s *Symbols) New(sym *Symbol) SymbolID {
	return SymbolID(s.arena.Allocate(*sym))
}

func (s *Symbols) Get(id SymbolID) *Symbol { return s.arena.Get(uint32(id)) }

func (s *Symbols) Len() int { return int(s.arena.Len()) }
