package symbols

import (
	"playscript/internal/ast"
	"playscript/internal/source"
	"playscript/internal/types"
)

// Table aggregates scope and symbol arenas together with the type interner
// that owns function and class types.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Types   *types.Interner

	classByType map[types.TypeID]SymbolID
}

// NewTable creates an empty table backed by the given interner.
func NewTable(in *types.Interner) *Table {
	if in == nil {
		in = types.NewInterner()
	}
	return &Table{
		Scopes:      NewScopes(0),
		Symbols:     NewSymbols(0),
		Types:       in,
		classByType: make(map[types.TypeID]SymbolID),
	}
}

// NewScope allocates a scope without an owner symbol.
func (t *Table) NewScope(kind ScopeKind, parent ScopeID, decl ast.NodeID, span source.Span) ScopeID {
	return t.Scopes.New(kind, parent, NoSymbolID, decl, span)
}

// Declare stores sym in scope and indexes it by name.
func (t *Table) Declare(scope ScopeID, sym *Symbol) SymbolID {
	sym.Scope = scope
	id := t.Symbols.New(sym)
	if sc := t.Scopes.Get(scope); sc != nil {
		sc.Symbols = append(sc.Symbols, id)
		sc.NameIndex[sym.Name] = append(sc.NameIndex[sym.Name], id)
	}
	return id
}

// NewVariable declares a variable of type ty in scope.
func (t *Table) NewVariable(scope ScopeID, name string, ty types.TypeID, decl ast.NodeID, span source.Span) SymbolID {
	return t.Declare(scope, &Symbol{
		Kind: SymbolVariable,
		Name: name,
		Decl: decl,
		Span: span,
		Type: ty,
	})
}

// NewFunction declares a function in scope together with the function scope it
// owns. Its function type starts with no parameters and no result.
func (t *Table) NewFunction(scope ScopeID, name string, decl ast.NodeID, span source.Span) SymbolID {
	fnType := t.Types.NewFunction(name, nil, types.NoTypeID)
	id := t.Declare(scope, &Symbol{
		Kind: SymbolFunction,
		Name: name,
		Decl: decl,
		Span: span,
		Type: fnType,
	})
	owned := t.Scopes.New(ScopeFunction, scope, id, decl, span)
	t.Symbols.Get(id).Owns = owned
	return id
}

// NewClass declares a class in scope, allocates its class scope and the
// synthesized "this" variable.
func (t *Table) NewClass(scope ScopeID, name string, decl ast.NodeID, span source.Span) SymbolID {
	classType := t.Types.NewClass(name)
	id := t.Declare(scope, &Symbol{
		Kind: SymbolClass,
		Name: name,
		Decl: decl,
		Span: span,
		Type: classType,
	})
	owned := t.Scopes.New(ScopeClass, scope, id, decl, span)
	// this/super live in the class scope without being listed in it
	this := t.Symbols.New(&Symbol{
		Kind:  SymbolVariable,
		Name:  "this",
		Flags: SymbolFlagThis,
		Scope: owned,
		Decl:  decl,
		Span:  span,
		Type:  classType,
	})
	sym := t.Symbols.Get(id)
	sym.Owns = owned
	sym.This = this
	t.classByType[classType] = id
	return id
}

// SetParentClass links class to parent and synthesizes "super". It reports
// false when the link would create an inheritance cycle.
func (t *Table) SetParentClass(class, parent SymbolID) bool {
	c := t.Symbols.Get(class)
	p := t.Symbols.Get(parent)
	if c == nil || p == nil || c.Kind != SymbolClass || p.Kind != SymbolClass {
		return false
	}
	if !t.Types.SetParent(c.Type, p.Type) {
		return false
	}
	c.ParentClass = parent
	super := t.Symbols.New(&Symbol{
		Kind:  SymbolVariable,
		Name:  "super",
		Flags: SymbolFlagSuper,
		Scope: p.Owns,
		Decl:  c.Decl,
		Span:  c.Span,
		Type:  p.Type,
	})
	t.Symbols.Get(class).Super = super
	return true
}

// ClassOfType maps a class type back to the declaring symbol.
func (t *Table) ClassOfType(ty types.TypeID) SymbolID {
	return t.classByType[ty]
}

// ClassOfScope returns the class symbol owning scope, if scope is a class scope.
func (t *Table) ClassOfScope(scope ScopeID) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil || sc.Kind != ScopeClass {
		return NoSymbolID
	}
	return sc.Owner
}

// FunctionOfScope returns the function symbol owning scope, if any.
func (t *Table) FunctionOfScope(scope ScopeID) SymbolID {
	sc := t.Scopes.Get(scope)
	if sc == nil || sc.Kind != ScopeFunction {
		return NoSymbolID
	}
	return sc.Owner
}

// ParamTypes returns the declared parameter types of a function symbol.
func (t *Table) ParamTypes(fn SymbolID) []types.TypeID {
	sym := t.Symbols.Get(fn)
	if sym == nil {
		return nil
	}
	info, ok := t.Types.FnInfo(sym.Type)
	if !ok {
		return nil
	}
	return info.Params
}

// ResultType returns the declared result type of a function symbol.
func (t *Table) ResultType(fn SymbolID) types.TypeID {
	sym := t.Symbols.Get(fn)
	if sym == nil {
		return types.NoTypeID
	}
	info, ok := t.Types.FnInfo(sym.Type)
	if !ok {
		return types.NoTypeID
	}
	return info.Result
}

// IsMethod reports whether fn is declared directly in a class scope.
func (t *Table) IsMethod(fn SymbolID) bool {
	sym := t.Symbols.Get(fn)
	return sym != nil && sym.Kind == SymbolFunction && t.ClassOfScope(sym.Scope).IsValid()
}

// IsConstructor reports whether fn is named after its enclosing class.
func (t *Table) IsConstructor(fn SymbolID) bool {
	sym := t.Symbols.Get(fn)
	if sym == nil || sym.Kind != SymbolFunction {
		return false
	}
	if sym.Has(SymbolFlagDefaultCtor) {
		return true
	}
	class := t.Symbols.Get(t.ClassOfScope(sym.Scope))
	return class != nil && class.Name == sym.Name
}
