package symbols

import "playscript/internal/types"

// Local queries look only at scope itself; for class scopes they continue
// through the parent class chain.

// Variable finds a variable named name.
func (t *Table) Variable(scope ScopeID, name string) SymbolID {
	return t.findMember(scope, func(sc *Scope) SymbolID {
		for _, id := range sc.NameIndex[name] {
			if t.Symbols.Get(id).Kind == SymbolVariable {
				return id
			}
		}
		return NoSymbolID
	})
}

// Function finds a function named name whose parameters accept args.
func (t *Table) Function(scope ScopeID, name string, args []types.TypeID) SymbolID {
	return t.findMember(scope, func(sc *Scope) SymbolID {
		for _, id := range sc.NameIndex[name] {
			sym := t.Symbols.Get(id)
			if sym.Kind == SymbolFunction && t.Types.MatchParams(sym.Type, args) {
				return id
			}
		}
		return NoSymbolID
	})
}

// FunctionVariable finds a function-typed variable named name whose type accepts args.
func (t *Table) FunctionVariable(scope ScopeID, name string, args []types.TypeID) SymbolID {
	return t.findMember(scope, func(sc *Scope) SymbolID {
		for _, id := range sc.NameIndex[name] {
			sym := t.Symbols.Get(id)
			if sym.Kind != SymbolVariable || t.Types.Kind(sym.Type) != types.KindFunction {
				continue
			}
			if t.Types.MatchParams(sym.Type, args) {
				return id
			}
		}
		return NoSymbolID
	})
}

// Class finds a class named name.
func (t *Table) Class(scope ScopeID, name string) SymbolID {
	return t.findMember(scope, func(sc *Scope) SymbolID {
		for _, id := range sc.NameIndex[name] {
			if t.Symbols.Get(id).Kind == SymbolClass {
				return id
			}
		}
		return NoSymbolID
	})
}

// MethodByName finds any function named name, ignoring parameters.
func (t *Table) MethodByName(scope ScopeID, name string) SymbolID {
	return t.findMember(scope, func(sc *Scope) SymbolID {
		for _, id := range sc.NameIndex[name] {
			if t.Symbols.Get(id).Kind == SymbolFunction {
				return id
			}
		}
		return NoSymbolID
	})
}

// ContainsSymbol reports whether sym belongs to scope. Class scopes also
// contain their this/super variables and everything inherited.
func (t *Table) ContainsSymbol(scope ScopeID, sym SymbolID) bool {
	for scope.IsValid() {
		sc := t.Scopes.Get(scope)
		if sc == nil {
			return false
		}
		s := t.Symbols.Get(sym)
		if s != nil && s.Scope == scope && !s.Has(SymbolFlagThis|SymbolFlagSuper) {
			return true
		}
		if sc.Kind != ScopeClass {
			return false
		}
		class := t.Symbols.Get(sc.Owner)
		if class.This == sym || (class.Super.IsValid() && class.Super == sym) {
			return true
		}
		scope = t.parentClassScope(scope)
	}
	return false
}

func (t *Table) findMember(scope ScopeID, match func(*Scope) SymbolID) SymbolID {
	for scope.IsValid() {
		sc := t.Scopes.Get(scope)
		if sc == nil {
			return NoSymbolID
		}
		if id := match(sc); id.IsValid() {
			return id
		}
		if sc.Kind != ScopeClass {
			return NoSymbolID
		}
		scope = t.parentClassScope(scope)
	}
	return NoSymbolID
}

func (t *Table) parentClassScope(scope ScopeID) ScopeID {
	class := t.Symbols.Get(t.ClassOfScope(scope))
	if class == nil || !class.ParentClass.IsValid() {
		return NoScopeID
	}
	return t.Symbols.Get(class.ParentClass).Owns
}

// FindConstructor looks for an explicit constructor of class accepting args.
// Inherited constructors are not considered.
func (t *Table) FindConstructor(class SymbolID, args []types.TypeID) SymbolID {
	c := t.Symbols.Get(class)
	if c == nil || c.Kind != SymbolClass {
		return NoSymbolID
	}
	sc := t.Scopes.Get(c.Owns)
	for _, id := range sc.NameIndex[c.Name] {
		sym := t.Symbols.Get(id)
		if sym.Kind == SymbolFunction && t.Types.MatchParams(sym.Type, args) {
			return id
		}
	}
	return NoSymbolID
}

// DefaultConstructor returns the zero-argument constructor synthesized for
// class on first use. It is not listed among the class scope's symbols.
func (t *Table) DefaultConstructor(class SymbolID) SymbolID {
	c := t.Symbols.Get(class)
	if c == nil || c.Kind != SymbolClass {
		return NoSymbolID
	}
	if c.DefaultCtor.IsValid() {
		return c.DefaultCtor
	}
	fnType := t.Types.NewFunction(c.Name, nil, c.Type)
	id := t.Symbols.New(&Symbol{
		Kind:  SymbolFunction,
		Name:  c.Name,
		Flags: SymbolFlagDefaultCtor,
		Scope: c.Owns,
		Decl:  c.Decl,
		Span:  c.Span,
		Type:  fnType,
	})
	t.Symbols.Get(class).DefaultCtor = id
	return id
}

// Lookup* walk from scope outwards through enclosing scopes.

// LookupVariable resolves a variable by name.
func (t *Table) LookupVariable(scope ScopeID, name string) SymbolID {
	return t.lookup(scope, func(s ScopeID) SymbolID { return t.Variable(s, name) })
}

// LookupClass resolves a class by name.
func (t *Table) LookupClass(scope ScopeID, name string) SymbolID {
	return t.lookup(scope, func(s ScopeID) SymbolID { return t.Class(s, name) })
}

// LookupFunction resolves a function by name and argument types.
func (t *Table) LookupFunction(scope ScopeID, name string, args []types.TypeID) SymbolID {
	return t.lookup(scope, func(s ScopeID) SymbolID { return t.Function(s, name, args) })
}

// LookupFunctionVariable resolves a function-typed variable by name and argument types.
func (t *Table) LookupFunctionVariable(scope ScopeID, name string, args []types.TypeID) SymbolID {
	return t.lookup(scope, func(s ScopeID) SymbolID { return t.FunctionVariable(s, name, args) })
}

// LookupFunctionOnlyByName resolves the first function called name.
func (t *Table) LookupFunctionOnlyByName(scope ScopeID, name string) SymbolID {
	return t.lookup(scope, func(s ScopeID) SymbolID { return t.MethodByName(s, name) })
}

func (t *Table) lookup(scope ScopeID, find func(ScopeID) SymbolID) SymbolID {
	for scope.IsValid() {
		if id := find(scope); id.IsValid() {
			return id
		}
		sc := t.Scopes.Get(scope)
		if sc == nil {
			break
		}
		scope = sc.Parent
	}
	return NoSymbolID
}
