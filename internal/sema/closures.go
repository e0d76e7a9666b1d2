package sema

import (
	"slices"

	"playscript/internal/ast"
	"playscript/internal/symbols"
)

// analyzeClosures computes, for every function that is not a method, the
// variables it references but does not declare. Methods reach outer state
// through their object and get no closure.
func analyzeClosures(at *AnnotatedTree) {
	for _, fn := range at.Functions() {
		if at.Table.IsMethod(fn) {
			continue
		}
		sym := at.Table.Symbols.Get(fn)
		declared := make(map[symbols.SymbolID]struct{})
		declaredUnder(at.Table, sym.Owns, declared)

		var closure []symbols.SymbolID
		for v := range referencedUnder(at, sym.Decl) {
			if _, ok := declared[v]; !ok {
				closure = append(closure, v)
			}
		}
		slices.Sort(closure)
		sym.Closure = closure
	}
}

// referencedUnder collects every variable bound to a node inside decl.
// Declarators count as references; field selections do not, the object
// holding the field is captured instead.
func referencedUnder(at *AnnotatedTree, decl ast.NodeID) map[symbols.SymbolID]struct{} {
	out := make(map[symbols.SymbolID]struct{})
	for node, id := range at.NodeSymbol {
		if at.Tree.Kind(node) == ast.KindSelector || !at.Tree.IsAncestor(decl, node) {
			continue
		}
		if at.Table.Symbols.Get(id).Kind == symbols.SymbolVariable {
			out[id] = struct{}{}
		}
	}
	return out
}

// declaredUnder adds the variables of scope and of every nested block and
// function scope. Class scopes are not entered.
func declaredUnder(tbl *symbols.Table, scope symbols.ScopeID, out map[symbols.SymbolID]struct{}) {
	sc := tbl.Scopes.Get(scope)
	if sc == nil {
		return
	}
	for _, id := range sc.Symbols {
		if tbl.Symbols.Get(id).Kind == symbols.SymbolVariable {
			out[id] = struct{}{}
		}
	}
	for _, child := range sc.Children {
		if c := tbl.Scopes.Get(child); c != nil && c.Kind != symbols.ScopeClass {
			declaredUnder(tbl, child, out)
		}
	}
}
