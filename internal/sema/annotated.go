package sema

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/types"
)

// AnnotatedTree is the shared result of all analysis passes. Entries are only
// ever added; the evaluator reads it without modification.
type AnnotatedTree struct {
	Tree  *ast.Tree
	Table *symbols.Table
	Types *types.Interner
	Root  symbols.ScopeID

	NodeScope  map[ast.NodeID]symbols.ScopeID
	NodeSymbol map[ast.NodeID]symbols.SymbolID
	NodeType   map[ast.NodeID]types.TypeID

	// Declared lists every function and class symbol in declaration order.
	Declared []symbols.SymbolID

	// this(...) and super(...) call nodes mapped to the constructor they run.
	ThisCtorRef  map[ast.NodeID]symbols.SymbolID
	SuperCtorRef map[ast.NodeID]symbols.SymbolID

	reporter *diag.CountingReporter
}

func newAnnotatedTree(tree *ast.Tree, in *types.Interner, r diag.Reporter) *AnnotatedTree {
	if in == nil {
		in = types.NewInterner()
	}
	return &AnnotatedTree{
		Tree:         tree,
		Table:        symbols.NewTable(in),
		Types:        in,
		NodeScope:    make(map[ast.NodeID]symbols.ScopeID),
		NodeSymbol:   make(map[ast.NodeID]symbols.SymbolID),
		NodeType:     make(map[ast.NodeID]types.TypeID),
		ThisCtorRef:  make(map[ast.NodeID]symbols.SymbolID),
		SuperCtorRef: make(map[ast.NodeID]symbols.SymbolID),
		reporter:     &diag.CountingReporter{Next: r},
	}
}

// HasCompilationError reports whether any pass reported an error.
func (at *AnnotatedTree) HasCompilationError() bool {
	return at.reporter.Errors > 0
}

// ErrorCount returns the number of errors reported during analysis.
func (at *AnnotatedTree) ErrorCount() int {
	return at.reporter.Errors
}

func (at *AnnotatedTree) errorf(code diag.Code, span source.Span, msg string) {
	diag.ReportError(at.reporter, code, span, msg).Emit()
}

// Symbol returns the symbol bound to node, or nil.
func (at *AnnotatedTree) Symbol(node ast.NodeID) *symbols.Symbol {
	id, ok := at.NodeSymbol[node]
	if !ok {
		return nil
	}
	return at.Table.Symbols.Get(id)
}

// TypeOf returns the type recorded for node, or NoTypeID.
func (at *AnnotatedTree) TypeOf(node ast.NodeID) types.TypeID {
	return at.NodeType[node]
}

// EnclosingScopeOfNode returns the scope of the nearest strict ancestor of
// node that opened one.
func (at *AnnotatedTree) EnclosingScopeOfNode(node ast.NodeID) symbols.ScopeID {
	for p := at.Tree.Parent(node); p.IsValid(); p = at.Tree.Parent(p) {
		if scope, ok := at.NodeScope[p]; ok {
			return scope
		}
	}
	return symbols.NoScopeID
}

// EnclosingFunctionOfNode returns the function whose declaration contains node.
func (at *AnnotatedTree) EnclosingFunctionOfNode(node ast.NodeID) symbols.SymbolID {
	fd := at.Tree.Enclosing(node, ast.KindFuncDecl)
	if !fd.IsValid() {
		return symbols.NoSymbolID
	}
	return at.NodeSymbol[fd]
}

// EnclosingClassOfNode returns the class whose declaration contains node.
func (at *AnnotatedTree) EnclosingClassOfNode(node ast.NodeID) symbols.SymbolID {
	cd := at.Tree.Enclosing(node, ast.KindClassDecl)
	if !cd.IsValid() {
		return symbols.NoSymbolID
	}
	return at.NodeSymbol[cd]
}

func (at *AnnotatedTree) LookupVariable(scope symbols.ScopeID, name string) symbols.SymbolID {
	return at.Table.LookupVariable(scope, name)
}

func (at *AnnotatedTree) LookupClass(scope symbols.ScopeID, name string) symbols.SymbolID {
	return at.Table.LookupClass(scope, name)
}

func (at *AnnotatedTree) LookupFunction(scope symbols.ScopeID, name string, args []types.TypeID) symbols.SymbolID {
	return at.Table.LookupFunction(scope, name, args)
}

func (at *AnnotatedTree) LookupFunctionVariable(scope symbols.ScopeID, name string, args []types.TypeID) symbols.SymbolID {
	return at.Table.LookupFunctionVariable(scope, name, args)
}

func (at *AnnotatedTree) LookupFunctionOnlyByName(scope symbols.ScopeID, name string) symbols.SymbolID {
	return at.Table.LookupFunctionOnlyByName(scope, name)
}

// LookupType returns the type of the first declared function or class called
// name. Scoping is ignored.
func (at *AnnotatedTree) LookupType(name string) types.TypeID {
	for _, id := range at.Declared {
		if sym := at.Table.Symbols.Get(id); sym.Name == name {
			return sym.Type
		}
	}
	return types.NoTypeID
}

// Functions returns every declared function symbol, methods and
// constructors included.
func (at *AnnotatedTree) Functions() []symbols.SymbolID {
	out := make([]symbols.SymbolID, 0, len(at.Declared))
	for _, id := range at.Declared {
		if at.Table.Symbols.Get(id).Kind == symbols.SymbolFunction {
			out = append(out, id)
		}
	}
	return out
}

// Constructor returns the constructor a this(...) or super(...) call runs.
func (at *AnnotatedTree) Constructor(call ast.NodeID) (symbols.SymbolID, bool) {
	if id, ok := at.ThisCtorRef[call]; ok {
		return id, true
	}
	id, ok := at.SuperCtorRef[call]
	return id, ok
}
