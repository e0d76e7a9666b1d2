package sema

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
)

// scopeBuilder opens a scope for the program, every block that is not a
// function body, every for header, every function and every class.
// Functions and classes are declared on entry so later code may refer to
// them before their textual position.
type scopeBuilder struct {
	at    *AnnotatedTree
	stack []symbols.ScopeID
}

func (b *scopeBuilder) current() symbols.ScopeID {
	if len(b.stack) == 0 {
		return symbols.NoScopeID
	}
	return b.stack[len(b.stack)-1]
}

func (b *scopeBuilder) push(node ast.NodeID, scope symbols.ScopeID) {
	b.at.NodeScope[node] = scope
	b.stack = append(b.stack, scope)
}

func (b *scopeBuilder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *scopeBuilder) opensScope(id ast.NodeID) bool {
	tree := b.at.Tree
	switch tree.Kind(id) {
	case ast.KindProgram, ast.KindFor, ast.KindFuncDecl, ast.KindClassDecl:
		return true
	case ast.KindBlock:
		return tree.Kind(tree.Parent(id)) != ast.KindFuncDecl
	}
	return false
}

func (b *scopeBuilder) Enter(id ast.NodeID) bool {
	at := b.at
	tree := at.Tree
	span := tree.Span(id)
	switch tree.Kind(id) {
	case ast.KindProgram:
		at.Root = at.Table.NewScope(symbols.ScopeBlock, b.current(), id, span)
		b.push(id, at.Root)
	case ast.KindBlock, ast.KindFor:
		if b.opensScope(id) {
			b.push(id, at.Table.NewScope(symbols.ScopeBlock, b.current(), id, span))
		}
	case ast.KindFuncDecl:
		fd, _ := tree.FuncDecl(id)
		fn := at.Table.NewFunction(b.current(), fd.Name, id, fd.NameSpan)
		at.NodeSymbol[id] = fn
		at.Declared = append(at.Declared, fn)
		b.push(id, at.Table.Symbols.Get(fn).Owns)
	case ast.KindClassDecl:
		cd, _ := tree.ClassDecl(id)
		if prev := at.Table.LookupClass(b.current(), cd.Name); prev.IsValid() {
			diag.ReportError(at.reporter, diag.SemDuplicateClass, cd.NameSpan, "duplicate class name: "+cd.Name).
				WithNote(at.Table.Symbols.Get(prev).Span, "previous declaration").
				Emit()
		}
		class := at.Table.NewClass(b.current(), cd.Name, id, cd.NameSpan)
		at.NodeSymbol[id] = class
		at.Declared = append(at.Declared, class)
		b.push(id, at.Table.Symbols.Get(class).Owns)
	}
	return true
}

func (b *scopeBuilder) Exit(id ast.NodeID) {
	if b.opensScope(id) {
		b.pop()
	}
}
