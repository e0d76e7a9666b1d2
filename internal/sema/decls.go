package sema

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
	"playscript/internal/token"
	"playscript/internal/types"
)

// declResolver computes the type of every type expression, declares class
// fields and parameters, fills in function signatures and links classes to
// their parents.
type declResolver struct {
	at *AnnotatedTree
}

func (r *declResolver) Enter(id ast.NodeID) bool {
	if r.at.Tree.Kind(id) == ast.KindClassDecl {
		r.linkParent(id)
	}
	return true
}

func (r *declResolver) Exit(id ast.NodeID) {
	at := r.at
	tree := at.Tree
	switch tree.Kind(id) {
	case ast.KindTypePrimitive, ast.KindTypeVoid, ast.KindTypeName, ast.KindTypeFunc:
		// extends clauses are typed by linkParent
		if tree.Kind(tree.Parent(id)) != ast.KindClassDecl {
			at.NodeType[id] = r.typeOf(id)
		}
	case ast.KindVarDecl:
		scope := at.EnclosingScopeOfNode(id)
		if sc := at.Table.Scopes.Get(scope); sc != nil && sc.Kind == symbols.ScopeClass {
			declareVariables(at, id, scope)
		}
	case ast.KindParam:
		r.declareParam(id)
	case ast.KindFuncDecl:
		r.finishFunction(id)
	}
}

func (r *declResolver) typeOf(id ast.NodeID) types.TypeID {
	at := r.at
	tree := at.Tree
	b := at.Types.Builtins()
	switch tree.Kind(id) {
	case ast.KindTypeVoid:
		return b.Void
	case ast.KindTypePrimitive:
		ref, _ := tree.TypeRef(id)
		switch ref.Prim {
		case token.KwInt:
			return b.Int
		case token.KwFloat:
			return b.Float
		case token.KwBoolean:
			return b.Bool
		case token.KwString:
			return b.String
		}
	case ast.KindTypeName:
		ref, _ := tree.TypeRef(id)
		class := at.LookupClass(at.EnclosingScopeOfNode(id), ref.Name)
		if !class.IsValid() {
			at.errorf(diag.SemUnknownClass, tree.Span(id), "unknown class: "+ref.Name)
			return types.NoTypeID
		}
		return at.Table.Symbols.Get(class).Type
	case ast.KindTypeFunc:
		ft, _ := tree.FuncType(id)
		params := make([]types.TypeID, 0, len(ft.Params))
		for _, p := range ft.Params {
			params = append(params, at.NodeType[p])
		}
		return at.Types.NewFunction("", params, at.NodeType[ft.Result])
	}
	return types.NoTypeID
}

func (r *declResolver) linkParent(id ast.NodeID) {
	at := r.at
	tree := at.Tree
	cd, _ := tree.ClassDecl(id)
	if !cd.Extends.IsValid() {
		return
	}
	span := tree.Span(cd.Extends)
	ref, ok := tree.TypeRef(cd.Extends)
	if !ok || tree.Kind(cd.Extends) != ast.KindTypeName {
		at.errorf(diag.SemParentNotClass, span, "a class can only extend another class")
		return
	}
	// the parent is looked up from outside the class being declared
	scope := at.EnclosingScopeOfNode(id)
	parent := at.LookupClass(scope, ref.Name)
	if !parent.IsValid() {
		if at.LookupVariable(scope, ref.Name).IsValid() || at.LookupFunctionOnlyByName(scope, ref.Name).IsValid() {
			at.errorf(diag.SemParentNotClass, span, ref.Name+" is not a class")
			return
		}
		at.errorf(diag.SemUnknownClass, span, "unknown class: "+ref.Name)
		return
	}
	class := at.NodeSymbol[id]
	at.NodeType[cd.Extends] = at.Table.Symbols.Get(parent).Type
	if !at.Table.SetParentClass(class, parent) {
		at.errorf(diag.SemCyclicInheritance, span, "cyclic inheritance involving class "+cd.Name)
	}
}

// declareVariables declares every declarator of a variable declaration in
// scope, typed with the declaration's type.
func declareVariables(at *AnnotatedTree, id ast.NodeID, scope symbols.ScopeID) {
	vd, _ := at.Tree.VarDecl(id)
	ty := at.NodeType[vd.Type]
	for _, d := range vd.Decls {
		decl, _ := at.Tree.Declarator(d)
		if prev := localVariable(at.Table, scope, decl.Name); prev.IsValid() {
			diag.ReportError(at.reporter, diag.SemDuplicateVariable, decl.NameSpan, "variable already declared: "+decl.Name).
				WithNote(at.Table.Symbols.Get(prev).Span, "previous declaration").
				Emit()
		}
		v := at.Table.NewVariable(scope, decl.Name, ty, d, decl.NameSpan)
		at.NodeSymbol[d] = v
		at.NodeType[d] = ty
	}
}

// localVariable looks for name among the symbols declared directly in scope,
// ignoring inherited members.
func localVariable(tbl *symbols.Table, scope symbols.ScopeID, name string) symbols.SymbolID {
	sc := tbl.Scopes.Get(scope)
	if sc == nil {
		return symbols.NoSymbolID
	}
	for _, id := range sc.NameIndex[name] {
		if tbl.Symbols.Get(id).Kind == symbols.SymbolVariable {
			return id
		}
	}
	return symbols.NoSymbolID
}

func (r *declResolver) declareParam(id ast.NodeID) {
	at := r.at
	p, _ := at.Tree.Param(id)
	scope := at.EnclosingScopeOfNode(id)
	fn := at.Table.FunctionOfScope(scope)
	if !fn.IsValid() {
		return
	}
	if prev := localVariable(at.Table, scope, p.Name); prev.IsValid() {
		at.errorf(diag.SemDuplicateVariable, p.NameSpan, "duplicate parameter: "+p.Name)
	}
	ty := at.NodeType[p.Type]
	v := at.Table.NewVariable(scope, p.Name, ty, id, p.NameSpan)
	at.Table.Symbols.Get(v).Flags |= symbols.SymbolFlagParam
	at.NodeSymbol[id] = v
	at.NodeType[id] = ty

	sym := at.Table.Symbols.Get(fn)
	sym.Params = append(sym.Params, v)
	at.Types.AppendFnParam(sym.Type, ty)
}

func (r *declResolver) finishFunction(id ast.NodeID) {
	at := r.at
	fd, _ := at.Tree.FuncDecl(id)
	fn := at.NodeSymbol[id]
	sym := at.Table.Symbols.Get(fn)
	switch {
	case fd.Result.IsValid():
		at.Types.SetFnResult(sym.Type, at.NodeType[fd.Result])
	case at.Table.IsConstructor(fn):
		class := at.Table.Symbols.Get(at.Table.ClassOfScope(sym.Scope))
		at.Types.SetFnResult(sym.Type, class.Type)
	}

	// the first matching declaration in the scope wins; later ones are duplicates
	sc := at.Table.Scopes.Get(sym.Scope)
	params := at.Table.ParamTypes(fn)
	for _, other := range sc.NameIndex[sym.Name] {
		if other == fn {
			return
		}
		o := at.Table.Symbols.Get(other)
		if o.Kind == symbols.SymbolFunction && sameParams(at.Types, at.Table.ParamTypes(other), params) {
			diag.ReportError(at.reporter, diag.SemDuplicateFunction, fd.NameSpan, "function or method already declared: "+sym.Name).
				WithNote(o.Span, "previous declaration").
				Emit()
			return
		}
	}
}

func sameParams(in *types.Interner, a, b []types.TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] && !(in.IsType(a[i], b[i]) && in.IsType(b[i], a[i])) {
			return false
		}
	}
	return true
}
