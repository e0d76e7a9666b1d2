package sema

import (
	"strings"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/symbols"
	"playscript/internal/token"
	"playscript/internal/types"
)

// printlnName is the only built-in function.
const printlnName = "println"

// refResolver binds every reference to a symbol and infers expression types
// bottom-up. Block-local variables are declared when their declaration is
// reached, so they cannot be used earlier in the block.
type refResolver struct {
	at *AnnotatedTree

	// this(...) and super(...) wait until every constructor is known
	thisCalls  []ast.NodeID
	superCalls []ast.NodeID
}

func (r *refResolver) Enter(id ast.NodeID) bool {
	at := r.at
	if at.Tree.Kind(id) == ast.KindVarDecl {
		scope := at.EnclosingScopeOfNode(id)
		if sc := at.Table.Scopes.Get(scope); sc != nil && sc.Kind != symbols.ScopeClass {
			declareVariables(at, id, scope)
		}
	}
	return true
}

func (r *refResolver) Exit(id ast.NodeID) {
	at := r.at
	switch at.Tree.Kind(id) {
	case ast.KindIdent:
		r.ident(id)
	case ast.KindLiteral:
		r.literal(id)
	case ast.KindThis, ast.KindSuper:
		r.thisOrSuper(id)
	case ast.KindSelector:
		r.selector(id)
	case ast.KindCall:
		r.call(id)
	case ast.KindBinary:
		r.binary(id)
	case ast.KindUnary, ast.KindPostfix:
		u, _ := at.Tree.Unary(id)
		if u.Op == token.Bang {
			at.NodeType[id] = at.Types.Builtins().Bool
		} else {
			at.NodeType[id] = at.NodeType[u.Operand]
		}
	case ast.KindProgram:
		for _, call := range r.thisCalls {
			r.ctorCall(call, false)
		}
		for _, call := range r.superCalls {
			r.ctorCall(call, true)
		}
	}
}

func (r *refResolver) ident(id ast.NodeID) {
	at := r.at
	ident, _ := at.Tree.Ident(id)
	scope := at.EnclosingScopeOfNode(id)
	// a variable shadows a function of the same name
	if v := at.LookupVariable(scope, ident.Name); v.IsValid() {
		at.NodeSymbol[id] = v
		at.NodeType[id] = at.Table.Symbols.Get(v).Type
		return
	}
	if fn := at.LookupFunctionOnlyByName(scope, ident.Name); fn.IsValid() {
		at.NodeSymbol[id] = fn
		at.NodeType[id] = at.Table.Symbols.Get(fn).Type
		return
	}
	at.errorf(diag.SemUnknownName, at.Tree.Span(id), "unknown variable or function: "+ident.Name)
}

func (r *refResolver) literal(id ast.NodeID) {
	at := r.at
	lit, _ := at.Tree.Literal(id)
	b := at.Types.Builtins()
	switch lit.Kind {
	case ast.LitInt:
		at.NodeType[id] = b.Int
	case ast.LitFloat:
		at.NodeType[id] = b.Float
	case ast.LitString:
		at.NodeType[id] = b.String
	case ast.LitBool:
		at.NodeType[id] = b.Bool
	case ast.LitNull:
		at.NodeType[id] = b.Null
	}
}

func (r *refResolver) thisOrSuper(id ast.NodeID) {
	at := r.at
	keyword := "this"
	if at.Tree.Kind(id) == ast.KindSuper {
		keyword = "super"
	}
	class := at.Table.Symbols.Get(at.EnclosingClassOfNode(id))
	if class == nil {
		at.errorf(diag.SemThisOutsideClass, at.Tree.Span(id), "keyword \""+keyword+"\" can only be used inside a class")
		return
	}
	v := class.This
	if keyword == "super" {
		if !class.Super.IsValid() {
			at.errorf(diag.SemNotAnObject, at.Tree.Span(id), "class "+class.Name+" has no parent class")
			return
		}
		v = class.Super
	}
	at.NodeSymbol[id] = v
	at.NodeType[id] = at.Table.Symbols.Get(v).Type
}

// classScopeOf returns the scope of the class type of node, reporting when
// the node is known to be something else.
func (r *refResolver) classScopeOf(node ast.NodeID, useSpan ast.NodeID) (symbols.ScopeID, *symbols.Symbol, bool) {
	at := r.at
	ty, ok := at.NodeType[node]
	if !ok || ty == types.NoTypeID {
		// already reported
		return symbols.NoScopeID, nil, false
	}
	class := at.Table.Symbols.Get(at.Table.ClassOfType(ty))
	if class == nil {
		at.errorf(diag.SemNotAnObject, at.Tree.Span(useSpan), "value of type "+at.Types.Label(ty)+" is not an object")
		return symbols.NoScopeID, nil, false
	}
	return class.Owns, class, true
}

func (r *refResolver) selector(id ast.NodeID) {
	at := r.at
	sel, _ := at.Tree.Selector(id)
	scope, class, ok := r.classScopeOf(sel.X, id)
	if !ok {
		return
	}
	v := at.Table.Variable(scope, sel.Name)
	if !v.IsValid() {
		at.errorf(diag.SemUnknownField, sel.NameSpan, "unable to find field "+sel.Name+" in class "+class.Name)
		return
	}
	at.NodeSymbol[id] = v
	at.NodeType[id] = at.Table.Symbols.Get(v).Type
}

func (r *refResolver) argTypes(args []ast.NodeID) ([]types.TypeID, bool) {
	out := make([]types.TypeID, 0, len(args))
	complete := true
	for _, a := range args {
		ty := r.at.NodeType[a]
		if ty == types.NoTypeID {
			complete = false
		}
		out = append(out, ty)
	}
	return out, complete
}

func (r *refResolver) call(id ast.NodeID) {
	at := r.at
	call, _ := at.Tree.Call(id)
	switch call.Target {
	case ast.CallThis:
		r.thisCalls = append(r.thisCalls, id)
		return
	case ast.CallSuper:
		r.superCalls = append(r.superCalls, id)
		return
	}

	if call.Name == printlnName && !call.Receiver.IsValid() {
		if len(call.Args) > 1 {
			at.errorf(diag.SemUnknownFunction, call.NameSpan, "println takes at most one argument")
		}
		at.NodeType[id] = at.Types.Builtins().Void
		return
	}

	args, complete := r.argTypes(call.Args)
	if call.Receiver.IsValid() {
		r.methodCall(id, call, args, complete)
		return
	}

	scope := at.EnclosingScopeOfNode(id)
	if fn := at.LookupFunction(scope, call.Name, args); fn.IsValid() {
		at.NodeSymbol[id] = fn
		at.NodeType[id] = at.Table.ResultType(fn)
		return
	}
	if class := at.LookupClass(scope, call.Name); class.IsValid() {
		classSym := at.Table.Symbols.Get(class)
		at.NodeType[id] = classSym.Type
		switch ctor := at.Table.FindConstructor(class, args); {
		case ctor.IsValid():
			at.NodeSymbol[id] = ctor
		case len(args) == 0:
			at.NodeSymbol[id] = at.Table.DefaultConstructor(class)
		case complete:
			at.errorf(diag.SemNoMatchingCtor, call.NameSpan, "unknown class constructor: "+r.signature(call.Name, args))
		}
		return
	}
	if v := at.LookupFunctionVariable(scope, call.Name, args); v.IsValid() {
		at.NodeSymbol[id] = v
		at.NodeType[id] = at.Table.ResultType(v)
		return
	}
	if complete {
		at.errorf(diag.SemUnknownFunction, call.NameSpan, "unknown function or function variable: "+r.signature(call.Name, args))
	}
}

// methodCall resolves recv.name(...) in the static class of recv.
func (r *refResolver) methodCall(id ast.NodeID, call *ast.CallData, args []types.TypeID, complete bool) {
	at := r.at
	scope, class, ok := r.classScopeOf(call.Receiver, id)
	if !ok {
		return
	}
	if fn := at.Table.Function(scope, call.Name, args); fn.IsValid() {
		at.NodeSymbol[id] = fn
		at.NodeType[id] = at.Table.ResultType(fn)
		return
	}
	if v := at.Table.FunctionVariable(scope, call.Name, args); v.IsValid() {
		at.NodeSymbol[id] = v
		at.NodeType[id] = at.Table.ResultType(v)
		return
	}
	if complete {
		at.errorf(diag.SemUnknownMethod, call.NameSpan, "unable to find method "+r.signature(call.Name, args)+" in class "+class.Name)
	}
}

func (r *refResolver) signature(name string, args []types.TypeID) string {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(r.at.Types.Label(a))
	}
	sb.WriteByte(')')
	return sb.String()
}

func (r *refResolver) binary(id ast.NodeID) {
	at := r.at
	bin, _ := at.Tree.Binary(id)
	left := at.NodeType[bin.Left]
	right := at.NodeType[bin.Right]
	b := at.Types.Builtins()
	var ty types.TypeID
	switch bin.Op {
	case token.Plus:
		if left == b.String || right == b.String {
			ty = b.String
		} else if at.Types.IsNumeric(left) && at.Types.IsNumeric(right) {
			ty = at.Types.UpperType(left, right)
		}
	case token.Minus, token.Star, token.Slash:
		if at.Types.IsNumeric(left) && at.Types.IsNumeric(right) {
			ty = at.Types.UpperType(left, right)
		}
	case token.Percent:
		ty = b.Int
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq, token.AndAnd, token.OrOr:
		ty = b.Bool
	default:
		if bin.Op.IsAssign() {
			ty = left
		}
	}
	if ty != types.NoTypeID {
		at.NodeType[id] = ty
	}
}

// ctorCall resolves this(...) or super(...) inside a constructor.
func (r *refResolver) ctorCall(id ast.NodeID, super bool) {
	at := r.at
	call, _ := at.Tree.Call(id)
	keyword := "this"
	if super {
		keyword = "super"
	}
	span := at.Tree.Span(id)
	classID := at.EnclosingClassOfNode(id)
	if !classID.IsValid() {
		at.errorf(diag.SemCtorCallOutside, span, keyword+"() should only be called inside a class")
		return
	}
	fn := at.EnclosingFunctionOfNode(id)
	if !fn.IsValid() || !at.Table.IsConstructor(fn) || at.Table.ClassOfScope(at.Table.Symbols.Get(fn).Scope) != classID {
		at.errorf(diag.SemCtorCallOutside, span, keyword+"() should only be called inside a class constructor")
		return
	}
	class := at.Table.Symbols.Get(classID)
	at.NodeType[id] = class.Type

	target := classID
	refs := at.ThisCtorRef
	if super {
		if !class.ParentClass.IsValid() {
			// root classes have nothing to chain to
			return
		}
		target = class.ParentClass
		refs = at.SuperCtorRef
	}
	if !r.firstStatement(at.Table.Symbols.Get(fn).Decl, id) {
		at.errorf(diag.SemCtorCallNotFirst, span, keyword+"() must be the first statement in a constructor")
	}

	args, complete := r.argTypes(call.Args)
	ctor := at.Table.FindConstructor(target, args)
	if !ctor.IsValid() && len(args) == 0 {
		ctor = at.Table.DefaultConstructor(target)
	}
	if !ctor.IsValid() {
		if complete {
			at.errorf(diag.SemNoMatchingCtor, span, "can not find a constructor matching "+r.signature(keyword, args))
		}
		return
	}
	if ctor == fn {
		at.errorf(diag.SemNoMatchingCtor, span, "constructor "+class.Name+" calls itself")
		return
	}
	at.NodeSymbol[id] = ctor
	refs[id] = ctor
}

func (r *refResolver) firstStatement(funcDecl, call ast.NodeID) bool {
	tree := r.at.Tree
	fd, ok := tree.FuncDecl(funcDecl)
	if !ok {
		return false
	}
	body, ok := tree.Block(fd.Body)
	if !ok || len(body.Stmts) == 0 {
		return false
	}
	stmt, ok := tree.ExprStmt(body.Stmts[0])
	return ok && stmt.X == call
}
