package sema

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
)

// validator checks structural rules that do not depend on types.
type validator struct {
	at *AnnotatedTree
}

func (v *validator) Enter(ast.NodeID) bool { return true }

func (v *validator) Exit(id ast.NodeID) {
	at := v.at
	tree := at.Tree
	switch tree.Kind(id) {
	case ast.KindClassDecl:
		if at.EnclosingFunctionOfNode(id).IsValid() {
			cd, _ := tree.ClassDecl(id)
			at.errorf(diag.ValNestedClass, cd.NameSpan, "can not declare class "+cd.Name+" inside a function")
		}
	case ast.KindFuncDecl:
		fd, _ := tree.FuncDecl(id)
		if !fd.Result.IsValid() {
			return
		}
		result, ok := at.NodeType[fd.Result]
		if ok && result != at.Types.Builtins().Void && !v.hasReturn(fd.Body) {
			at.errorf(diag.ValMissingReturn, fd.NameSpan, "return statement expected in function "+fd.Name)
		}
	case ast.KindReturn:
		fn := at.EnclosingFunctionOfNode(id)
		if !fn.IsValid() {
			at.errorf(diag.ValReturnOutsideFunc, tree.Span(id), "return statement not in function body")
			return
		}
		if ret, _ := tree.Return(id); ret.Value.IsValid() && at.Table.IsConstructor(fn) {
			at.errorf(diag.ValReturnInCtor, tree.Span(id), "can not return a value from constructor")
		}
	case ast.KindBreak:
		if !v.inLoop(id) {
			at.errorf(diag.ValBreakOutsideLoop, tree.Span(id), "break statement not in loop")
		}
	}
}

// hasReturn reports whether a return statement appears anywhere in body,
// nested functions and classes excluded.
func (v *validator) hasReturn(body ast.NodeID) bool {
	found := false
	v.at.Tree.Inspect(body, func(n ast.NodeID) bool {
		if found {
			return false
		}
		switch v.at.Tree.Kind(n) {
		case ast.KindReturn:
			found = true
			return false
		case ast.KindFuncDecl, ast.KindClassDecl:
			return false
		}
		return true
	})
	return found
}

// inLoop walks up to the nearest loop, stopping at a function boundary.
func (v *validator) inLoop(id ast.NodeID) bool {
	tree := v.at.Tree
	for p := tree.Parent(id); p.IsValid(); p = tree.Parent(p) {
		switch tree.Kind(p) {
		case ast.KindFor, ast.KindWhile:
			return true
		case ast.KindFuncDecl:
			return false
		}
	}
	return false
}
