package ast

// Children returns the direct children of id in source order. Absent optional
// children are omitted.
func (t *Tree) Children(id NodeID) []NodeID {
	n := t.Get(id)
	if n == nil {
		return nil
	}
	var out []NodeID
	add := func(ids ...NodeID) {
		for _, c := range ids {
			if c.IsValid() {
				out = append(out, c)
			}
		}
	}
	switch n.Kind {
	case KindProgram, KindBlock:
		d, _ := t.Block(id)
		add(d.Stmts...)
	case KindVarDecl:
		d, _ := t.VarDecl(id)
		add(d.Type)
		add(d.Decls...)
	case KindDeclarator:
		d, _ := t.Declarator(id)
		add(d.Init)
	case KindFuncDecl:
		d, _ := t.FuncDecl(id)
		add(d.Result)
		add(d.Params...)
		add(d.Body)
	case KindParam:
		d, _ := t.Param(id)
		add(d.Type)
	case KindClassDecl:
		d, _ := t.ClassDecl(id)
		add(d.Extends)
		add(d.Members...)
	case KindIf:
		d, _ := t.If(id)
		add(d.Cond, d.Then, d.Else)
	case KindWhile:
		d, _ := t.While(id)
		add(d.Cond, d.Body)
	case KindFor:
		d, _ := t.For(id)
		add(d.InitDecl)
		add(d.InitExprs...)
		add(d.Cond)
		add(d.Update...)
		add(d.Body)
	case KindReturn:
		d, _ := t.Return(id)
		add(d.Value)
	case KindExprStmt:
		d, _ := t.ExprStmt(id)
		add(d.X)
	case KindBinary:
		d, _ := t.Binary(id)
		add(d.Left, d.Right)
	case KindUnary, KindPostfix:
		d, _ := t.Unary(id)
		add(d.Operand)
	case KindCall:
		d, _ := t.Call(id)
		add(d.Receiver)
		add(d.Args...)
	case KindSelector:
		d, _ := t.Selector(id)
		add(d.X)
	case KindTypeFunc:
		d, _ := t.FuncType(id)
		add(d.Result)
		add(d.Params...)
	}
	return out
}

// Visitor receives enter/exit events of a depth-first walk.
// Returning false from Enter skips the node's children; Exit is still called.
type Visitor interface {
	Enter(id NodeID) bool
	Exit(id NodeID)
}

// Walk traverses the subtree rooted at id depth-first, in source order.
func (t *Tree) Walk(id NodeID, v Visitor) {
	if !id.IsValid() {
		return
	}
	if v.Enter(id) {
		for _, c := range t.Children(id) {
			t.Walk(c, v)
		}
	}
	v.Exit(id)
}

// Inspect calls fn for id and its descendants in pre-order while fn returns true.
func (t *Tree) Inspect(id NodeID, fn func(NodeID) bool) {
	if !id.IsValid() || !fn(id) {
		return
	}
	for _, c := range t.Children(id) {
		t.Inspect(c, fn)
	}
}

// IsAncestor reports whether anc is a strict ancestor of id.
func (t *Tree) IsAncestor(anc, id NodeID) bool {
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		if p == anc {
			return true
		}
	}
	return false
}

// Enclosing returns the nearest strict ancestor of id whose kind is one of kinds.
func (t *Tree) Enclosing(id NodeID, kinds ...Kind) NodeID {
	for p := t.Parent(id); p.IsValid(); p = t.Parent(p) {
		k := t.Kind(p)
		for _, want := range kinds {
			if k == want {
				return p
			}
		}
	}
	return NoNodeID
}
