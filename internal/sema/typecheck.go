package sema

import (
	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/token"
	"playscript/internal/types"
)

// typeChecker validates assignments and operands using the types recorded by
// the resolver. It never changes an annotation. Nodes without a type were
// already reported and are skipped.
type typeChecker struct {
	at *AnnotatedTree
}

func (c *typeChecker) Enter(ast.NodeID) bool { return true }

func (c *typeChecker) Exit(id ast.NodeID) {
	at := c.at
	tree := at.Tree
	switch tree.Kind(id) {
	case ast.KindDeclarator:
		d, _ := tree.Declarator(id)
		if v := at.Symbol(id); v != nil && d.Init.IsValid() {
			c.checkAssign(v.Type, at.NodeType[d.Init], tree.Span(id), "variable '"+d.Name+"'")
		}
	case ast.KindBinary:
		c.binary(id)
	case ast.KindUnary, ast.KindPostfix:
		c.unary(id)
	case ast.KindIf:
		s, _ := tree.If(id)
		c.condition(s.Cond)
	case ast.KindWhile:
		s, _ := tree.While(id)
		c.condition(s.Cond)
	case ast.KindFor:
		s, _ := tree.For(id)
		c.condition(s.Cond)
	case ast.KindReturn:
		c.returnValue(id)
	}
}

func (c *typeChecker) known(ty types.TypeID) bool { return ty != types.NoTypeID }

func (c *typeChecker) binary(id ast.NodeID) {
	at := c.at
	bin, _ := at.Tree.Binary(id)
	left := at.NodeType[bin.Left]
	right := at.NodeType[bin.Right]
	b := at.Types.Builtins()
	span := at.Tree.Span(id)

	switch op := bin.Op; {
	case op == token.Plus:
		// string concatenation accepts anything
		if left != b.String && right != b.String {
			c.numeric(left, bin.Left)
			c.numeric(right, bin.Right)
		}
	case op == token.Minus || op == token.Star || op == token.Slash,
		op == token.Lt || op == token.LtEq || op == token.Gt || op == token.GtEq:
		c.numeric(left, bin.Left)
		c.numeric(right, bin.Right)
	case op == token.Percent:
		c.integer(left, bin.Left)
		c.integer(right, bin.Right)
	case op == token.AndAnd || op == token.OrOr:
		c.boolean(left, bin.Left)
		c.boolean(right, bin.Right)
	case op == token.Assign:
		if c.assignable(bin.Left) {
			c.checkAssign(left, right, span, c.targetName(bin.Left))
		}
	case op.IsCompoundAssign():
		if !c.assignable(bin.Left) || !c.known(left) || !c.known(right) {
			return
		}
		if op == token.PercentAssign {
			c.integer(left, bin.Left)
			c.integer(right, bin.Right)
			return
		}
		if !at.Types.IsNumeric(right) {
			at.errorf(diag.TypCompoundAssign, at.Tree.Span(bin.Right), "operand of "+op.String()+" should be numeric, got "+at.Types.Label(right))
			return
		}
		if !at.Types.IsNumeric(left) || !at.Types.Assignable(right, left) {
			at.errorf(diag.TypAssignMismatch, span, "can not assign value of type "+at.Types.Label(right)+" to "+c.targetName(bin.Left)+" of type "+at.Types.Label(left))
		}
	}
}

func (c *typeChecker) unary(id ast.NodeID) {
	at := c.at
	u, _ := at.Tree.Unary(id)
	ty := at.NodeType[u.Operand]
	switch u.Op {
	case token.Bang:
		c.boolean(ty, u.Operand)
	case token.Minus, token.Plus:
		c.numeric(ty, u.Operand)
	case token.PlusPlus, token.MinusMinus:
		if c.assignable(u.Operand) {
			c.integer(ty, u.Operand)
		}
	}
}

func (c *typeChecker) condition(cond ast.NodeID) {
	if cond.IsValid() {
		c.boolean(c.at.NodeType[cond], cond)
	}
}

func (c *typeChecker) returnValue(id ast.NodeID) {
	at := c.at
	ret, _ := at.Tree.Return(id)
	fn := at.EnclosingFunctionOfNode(id)
	if !ret.Value.IsValid() || !fn.IsValid() || at.Table.IsConstructor(fn) {
		return
	}
	result := at.Table.ResultType(fn)
	value := at.NodeType[ret.Value]
	if result == at.Types.Builtins().Void {
		at.errorf(diag.TypAssignMismatch, at.Tree.Span(ret.Value), "void function "+at.Table.Symbols.Get(fn).Name+" can not return a value")
		return
	}
	if c.known(result) && c.known(value) && !at.Types.Assignable(value, result) {
		at.errorf(diag.TypAssignMismatch, at.Tree.Span(ret.Value),
			"can not return value of type "+at.Types.Label(value)+" from function returning "+at.Types.Label(result))
	}
}

// checkAssign reports when a value of type value can not be stored in target.
func (c *typeChecker) checkAssign(target, value types.TypeID, span source.Span, what string) {
	at := c.at
	if !c.known(target) || !c.known(value) || at.Types.Assignable(value, target) {
		return
	}
	at.errorf(diag.TypAssignMismatch, span, "can not assign value of type "+at.Types.Label(value)+" to "+what+" of type "+at.Types.Label(target))
}

// assignable reports whether node denotes a storage location, reporting
// when it does not.
func (c *typeChecker) assignable(node ast.NodeID) bool {
	at := c.at
	kind := at.Tree.Kind(node)
	sym := at.Symbol(node)
	switch {
	case (kind == ast.KindIdent || kind == ast.KindSelector) && sym != nil && sym.Kind == symbols.SymbolVariable:
		return true
	case (kind == ast.KindIdent || kind == ast.KindSelector) && sym == nil:
		// unresolved, already reported
		return false
	}
	at.errorf(diag.TypNotAssignable, at.Tree.Span(node), "expression is not assignable")
	return false
}

func (c *typeChecker) targetName(node ast.NodeID) string {
	tree := c.at.Tree
	if id, ok := tree.Ident(node); ok {
		return "variable '" + id.Name + "'"
	}
	if sel, ok := tree.Selector(node); ok {
		return "field '" + sel.Name + "'"
	}
	return "expression"
}

func (c *typeChecker) numeric(ty types.TypeID, operand ast.NodeID) {
	at := c.at
	if c.known(ty) && !at.Types.IsNumeric(ty) {
		at.errorf(diag.TypNumericOperand, at.Tree.Span(operand), "operand for arithmetic operation should be numeric, got "+at.Types.Label(ty))
	}
}

func (c *typeChecker) integer(ty types.TypeID, operand ast.NodeID) {
	at := c.at
	if c.known(ty) && ty != at.Types.Builtins().Int {
		at.errorf(diag.TypIntegerOperand, at.Tree.Span(operand), "operand should be int, got "+at.Types.Label(ty))
	}
}

func (c *typeChecker) boolean(ty types.TypeID, operand ast.NodeID) {
	at := c.at
	if c.known(ty) && ty != at.Types.Builtins().Bool {
		at.errorf(diag.TypBooleanOperand, at.Tree.Span(operand), "operand for logical operation should be boolean, got "+at.Types.Label(ty))
	}
}
