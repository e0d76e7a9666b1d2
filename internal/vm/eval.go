package vm

import (
	"strconv"
	"strings"

	"playscript/internal/ast"
	"playscript/internal/symbols"
	"playscript/internal/token"
)

func (vm *VM) eval(id ast.NodeID) Value {
	tree := vm.tree
	vm.at(id)
	switch tree.Kind(id) {
	case ast.KindLiteral:
		return vm.evalLiteral(id)

	case ast.KindIdent:
		sym := vm.symbol(id)
		if sym.Kind == symbols.SymbolFunction {
			return vm.functionValue(vm.AT.NodeSymbol[id])
		}
		return vm.findLValue(vm.AT.NodeSymbol[id]).Get()

	case ast.KindThis, ast.KindSuper:
		return vm.findLValue(vm.AT.NodeSymbol[id]).Get()

	case ast.KindSelector:
		return vm.selectorLValue(id).Get()

	case ast.KindBinary:
		return vm.evalBinary(id)

	case ast.KindUnary, ast.KindPostfix:
		return vm.evalUnary(id)

	case ast.KindCall:
		return vm.evalCall(id)
	}
	panic(vm.eb.unimplemented("expression " + tree.Kind(id).String()))
}

// symbol returns the symbol bound to id; analysis binds every reference of
// an error-free program.
func (vm *VM) symbol(id ast.NodeID) *symbols.Symbol {
	sym := vm.AT.Symbol(id)
	if sym == nil {
		panic(vm.eb.makeError(PanicUnresolved, "reference was not resolved during analysis"))
	}
	return sym
}

func (vm *VM) evalLiteral(id ast.NodeID) Value {
	lit, _ := vm.tree.Literal(id)
	switch lit.Kind {
	case ast.LitInt:
		text, base := lit.Value, 10
		if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
			text, base = text[2:], 16
		}
		n, err := strconv.ParseInt(text, base, 64)
		if err != nil {
			panic(vm.eb.unimplemented("integer literal " + lit.Value))
		}
		return IntValue(n)
	case ast.LitFloat:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			panic(vm.eb.unimplemented("float literal " + lit.Value))
		}
		return FloatValue(f)
	case ast.LitString:
		return StringValue(lit.Value)
	case ast.LitBool:
		return BoolValue(lit.Value == "true")
	default:
		return NullValue()
	}
}

// functionValue turns a function name into a value. Methods are bound to the
// current receiver; closure variables are copied in case the value outlives
// the frames that hold them.
func (vm *VM) functionValue(fn symbols.SymbolID) Value {
	sym := vm.table.Symbols.Get(fn)
	fo := &FunctionObject{Func: fn, Name: sym.Name}
	if vm.table.IsMethod(fn) && !vm.table.IsConstructor(fn) {
		fo.Self = vm.currentReceiver()
	}
	if len(sym.Closure) > 0 {
		fo.Home = vm.top()
		fo.Env = newLocals()
		vm.capture(fn, fo.Env)
	}
	return FuncValue(fo)
}

// selectorLValue evaluates X.name. Fields are looked up again by name in the
// runtime class of the object unless X is this or super.
func (vm *VM) selectorLValue(id ast.NodeID) LValue {
	sel, _ := vm.tree.Selector(id)
	v := vm.symbol(id)
	field := vm.AT.NodeSymbol[id]
	recv := vm.eval(sel.X)
	vm.at(id)
	if recv.Kind != VKObject {
		panic(vm.eb.nullReference("access to field " + sel.Name))
	}
	if k := vm.tree.Kind(sel.X); k != ast.KindThis && k != ast.KindSuper {
		if rt := vm.table.Symbols.Get(recv.Obj.Class); rt != nil {
			if found := vm.table.Variable(rt.Owns, v.Name); found.IsValid() {
				field = found
			}
		}
	}
	return LValue{Container: recv.Obj, Var: field}
}

// lvalueOf resolves an assignment target.
func (vm *VM) lvalueOf(id ast.NodeID) LValue {
	switch vm.tree.Kind(id) {
	case ast.KindIdent:
		if sym := vm.symbol(id); sym.Kind == symbols.SymbolVariable {
			return vm.findLValue(vm.AT.NodeSymbol[id])
		}
	case ast.KindSelector:
		return vm.selectorLValue(id)
	}
	vm.at(id)
	panic(vm.eb.notAssignable())
}

func (vm *VM) evalBinary(id ast.NodeID) Value {
	bin, _ := vm.tree.Binary(id)
	switch op := bin.Op; {
	case op == token.Assign:
		lv := vm.lvalueOf(bin.Left)
		val := vm.eval(bin.Right)
		vm.store(lv, val)
		return lv.Get()

	case op.IsCompoundAssign():
		lv := vm.lvalueOf(bin.Left)
		cur := lv.Get()
		r := vm.eval(bin.Right)
		vm.at(id)
		vm.store(lv, vm.arith(op.BaseOp(), cur, r, vm.AT.NodeType[id]))
		return lv.Get()

	case op == token.AndAnd || op == token.OrOr:
		l := vm.boolOperand(bin.Left)
		if (op == token.AndAnd && !l) || (op == token.OrOr && l) {
			return BoolValue(l)
		}
		return BoolValue(vm.boolOperand(bin.Right))

	case op == token.EqEq || op == token.BangEq:
		l := vm.eval(bin.Left)
		r := vm.eval(bin.Right)
		eq := vm.equals(l, r, bin.Left, bin.Right)
		return BoolValue(eq == (op == token.EqEq))

	case op == token.Lt || op == token.LtEq || op == token.Gt || op == token.GtEq:
		l := vm.eval(bin.Left)
		r := vm.eval(bin.Right)
		vm.at(id)
		return BoolValue(vm.compare(op, l, r))

	default:
		l := vm.eval(bin.Left)
		r := vm.eval(bin.Right)
		vm.at(id)
		return vm.arith(op, l, r, vm.AT.NodeType[id])
	}
}

func (vm *VM) boolOperand(id ast.NodeID) bool {
	val := vm.eval(id)
	if val.Kind != VKBool {
		vm.at(id)
		panic(vm.eb.typeMismatch("boolean operand", val))
	}
	return val.Bool
}

func (vm *VM) evalUnary(id ast.NodeID) Value {
	u, _ := vm.tree.Unary(id)
	switch u.Op {
	case token.PlusPlus, token.MinusMinus:
		lv := vm.lvalueOf(u.Operand)
		cur := lv.Get()
		vm.at(id)
		if cur.Kind != VKInt {
			panic(vm.eb.typeMismatch("int", cur))
		}
		next := cur.Int + 1
		if u.Op == token.MinusMinus {
			next = cur.Int - 1
		}
		vm.store(lv, IntValue(next))
		if vm.tree.Kind(id) == ast.KindPostfix {
			return cur
		}
		return IntValue(next)

	case token.Bang:
		return BoolValue(!vm.boolOperand(u.Operand))
	}

	val := vm.eval(u.Operand)
	vm.at(id)
	switch {
	case val.Kind == VKInt && u.Op == token.Minus:
		return IntValue(-val.Int)
	case val.Kind == VKFloat && u.Op == token.Minus:
		return FloatValue(-val.Float)
	case (val.Kind == VKInt || val.Kind == VKFloat) && u.Op == token.Plus:
		return val
	}
	panic(vm.eb.typeMismatch("numeric operand", val))
}
