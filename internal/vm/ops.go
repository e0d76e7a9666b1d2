package vm

import (
	"playscript/internal/ast"
	"playscript/internal/token"
	"playscript/internal/types"
)

// arith applies op for the result type computed by analysis: string
// concatenation, integer or float arithmetic.
func (vm *VM) arith(op token.Kind, l, r Value, target types.TypeID) Value {
	b := vm.types.Builtins()
	switch target {
	case b.String:
		if op == token.Plus {
			return StringValue(l.String() + r.String())
		}

	case b.Int:
		if l.Kind != VKInt {
			panic(vm.eb.typeMismatch("int", l))
		}
		if r.Kind != VKInt {
			panic(vm.eb.typeMismatch("int", r))
		}
		x, y := l.Int, r.Int
		switch op {
		case token.Plus:
			return IntValue(x + y)
		case token.Minus:
			return IntValue(x - y)
		case token.Star:
			return IntValue(x * y)
		case token.Slash:
			if y == 0 {
				panic(vm.eb.divisionByZero())
			}
			return IntValue(x / y)
		case token.Percent:
			if y == 0 {
				panic(vm.eb.divisionByZero())
			}
			return IntValue(x % y)
		}

	case b.Float:
		vm.numeric(l)
		vm.numeric(r)
		x, y := l.asFloat(), r.asFloat()
		switch op {
		case token.Plus:
			return FloatValue(x + y)
		case token.Minus:
			return FloatValue(x - y)
		case token.Star:
			return FloatValue(x * y)
		case token.Slash:
			return FloatValue(x / y)
		}
	}
	panic(vm.eb.unimplemented("operator " + op.String() + " on " + vm.types.Label(target)))
}

func (vm *VM) numeric(v Value) {
	if v.Kind != VKInt && v.Kind != VKFloat {
		panic(vm.eb.typeMismatch("numeric operand", v))
	}
}

// equals compares numerically when both operands are statically numeric and
// by identity otherwise.
func (vm *VM) equals(l, r Value, left, right ast.NodeID) bool {
	lt, rt := vm.AT.NodeType[left], vm.AT.NodeType[right]
	if vm.types.IsNumeric(lt) && vm.types.IsNumeric(rt) {
		if vm.types.UpperType(lt, rt) == vm.types.Builtins().Float {
			return l.asFloat() == r.asFloat()
		}
		return l.Int == r.Int
	}
	if l.IsNull() || r.IsNull() {
		return l.IsNull() && r.IsNull()
	}
	if l.Kind != r.Kind {
		return false
	}
	switch l.Kind {
	case VKInt:
		return l.Int == r.Int
	case VKFloat:
		return l.Float == r.Float
	case VKBool:
		return l.Bool == r.Bool
	case VKString:
		return l.Str == r.Str
	case VKObject:
		return l.Obj == r.Obj
	case VKFunc:
		return sameFunction(l.Fn, r.Fn)
	}
	return false
}

// compare applies a relational operator to numeric operands.
func (vm *VM) compare(op token.Kind, l, r Value) bool {
	vm.numeric(l)
	vm.numeric(r)
	if l.Kind == VKInt && r.Kind == VKInt {
		x, y := l.Int, r.Int
		switch op {
		case token.Lt:
			return x < y
		case token.LtEq:
			return x <= y
		case token.Gt:
			return x > y
		default:
			return x >= y
		}
	}
	x, y := l.asFloat(), r.asFloat()
	switch op {
	case token.Lt:
		return x < y
	case token.LtEq:
		return x <= y
	case token.Gt:
		return x > y
	default:
		return x >= y
	}
}
