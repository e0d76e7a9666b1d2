package vm

import (
	"playscript/internal/symbols"
	"playscript/internal/types"
)

// LValue is a storage location: a variable inside the object that holds it.
type LValue struct {
	Container *Object
	Var       symbols.SymbolID

	// self marks this/super, whose value is the container itself.
	self bool
}

// Get reads the current value. Unset slots read as void.
func (lv LValue) Get() Value {
	if lv.self {
		return ObjectValue(lv.Container)
	}
	return lv.Container.Fields[lv.Var]
}

// holds reports whether v lives in frame f according to the symbol table.
func (vm *VM) holds(f *Frame, v symbols.SymbolID) bool {
	if f.Obj.IsInstance() {
		return vm.table.ContainsSymbol(f.Scope, v)
	}
	sym := vm.table.Symbols.Get(v)
	return sym != nil && sym.Scope == f.Scope
}

func (vm *VM) frameLValue(f *Frame, v symbols.SymbolID) LValue {
	sym := vm.table.Symbols.Get(v)
	isSelf := f.Obj.IsInstance() && sym != nil && sym.Has(symbols.SymbolFlagThis|symbols.SymbolFlagSuper)
	return LValue{Container: f.Obj, Var: v, self: isSelf}
}

// storedIn finds v among the values copied into f's closure environment or
// stored directly in its object.
func storedIn(f *Frame, v symbols.SymbolID) (LValue, bool) {
	if f.Fn != nil {
		if _, ok := f.Fn.Env.lookup(v); ok {
			return LValue{Container: f.Fn.Env, Var: v}, true
		}
	}
	if _, ok := f.Obj.lookup(v); ok {
		return LValue{Container: f.Obj, Var: v}, true
	}
	return LValue{}, false
}

// lookup finds the storage of v. The lexical chain comes first, with closure
// variables of an invoked function value taken from its own environment, then
// any live activation of v's scope on the stack, then stored fields.
func (vm *VM) lookup(v symbols.SymbolID) (LValue, bool) {
	if lv, ok := vm.resolveFrom(vm.top(), v); ok {
		return lv, true
	}
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if f := vm.stack[i]; vm.holds(f, v) {
			return vm.frameLValue(f, v), true
		}
	}
	for f := vm.top(); f != nil; f = f.Parent {
		if lv, ok := storedIn(f, v); ok {
			return lv, true
		}
	}
	for i := len(vm.stack) - 1; i >= 0; i-- {
		if lv, ok := storedIn(vm.stack[i], v); ok {
			return lv, true
		}
	}
	return LValue{}, false
}

// resolveFrom walks the lexical chain from f. A frame that declares v wins
// unless it has been popped. A frame invoking a function value that captured
// v hands over to that value's environment.
func (vm *VM) resolveFrom(f *Frame, v symbols.SymbolID) (LValue, bool) {
	for ; f != nil; f = f.Parent {
		if vm.holds(f, v) {
			if f.done {
				return LValue{}, false
			}
			return vm.frameLValue(f, v), true
		}
		if f.Fn != nil {
			if _, ok := f.Fn.Env.lookup(v); ok {
				return vm.closureLValue(f.Fn, v), true
			}
		}
	}
	return LValue{}, false
}

// closureLValue is the storage of a variable fo captured: the live frame of
// its defining activation, or the copy in fo's environment once that is gone.
func (vm *VM) closureLValue(fo *FunctionObject, v symbols.SymbolID) LValue {
	if lv, ok := vm.resolveFrom(fo.Home, v); ok {
		return lv
	}
	return LValue{Container: fo.Env, Var: v}
}

func (vm *VM) findLValue(v symbols.SymbolID) LValue {
	lv, ok := vm.lookup(v)
	if !ok {
		panic(vm.eb.unresolved(vm.table.Symbols.Get(v).Name))
	}
	return lv
}

// store writes val into lv, widening int to float for float slots. Function
// values remember the variable they were stored into.
func (vm *VM) store(lv LValue, val Value) {
	if lv.self {
		panic(vm.eb.notAssignable())
	}
	sym := vm.table.Symbols.Get(lv.Var)
	val = vm.coerce(val, sym.Type)
	if val.Kind == VKFunc {
		val = FuncValue(val.Fn.withReceiver(lv.Var))
	}
	lv.Container.Fields[lv.Var] = val
}

// coerce converts val for a slot of type ty.
func (vm *VM) coerce(val Value, ty types.TypeID) Value {
	if ty == vm.types.Builtins().Float && val.Kind == VKInt {
		return FloatValue(float64(val.Int))
	}
	return val
}

// zero returns the initial value of a slot of type ty.
func (vm *VM) zero(ty types.TypeID) Value {
	b := vm.types.Builtins()
	switch ty {
	case b.Int:
		return IntValue(0)
	case b.Float:
		return FloatValue(0)
	case b.Bool:
		return BoolValue(false)
	}
	return NullValue()
}
