package vm

import (
	"playscript/internal/ast"
	"playscript/internal/symbols"
	"playscript/internal/trace"
)

const printlnName = "println"

func (vm *VM) evalArgs(args []ast.NodeID) []Value {
	out := make([]Value, 0, len(args))
	for _, a := range args {
		out = append(out, vm.eval(a))
	}
	return out
}

func (vm *VM) evalCall(id ast.NodeID) Value {
	call, _ := vm.tree.Call(id)

	switch call.Target {
	case ast.CallThis, ast.CallSuper:
		ctor, ok := vm.AT.Constructor(id)
		args := vm.evalArgs(call.Args)
		vm.at(id)
		if !ok || vm.table.Symbols.Get(ctor).Has(symbols.SymbolFlagDefaultCtor) {
			// root classes and default constructors have nothing to run
			return Value{}
		}
		self := vm.currentReceiver()
		if self == nil {
			panic(vm.eb.nullReference("constructor chaining"))
		}
		vm.invoke(ctor, args, self, nil)
		return Value{}
	}

	if call.Name == printlnName && !call.Receiver.IsValid() {
		args := vm.evalArgs(call.Args)
		line := ""
		if len(args) > 0 {
			line = args[0].String()
		}
		vm.RT.Println(line)
		return Value{}
	}

	sym := vm.symbol(id)
	symID := vm.AT.NodeSymbol[id]
	if sym.Kind == symbols.SymbolVariable {
		return vm.callVariable(id, call, symID)
	}

	switch {
	case vm.table.IsConstructor(symID):
		args := vm.evalArgs(call.Args)
		vm.at(id)
		return vm.construct(vm.table.ClassOfScope(sym.Scope), symID, args)

	case call.Receiver.IsValid():
		recv := vm.eval(call.Receiver)
		args := vm.evalArgs(call.Args)
		vm.at(id)
		if recv.Kind != VKObject {
			panic(vm.eb.nullReference("call of method " + call.Name))
		}
		target := symID
		if vm.tree.Kind(call.Receiver) != ast.KindSuper {
			target = vm.dispatch(recv.Obj, symID)
		}
		return vm.invoke(target, args, recv.Obj, nil)

	case vm.table.IsMethod(symID):
		// unqualified method calls go through the current receiver
		args := vm.evalArgs(call.Args)
		vm.at(id)
		self := vm.currentReceiver()
		if self == nil {
			panic(vm.eb.nullReference("call of method " + call.Name))
		}
		return vm.invoke(vm.dispatch(self, symID), args, self, nil)
	}

	args := vm.evalArgs(call.Args)
	vm.at(id)
	return vm.invoke(symID, args, nil, nil)
}

// callVariable calls the function value held by a variable or field.
func (vm *VM) callVariable(id ast.NodeID, call *ast.CallData, v symbols.SymbolID) Value {
	var fv Value
	if call.Receiver.IsValid() {
		recv := vm.eval(call.Receiver)
		vm.at(id)
		if recv.Kind != VKObject {
			panic(vm.eb.nullReference("call of " + call.Name))
		}
		field := v
		if rt := vm.table.Symbols.Get(recv.Obj.Class); rt != nil {
			if found := vm.table.Variable(rt.Owns, call.Name); found.IsValid() {
				field = found
			}
		}
		fv = recv.Obj.Fields[field]
	} else {
		fv = vm.findLValue(v).Get()
	}
	args := vm.evalArgs(call.Args)
	vm.at(id)
	if fv.Kind != VKFunc {
		panic(vm.eb.nullReference("call of function value " + call.Name))
	}
	return vm.callFunctionValue(fv.Fn, args)
}

func (vm *VM) callFunctionValue(fo *FunctionObject, args []Value) Value {
	if fo.Self != nil {
		return vm.invoke(vm.dispatch(fo.Self, fo.Func), args, fo.Self, fo)
	}
	return vm.invoke(fo.Func, args, nil, fo)
}

// dispatch finds the override of method fn in the runtime class of obj.
func (vm *VM) dispatch(obj *Object, fn symbols.SymbolID) symbols.SymbolID {
	rt := vm.table.Symbols.Get(obj.Class)
	if rt == nil {
		return fn
	}
	sym := vm.table.Symbols.Get(fn)
	found := vm.table.Function(rt.Owns, sym.Name, vm.table.ParamTypes(fn))
	if !found.IsValid() || found == fn {
		return fn
	}
	trace.Point(vm.tracer, trace.ScopeNode, "dispatch", vm.funcLabel(fn)+" -> "+vm.funcLabel(found))
	return found
}

func (vm *VM) funcLabel(fn symbols.SymbolID) string {
	sym := vm.table.Symbols.Get(fn)
	if class := vm.table.Symbols.Get(vm.table.ClassOfScope(sym.Scope)); class != nil {
		return class.Name + "." + sym.Name
	}
	return sym.Name
}

// invoke runs fn with its parameters bound to args. Methods run on self,
// which gets an object frame for the class declaring fn.
func (vm *VM) invoke(fn symbols.SymbolID, args []Value, self *Object, fo *FunctionObject) Value {
	vm.checkCancelled()
	if len(vm.calls) >= vm.maxDepth {
		panic(vm.eb.stackOverflow(vm.maxDepth))
	}
	sym := vm.table.Symbols.Get(fn)
	callSpan := vm.span
	vm.calls = append(vm.calls, BacktraceFrame{FuncName: vm.funcLabel(fn), Span: callSpan})
	span := trace.Begin(vm.tracer, trace.ScopeNode, "call", vm.traceParent()).WithExtra("func", vm.funcLabel(fn))
	vm.spans = append(vm.spans, span)

	base := len(vm.stack)
	if self != nil {
		vm.push(sym.Scope, self, nil)
	}
	frame := vm.push(sym.Owns, newLocals(), fo)
	for i, p := range sym.Params {
		if i < len(args) {
			vm.store(LValue{Container: frame.Obj, Var: p}, args[i])
		}
	}

	var result Value
	if fd, ok := vm.tree.FuncDecl(sym.Decl); ok && fd.Body.IsValid() {
		if sig, val := vm.exec(fd.Body); sig == sigReturn {
			result = val
		}
	}
	for len(vm.stack) > base {
		vm.pop()
	}
	vm.calls = vm.calls[:len(vm.calls)-1]
	vm.span = callSpan
	if n := len(vm.spans); n > 0 {
		vm.spans = vm.spans[:n-1]
	}
	span.End("")

	if vm.table.IsConstructor(fn) && self != nil {
		return ObjectValue(self)
	}
	return vm.coerce(result, vm.table.ResultType(fn))
}

// construct creates an instance of class. Every class of the lineage, root
// first, zeroes its fields and runs their initializers under one object
// frame; the constructor runs afterwards.
func (vm *VM) construct(classID, ctor symbols.SymbolID, args []Value) Value {
	class := vm.table.Symbols.Get(classID)
	obj := newInstance(class, classID)
	callSpan := vm.span

	vm.push(class.Owns, obj, nil)
	for _, ty := range vm.types.Lineage(class.Type) {
		k := vm.table.Symbols.Get(vm.table.ClassOfType(ty))
		if k == nil {
			continue
		}
		for _, v := range vm.table.Scopes.Get(k.Owns).Symbols {
			if s := vm.table.Symbols.Get(v); s.Kind == symbols.SymbolVariable {
				obj.Fields[v] = vm.zero(s.Type)
			}
		}
		vm.initFields(k, obj)
	}
	vm.pop()
	vm.span = callSpan

	if c := vm.table.Symbols.Get(ctor); c != nil && !c.Has(symbols.SymbolFlagDefaultCtor) {
		vm.invoke(ctor, args, obj, nil)
	}
	return ObjectValue(obj)
}

func (vm *VM) initFields(class *symbols.Symbol, obj *Object) {
	cd, ok := vm.tree.ClassDecl(class.Decl)
	if !ok {
		return
	}
	for _, m := range cd.Members {
		vd, ok := vm.tree.VarDecl(m)
		if !ok {
			continue
		}
		for _, d := range vd.Decls {
			decl, _ := vm.tree.Declarator(d)
			v, ok := vm.AT.NodeSymbol[d]
			if !ok || !decl.Init.IsValid() {
				continue
			}
			vm.store(LValue{Container: obj, Var: v}, vm.eval(decl.Init))
		}
	}
}
