package vm

import (
	"playscript/internal/ast"
	"playscript/internal/symbols"
)

// signal reports how a statement completed.
type signal uint8

const (
	sigNone signal = iota
	sigBreak
	sigReturn
)

func (vm *VM) execStmts(stmts []ast.NodeID) (signal, Value) {
	for _, s := range stmts {
		if sig, val := vm.exec(s); sig != sigNone {
			return sig, val
		}
	}
	return sigNone, Value{}
}

func (vm *VM) exec(id ast.NodeID) (signal, Value) {
	tree := vm.tree
	vm.at(id)
	switch tree.Kind(id) {
	case ast.KindBlock:
		b, _ := tree.Block(id)
		scope, ok := vm.AT.NodeScope[id]
		if !ok {
			// function bodies run in the function frame
			return vm.execStmts(b.Stmts)
		}
		vm.push(scope, newLocals(), nil)
		sig, val := vm.execStmts(b.Stmts)
		vm.pop()
		return sig, val

	case ast.KindVarDecl:
		vm.execVarDecl(id)

	case ast.KindIf:
		s, _ := tree.If(id)
		if vm.condition(s.Cond) {
			return vm.exec(s.Then)
		}
		if s.Else.IsValid() {
			return vm.exec(s.Else)
		}

	case ast.KindWhile:
		s, _ := tree.While(id)
		for vm.condition(s.Cond) {
			vm.checkCancelled()
			sig, val := vm.exec(s.Body)
			if sig == sigBreak {
				break
			}
			if sig == sigReturn {
				return sig, val
			}
		}

	case ast.KindFor:
		return vm.execFor(id)

	case ast.KindBreak:
		return sigBreak, Value{}

	case ast.KindReturn:
		s, _ := tree.Return(id)
		if !s.Value.IsValid() {
			return sigReturn, Value{}
		}
		val := vm.eval(s.Value)
		vm.captureOnReturn(val)
		return sigReturn, val

	case ast.KindExprStmt:
		s, _ := tree.ExprStmt(id)
		vm.eval(s.X)

	case ast.KindFuncDecl, ast.KindClassDecl, ast.KindEmpty:
		// declarations take effect through the symbol table

	default:
		panic(vm.eb.unimplemented("statement " + tree.Kind(id).String()))
	}
	return sigNone, Value{}
}

func (vm *VM) execVarDecl(id ast.NodeID) {
	vd, _ := vm.tree.VarDecl(id)
	for _, d := range vd.Decls {
		decl, _ := vm.tree.Declarator(d)
		v, ok := vm.AT.NodeSymbol[d]
		if !ok {
			continue
		}
		val := vm.zero(vm.table.Symbols.Get(v).Type)
		if decl.Init.IsValid() {
			val = vm.eval(decl.Init)
		}
		vm.store(vm.findLValue(v), val)
	}
}

func (vm *VM) execFor(id ast.NodeID) (signal, Value) {
	s, _ := vm.tree.For(id)
	vm.push(vm.AT.NodeScope[id], newLocals(), nil)
	defer vm.pop()

	if s.InitDecl.IsValid() {
		vm.execVarDecl(s.InitDecl)
	}
	for _, e := range s.InitExprs {
		vm.eval(e)
	}
	for !s.Cond.IsValid() || vm.condition(s.Cond) {
		vm.checkCancelled()
		sig, val := vm.exec(s.Body)
		if sig == sigBreak {
			break
		}
		if sig == sigReturn {
			return sig, val
		}
		for _, e := range s.Update {
			vm.eval(e)
		}
	}
	return sigNone, Value{}
}

// condition evaluates a loop or if condition, which must be a boolean.
func (vm *VM) condition(id ast.NodeID) bool {
	val := vm.eval(id)
	if val.Kind != VKBool {
		vm.at(id)
		panic(vm.eb.typeMismatch("boolean condition", val))
	}
	return val.Bool
}

// captureOnReturn copies the closure variables of a returned function value
// into its environment while the frames that hold them are still live. For a
// returned object, function-valued fields made in the same frame share one
// environment seeded from what each had already captured.
func (vm *VM) captureOnReturn(val Value) {
	switch val.Kind {
	case VKFunc:
		if val.Fn.Env == nil {
			val.Fn.Env = newLocals()
		}
		vm.refresh(val.Fn, val.Fn.Env)

	case VKObject:
		var fields []symbols.SymbolID
		envs := make(map[*Frame]*Object)
		for v, field := range val.Obj.Fields {
			if field.Kind != VKFunc || field.Fn.Self != nil || field.Fn.Env == nil {
				continue
			}
			fields = append(fields, v)
			env, ok := envs[field.Fn.Home]
			if !ok {
				env = newLocals()
				envs[field.Fn.Home] = env
			}
			for cv, cval := range field.Fn.Env.Fields {
				env.Fields[cv] = cval
			}
		}
		for _, v := range fields {
			fo := *val.Obj.Fields[v].Fn
			fo.Env = envs[fo.Home]
			vm.refresh(&fo, fo.Env)
			val.Obj.Fields[v] = FuncValue(&fo)
		}
	}
}

// capture fills env with the closure variables of fn as seen from the
// current frame.
func (vm *VM) capture(fn symbols.SymbolID, env *Object) {
	for _, v := range vm.table.Symbols.Get(fn).Closure {
		if lv, ok := vm.lookup(v); ok {
			env.Fields[v] = lv.Get()
		}
	}
}

// refresh copies into env the current value of every closure variable of fo
// whose defining frame is still live. Variables already captured from frames
// that are gone keep their copies.
func (vm *VM) refresh(fo *FunctionObject, env *Object) {
	for _, v := range vm.table.Symbols.Get(fo.Func).Closure {
		if lv, ok := vm.resolveFrom(fo.Home, v); ok {
			env.Fields[v] = lv.Get()
			continue
		}
		if _, ok := env.Fields[v]; ok {
			continue
		}
		if lv, ok := vm.lookup(v); ok {
			env.Fields[v] = lv.Get()
		}
	}
}
