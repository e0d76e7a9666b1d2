package vm

import (
	"fmt"

	"playscript/internal/symbols"
	"playscript/internal/trace"
)

// Frame is one activation of a block, function or object. Parent links
// frames by lexical nesting rather than push order.
type Frame struct {
	Scope  symbols.ScopeID
	Obj    *Object
	Parent *Frame
	Fn     *FunctionObject // function value being invoked, if any

	done bool // popped; reads of its variables go to captured copies
}

func (vm *VM) top() *Frame {
	if len(vm.stack) == 0 {
		return nil
	}
	return vm.stack[len(vm.stack)-1]
}

// push links a new frame for scope to its lexical parent. A function value
// whose defining activation is still live links to it. Otherwise the stack is
// searched from the top for a sibling frame, the frame of the enclosing
// scope, or the frame holding the variable fn was stored into.
func (vm *VM) push(scope symbols.ScopeID, obj *Object, fn *FunctionObject) *Frame {
	f := &Frame{Scope: scope, Obj: obj, Fn: fn}
	lexical := symbols.NoScopeID
	if sc := vm.table.Scopes.Get(scope); sc != nil {
		lexical = sc.Parent
	}
	if fn != nil && lexical.IsValid() {
		f.Parent = liveFrameOf(fn.Home, lexical)
	}
	receiverScope := symbols.NoScopeID
	if fn != nil && fn.Receiver.IsValid() {
		receiverScope = vm.table.Symbols.Get(fn.Receiver).Scope
	}

	linked := f.Parent != nil
	for i := len(vm.stack) - 1; i >= 0 && !linked; i-- {
		cand := vm.stack[i]
		candParent := symbols.NoScopeID
		if sc := vm.table.Scopes.Get(cand.Scope); sc != nil {
			candParent = sc.Parent
		}
		switch {
		case lexical.IsValid() && candParent == lexical:
			f.Parent = cand.Parent
			linked = true
		case lexical.IsValid() && cand.Scope == lexical:
			f.Parent = cand
			linked = true
		case receiverScope.IsValid() && cand.Scope == receiverScope:
			f.Parent = cand
			linked = true
		}
	}
	if !linked && len(vm.stack) > 0 {
		f.Parent = vm.top()
		trace.Point(vm.tracer, trace.ScopeModule, "frame-fallback", fmt.Sprintf("scope %d linked to top frame", scope))
	}

	vm.stack = append(vm.stack, f)
	trace.Point(vm.tracer, trace.ScopeNode, "push", fmt.Sprintf("scope %d depth %d", scope, len(vm.stack)))
	return f
}

func (vm *VM) pop() {
	vm.stack[len(vm.stack)-1].done = true
	vm.stack[len(vm.stack)-1] = nil
	vm.stack = vm.stack[:len(vm.stack)-1]
}

// liveFrameOf walks the lexical chain from f to the live frame of scope.
func liveFrameOf(f *Frame, scope symbols.ScopeID) *Frame {
	for ; f != nil; f = f.Parent {
		if f.Scope == scope {
			if f.done {
				return nil
			}
			return f
		}
	}
	return nil
}

// currentReceiver returns the object of the nearest object frame on the
// lexical chain.
func (vm *VM) currentReceiver() *Object {
	for f := vm.top(); f != nil; f = f.Parent {
		if f.Obj.IsInstance() {
			return f.Obj
		}
	}
	return nil
}
