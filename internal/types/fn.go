package types

import (
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// FnInfo stores metadata for function types. Name is empty for function-type literals.
type FnInfo struct {
	Name   string
	Params []TypeID
	Result TypeID
}

// NewFunction registers a fresh function type. Function types are never
// deduplicated: each declared function and each literal has its own identity,
// and equality of shape is checked structurally by IsType.
func (in *Interner) NewFunction(name string, params []TypeID, result TypeID) TypeID {
	in.fns = append(in.fns, FnInfo{Name: name, Params: slices.Clone(params), Result: result})
	slot, err := safecast.Conv[uint32](len(in.fns) - 1)
	if err != nil {
		panic(fmt.Errorf("fn info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindFunction, Payload: slot})
}

// FnInfo retrieves function type metadata by TypeID.
func (in *Interner) FnInfo(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFunction || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}

// SetFnParams replaces the parameter list of a function type.
func (in *Interner) SetFnParams(id TypeID, params []TypeID) {
	if info, ok := in.FnInfo(id); ok {
		info.Params = slices.Clone(params)
	}
}

// AppendFnParam adds one parameter type.
func (in *Interner) AppendFnParam(id TypeID, param TypeID) {
	if info, ok := in.FnInfo(id); ok {
		info.Params = append(info.Params, param)
	}
}

// SetFnResult sets the return type of a function type.
func (in *Interner) SetFnResult(id, result TypeID) {
	if info, ok := in.FnInfo(id); ok {
		info.Result = result
	}
}

// MatchParams reports whether args can be passed to fn: same arity and every
// argument IsType the declared parameter. No numeric widening happens here;
// null still matches string, class and function parameters.
func (in *Interner) MatchParams(fn TypeID, args []TypeID) bool {
	info, ok := in.FnInfo(fn)
	if !ok || len(info.Params) != len(args) {
		return false
	}
	for i, arg := range args {
		if arg == in.builtins.Null && in.Assignable(arg, info.Params[i]) {
			continue
		}
		if !in.IsType(arg, info.Params[i]) {
			return false
		}
	}
	return true
}
