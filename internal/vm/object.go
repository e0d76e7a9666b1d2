package vm

import "playscript/internal/symbols"

// Object maps variables to values. Class instances, function locals and
// captured closure environments all use it.
type Object struct {
	Class  symbols.SymbolID // NoSymbolID for locals and environments
	Name   string
	Fields map[symbols.SymbolID]Value
}

func newLocals() *Object {
	return &Object{Fields: make(map[symbols.SymbolID]Value)}
}

func newInstance(class *symbols.Symbol, id symbols.SymbolID) *Object {
	return &Object{
		Class:  id,
		Name:   class.Name,
		Fields: make(map[symbols.SymbolID]Value),
	}
}

// IsInstance reports whether o is an instance of a class.
func (o *Object) IsInstance() bool {
	return o != nil && o.Class.IsValid()
}

func (o *Object) lookup(v symbols.SymbolID) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	val, ok := o.Fields[v]
	return val, ok
}

// FunctionObject is a function used as a value.
type FunctionObject struct {
	Func symbols.SymbolID
	Name string

	// Receiver is the variable the value was last stored into. Its scope
	// tells where the value lives when it is invoked later.
	Receiver symbols.SymbolID

	// Self is the object a method value is bound to.
	Self *Object

	// Env holds closure variables copied when the value escaped.
	Env *Object

	// Home is the frame the value was created in. While the frames that
	// declare its closure variables are live, reads and writes go there.
	Home *Frame
}

// withReceiver returns a copy of fo bound to the variable v. The copy shares
// fo's environment.
func (fo *FunctionObject) withReceiver(v symbols.SymbolID) *FunctionObject {
	cp := *fo
	cp.Receiver = v
	return &cp
}

func sameFunction(a, b *FunctionObject) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Func == b.Func && a.Self == b.Self && a.Env == b.Env
}
