package types

import (
	"fmt"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the singleton types.
type Builtins struct {
	Invalid TypeID
	Int     TypeID
	Float   TypeID
	Bool    TypeID
	String  TypeID
	Null    TypeID
	Void    TypeID
}

// Interner owns every type of a compilation. Primitives and void are singletons;
// every function and class gets its own identity.
type Interner struct {
	types    []Type
	fns      []FnInfo
	classes  []ClassInfo
	builtins Builtins
}

// NewInterner constructs an interner seeded with built-in primitives.
func NewInterner() *Interner {
	in := &Interner{}
	in.fns = append(in.fns, FnInfo{}) // reserve 0 as invalid sentinel
	in.classes = append(in.classes, ClassInfo{})
	in.builtins.Invalid = in.internRaw(Type{Kind: KindInvalid})
	in.builtins.Int = in.internRaw(Type{Kind: KindInt})
	in.builtins.Float = in.internRaw(Type{Kind: KindFloat})
	in.builtins.Bool = in.internRaw(Type{Kind: KindBool})
	in.builtins.String = in.internRaw(Type{Kind: KindString})
	in.builtins.Null = in.internRaw(Type{Kind: KindNull})
	in.builtins.Void = in.internRaw(Type{Kind: KindVoid})
	return in
}

// Builtins returns TypeIDs for primitive types.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	in.types = append(in.types, t)
	return TypeID(lenTypes)
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, ok := in.Lookup(id)
	if !ok {
		panic("types: invalid TypeID")
	}
	return tt
}

// Kind returns KindInvalid for unknown ids.
func (in *Interner) Kind(id TypeID) Kind {
	tt, _ := in.Lookup(id)
	return tt.Kind
}

// Len returns the number of registered types, the invalid sentinel included.
func (in *Interner) Len() int {
	return len(in.types)
}
