package types

import (
	"fmt"

	"fortio.org/safecast"
)

// ClassInfo stores metadata for a nominal class type.
type ClassInfo struct {
	Name   string
	Parent TypeID // NoTypeID for root classes
}

// NewClass allocates a nominal class type.
func (in *Interner) NewClass(name string) TypeID {
	in.classes = append(in.classes, ClassInfo{Name: name})
	slot, err := safecast.Conv[uint32](len(in.classes) - 1)
	if err != nil {
		panic(fmt.Errorf("class info overflow: %w", err))
	}
	return in.internRaw(Type{Kind: KindClass, Payload: slot})
}

// ClassInfo returns metadata for the provided class TypeID.
func (in *Interner) ClassInfo(id TypeID) (*ClassInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindClass || int(tt.Payload) >= len(in.classes) {
		return nil, false
	}
	return &in.classes[tt.Payload], true
}

// SetParent links a class to its parent. A link that would close a cycle is refused.
func (in *Interner) SetParent(class, parent TypeID) bool {
	info, ok := in.ClassInfo(class)
	if !ok {
		return false
	}
	if parent == class || in.IsAncestor(class, parent) {
		return false
	}
	info.Parent = parent
	return true
}

// Parent returns the parent class or NoTypeID.
func (in *Interner) Parent(class TypeID) TypeID {
	if info, ok := in.ClassInfo(class); ok {
		return info.Parent
	}
	return NoTypeID
}

// IsAncestor reports whether anc is a strict ancestor of class.
func (in *Interner) IsAncestor(anc, class TypeID) bool {
	for p := in.Parent(class); p != NoTypeID; p = in.Parent(p) {
		if p == anc {
			return true
		}
	}
	return false
}

// Lineage returns class and its ancestors, root first.
func (in *Interner) Lineage(class TypeID) []TypeID {
	var chain []TypeID
	for c := class; c != NoTypeID; c = in.Parent(c) {
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
