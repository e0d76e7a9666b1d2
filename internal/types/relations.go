package types

// IsType reports whether t can stand where target is expected:
// identity for primitives and void, ancestry for classes, and shape for functions
// (results and parameters compared pairwise with IsType).
func (in *Interner) IsType(t, target TypeID) bool {
	if t == target {
		return true
	}
	tt, ok1 := in.Lookup(t)
	gt, ok2 := in.Lookup(target)
	if !ok1 || !ok2 || tt.Kind != gt.Kind {
		return false
	}
	switch tt.Kind {
	case KindClass:
		return in.IsAncestor(target, t)
	case KindFunction:
		a, _ := in.FnInfo(t)
		b, _ := in.FnInfo(target)
		if !in.IsType(a.Result, b.Result) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !in.IsType(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// IsNumeric reports whether t is int or float.
func (in *Interner) IsNumeric(t TypeID) bool {
	return t != NoTypeID && (t == in.builtins.Int || t == in.builtins.Float)
}

// UpperType returns the wider of two operand types: string absorbs everything,
// then float, then int. NoTypeID when neither side is one of those.
func (in *Interner) UpperType(a, b TypeID) TypeID {
	bi := in.builtins
	switch {
	case a == bi.String || b == bi.String:
		return bi.String
	case a == bi.Float || b == bi.Float:
		return bi.Float
	case a == bi.Int || b == bi.Int:
		return bi.Int
	}
	return NoTypeID
}

// Assignable reports whether a value of type value may be stored in a slot of
// type target: IsType, widening int to float, or null into a string, class or
// function slot.
func (in *Interner) Assignable(value, target TypeID) bool {
	if in.IsType(value, target) {
		return true
	}
	bi := in.builtins
	if value == bi.Int && target == bi.Float {
		return true
	}
	if value == bi.Null {
		switch in.Kind(target) {
		case KindString, KindClass, KindFunction:
			return true
		}
	}
	return false
}
