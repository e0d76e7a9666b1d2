package types

import "strings"

// Label renders a type the way it is spelled in source.
func (in *Interner) Label(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "<unknown>"
	}
	switch tt.Kind {
	case KindClass:
		info, _ := in.ClassInfo(id)
		return info.Name
	case KindFunction:
		info, _ := in.FnInfo(id)
		var sb strings.Builder
		sb.WriteString("function ")
		sb.WriteString(in.Label(info.Result))
		sb.WriteByte('(')
		for i, p := range info.Params {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(in.Label(p))
		}
		sb.WriteByte(')')
		return sb.String()
	}
	return tt.Kind.String()
}
