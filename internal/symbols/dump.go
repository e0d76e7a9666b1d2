package symbols

import (
	"fmt"
	"io"
	"strings"
)

// Dump writes the scope tree rooted at root, one symbol per line.
func (t *Table) Dump(w io.Writer, root ScopeID) {
	t.dumpScope(w, root, 0)
}

func (t *Table) dumpScope(w io.Writer, id ScopeID, depth int) {
	sc := t.Scopes.Get(id)
	if sc == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	label := sc.Kind.String()
	if owner := t.Symbols.Get(sc.Owner); owner != nil {
		label += " " + owner.Name
	}
	fmt.Fprintf(w, "%sscope#%d %s\n", indent, id, label)
	for _, symID := range sc.Symbols {
		sym := t.Symbols.Get(symID)
		line := fmt.Sprintf("%s  %s %s : %s", indent, sym.Kind, sym.Name, t.Types.Label(sym.Type))
		if flags := sym.Flags.Strings(); len(flags) > 0 {
			line += " [" + strings.Join(flags, ",") + "]"
		}
		if len(sym.Closure) > 0 {
			names := make([]string, 0, len(sym.Closure))
			for _, c := range sym.Closure {
				names = append(names, t.Symbols.Get(c).Name)
			}
			line += " closure(" + strings.Join(names, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
	for _, child := range sc.Children {
		t.dumpScope(w, child, depth+1)
	}
}
