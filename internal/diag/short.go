package diag

import (
	"fmt"
	"strings"

	"playscript/internal/source"
)

// FormatShort renders one "path:line:col: SEVERITY CODE: message" line per
// diagnostic in the given order. Used by tests and the quiet CLI mode.
func FormatShort(diags []Diagnostic, fs *source.FileSet) string {
	if len(diags) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, d := range diags {
		path := "<unknown>"
		var pos source.LineCol
		if fs != nil {
			if f := fs.Get(d.Primary.File); f != nil {
				path = f.Path
			}
			pos, _ = fs.Resolve(d.Primary)
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s %s: %s\n", path, pos.Line, pos.Col, d.Severity, d.Code, d.Message)
	}
	return sb.String()
}
