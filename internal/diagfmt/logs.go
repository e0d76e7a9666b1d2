package diagfmt

import (
	"fmt"
	"io"

	"playscript/internal/diag"
	"playscript/internal/source"
)

// Logs writes one compilation-log line per diagnostic:
//
//	[ERROR] [3, 7] unknown name "x"
//
// Columns are zero-based here, matching the position-in-line of the log
// record. Diagnostics from other files than the first are prefixed with
// their path.
func Logs(w io.Writer, bag *diag.Bag, fs *source.FileSet, max int) {
	items := bag.Items()
	if max > 0 && max < len(items) {
		items = items[:max]
	}
	var first source.FileID
	for i, d := range items {
		if i == 0 {
			first = d.Primary.File
		}
		pos, _ := fs.Resolve(d.Primary)
		col := pos.Col
		if col > 0 {
			col--
		}
		prefix := ""
		if d.Primary.File != first {
			if f := fs.Get(d.Primary.File); f != nil {
				prefix = f.Path + ": "
			}
		}
		fmt.Fprintf(w, "%s[%s] [%d, %d] %s\n", prefix, logLevel(d.Severity), pos.Line, col, d.Message)
	}
}

func logLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "ERROR"
	case diag.SevWarning:
		return "WARN"
	default:
		return "INFO"
	}
}
