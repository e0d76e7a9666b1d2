package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"playscript/internal/diag"
	"playscript/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, gutter    *color.Color
	caret, note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for humans. Items are printed in bag order
// (call bag.Sort() first). Each diagnostic prints
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline and, optionally, notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, opts.PathMode, opts.BaseDir), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)
	if f != nil {
		snippet(w, f, fs, d.Primary, opts, p)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		pos, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"),
			formatPath(nf, opts.PathMode, opts.BaseDir), pos.Line, pos.Col, n.Msg)
	}
}

// snippet prints the context lines, the primary line and its underline.
func snippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if opts.Context > 0 {
		ctx, err := safecast.Conv[uint32](opts.Context)
		if err == nil && ctx < first {
			first -= ctx
		} else {
			first = 1
		}
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		line := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			line = runewidth.Truncate(line, int(opts.Width), "...")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), line)
	}

	raw := f.GetLine(start.Line)
	col, err := safecast.Conv[int](start.Col)
	if err != nil || col < 1 {
		col = 1
	}
	col = min(col-1, len(raw))
	pad := runewidth.StringWidth(expandTabs(raw[:col]))

	// the underline stops at the end of the first line
	stop := len(raw)
	if end.Line == start.Line {
		if e, err := safecast.Conv[int](end.Col); err == nil {
			stop = min(max(e-1, col), len(raw))
		}
	}
	width := max(runewidth.StringWidth(expandTabs(raw[col:stop])), 1)
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
