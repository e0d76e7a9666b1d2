package main

import (
	"fmt"
	"io"
	"os"

	"playscript/internal/diag"
	"playscript/internal/diagfmt"
	"playscript/internal/observ"
	"playscript/internal/source"
)

type diagFormat string

const (
	formatPretty diagFormat = "pretty"
	formatLogs   diagFormat = "logs"
	formatJSON   diagFormat = "json"
	formatShort  diagFormat = "short"
)

func readDiagFormat(value string) (diagFormat, error) {
	switch f := diagFormat(value); f {
	case formatPretty, formatLogs, formatJSON, formatShort:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|logs|json|short)", value)
}

type diagOutput struct {
	format    diagFormat
	color     bool
	withNotes bool
	pathMode  diagfmt.PathMode
	max       int
}

func (c *cliConfig) diagOutput(format diagFormat, withNotes bool) diagOutput {
	out := diagOutput{
		format:    format,
		color:     c.useColor(os.Stderr),
		withNotes: withNotes,
		max:       c.maxDiagnostics,
	}
	if c.manifest != nil {
		out.pathMode = diagfmt.PathModeRelative
	}
	return out
}

// printDiagnostics writes bag in the selected format. Nothing is printed for
// an empty bag except in JSON mode, which always emits a document.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, o diagOutput, baseDir string) error {
	if bag.Len() == 0 && o.format != formatJSON {
		return nil
	}
	switch o.format {
	case formatLogs:
		diagfmt.Logs(w, bag, fs, o.max)
	case formatJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         o.pathMode,
			BaseDir:          baseDir,
			Max:              o.max,
			IncludeNotes:     o.withNotes,
		})
	case formatShort:
		items := bag.Items()
		if o.max > 0 && o.max < len(items) {
			items = items[:o.max]
		}
		_, err := io.WriteString(w, diag.FormatShort(items, fs))
		return err
	default:
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     o.color,
			Context:   1,
			PathMode:  o.pathMode,
			BaseDir:   baseDir,
			ShowNotes: o.withNotes,
			Max:       o.max,
		})
		if o.max > 0 && bag.Len() > o.max {
			fmt.Fprintf(w, "... and %d more\n", bag.Len()-o.max)
		}
	}
	return nil
}

func printTimings(w io.Writer, timer *observ.Timer) {
	if timer == nil {
		return
	}
	fmt.Fprint(w, timer.Summary())
}

func (c *cliConfig) baseDir() string {
	if c.manifest != nil {
		return c.manifest.Root
	}
	return ""
}
