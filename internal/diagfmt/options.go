package diagfmt

import (
	"path/filepath"
	"strings"

	"playscript/internal/source"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps short paths and shortens long ones to their basename.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// autoPathLimit is the longest path PathModeAuto prints unchanged.
const autoPathLimit = 40

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // source lines shown above the primary line
	PathMode  PathMode
	BaseDir   string // for PathModeRelative
	Width     uint8  // maximum source line width, 0 for unlimited
	ShowNotes bool
	Max       int // 0 for all
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // add line/col
	PathMode         PathMode
	BaseDir          string
	Max              int // truncates the output, not the Bag
	IncludeNotes     bool
}

// formatPath renders the path of f according to mode.
func formatPath(f *source.File, mode PathMode, base string) string {
	if f == nil {
		return "<unknown>"
	}
	switch mode {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case PathModeRelative:
		if base != "" {
			if rel, err := filepath.Rel(base, f.Path); err == nil && !strings.HasPrefix(rel, "..") {
				return filepath.ToSlash(rel)
			}
		}
	case PathModeBasename:
		return filepath.Base(f.Path)
	case PathModeAuto:
		if len(f.Path) > autoPathLimit {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
