package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"playscript/internal/diag"
	"playscript/internal/source"
)

func unknownNameBag() (*diag.Bag, *source.FileSet) {
	fs := source.NewFileSet()
	content := []byte("int a = 1;\nprintln(b);\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.play", content)

	bag := diag.NewBag(10)
	d := diag.New(diag.SevError, diag.SemUnknownName, source.Span{File: fileID, Start: 19, End: 20}, "unknown name b")
	bag.Add(d.WithNote(source.Span{File: fileID, Start: 4, End: 5}, "did you mean a?"))
	return bag, fs
}

func TestPathModes(t *testing.T) {
	bag, fs := unknownNameBag()

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/src/test.play:2:9"},
		{"relative", PathModeRelative, "src/test.play:2:9"},
		{"basename", PathModeBasename, "test.play:2:9"},
		{"auto", PathModeAuto, "/home/user/project/src/test.play:2:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR SEM3004: unknown name b") {
				t.Errorf("missing header in:\n%s", output)
			}
		})
	}
}

func TestPrettySnippet(t *testing.T) {
	bag, fs := unknownNameBag()
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := strings.Join([]string{
		"test.play:2:9: ERROR SEM3004: unknown name b",
		"1 | int a = 1;",
		"2 | println(b);",
		"  | " + strings.Repeat(" ", 8) + "^",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("w.play", []byte("\tstring s = 42;\n"))
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.TypAssignMismatch, source.Span{File: fileID, Start: 12, End: 14}, "cannot assign int to string"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("too few lines:\n%s", buf.String())
	}
	// the tab expands to four columns before the caret
	want := "  | " + strings.Repeat(" ", 4+11) + "^~"
	if lines[2] != want {
		t.Fatalf("underline = %q, want %q", lines[2], want)
	}
}

func TestPrettyNotes(t *testing.T) {
	bag, fs := unknownNameBag()

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	if strings.Contains(buf.String(), "did you mean") {
		t.Fatalf("notes printed without ShowNotes:\n%s", buf.String())
	}

	buf.Reset()
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename, ShowNotes: true})
	if !strings.Contains(buf.String(), "note: test.play:1:5: did you mean a?") {
		t.Fatalf("note missing:\n%s", buf.String())
	}
}

func TestPrettyColor(t *testing.T) {
	bag, fs := unknownNameBag()

	var plain, colored bytes.Buffer
	Pretty(&plain, bag, fs, PrettyOpts{})
	Pretty(&colored, bag, fs, PrettyOpts{Color: true})
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("escape codes with Color=false:\n%q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("no escape codes with Color=true:\n%q", colored.String())
	}
}

func TestPrettyMax(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("m.play", []byte("a;\nb;\nc;\n"))
	bag := diag.NewBag(0)
	for i := range uint32(3) {
		bag.Add(diag.NewError(diag.SemUnknownName, source.Span{File: fileID, Start: i * 3, End: i*3 + 1}, "unknown name"))
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Max: 2})
	if n := strings.Count(buf.String(), "SEM3004"); n != 2 {
		t.Fatalf("expected 2 diagnostics, got %d:\n%s", n, buf.String())
	}
}

func TestLogs(t *testing.T) {
	bag, fs := unknownNameBag()
	bag.Add(diag.New(diag.SevWarning, diag.SemInfo, source.Span{File: 0, Start: 0, End: 3}, "just a warning"))

	var buf bytes.Buffer
	Logs(&buf, bag, fs, 0)
	want := "[ERROR] [2, 8] unknown name b\n[WARN] [1, 0] just a warning\n"
	if buf.String() != want {
		t.Fatalf("Logs() = %q, want %q", buf.String(), want)
	}
}
