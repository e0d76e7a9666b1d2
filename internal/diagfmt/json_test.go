package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"playscript/internal/diag"
	"playscript/internal/lexer"
	"playscript/internal/source"
	"playscript/internal/token"
)

func TestJSONBasic(t *testing.T) {
	bag, fs := unknownNameBag()

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
	}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", output.Count)
	}
	if !output.HasErrors {
		t.Error("expected has_errors")
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "SEM3004" || d.Message != "unknown name b" {
		t.Errorf("unexpected diagnostic %+v", d)
	}
	if d.Title != diag.SemUnknownName.Title() {
		t.Errorf("title = %q", d.Title)
	}
	loc := d.Location
	if loc.File != "test.play" || loc.StartByte != 19 || loc.EndByte != 20 {
		t.Errorf("unexpected location %+v", loc)
	}
	if loc.StartLine != 2 || loc.StartCol != 9 || loc.EndCol != 10 {
		t.Errorf("unexpected positions %+v", loc)
	}
	if len(d.Notes) != 1 || d.Notes[0].Message != "did you mean a?" {
		t.Errorf("unexpected notes %+v", d.Notes)
	}
}

func TestJSONOmitsPositionsAndNotes(t *testing.T) {
	bag, fs := unknownNameBag()

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	out := buf.String()
	for _, key := range []string{"start_line", "notes"} {
		if strings.Contains(out, key) {
			t.Errorf("unexpected %q in output:\n%s", key, out)
		}
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := unknownNameBag()
	bag.Add(diag.NewError(diag.SemUnknownClass, source.Span{File: 0, Start: 0, End: 3}, "unknown class"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Fatalf("count = %d, want 1", out.Count)
	}
}

func TestFormatTokens(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("t.play", []byte("int x = 1;"))
	toks := lexer.New(fs.Get(fileID), lexer.Options{}).All()

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(pretty.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 6 token lines, got %d:\n%s", len(lines), pretty.String())
	}
	if !strings.Contains(lines[1], `"x" at 1:5-1:6`) {
		t.Errorf("unexpected identifier line %q", lines[1])
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var decoded []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded) != 6 || decoded[5].Kind != token.EOF.String() {
		t.Fatalf("unexpected tokens %+v", decoded)
	}
}
