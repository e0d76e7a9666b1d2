package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"playscript/internal/diag"
	"playscript/internal/vm"
)

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompileAndRun(t *testing.T) {
	path := writeSource(t, t.TempDir(), "main.play", `
int sq(int x) { return x * x; }
println(sq(4));
`)
	res, err := Compile(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if res.Failed() {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(res.Bag.Items(), res.FileSet))
	}
	rt := vm.NewCaptureRuntime()
	if err := Run(context.Background(), res, RunOptions{Runtime: rt}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := rt.Lines(); !reflect.DeepEqual(got, []string{"16"}) {
		t.Fatalf("output = %v", got)
	}
}

func TestCompileReportsErrors(t *testing.T) {
	res, err := CompileSource(context.Background(), "bad.play", []byte("println(missing);\n"), Options{})
	if err != nil {
		t.Fatalf("CompileSource: %v", err)
	}
	if !res.Failed() {
		t.Fatal("expected a failed compilation")
	}
	if got := res.Bag.Items()[0].Code; got != diag.SemUnknownName {
		t.Fatalf("code = %v, want %v", got, diag.SemUnknownName)
	}
	if err := Run(context.Background(), res, RunOptions{Runtime: vm.NewCaptureRuntime()}); !errors.Is(err, vm.ErrCompilation) {
		t.Fatalf("Run = %v, want ErrCompilation", err)
	}
}

func TestCompileMissingFile(t *testing.T) {
	if _, err := Compile(context.Background(), filepath.Join(t.TempDir(), "nope.play"), Options{}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestCompileSyntaxStage(t *testing.T) {
	res, err := CompileSource(context.Background(), "s.play", []byte("int x = 1;\n"), Options{Stage: StageSyntax})
	if err != nil {
		t.Fatal(err)
	}
	if res.Tree == nil || res.Annotated != nil {
		t.Fatalf("syntax stage: tree=%v annotated=%v", res.Tree != nil, res.Annotated != nil)
	}
}

func TestCompileTimingsAndObserver(t *testing.T) {
	var events []PhaseEvent
	res, err := CompileSource(context.Background(), "t.play", []byte("println(1);\n"), Options{
		EnableTimings: true,
		Observer:      func(ev PhaseEvent) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, p := range res.Timer.Phases() {
		names = append(names, p.Name)
	}
	if !reflect.DeepEqual(names, []string{"parse", "sema"}) {
		t.Fatalf("phases = %v", names)
	}
	if len(events) != 4 || events[0].Status != PhaseStart || events[3].Status != PhaseEnd {
		t.Fatalf("events = %+v", events)
	}
	if events[1].Name != "parse" || events[1].Detail != "errors=0" {
		t.Fatalf("parse end = %+v", events[1])
	}
}

func TestCheckFilesWithCache(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.play", "int a = 1;\nprintln(a);\n")
	bad := writeSource(t, dir, "bad.play", "int a = 1;\nprintln(b);\n")
	missing := filepath.Join(dir, "missing.play")
	paths := []string{bad, good, missing}

	cache, err := OpenDiagCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	statuses := make(map[string][]ProgressStatus)
	opts := CheckOptions{
		Jobs:  2,
		Cache: cache,
		Progress: func(ev ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			statuses[ev.Path] = append(statuses[ev.Path], ev.Status)
		},
	}

	fs, first, err := CheckFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("CheckFiles: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 results, got %d", len(first))
	}
	if !first[0].Bag.HasErrors() || first[1].Bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShort(MergeBags(first).Items(), fs))
	}
	if first[2].Bag.Items()[0].Code != diag.IOLoadFileError {
		t.Fatalf("missing file: %+v", first[2].Bag.Items())
	}
	if first[0].Cached || first[1].Cached {
		t.Fatal("cold run reported cache hits")
	}
	if got := statuses[good]; len(got) != 3 || got[2] != ProgressDone {
		t.Fatalf("progress for good file = %v", got)
	}

	fs2, second, err := CheckFiles(context.Background(), paths, opts)
	if err != nil {
		t.Fatalf("CheckFiles (warm): %v", err)
	}
	if !second[0].Cached || !second[1].Cached {
		t.Fatal("warm run missed the cache")
	}
	want := diag.FormatShort(first[0].Bag.Items(), fs)
	if got := diag.FormatShort(second[0].Bag.Items(), fs2); got != want {
		t.Fatalf("cached diagnostics differ:\n%s\nwant:\n%s", got, want)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	_, third, err := CheckFiles(context.Background(), paths[:1], opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Fatal("cache hit after DropAll")
	}
}

func TestCheckFilesCancelled(t *testing.T) {
	path := writeSource(t, t.TempDir(), "a.play", "println(1);\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := CheckFiles(ctx, []string{path}, CheckOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestSessionAccumulates(t *testing.T) {
	s := NewSession(Options{}, RunOptions{})
	ctx := context.Background()

	steps := []struct {
		input string
		want  []string
		fails bool
	}{
		{input: "int x = 2", want: nil},
		{input: "int twice(int v) { return v * 2; }", want: nil},
		{input: "println(twice(x))", want: []string{"4"}},
		{input: "println(nothing)", fails: true},
		{input: "x = 5; println(twice(x));", want: []string{"10"}},
	}
	for _, step := range steps {
		out, err := s.Eval(ctx, step.input)
		if err != nil {
			t.Fatalf("%q: %v", step.input, err)
		}
		if step.fails {
			if !errors.Is(out.Err, vm.ErrCompilation) {
				t.Fatalf("%q: expected a compilation error, got %v", step.input, out.Err)
			}
			continue
		}
		if out.Err != nil {
			t.Fatalf("%q: %v", step.input, out.Err)
		}
		if !reflect.DeepEqual(out.Output, step.want) {
			t.Fatalf("%q: output = %v, want %v", step.input, out.Output, step.want)
		}
	}

	s.Reset()
	if s.Source() != "" {
		t.Fatal("Reset kept source")
	}
}
