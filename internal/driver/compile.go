// Package driver wires the pipeline together: load, lex, parse, analyse and
// evaluate, for single files, multi-file checks and REPL sessions.
package driver

import (
	"context"
	"fmt"

	"fortio.org/safecast"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/observ"
	"playscript/internal/parser"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/trace"
	"playscript/internal/vm"
)

// Stage is the last pipeline stage Compile runs.
type Stage string

const (
	StageSyntax Stage = "syntax"
	StageSema   Stage = "sema"
)

type Options struct {
	Stage          Stage // StageSema when empty
	MaxDiagnostics int
	EnableTimings  bool
	Observer       PhaseObserver
}

// Result is a compiled file. Tree and Annotated may be nil when the pipeline
// stopped early.
type Result struct {
	FileSet   *source.FileSet
	File      *source.File
	Bag       *diag.Bag
	Tree      *ast.Tree
	Annotated *sema.AnnotatedTree
	Timer     *observ.Timer
}

// Failed reports whether compilation produced an error diagnostic.
func (r *Result) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// Compile loads path and runs the pipeline over it.
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	timer := newTimer(opts)
	idx := timer.Begin("load_file")
	fileID, err := fs.Load(path)
	timer.End(idx, "")
	if err != nil {
		return nil, err
	}
	return compileFile(ctx, fs, fs.Get(fileID), timer, opts)
}

// CompileSource runs the pipeline over an in-memory source.
func CompileSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual(name, src)
	return compileFile(ctx, fs, fs.Get(fileID), newTimer(opts), opts)
}

func newTimer(opts Options) *observ.Timer {
	if !opts.EnableTimings {
		return nil
	}
	return observ.NewTimer()
}

func compileFile(ctx context.Context, fs *source.FileSet, file *source.File, timer *observ.Timer, opts Options) (*Result, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
	span.WithExtra("file", file.Path)
	defer span.End("")

	maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
		Timer:   timer,
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})
	phase := phaseRunner{timer: timer, observer: opts.Observer}

	phase.run("parse", func() string {
		parsed := parser.ParseFile(file, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
		res.Tree = parsed.Tree
		return fmt.Sprintf("errors=%d", parsed.Errors)
	})
	if opts.Stage == StageSyntax {
		res.Bag.Sort()
		return res, nil
	}

	var semaErr error
	phase.run("sema", func() string {
		res.Annotated, semaErr = sema.Analyze(ctx, res.Tree, sema.Options{Reporter: reporter, Tracer: trace.FromContext(ctx)})
		return fmt.Sprintf("diags=%d", res.Bag.Len())
	})
	if semaErr != nil {
		return res, semaErr
	}
	res.Bag.Sort()
	return res, nil
}

// RunOptions configures evaluation of a compiled result.
type RunOptions struct {
	Runtime      vm.Runtime
	MaxCallDepth int
}

// Run evaluates a compiled result. It returns vm.ErrCompilation when the
// result has errors, and a *vm.VMError for evaluation faults.
func Run(ctx context.Context, res *Result, opts RunOptions) error {
	if res == nil || res.Annotated == nil {
		return vm.ErrCompilation
	}
	idx := res.Timer.Begin("evaluate")
	machine := vm.New(res.Annotated, res.FileSet, vm.Options{
		Trace:        trace.FromContext(ctx),
		Runtime:      opts.Runtime,
		MaxCallDepth: opts.MaxCallDepth,
	})
	err := machine.Run(ctx)
	res.Timer.End(idx, "")
	return err
}
