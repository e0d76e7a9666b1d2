// Package vm evaluates annotated trees by walking them.
package vm

import (
	"context"
	"errors"
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/sema"
	"playscript/internal/source"
	"playscript/internal/symbols"
	"playscript/internal/trace"
	"playscript/internal/types"
)

// DefaultMaxCallDepth bounds interpreted recursion.
const DefaultMaxCallDepth = 10000

// ErrCompilation is returned by Run for trees that failed analysis.
var ErrCompilation = errors.New("program has compilation errors")

// Options configures VM execution.
type Options struct {
	Trace        trace.Tracer
	Runtime      Runtime
	MaxCallDepth int
}

// VM is a tree-walking evaluator over an annotated tree. A VM runs one
// program once and is not safe for concurrent use.
type VM struct {
	AT    *sema.AnnotatedTree
	RT    Runtime
	Files *source.FileSet

	tree   *ast.Tree
	table  *symbols.Table
	types  *types.Interner
	tracer trace.Tracer

	stack    []*Frame
	calls    []BacktraceFrame
	maxDepth int
	span     source.Span // node being evaluated, for fault locations
	ctx      context.Context
	spans    []*trace.Span // open evaluate and call spans

	eb *errorBuilder
}

// New creates a VM for the given annotated tree.
func New(at *sema.AnnotatedTree, files *source.FileSet, opts Options) *VM {
	vm := &VM{
		AT:       at,
		RT:       opts.Runtime,
		Files:    files,
		tree:     at.Tree,
		table:    at.Table,
		types:    at.Types,
		tracer:   opts.Trace,
		maxDepth: opts.MaxCallDepth,
	}
	if vm.RT == nil {
		vm.RT = NewDefaultRuntime()
	}
	if vm.tracer == nil {
		vm.tracer = trace.Nop
	}
	if vm.maxDepth <= 0 {
		vm.maxDepth = DefaultMaxCallDepth
	}
	vm.eb = &errorBuilder{vm: vm}
	return vm
}

// Run executes the program. It returns ErrCompilation without running
// anything when analysis reported errors, a *VMError on an evaluation fault,
// and nil on successful completion. Output is flushed in every case.
func (vm *VM) Run(ctx context.Context) (err error) {
	if vm.AT.HasCompilationError() {
		return ErrCompilation
	}
	if ctx == nil {
		ctx = context.Background()
	}
	vm.ctx = ctx

	span := trace.Begin(vm.tracer, trace.ScopeDriver, "evaluate", trace.SpanFromContext(ctx))
	vm.spans = append(vm.spans[:0], span)
	defer func() {
		if r := recover(); r != nil {
			vmErr, ok := r.(*VMError)
			if !ok {
				panic(r)
			}
			err = vmErr
		}
		if ferr := vm.RT.Flush(); ferr != nil && err == nil {
			err = fmt.Errorf("flush output: %w", ferr)
		}
		span.End(fmt.Sprintf("err=%v", err))
	}()

	root := vm.tree.Root
	prog, ok := vm.tree.Block(root)
	if !ok {
		return nil
	}
	vm.push(vm.AT.NodeScope[root], newLocals(), nil)
	vm.execStmts(prog.Stmts)
	vm.pop()
	return nil
}

func (vm *VM) checkCancelled() {
	if err := vm.ctx.Err(); err != nil {
		panic(vm.eb.cancelled(err))
	}
}

func (vm *VM) at(id ast.NodeID) {
	vm.span = vm.tree.Span(id)
}

func (vm *VM) traceParent() *trace.Span {
	if n := len(vm.spans); n > 0 {
		return vm.spans[n-1]
	}
	return nil
}
