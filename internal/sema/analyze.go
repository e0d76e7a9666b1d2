package sema

import (
	"context"
	"fmt"

	"playscript/internal/ast"
	"playscript/internal/diag"
	"playscript/internal/trace"
	"playscript/internal/types"
)

// Options configure semantic analysis of one tree.
type Options struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	Types    *types.Interner
}

type pass struct {
	name string
	run  func(at *AnnotatedTree)
}

var passes = []pass{
	{"scopes", func(at *AnnotatedTree) { at.Tree.Walk(at.Tree.Root, &scopeBuilder{at: at}) }},
	{"decls", func(at *AnnotatedTree) { at.Tree.Walk(at.Tree.Root, &declResolver{at: at}) }},
	{"resolve", func(at *AnnotatedTree) { at.Tree.Walk(at.Tree.Root, &refResolver{at: at}) }},
	{"typecheck", func(at *AnnotatedTree) { at.Tree.Walk(at.Tree.Root, &typeChecker{at: at}) }},
	{"validate", func(at *AnnotatedTree) { at.Tree.Walk(at.Tree.Root, &validator{at: at}) }},
	{"closures", analyzeClosures},
}

// Analyze runs every pass over tree. Errors go to opts.Reporter and never stop
// analysis; the returned tree is always usable for inspection. Analysis
// stops between passes when ctx is cancelled.
func Analyze(ctx context.Context, tree *ast.Tree, opts Options) (*AnnotatedTree, error) {
	tracer := opts.Tracer
	if tracer == nil {
		tracer = trace.FromContext(ctx)
	}
	at := newAnnotatedTree(tree, opts.Types, opts.Reporter)
	if tree == nil || !tree.Root.IsValid() {
		return at, nil
	}
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return at, fmt.Errorf("analysis stopped before %s: %w", p.name, err)
		}
		before := at.ErrorCount()
		span := trace.Begin(tracer, trace.ScopePass, p.name, trace.SpanFromContext(ctx))
		p.run(at)
		span.End(fmt.Sprintf("%d errors", at.ErrorCount()-before))
	}
	return at, nil
}
