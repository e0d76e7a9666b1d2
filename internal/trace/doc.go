// Package trace records what the PlayScript toolchain is doing while it runs.
//
// Tracing is off by default. The CLI turns it on with
//
//	playscript run --trace=- --trace-level=detail prog.play
//
// Events go to a StreamTracer (text or NDJSON as they happen), a RingTracer
// (the last N events, dumped at exit) or both through a MultiTracer.
//
// Levels gate scopes: phase shows driver and pass spans, detail adds
// per-file work, debug adds interpreted calls and frame pushes.
//
// Spans nest through the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeDriver, "compile")
//	defer span.End("")
package trace
