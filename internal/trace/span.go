package trace

import (
	"context"
	"time"
)

// Span is an open operation. A nil *Span and a span started on a disabled
// tracer are both valid and do nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	depth   int
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin opens a span below parent (nil for a root span) and emits its begin
// event. Scopes the tracer's level filters out produce an inert span.
func Begin(t Tracer, scope Scope, name string, parent *Span) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return nil
	}
	s := &Span{
		tracer:  t,
		id:      nextSpanID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if parent != nil {
		s.parent = parent.id
		s.depth = parent.depth + 1
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

// Start opens a span with the tracer and parent span carried by ctx and
// returns a context carrying the new span. When the scope is filtered out
// ctx is returned unchanged.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	s := Begin(FromContext(ctx), scope, name, SpanFromContext(ctx))
	if s == nil {
		return ctx, nil
	}
	return ContextWithSpan(ctx, s), s
}

// End emits the end event and returns the span's duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Elapsed = now.Sub(s.started)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return ev.Elapsed
}

// WithExtra attaches a key/value pair reported with the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      nextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Depth:    s.depth,
		Name:     s.name,
		Detail:   detail,
	}
}

// Point emits an instant event when scope passes the tracer's level.
func Point(t Tracer, scope Scope, name, detail string) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:   time.Now(),
		Seq:    nextSeq(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
	})
}

// PointIn is Point attributed to the span carried by ctx.
func PointIn(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	ev := &Event{
		Time:   time.Now(),
		Seq:    nextSeq(),
		Kind:   KindPoint,
		Scope:  scope,
		Name:   name,
		Detail: detail,
	}
	if parent := SpanFromContext(ctx); parent != nil {
		ev.ParentID = parent.id
		ev.Depth = parent.depth + 1
	}
	t.Emit(ev)
}
