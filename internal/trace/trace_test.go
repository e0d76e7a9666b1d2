package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRingKeepsLastEvents(t *testing.T) {
	ring := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		Point(ring, ScopeNode, name, "")
	}
	events := ring.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("snapshot = %+v", events)
	}
	if got := ring.Dropped(); got != 1 {
		t.Fatalf("Dropped = %d, want 1", got)
	}
}

func TestLevelGatesScopes(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	span := Begin(ring, ScopePass, "resolve", nil)
	Point(ring, ScopeNode, "frame", "")
	if Begin(ring, ScopeNode, "call", span) != nil {
		t.Fatal("node span opened at phase level")
	}
	span.End("0 diagnostics")
	events := ring.Snapshot()
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[1].Kind != KindSpanEnd || events[1].Detail != "0 diagnostics" {
		t.Fatalf("end event = %+v", events[1])
	}
}

func TestNilSpanIsInert(t *testing.T) {
	var span *Span
	if span.WithExtra("k", "v") != nil || span.End("") != 0 || span.ID() != 0 {
		t.Fatal("nil span did something")
	}
	if Begin(Nop, ScopeDriver, "run", nil) != nil {
		t.Fatal("Nop opened a span")
	}
}

func TestStartNestsThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopeDriver, "check")
	inner, compile := Start(ctx, ScopeDriver, "compile")
	PointIn(inner, ScopeModule, "cache-hit", "a.play")
	compile.End("")
	outer.End("")

	events := ring.Snapshot()
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	if events[1].ParentID != outer.ID() || events[1].Depth != 1 {
		t.Fatalf("compile begin = %+v", events[1])
	}
	if events[2].ParentID != compile.ID() || events[2].Depth != 2 {
		t.Fatalf("point = %+v", events[2])
	}
	if SpanFromContext(inner) != compile {
		t.Fatal("Start did not attach the span")
	}
}

func TestStreamFormats(t *testing.T) {
	var buf bytes.Buffer
	st := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	span := Begin(st, ScopeModule, "compile", nil)
	span.End("ok")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("ndjson output = %q", buf.String())
	}
	var end struct {
		Kind   string `json:"kind"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatal(err)
	}
	if end.Kind != "end" || end.Name != "compile" || end.Detail != "ok" {
		t.Fatalf("end = %+v", end)
	}

	buf.Reset()
	st = NewStreamTracer(&buf, LevelDetail, FormatText)
	root := Begin(st, ScopeDriver, "run", nil).WithExtra("file", "a.play")
	Begin(st, ScopePass, "resolve", root).End("")
	root.End("ok")
	out := buf.String()
	for _, want := range []string{"→ run", "  → resolve", "← run (ok) {file=a.play}", "ms\n"} {
		if !strings.Contains(out, want) {
			t.Fatalf("text output lacks %q:\n%s", want, out)
		}
	}
}

func TestHeartbeat(t *testing.T) {
	ring := NewRingTracer(64, LevelError)
	hb := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(ring.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()
	events := ring.Snapshot()
	if len(events) == 0 || events[0].Kind != KindHeartbeat {
		t.Fatalf("events = %+v", events)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat started without tracing")
	}
}

func TestNewModes(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("ModeBoth built %T", tr)
	}
	Point(tr, ScopeDriver, "hello", "")
	if buf.Len() == 0 || len(multi.Ring().Snapshot()) != 1 {
		t.Fatal("event did not reach both targets")
	}
	if tr, _ := New(Config{Level: LevelOff}); tr != Nop {
		t.Fatalf("LevelOff built %T", tr)
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatalf("tracer not propagated")
	}
}

func TestParseHelpers(t *testing.T) {
	if lvl, err := ParseLevel("DETAIL"); err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if f, err := ParseFormat("ndjson"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat = %v, %v", f, err)
	}
	if m, err := ParseMode("Ring"); err != nil || m != ModeRing {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
}
