package ui

import (
	"strings"
	"testing"

	"playscript/internal/driver"
)

func TestApplyEventUpdatesStatus(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	m := NewProgressModel("checking", []string{"a.play", "b.play"}, events).(*progressModel)

	m.applyEvent(driver.ProgressEvent{Path: "a.play", Status: driver.ProgressWorking})
	if m.items[0].status != "analysing" {
		t.Fatalf("status = %q", m.items[0].status)
	}
	m.applyEvent(driver.ProgressEvent{Path: "a.play", Status: driver.ProgressDone, Diagnostics: 2, HasErrors: true})
	m.applyEvent(driver.ProgressEvent{Path: "b.play", Status: driver.ProgressCached})
	m.applyEvent(driver.ProgressEvent{Path: "unknown.play", Status: driver.ProgressDone})

	if m.items[0].status != "error" || m.items[0].diags != 2 {
		t.Fatalf("a.play = %+v", m.items[0])
	}
	if m.items[1].status != "cached" {
		t.Fatalf("b.play = %+v", m.items[1])
	}
	if m.finished() != 2 {
		t.Fatalf("finished = %d", m.finished())
	}

	view := m.View()
	for _, want := range []string{"checking (2/2)", "a.play (2)", "cached"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestDoneWhenEventsClose(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	close(events)
	m := NewProgressModel("checking", []string{"a.play"}, events).(*progressModel)

	msg := m.listenForEvent()()
	if _, ok := msg.(doneMsg); !ok {
		t.Fatalf("expected doneMsg, got %T", msg)
	}
	if _, cmd := m.Update(msg); cmd == nil {
		t.Fatal("expected a quit command")
	}
	if !strings.HasPrefix(m.View(), "done: ") && !strings.Contains(m.View(), "done: ") {
		t.Fatalf("view not marked done:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a/very/long/path.play", 10); got != "a/very/..." {
		t.Errorf("truncate long = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate tiny = %q", got)
	}
}
