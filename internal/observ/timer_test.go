package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	cur := time.Unix(0, 0)
	return func() time.Time {
		cur = cur.Add(step)
		return cur
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(2 * time.Millisecond)

	lex := tm.Begin("lex")
	tm.End(lex, "12 tokens")
	parse := tm.Begin("parse")
	tm.End(parse, "")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(report.Phases))
	}
	if report.Phases[0].Name != "lex" || report.Phases[0].Note != "12 tokens" {
		t.Errorf("unexpected first phase %+v", report.Phases[0])
	}
	if report.Phases[0].DurationMS != 2 || report.TotalMS != 4 {
		t.Errorf("unexpected durations %+v", report)
	}

	summary := tm.Summary()
	for _, want := range []string{"timings:", "lex", "// 12 tokens", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary lacks %q:\n%s", want, summary)
		}
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	if len(tm.Phases()) != 0 || len(tm.Report().Phases) != 0 {
		t.Fatal("nil timer recorded phases")
	}
}
