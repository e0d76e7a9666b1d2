package driver

import (
	"time"

	"playscript/internal/observ"
)

type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent marks a pipeline phase boundary. Elapsed and Detail are set
// on PhaseEnd only.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Detail  string // e.g. "errors=2"
}

// PhaseObserver receives the phase events of Compile and CheckFiles. Under
// CheckFiles it is called from several goroutines.
type PhaseObserver func(PhaseEvent)

// phaseRunner times a phase on the optional Timer and reports it to the
// optional observer.
type phaseRunner struct {
	timer    *observ.Timer
	observer PhaseObserver
}

func (p phaseRunner) run(name string, fn func() string) {
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	started := time.Now()
	idx := p.timer.Begin(name)
	detail := fn()
	p.timer.End(idx, detail)
	if p.observer != nil {
		p.observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: time.Since(started), Detail: detail})
	}
}
