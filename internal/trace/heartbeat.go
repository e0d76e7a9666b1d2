package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a heartbeat event every interval. A trace that keeps
// beating without closing spans points at a hung analysis or a runaway
// program.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat returns nil when tracing is off or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.run(t, interval)
	return h
}

func (h *Heartbeat) run(t Tracer, interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	started := time.Now()
	for n := 1; ; n++ {
		select {
		case now := <-ticker.C:
			t.Emit(&Event{
				Time:   now,
				Seq:    nextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d after %s", n, now.Sub(started).Truncate(time.Millisecond)),
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the heartbeat and waits for its goroutine. It is safe to call
// more than once and on a nil Heartbeat.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
