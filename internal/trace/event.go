package trace

import (
	"sync/atomic"
	"time"
)

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindHeartbeat // periodic liveness signal
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI commands, pipeline stages
	ScopePass                    // analysis passes
	ScopeModule                  // per-file work, evaluator faults
	ScopeNode                    // interpreted calls, frame pushes
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeModule: "module",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64 // process-wide, assigned on creation
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for root spans and free points
	Depth    int    // nesting depth of the span
	Name     string // e.g. "parse", "resolve", "call"
	Detail   string
	Elapsed  time.Duration // span end events only
	Extra    map[string]string
}

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }
