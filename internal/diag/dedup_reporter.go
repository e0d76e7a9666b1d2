package diag

import "playscript/internal/source"

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct diagnostic once. Parser recovery can
// stop on the same token more than once; the repeats are dropped here.
type DedupReporter struct {
	next Reporter
	seen map[reportKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[reportKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	key := reportKey{code: code, sev: sev, span: primary, msg: msg}
	if _, dup := r.seen[key]; dup || r.next == nil {
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(code, sev, primary, msg, notes)
}
