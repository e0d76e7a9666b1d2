package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes each event as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	out    io.Writer
	buf    *bufio.Writer
	level  Level
	format Format
}

// NewStreamTracer writes to w. Output is buffered and written through on
// every span end, so a crash loses at most the events of an open span.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		out:    w,
		buf:    bufio.NewWriter(w),
		level:  level,
		format: format,
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.accepts(ev) {
		return
	}
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// trace output never fails the traced command
	_, _ = t.buf.Write(data)
	if ev.Kind != KindSpanBegin {
		_ = t.buf.Flush()
	}
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Flush()
}

// Close flushes and closes the writer when it is an io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.out.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
