package vm

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Runtime provides the interface between the VM and the outside world.
type Runtime interface {
	// Println writes one line of program output.
	Println(text string)

	// Flush pushes buffered output to its destination.
	Flush() error
}

// DefaultRuntime writes program output to a buffered writer.
type DefaultRuntime struct {
	w *bufio.Writer
}

// NewDefaultRuntime creates a runtime printing to os.Stdout.
func NewDefaultRuntime() *DefaultRuntime {
	return NewRuntimeWithWriter(os.Stdout)
}

// NewRuntimeWithWriter creates a runtime printing to w.
func NewRuntimeWithWriter(w io.Writer) *DefaultRuntime {
	return &DefaultRuntime{w: bufio.NewWriter(w)}
}

func (r *DefaultRuntime) Println(text string) {
	r.w.WriteString(text)
	r.w.WriteByte('\n')
}

func (r *DefaultRuntime) Flush() error {
	return r.w.Flush()
}

// CaptureRuntime records program output in memory.
type CaptureRuntime struct {
	lines []string
}

// NewCaptureRuntime creates an empty recording runtime.
func NewCaptureRuntime() *CaptureRuntime {
	return &CaptureRuntime{}
}

func (r *CaptureRuntime) Println(text string) {
	r.lines = append(r.lines, text)
}

func (r *CaptureRuntime) Flush() error { return nil }

// Lines returns every printed line in order.
func (r *CaptureRuntime) Lines() []string {
	return r.lines
}

// Output returns the printed text, one trailing newline per line.
func (r *CaptureRuntime) Output() string {
	if len(r.lines) == 0 {
		return ""
	}
	return strings.Join(r.lines, "\n") + "\n"
}
