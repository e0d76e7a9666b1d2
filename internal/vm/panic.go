package vm

import (
	"fmt"
	"strings"

	"playscript/internal/source"
)

// PanicCode identifies the type of evaluation fault.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicUnresolved     PanicCode = 1001 // VM1001: no live storage for a variable
	PanicTypeMismatch   PanicCode = 1002 // VM1002: operand of unexpected runtime kind
	PanicNullReference  PanicCode = 1003 // VM1003: member access or call through null
	PanicNotAssignable  PanicCode = 1004 // VM1004: assignment target is not an lvalue
	PanicDivisionByZero PanicCode = 1005 // VM1005: integer division or modulo by zero
	PanicStackOverflow  PanicCode = 1006 // VM1006: call depth limit exceeded
	PanicCancelled      PanicCode = 1007 // VM1007: evaluation cancelled by the caller
	PanicUnimplemented  PanicCode = 1999 // VM1999: construct the evaluator cannot run
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// BacktraceFrame represents one interpreted call in the panic backtrace.
type BacktraceFrame struct {
	FuncName string
	Span     source.Span // call site
}

// VMError represents an evaluation fault. Faults are fatal: evaluation stops
// at the first one.
type VMError struct {
	Code      PanicCode
	Message   string
	Span      source.Span      // Location where the fault occurred
	Backtrace []BacktraceFrame // Calls from innermost to outermost
}

// Error implements the error interface.
func (p *VMError) Error() string {
	return fmt.Sprintf("panic %s: %s", p.Code, p.Message)
}

// FormatWithFiles formats the panic with resolved file:line:col information.
func (p *VMError) FormatWithFiles(files *source.FileSet) string {
	var sb strings.Builder

	// Header: panic VM1005: <message>
	sb.WriteString(fmt.Sprintf("panic %s: %s\n", p.Code, p.Message))

	sb.WriteString("at ")
	sb.WriteString(formatSpan(p.Span, files))
	sb.WriteString("\n")

	if len(p.Backtrace) > 0 {
		sb.WriteString("backtrace:\n")
		for i, frame := range p.Backtrace {
			sb.WriteString(fmt.Sprintf("  %d: %s called at %s\n", i, frame.FuncName, formatSpan(frame.Span, files)))
		}
	}

	return sb.String()
}

// formatSpan formats a span as "file:line:col" or "<no-span>" if empty.
func formatSpan(span source.Span, files *source.FileSet) string {
	if files == nil || (span.Start == 0 && span.End == 0) {
		return "<no-span>"
	}

	file := files.Get(span.File)
	if file == nil {
		return "<no-span>"
	}

	start, _ := files.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", file.Path, start.Line, start.Col)
}

// errorBuilder constructs VMError values carrying the current backtrace.
type errorBuilder struct {
	vm *VM
}

func (eb *errorBuilder) makeError(code PanicCode, msg string) *VMError {
	e := &VMError{
		Code:    code,
		Message: msg,
		Span:    eb.vm.span,
	}

	calls := eb.vm.calls
	e.Backtrace = make([]BacktraceFrame, len(calls))
	for i := len(calls) - 1; i >= 0; i-- {
		e.Backtrace[len(calls)-1-i] = calls[i]
	}

	return e
}

func (eb *errorBuilder) unresolved(name string) *VMError {
	return eb.makeError(PanicUnresolved, fmt.Sprintf("no live storage for variable %q", name))
}

func (eb *errorBuilder) typeMismatch(expected string, got Value) *VMError {
	return eb.makeError(PanicTypeMismatch, fmt.Sprintf("expected %s, got %s", expected, got.Kind))
}

func (eb *errorBuilder) nullReference(what string) *VMError {
	return eb.makeError(PanicNullReference, what+" on null")
}

func (eb *errorBuilder) notAssignable() *VMError {
	return eb.makeError(PanicNotAssignable, "expression is not assignable")
}

func (eb *errorBuilder) divisionByZero() *VMError {
	return eb.makeError(PanicDivisionByZero, "integer division by zero")
}

func (eb *errorBuilder) stackOverflow(limit int) *VMError {
	return eb.makeError(PanicStackOverflow, fmt.Sprintf("call depth exceeded %d", limit))
}

func (eb *errorBuilder) cancelled(err error) *VMError {
	return eb.makeError(PanicCancelled, "evaluation cancelled: "+err.Error())
}

func (eb *errorBuilder) unimplemented(what string) *VMError {
	return eb.makeError(PanicUnimplemented, fmt.Sprintf("unimplemented: %s", what))
}
