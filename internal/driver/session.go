package driver

import (
	"context"
	"strings"

	"playscript/internal/vm"
)

// SessionName is the file name diagnostics use for REPL input.
const SessionName = "<repl>"

// Session accumulates REPL input. Each input is compiled together with
// everything accepted so far and the whole program is re-run; only the
// output lines the new input adds are reported. Input that fails to compile
// or faults is not accepted.
type Session struct {
	opts     Options
	run      RunOptions
	accepted strings.Builder
	printed  int
}

func NewSession(opts Options, run RunOptions) *Session {
	return &Session{opts: opts, run: run}
}

// Outcome is the result of one Eval call.
type Outcome struct {
	Result *Result
	Output []string // lines printed by this input
	Err    error    // vm.ErrCompilation or a *vm.VMError
}

// Eval compiles and runs input in the context of the session.
func (s *Session) Eval(ctx context.Context, input string) (Outcome, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Outcome{}, nil
	}
	if !strings.HasSuffix(input, ";") && !strings.HasSuffix(input, "}") {
		input += ";"
	}
	candidate := s.accepted.String() + input + "\n"

	res, err := CompileSource(ctx, SessionName, []byte(candidate), s.opts)
	if err != nil {
		return Outcome{}, err
	}
	if res.Failed() {
		return Outcome{Result: res, Err: vm.ErrCompilation}, nil
	}

	rt := vm.NewCaptureRuntime()
	runOpts := s.run
	runOpts.Runtime = rt
	runErr := Run(ctx, res, runOpts)

	lines := rt.Lines()
	var fresh []string
	if len(lines) > s.printed {
		fresh = lines[s.printed:]
	}
	out := Outcome{Result: res, Output: fresh, Err: runErr}
	if runErr == nil {
		s.accepted.WriteString(input + "\n")
		s.printed = len(lines)
	}
	return out, nil
}

// Source returns the accepted program text.
func (s *Session) Source() string { return s.accepted.String() }

// Reset forgets every accepted input.
func (s *Session) Reset() {
	s.accepted.Reset()
	s.printed = 0
}
