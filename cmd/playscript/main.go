package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"playscript/internal/version"
)

// errFailed reports a failure whose details were already printed.
var errFailed = errors.New("failed")

func newRootCmd() *cobra.Command {
	var finish func(failed bool)
	root := &cobra.Command{
		Use:           "playscript",
		Short:         "PlayScript analyser and interpreter",
		Long:          `PlayScript checks and runs programs written in the PlayScript teaching language`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			finish, err = setupTracing(cmd)
			return err
		},
	}

	flags := root.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("trace", "", "trace output path (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-format", "text", "trace format (text|ndjson)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	flags.Duration("trace-heartbeat", 0, "heartbeat interval for hang detection (0 disables)")

	root.AddCommand(
		newRunCmd(),
		newCheckCmd(),
		newTokenizeCmd(),
		newParseCmd(),
		newReplCmd(),
		newInitCmd(),
		newVersionCmd(),
	)
	// tracing is torn down after every command, failed ones included
	for _, sub := range root.Commands() {
		run := sub.RunE
		if run == nil {
			continue
		}
		sub.RunE = func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args)
			if finish != nil {
				finish(err != nil)
			}
			return err
		}
	}
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
