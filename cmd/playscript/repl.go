package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"playscript/internal/driver"
	"playscript/internal/version"
	"playscript/internal/vm"
)

const (
	promptMain  = "play> "
	promptCont  = "....> "
	historyFile = ".playscript_history"
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive PlayScript session",
		Long: `Read PlayScript statements line by line and run them. Declarations
persist between inputs. Commands: :source, :reset, :quit`,
		Args: cobra.NoArgs,
		RunE: runRepl,
	}
	cmd.Flags().Int("max-call-depth", vm.DefaultMaxCallDepth, "maximum interpreted call depth")
	return cmd
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if !cfg.quiet {
		fmt.Fprintf(out, "playscript %s, type :quit to exit\n", version.Version)
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	session := driver.NewSession(
		driver.Options{MaxDiagnostics: cfg.maxDiagnostics},
		driver.RunOptions{MaxCallDepth: cfg.maxCallDepth},
	)
	diagOut := cfg.diagOutput(formatPretty, false)
	ctx := cmd.Context()

	for {
		input, ok := readStatement(ln)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit", ":q":
				return nil
			case ":reset":
				session.Reset()
			case ":source":
				fmt.Fprint(out, session.Source())
			default:
				fmt.Fprintln(stderr, "unknown command, expected :source, :reset or :quit")
			}
			continue
		}

		outcome, err := session.Eval(ctx, input)
		if err != nil {
			return err
		}
		for _, line := range outcome.Output {
			fmt.Fprintln(out, line)
		}
		reportOutcome(stderr, outcome, diagOut)
	}
}

func reportOutcome(w io.Writer, outcome driver.Outcome, o diagOutput) {
	res := outcome.Result
	if res != nil && res.Bag.Len() > 0 {
		_ = printDiagnostics(w, res.Bag, res.FileSet, o, "")
	}
	var vmErr *vm.VMError
	if errors.As(outcome.Err, &vmErr) && res != nil {
		fmt.Fprint(w, vmErr.FormatWithFiles(res.FileSet))
	}
}

// readStatement reads lines until braces and parentheses balance.
func readStatement(ln *liner.State) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += nesting(line)
		if depth <= 0 {
			return b.String(), true
		}
	}
}

// nesting returns the change in bracket depth of line, ignoring string
// literals and line comments.
func nesting(line string) int {
	depth := 0
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case inString:
		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			return depth
		case c == '{' || c == '(':
			depth++
		case c == '}' || c == ')':
			depth--
		}
	}
	return depth
}
