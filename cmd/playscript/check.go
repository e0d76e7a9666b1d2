package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
	"playscript/internal/project"
	"playscript/internal/source"
	"playscript/internal/trace"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.play|dir ...]",
		Short: "Analyse PlayScript files without running them",
		Long: `Analyse every given file and every *.play file under the given directories.
Without arguments the project root (or the current directory) is checked.`,
		RunE: runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|logs|json|short)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	cmd.Flags().Bool("no-cache", false, "disable the on-disk diagnostics cache")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	dfmt, err := readDiagFormat(format)
	if err != nil {
		return err
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}

	roots := args
	if len(roots) == 0 {
		roots = []string{"."}
		if cfg.manifest != nil {
			roots = []string{cfg.manifest.Root}
		}
	}
	files, err := project.CollectSources(roots)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no " + project.SourceExt + " files found")
	}

	opts := driver.CheckOptions{
		Jobs:           cfg.jobs,
		MaxDiagnostics: cfg.maxDiagnostics,
		EnableTimings:  cfg.timings,
	}
	if cfg.cache {
		cache, err := driver.OpenDiagCache("playscript")
		if err != nil {
			trace.PointIn(cmd.Context(), trace.ScopeDriver, "cache-disabled", err.Error())
		} else {
			opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	var (
		fs      *source.FileSet
		results []driver.CheckResult
		runErr  error
	)
	if shouldUseTUI(mode) && dfmt != formatJSON {
		fs, results, runErr = runCheckWithUI(ctx, "checking", files, opts)
	} else {
		fs, results, runErr = runCheckPlain(ctx, files, opts)
	}
	if runErr != nil {
		return runErr
	}

	bag := driver.MergeBags(results)
	out := cmd.OutOrStdout()
	if err := printDiagnostics(out, bag, fs, cfg.diagOutput(dfmt, withNotes), cfg.baseDir()); err != nil {
		return err
	}
	if cfg.timings {
		printCheckTimings(cmd.ErrOrStderr(), results)
	}
	if !cfg.quiet && dfmt != formatJSON {
		printCheckSummary(cmd.ErrOrStderr(), results)
	}
	if bag.HasErrors() {
		return errFailed
	}
	return nil
}

func runCheckPlain(ctx context.Context, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	return driver.CheckFiles(ctx, files, opts)
}

func printCheckSummary(w io.Writer, results []driver.CheckResult) {
	var failed, cached int
	for _, r := range results {
		if r.Bag.HasErrors() {
			failed++
		}
		if r.Cached {
			cached++
		}
	}
	fmt.Fprintf(w, "checked %d file(s): %d with errors", len(results), failed)
	if cached > 0 {
		fmt.Fprintf(w, ", %d from cache", cached)
	}
	fmt.Fprintln(w)
}

func printCheckTimings(w io.Writer, results []driver.CheckResult) {
	for _, r := range results {
		if r.Timing == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %.2f ms\n", r.Path, r.Timing.TotalMS)
		for _, p := range r.Timing.Phases {
			fmt.Fprintf(w, "  %-20s %7.2f ms\n", p.Name, p.DurationMS)
		}
	}
}
