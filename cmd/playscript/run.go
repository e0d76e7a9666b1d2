package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
	"playscript/internal/vm"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags] [file.play]",
		Short: "Analyse and execute a PlayScript program",
		Long: `Analyse a PlayScript file and, when it has no errors, evaluate it.
Without a file argument the [run].entry of playscript.toml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProgram,
	}
	cmd.Flags().String("format", "pretty", "diagnostics format (pretty|logs|json|short)")
	cmd.Flags().Int("max-call-depth", vm.DefaultMaxCallDepth, "maximum interpreted call depth")
	return cmd
}

func runProgram(cmd *cobra.Command, args []string) error {
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

	path, err := entryPath(cfg, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := driver.Compile(ctx, path, driver.Options{
		MaxDiagnostics: cfg.maxDiagnostics,
		EnableTimings:  cfg.timings,
	})
	if err != nil {
		return fmt.Errorf("compilation failed: %w", err)
	}
	stderr := cmd.ErrOrStderr()
	if err := printDiagnostics(stderr, res.Bag, res.FileSet, cfg.diagOutput(dfmt, false), cfg.baseDir()); err != nil {
		return err
	}
	if res.Failed() {
		if cfg.timings {
			printTimings(stderr, res.Timer)
		}
		return errFailed
	}

	rt := vm.NewRuntimeWithWriter(cmd.OutOrStdout())
	runErr := driver.Run(ctx, res, driver.RunOptions{Runtime: rt, MaxCallDepth: cfg.maxCallDepth})
	if cfg.timings {
		printTimings(stderr, res.Timer)
	}
	var vmErr *vm.VMError
	switch {
	case runErr == nil:
		return nil
	case errors.As(runErr, &vmErr):
		fmt.Fprint(stderr, vmErr.FormatWithFiles(res.FileSet))
		return errFailed
	default:
		return runErr
	}
}

func entryPath(cfg *cliConfig, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfg.manifest == nil {
		return "", errors.New("no file given and no playscript.toml found\nplease specify the program explicitly, e.g.:\n  playscript run main.play")
	}
	return cfg.manifest.EntryPath()
}
