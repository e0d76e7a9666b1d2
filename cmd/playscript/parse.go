package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"playscript/internal/driver"
	"playscript/internal/sema"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] file.play",
		Short: "Print the syntax tree of a PlayScript file",
		Long: `Parse a PlayScript file and print its syntax tree.
With --scopes the file is also analysed and its scope tree is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().Bool("scopes", false, "analyse the file and print scopes and declarations")
	cmd.Flags().Bool("no-tree", false, "do not print the syntax tree")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scopes, err := cmd.Flags().GetBool("scopes")
	if err != nil {
		return fmt.Errorf("failed to get scopes flag: %w", err)
	}
	noTree, err := cmd.Flags().GetBool("no-tree")
	if err != nil {
		return fmt.Errorf("failed to get no-tree flag: %w", err)
	}

	stage := driver.StageSyntax
	if scopes {
		stage = driver.StageSema
	}
	res, err := driver.Compile(cmd.Context(), args[0], driver.Options{
		Stage:          stage,
		MaxDiagnostics: cfg.maxDiagnostics,
		EnableTimings:  cfg.timings,
	})
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	stderr := cmd.ErrOrStderr()
	if err := printDiagnostics(stderr, res.Bag, res.FileSet, cfg.diagOutput(formatPretty, true), cfg.baseDir()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !noTree && res.Tree != nil {
		if err := res.Tree.Dump(out, res.Tree.Root); err != nil {
			return err
		}
	}
	if scopes && res.Annotated != nil {
		dumpScopes(out, res.Annotated)
	}
	if cfg.timings {
		printTimings(stderr, res.Timer)
	}
	if res.Bag.HasErrors() {
		return errFailed
	}
	return nil
}

func dumpScopes(w io.Writer, at *sema.AnnotatedTree) {
	fmt.Fprintln(w, "scopes:")
	at.Table.Dump(w, at.Root)
	if len(at.Declared) == 0 {
		return
	}
	fmt.Fprintln(w, "declared:")
	for _, id := range at.Declared {
		sym := at.Table.Symbols.Get(id)
		if sym == nil {
			continue
		}
		fmt.Fprintf(w, "  %s %s : %s\n", sym.Kind, sym.Name, at.Types.Label(sym.Type))
	}
}
