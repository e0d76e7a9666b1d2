package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/diagfmt"
	"playscript/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.play",
		Short: "Tokenize a PlayScript source file",
		Long:  `Tokenize breaks a PlayScript source file down into its tokens`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Tokenize(args[0], cfg.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, cfg.diagOutput(formatPretty, false), cfg.baseDir()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTokensJSON(out, result.Tokens)
	} else {
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errFailed
	}
	return nil
}
