package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"playscript/internal/project"
)

const starterProgram = `// Entry point of the project.
class Greeter {
    string name;
    Greeter(string who) { name = who; }
    string greet() { return "hello, " + name; }
}

Greeter g = Greeter("world");
println(g.greet());
`

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Create a new PlayScript project",
		Long:  `Create playscript.toml and a starter main.play in dir (default: current directory)`,
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().Bool("force", false, "overwrite an existing manifest")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	manifestPath := filepath.Join(dir, project.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", manifestPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	const entry = "main.play"
	if err := project.WriteDefault(dir, entry); err != nil {
		return err
	}
	entryPath := filepath.Join(dir, entry)
	if _, err := os.Stat(entryPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(entryPath, []byte(starterProgram), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", entryPath, err)
		}
	}

	quiet, _ := cmd.Flags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "initialised project in %s\n", dir)
	}
	return nil
}
