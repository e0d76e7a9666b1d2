package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"playscript/internal/driver"
	"playscript/internal/source"
	"playscript/internal/ui"
)

type checkOutcome struct {
	fs      *source.FileSet
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs the check in the background while a Bubble Tea
// program renders its progress events.
func runCheckWithUI(ctx context.Context, title string, files []string, opts driver.CheckOptions) (*source.FileSet, []driver.CheckResult, error) {
	events := make(chan driver.ProgressEvent, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		o := opts
		o.Progress = func(ev driver.ProgressEvent) { events <- ev }
		fs, results, err := driver.CheckFiles(ctx, files, o)
		outcomeCh <- checkOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the UI may quit early (Ctrl-C); keep the producer unblocked
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
