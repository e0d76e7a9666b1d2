package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"playscript/internal/project"
)

// cliConfig is the effective configuration of a command: manifest values
// overridden by flags the user set explicitly.
type cliConfig struct {
	manifest *project.Manifest // nil outside a project

	color          string
	quiet          bool
	timings        bool
	maxDiagnostics int
	jobs           int
	cache          bool
	maxCallDepth   int

	traceLevel     string
	traceFormat    string
	traceMode      string
	traceOutput    string
	traceRingSize  int
	traceHeartbeat time.Duration
}

func loadConfig(cmd *cobra.Command) (*cliConfig, error) {
	manifest, err := project.Load(".")
	if err != nil && !errors.Is(err, project.ErrNoManifest) {
		return nil, err
	}
	base := project.DefaultConfig()
	if manifest != nil {
		base = manifest.Config
	}

	cfg := &cliConfig{
		manifest:       manifest,
		maxDiagnostics: base.Check.MaxDiagnostics,
		jobs:           base.Check.Jobs,
		cache:          base.Check.Cache,
		maxCallDepth:   base.Run.MaxCallDepth,
		traceLevel:     base.Trace.Level,
		traceFormat:    base.Trace.Format,
		traceOutput:    base.Trace.Output,
	}

	flags := cmd.Flags()
	var errs []error
	str := func(name string, dst *string, override bool) {
		v, err := flags.GetString(name)
		errs = append(errs, err)
		if err == nil && (override || flags.Changed(name)) {
			*dst = v
		}
	}
	integer := func(name string, dst *int, override bool) {
		v, err := flags.GetInt(name)
		errs = append(errs, err)
		if err == nil && (override || flags.Changed(name)) {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) {
		v, err := flags.GetBool(name)
		errs = append(errs, err)
		if err == nil {
			*dst = v
		}
	}

	str("color", &cfg.color, true)
	boolean("quiet", &cfg.quiet)
	boolean("timings", &cfg.timings)
	integer("max-diagnostics", &cfg.maxDiagnostics, false)
	str("trace-level", &cfg.traceLevel, false)
	str("trace-format", &cfg.traceFormat, false)
	str("trace", &cfg.traceOutput, false)
	str("trace-mode", &cfg.traceMode, true)
	integer("trace-ring-size", &cfg.traceRingSize, true)
	hb, err := flags.GetDuration("trace-heartbeat")
	errs = append(errs, err)
	cfg.traceHeartbeat = hb
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to read flags: %w", err)
	}

	// an explicit --trace path without a level still traces phases
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.traceLevel == "off" {
		cfg.traceLevel = "phase"
	}

	// command-local flags
	if flags.Lookup("jobs") != nil {
		integer("jobs", &cfg.jobs, false)
	}
	if flags.Lookup("no-cache") != nil {
		if noCache, err := flags.GetBool("no-cache"); err == nil && noCache {
			cfg.cache = false
		}
	}
	if flags.Lookup("max-call-depth") != nil {
		integer("max-call-depth", &cfg.maxCallDepth, false)
	}
	return cfg, errors.Join(errs...)
}

// useColor resolves --color for output written to f.
func (c *cliConfig) useColor(f *os.File) bool {
	switch strings.ToLower(c.color) {
	case "on", "always":
		return true
	case "off", "never":
		return false
	default:
		return isTerminal(f)
	}
}
