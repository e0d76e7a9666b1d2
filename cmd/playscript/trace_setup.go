package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"playscript/internal/trace"
)

// setupTracing builds the tracer selected by the trace flags (or the
// manifest's [trace] table) and attaches it to the command context. The
// returned function stops tracing. In ring mode it dumps the kept events;
// in both mode it dumps them only when the command failed.
func setupTracing(cmd *cobra.Command) (func(failed bool), error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level, err := trace.ParseLevel(cfg.traceLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(ctx, trace.Nop))
		return func(bool) {}, nil
	}
	format, err := trace.ParseFormat(cfg.traceFormat)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}
	mode, err := trace.ParseMode(cfg.traceMode)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	output := cfg.traceOutput
	if output == "" {
		output = "-"
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   cfg.traceRingSize,
		Heartbeat:  cfg.traceHeartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(ctx, tracer))

	heartbeat := trace.StartHeartbeat(tracer, cfg.traceHeartbeat)
	return func(failed bool) {
		heartbeat.Stop()
		stderr := cmd.ErrOrStderr()
		var ring *trace.RingTracer
		switch t := tracer.(type) {
		case *trace.RingTracer:
			ring = t
		case *trace.MultiTracer:
			if failed {
				ring = t.Ring()
				fmt.Fprintln(stderr, "trace: events before the failure:")
			}
		}
		if ring != nil {
			if dropped := ring.Dropped(); dropped > 0 {
				fmt.Fprintf(stderr, "trace: %d earlier events dropped\n", dropped)
			}
			if err := ring.Dump(stderr, format); err != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(stderr, "trace: close error: %v\n", err)
		}
	}, nil
}
