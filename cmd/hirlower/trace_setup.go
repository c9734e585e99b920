package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hirlower/internal/project"
	"hirlower/internal/trace"
)

// setupTracing merges the [trace] config section with the trace flags and
// attaches the tracer to the command context.
func setupTracing(cmd *cobra.Command, cfg project.Config) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"trace", &cfg.Trace.Output},
		{"trace-level", &cfg.Trace.Level},
		{"trace-mode", &cfg.Trace.Mode},
	} {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = v
	}
	// --trace без уровня включает фазы
	if flags.Changed("trace") && !flags.Changed("trace-level") && cfg.Trace.Level == "off" {
		cfg.Trace.Level = "phase"
	}

	tcfg, err := cfg.TracerConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid trace settings: %w", err)
	}
	tracer, err := trace.New(tcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)

	cleanup := func() {
		if ring, ok := trace.RingOf(tracer); ok && app.failed && ring.Len() > 0 {
			fmt.Fprintf(os.Stderr, "trace: last %d events before failure:\n", ring.Len())
			if err := ring.Dump(os.Stderr, trace.FormatText); err != nil {
				fmt.Fprintf(os.Stderr, "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
