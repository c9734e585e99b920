package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hirlower/internal/prof"
)

// setupProfiling starts the profilers requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpu-profile", &cfg.CPU},
		{"mem-profile", &cfg.Mem},
		{"runtime-trace", &cfg.Trace},
	} {
		v, err := flags.GetString(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = v
	}
	if cfg == (prof.Config{}) {
		return func() {}, nil
	}
	s, err := prof.Start(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := s.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profiling: %v\n", err)
		}
	}, nil
}
