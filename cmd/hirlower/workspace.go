package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hirlower/internal/project"
)

// Commands that manage the project directory rather than lower packs.

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create " + project.ConfigFileName + " with default settings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 && args[0] != "" {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("init %s: %w", dir, err)
		}
		path, err := project.WriteDefault(dir)
		switch {
		case errors.Is(err, os.ErrExist):
			return fmt.Errorf("%s already exists", path)
		case err != nil:
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "created", path)
		return nil
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the lowering result cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cache, err := openCache()
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return fmt.Errorf("clean %s: %w", cache.Dir(), err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "cleared", cache.Dir())
		return nil
	},
}
