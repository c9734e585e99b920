package main

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"hirlower/internal/driver"
	"hirlower/internal/testkit"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [flags] <out-dir>",
	Short: "Write the built-in sample packs",
	Long: `Write the built-in scenarios as packs into <out-dir>. With --check every
written pack is lowered and its diagnostic codes are compared with the
scenario's expectation.`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringSlice("name", nil, "scenarios to write (default: all)")
	sampleCmd.Flags().Bool("check", false, "lower the written packs and verify their diagnostics")
}

func runSample(cmd *cobra.Command, args []string) error {
	names, err := cmd.Flags().GetStringSlice("name")
	if err != nil {
		return fmt.Errorf("failed to get name flag: %w", err)
	}
	check, err := cmd.Flags().GetBool("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	if len(names) == 0 {
		names = testkit.Names()
	}

	dir := args[0]
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %q: %w", dir, err)
	}

	out := cmd.OutOrStdout()
	mismatches := 0
	for _, name := range names {
		sc, ok := testkit.Get(name)
		if !ok {
			return fmt.Errorf("unknown scenario %q (known: %v)", name, testkit.Names())
		}
		path := filepath.Join(dir, sc.Name+driver.PackExt)
		pack := driver.NewPack(sc.Name, sc.Crate, sc.Table, driver.PackFile{Path: sc.Path, Content: []byte(sc.Source)})
		if err := driver.WritePack(path, pack); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "wrote %s\n", path)
		if !check {
			continue
		}

		res, err := lowerFile(cmd, path)
		if err != nil {
			return err
		}
		var got []string
		for _, d := range res.Bag.Items() {
			got = append(got, d.Code.ID())
		}
		switch {
		case res.Err != nil:
			mismatches++
			fmt.Fprintf(out, "  %s: internal error: %v\n", sc.Name, res.Err)
		case !slices.Equal(got, sc.Expect):
			mismatches++
			fmt.Fprintf(out, "  %s: diagnostics %v, expected %v\n", sc.Name, got, sc.Expect)
		default:
			fmt.Fprintf(out, "  %s: ok (%s)\n", sc.Name, res.Summary)
		}
	}
	if mismatches > 0 {
		app.failed = true
		return fmt.Errorf("%d scenario(s) did not match", mismatches)
	}
	return nil
}
