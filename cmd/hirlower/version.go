package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"hirlower/internal/version"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show hirlower build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		if versionFormat == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Current(appName))
		}
		if versionFormat != "pretty" {
			return fmt.Errorf("--format must be pretty or json, got %q", versionFormat)
		}
		_, err := fmt.Fprintln(out, version.Line(appName, app.color))
		return err
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "pretty", "output format (pretty|json)")
}
