package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"hirlower/internal/buildpipeline"
	"hirlower/internal/diagfmt"
	"hirlower/internal/driver"
	"hirlower/internal/lower"
)

var lowerCmd = &cobra.Command{
	Use:   "lower [flags] <pack|directory>...",
	Short: "Lower packs into HIR and report diagnostics",
	Long: `Lower every pack given on the command line. Directories are searched
recursively for *` + driver.PackExt + ` files. The command fails when any pack
reports an error.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLower,
}

func init() {
	lowerCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	lowerCmd.Flags().Bool("dump", false, "print the lowered HIR")
	lowerCmd.Flags().Bool("dump-bodies", false, "include body expressions in --dump")
	lowerCmd.Flags().Bool("dump-spans", false, "include spans in --dump")
	lowerCmd.Flags().Int("jobs", 0, "max parallel packs (0=config or GOMAXPROCS)")
	lowerCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lowerCmd.Flags().Bool("no-cache", false, "do not read or write the result cache")
	lowerCmd.Flags().String("missing-abi", "", "extern blocks without an ABI (allow|warn); overrides the config")
	lowerCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	lowerCmd.Flags().Bool("no-help", false, "omit help lines from diagnostics")
}

type lowerFlags struct {
	format     string
	dump       bool
	dumpBodies bool
	dumpSpans  bool
	jobs       int
	ui         onOffAuto
	noCache    bool
	missingABI string
	pathMode   diagfmt.PathMode
	noHelp     bool
	timings    bool
	maxDiag    int
	maxChanged bool
}

func readLowerFlags(cmd *cobra.Command) (lowerFlags, error) {
	var lf lowerFlags
	var err error
	flags := cmd.Flags()
	if lf.format, err = flags.GetString("format"); err != nil {
		return lf, fmt.Errorf("failed to get format flag: %w", err)
	}
	lf.format = strings.ToLower(lf.format)
	if lf.format != "pretty" && lf.format != "json" {
		return lf, fmt.Errorf("unsupported format %q (must be pretty or json)", lf.format)
	}
	if lf.dump, err = flags.GetBool("dump"); err != nil {
		return lf, fmt.Errorf("failed to get dump flag: %w", err)
	}
	if lf.dumpBodies, err = flags.GetBool("dump-bodies"); err != nil {
		return lf, fmt.Errorf("failed to get dump-bodies flag: %w", err)
	}
	if lf.dumpSpans, err = flags.GetBool("dump-spans"); err != nil {
		return lf, fmt.Errorf("failed to get dump-spans flag: %w", err)
	}
	if lf.dump && lf.format == "json" {
		return lf, fmt.Errorf("--dump is only supported with --format pretty")
	}
	if lf.jobs, err = flags.GetInt("jobs"); err != nil {
		return lf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiValue, err := flags.GetString("ui")
	if err != nil {
		return lf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if lf.ui, err = parseOnOffAuto("ui", uiValue); err != nil {
		return lf, err
	}
	if lf.noCache, err = flags.GetBool("no-cache"); err != nil {
		return lf, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if lf.missingABI, err = flags.GetString("missing-abi"); err != nil {
		return lf, fmt.Errorf("failed to get missing-abi flag: %w", err)
	}
	pm, err := flags.GetString("path-mode")
	if err != nil {
		return lf, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if lf.pathMode, ok = diagfmt.ParsePathMode(pm); !ok {
		return lf, fmt.Errorf("invalid --path-mode value %q", pm)
	}
	if lf.noHelp, err = flags.GetBool("no-help"); err != nil {
		return lf, fmt.Errorf("failed to get no-help flag: %w", err)
	}
	root := cmd.Root().PersistentFlags()
	if lf.timings, err = root.GetBool("timings"); err != nil {
		return lf, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if lf.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return lf, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	lf.maxChanged = root.Changed("max-diagnostics")
	return lf, nil
}

// driverOptions merges the config file with the command flags; flags win.
func driverOptions(lf lowerFlags) (driver.Options, error) {
	cfg := app.cfg
	opts := driver.Options{
		MaxDiagnostics: cfg.Lower.MaxDiagnostics,
		Lower:          cfg.LowerOptions(),
		Dedup:          cfg.Lower.Dedup,
		Dump:           lf.dump,
		Jobs:           cfg.Lower.Jobs,
	}
	opts.DumpOptions.Bodies = lf.dumpBodies
	opts.DumpOptions.Spans = lf.dumpSpans
	if lf.maxChanged {
		opts.MaxDiagnostics = lf.maxDiag
	}
	if lf.jobs > 0 {
		opts.Jobs = lf.jobs
	}
	if lf.missingABI != "" {
		mode, ok := lower.ParseMissingABI(lf.missingABI)
		if !ok {
			return opts, fmt.Errorf("invalid --missing-abi value %q (expected allow|warn)", lf.missingABI)
		}
		opts.Lower.MissingABI = mode
	}
	if cfg.Cache.Enabled && !lf.noCache {
		cache, err := openCache()
		if err != nil {
			return opts, err
		}
		opts.Cache = cache
	}
	return opts, nil
}

func openCache() (*driver.DiskCache, error) {
	dir := app.cfg.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = driver.DefaultCacheDir(appName); err != nil {
			return nil, fmt.Errorf("failed to locate cache dir: %w", err)
		}
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", dir, err)
	}
	return cache, nil
}

func runLower(cmd *cobra.Command, args []string) error {
	lf, err := readLowerFlags(cmd)
	if err != nil {
		return err
	}
	paths, err := driver.ExpandPackPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found", driver.PackExt)
	}
	opts, err := driverOptions(lf)
	if err != nil {
		return err
	}

	req := &buildpipeline.Request{Paths: paths, Options: opts}
	var res buildpipeline.Result
	if lf.format == "pretty" && lf.ui.enabled(func() bool { return isTerminal(os.Stdout) && isTerminal(os.Stderr) }) {
		res, err = runWithUI(cmd.Context(), "lowering", req)
	} else {
		res, err = buildpipeline.Run(cmd.Context(), req)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if lf.format == "json" {
		err = printJSON(out, res, lf)
	} else {
		err = printPretty(out, res, lf)
	}
	if err != nil {
		return err
	}
	if lf.timings {
		fmt.Fprint(cmd.ErrOrStderr(), res.Timings.Report())
	}
	if failed := res.Failed(); failed > 0 {
		app.failed = true
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d packs failed\n", failed, len(res.Results))
		return errReported
	}
	return nil
}

func printPretty(out io.Writer, res buildpipeline.Result, lf lowerFlags) error {
	opts := diagfmt.PrettyOpts{
		Color:    app.color,
		Context:  1,
		PathMode: lf.pathMode,
		ShowHelp: !lf.noHelp,
	}
	for _, r := range res.Results {
		diagfmt.Pretty(out, r.Bag, r.FileSet, opts)
		if r.Err != nil {
			fmt.Fprintf(out, "%s: internal error: %v\n", r.Path, r.Err)
			continue
		}
		if r.HIR == nil && !r.Cached {
			// пакет не прочитан или не декодирован
			continue
		}
		if lf.dump && r.Dump != "" {
			fmt.Fprint(out, r.Dump)
		}
		note := ""
		if r.Cached {
			note = " (cached)"
		}
		if _, err := fmt.Fprintf(out, "%s: %s%s\n", r.Name, r.Summary, note); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(out io.Writer, res buildpipeline.Result, lf lowerFlags) error {
	opts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         lf.pathMode,
		IncludeHelp:      !lf.noHelp,
	}
	for _, r := range res.Results {
		if err := diagfmt.JSON(out, r.Name, r.Bag, r.FileSet, opts); err != nil {
			return err
		}
	}
	return nil
}

// lowerFile lowers one pack with the configured options and no cache.
func lowerFile(cmd *cobra.Command, path string) (*driver.Result, error) {
	return driver.LowerPack(cmd.Context(), path, driver.Options{
		MaxDiagnostics: app.cfg.Lower.MaxDiagnostics,
		Lower:          app.cfg.LowerOptions(),
		Dedup:          app.cfg.Lower.Dedup,
	})
}
