package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hirlower/internal/diag"
	"hirlower/internal/diagfmt"
	"hirlower/internal/project"
	"hirlower/internal/source"
	"hirlower/internal/version"
)

const appName = "hirlower"

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Lower expanded surface crates into HIR",
	Long: `hirlower reads packs (an expanded surface crate plus its name resolutions)
and lowers every item into the high-level IR, reporting lowering diagnostics.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupSession,
}

// session holds what the persistent flags set up for one invocation.
type session struct {
	cfg      project.Config
	color    bool
	cleanups []func()
	// failed is set by commands whose run produced errors; ring traces are
	// dumped only then.
	failed bool
}

var app session

func (s *session) close() {
	// в обратном порядке, как defer
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
	s.cleanups = nil
}

// errReported marks failures whose details were already printed.
var errReported = errors.New("lowering reported errors")

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("config", "", "path to "+project.ConfigFileName+" (default: search upward from the working directory)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics kept per pack")
	pf.String("trace", "", "trace output file (- for stderr)")
	pf.String("trace-level", "", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "", "trace storage mode (stream|ring|both)")
	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

func main() {
	err := rootCmd.Execute()
	app.close()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func setupSession(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		var cerr *project.ConfigError
		if !errors.As(err, &cerr) {
			return err
		}
		fs := source.NewFileSet()
		bag := diag.NewBag(1)
		bag.Add(project.Diagnose(err, fs))
		diagfmt.Pretty(cmd.ErrOrStderr(), bag, fs, diagfmt.PrettyOpts{Context: 1, ShowHelp: true})
		return errReported
	}
	app.cfg = cfg

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	color, err := parseOnOffAuto("color", colorFlag)
	if err != nil {
		return err
	}
	app.color = color.enabled(func() bool { return isTerminal(os.Stdout) })

	cleanupTrace, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	app.cleanups = append(app.cleanups, cleanupTrace)

	cleanupProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	app.cleanups = append(app.cleanups, cleanupProf)
	return nil
}

func loadConfig(cmd *cobra.Command) (project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return project.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.LoadConfig(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.Default(), nil
	}
	cfg, _, err := project.Load(wd)
	return cfg, err
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
