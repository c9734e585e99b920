package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"hirlower/internal/lower"
	"hirlower/internal/trace"
)

// Config mirrors hirlower.toml. Keys missing from the file keep the values of
// Default.
type Config struct {
	Lower LowerConfig `toml:"lower"`
	Trace TraceConfig `toml:"trace"`
	Cache CacheConfig `toml:"cache"`

	// Path of the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

// LowerConfig is the [lower] section.
type LowerConfig struct {
	MaxDiagnostics int    `toml:"max_diagnostics"`
	MissingABI     string `toml:"missing_abi"`
	Dedup          bool   `toml:"dedup"`
	Validate       bool   `toml:"validate"`
	Jobs           int    `toml:"jobs"`
}

// TraceConfig is the [trace] section.
type TraceConfig struct {
	Level    string `toml:"level"`
	Mode     string `toml:"mode"`
	Output   string `toml:"output"`
	RingSize int    `toml:"ring_size"`
}

// CacheConfig is the [cache] section.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

var (
	// ErrUnknownKey is wrapped when the file has keys the tool does not know.
	ErrUnknownKey = errors.New("unknown configuration key")
	// ErrInvalidValue is wrapped when a known key has an unsupported value.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Default returns the configuration used when no hirlower.toml exists.
func Default() Config {
	return Config{
		Lower: LowerConfig{
			MaxDiagnostics: 100,
			MissingABI:     "allow",
			Dedup:          true,
			Validate:       true,
		},
		Trace: TraceConfig{
			Level:    "off",
			Mode:     "stream",
			Output:   "-",
			RingSize: 4096,
		},
		Cache: CacheConfig{Enabled: true},
	}
}

// LoadConfig parses path on top of Default and checks every value.
func LoadConfig(path string) (Config, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	fail := func(err error) (Config, error) {
		return Config{}, &ConfigError{Path: path, Content: data, Err: err}
	}
	cfg := Default()
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return fail(fmt.Errorf("failed to parse TOML: %w", err))
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fail(fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(keys, ", ")))
	}
	if err := cfg.Check(); err != nil {
		return fail(err)
	}
	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(filepath.Dir(path), cfg.Cache.Dir)
	}
	cfg.Path = path
	return cfg, nil
}

// Load finds hirlower.toml above startDir and loads it. Without a file the
// defaults are returned and found is false.
func Load(startDir string) (cfg Config, found bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil {
		return Config{}, false, err
	}
	if !ok {
		return Default(), false, nil
	}
	cfg, err = LoadConfig(path)
	return cfg, err == nil, err
}

// Check validates enumerated values and limits.
func (c Config) Check() error {
	if _, ok := lower.ParseMissingABI(c.Lower.MissingABI); !ok {
		return fmt.Errorf("%w: [lower].missing_abi = %q (expected allow|warn)", ErrInvalidValue, c.Lower.MissingABI)
	}
	if c.Lower.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: [lower].max_diagnostics must not be negative", ErrInvalidValue)
	}
	if c.Lower.Jobs < 0 {
		return fmt.Errorf("%w: [lower].jobs must not be negative", ErrInvalidValue)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("%w: [trace].level: %w", ErrInvalidValue, err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return fmt.Errorf("%w: [trace].mode: %w", ErrInvalidValue, err)
	}
	return nil
}

// LowerOptions translates the [lower] section. Reporter and Strings are left
// for the caller.
func (c Config) LowerOptions() lower.Options {
	mode, _ := lower.ParseMissingABI(c.Lower.MissingABI)
	return lower.Options{MissingABI: mode, Validate: c.Lower.Validate}
}

// TracerConfig translates the [trace] section into a tracer configuration.
func (c Config) TracerConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	mode, err := trace.ParseMode(c.Trace.Mode)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: c.Trace.Output,
		RingSize:   c.Trace.RingSize,
	}, nil
}

// WriteDefault creates hirlower.toml in dir with the default values. An
// existing file is left untouched and reported as os.ErrExist.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ConfigFileName)
	// #nosec G304 -- dir is provided by the caller
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return path, err
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(Default()); err != nil {
		_ = f.Close()
		return path, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return path, f.Close()
}
