package project

import (
	"errors"
	"strings"

	"github.com/BurntSushi/toml"

	"hirlower/internal/diag"
	"hirlower/internal/source"
)

// ConfigError is returned by LoadConfig for a file that exists but cannot
// be used.
type ConfigError struct {
	Path    string
	Content []byte
	Err     error
}

func (e *ConfigError) Error() string { return e.Path + ": " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

// Diagnose turns a configuration error into a PRJ6001 diagnostic. A TOML
// syntax error points into the file, which is then added to fs.
func Diagnose(err error, fs *source.FileSet) diag.Diagnostic {
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		return diag.Errorf(diag.ProjConfigInvalid, source.DummySpan, "%v", err)
	}
	var perr toml.ParseError
	if !errors.As(cerr.Err, &perr) || fs == nil {
		return diag.Errorf(diag.ProjConfigInvalid, source.DummySpan, "%v", cerr)
	}
	id, addErr := fs.Add(cerr.Path, cerr.Content)
	if addErr != nil {
		return diag.Errorf(diag.ProjConfigInvalid, source.DummySpan, "%v", cerr)
	}
	start := uint32(max(perr.Position.Start, 0)) //nolint:gosec // offset into a file that fit in fs
	d := diag.Errorf(diag.ProjConfigInvalid, source.Span{
		File:  id,
		Start: start,
		End:   start + uint32(max(perr.Position.Len, 1)), //nolint:gosec // as above
	}, "invalid %s: %s", ConfigFileName, perr.Message).WithLabel("here")
	if usage := strings.TrimSpace(perr.Usage); usage != "" {
		d = d.WithHelp(usage)
	}
	return d
}
