package diag

import (
	"fmt"
	"slices"

	"hirlower/internal/source"
)

// Severity orders diagnostics; higher is worse.
type Severity uint8

const (
	SevNote Severity = iota
	SevWarning
	SevError
)

var sevNames = [...]string{SevNote: "NOTE", SevWarning: "WARNING", SevError: "ERROR"}

func (s Severity) String() string {
	if int(s) < len(sevNames) {
		return sevNames[s]
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// Diagnostic is one finding reported by a phase.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	// Label is a short text attached to the primary span ("invalid ABI").
	Label string
	// Help carries optional remediation text, one entry per line.
	Help []string
}

// Errorf starts an error diagnostic at sp.
func Errorf(code Code, sp source.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: sp, Message: sprintf(format, args)}
}

// Warnf starts a warning diagnostic at sp.
func Warnf(code Code, sp source.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: SevWarning, Code: code, Primary: sp, Message: sprintf(format, args)}
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// WithLabel returns d with the primary-span label set.
func (d Diagnostic) WithLabel(label string) Diagnostic {
	d.Label = label
	return d
}

// WithHelp returns d with help appended. The receiver's Help is never
// mutated.
func (d Diagnostic) WithHelp(help ...string) Diagnostic {
	d.Help = append(slices.Clip(d.Help), help...)
	return d
}
