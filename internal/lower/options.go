package lower

import (
	"hirlower/internal/diag"
	"hirlower/internal/source"
)

// MissingABI controls the warning for `extern` without an explicit ABI.
type MissingABI uint8

const (
	MissingABIAllow MissingABI = iota
	MissingABIWarn
)

// ParseMissingABI accepts "allow" (or "") and "warn".
func ParseMissingABI(s string) (MissingABI, bool) {
	switch s {
	case "", "allow":
		return MissingABIAllow, true
	case "warn":
		return MissingABIWarn, true
	}
	return MissingABIAllow, false
}

// Options configures one lowering run.
type Options struct {
	// Reporter receives user diagnostics; nil discards them.
	Reporter diag.Reporter
	// Strings interns identifiers of the output; nil creates a fresh interner.
	Strings    *source.Interner
	MissingABI MissingABI
	// Validate runs hir.Validate on the result and turns violations into an
	// internal error.
	Validate bool
}
