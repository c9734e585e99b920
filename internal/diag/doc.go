// Package diag defines the diagnostic model shared by all phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced while
//     lowering a crate (invalid calling conventions, misplaced optional bounds,
//     `impl Trait` in the wrong position, ...).
//   - Offer light-weight utilities (Reporter, Bag) so producers can emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; the driver decides where bags go.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Note, Warning, Error.
//   - Code – compact numeric identifier (codes.go) with a stable ID() string.
//   - Message – short human oriented text.
//   - Primary – the source.Span pointing at the problem.
//   - Label – a few words shown next to the primary span.
//   - Help – optional remediation lines.
//
// # Emitting diagnostics
//
// Phases hold a Reporter and build values with Errorf or Warnf:
//
//	r.Report(diag.Errorf(diag.LowInvalidABI, sp, "invalid ABI: found `%s`", name).
//		WithLabel("invalid ABI"))
//
// BagReporter collects into a Bag; DedupReporter filters repeats first.
package diag
