package diag

import "hirlower/internal/source"

// Reporter получает диагностики от фаз.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// BagReporter пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

type seenKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// DedupReporter forwards the first of several diagnostics that share code,
// severity, primary span and message. Not safe for concurrent use; the
// driver makes one per pack.
type DedupReporter struct {
	next Reporter
	seen map[seenKey]struct{}
	// Dropped counts suppressed repeats.
	Dropped int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	if next == nil {
		next = NopReporter{}
	}
	return &DedupReporter{next: next, seen: make(map[seenKey]struct{})}
}

func (r *DedupReporter) Report(d Diagnostic) {
	key := seenKey{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message}
	if _, dup := r.seen[key]; dup {
		r.Dropped++
		return
	}
	r.seen[key] = struct{}{}
	r.next.Report(d)
}
