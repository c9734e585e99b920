package diag

import (
	"cmp"
	"math"
	"slices"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a limit. Diagnostics past the limit are
// counted but not kept.
type Bag struct {
	items    []Diagnostic
	limit    uint16
	overflow int
}

// NewBag returns a bag keeping at most limit diagnostics; the limit is
// clamped to [0, 65535].
func NewBag(limit int) *Bag {
	n, err := safecast.Conv[uint16](limit)
	if err != nil {
		n = math.MaxUint16
		if limit < 0 {
			n = 0
		}
	}
	return &Bag{limit: n}
}

// Add keeps d unless the bag is full. It reports whether d was kept.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.limit) {
		b.overflow++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Merge adds every diagnostic of other, overflow included.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, d := range other.items {
		b.Add(d)
	}
	b.overflow += other.overflow
}

// Overflow counts diagnostics dropped by the limit.
func (b *Bag) Overflow() int {
	if b == nil {
		return 0
	}
	return b.overflow
}

// Count returns how many kept diagnostics are at or above sev.
func (b *Bag) Count(sev Severity) int {
	n := 0
	for _, d := range b.Items() {
		if d.Severity >= sev {
			n++
		}
	}
	return n
}

func (b *Bag) HasErrors() bool   { return b.Count(SevError) > 0 }
func (b *Bag) HasWarnings() bool { return b.Count(SevWarning) > 0 }

func (b *Bag) Len() int { return len(b.Items()) }

// Items returns the kept diagnostics. The slice is shared with the bag.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Sort orders diagnostics by position, then worst severity first, then code.
// Equal diagnostics keep their report order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
