package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// DummySpan marks synthesized nodes without a source location.
var DummySpan = Span{}

// IsDummy reports whether sp carries no location.
func (sp Span) IsDummy() bool { return sp == DummySpan }

func (sp Span) String() string {
	return fmt.Sprintf("%d:%d-%d", sp.File, sp.Start, sp.End)
}

// To covers sp through other. Spans from different files keep sp.
func (sp Span) To(other Span) Span {
	if sp.File != other.File {
		return sp
	}
	return Span{File: sp.File, Start: min(sp.Start, other.Start), End: max(sp.End, other.End)}
}

// ShrinkToLo is the empty span at the start of sp.
func (sp Span) ShrinkToLo() Span {
	return Span{File: sp.File, Start: sp.Start, End: sp.Start}
}
