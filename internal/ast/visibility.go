package ast

import "hirlower/internal/source"

// VisibilityKind is the syntactic form of a visibility modifier.
type VisibilityKind uint8

const (
	// VisInherited is the absence of a modifier (private).
	VisInherited VisibilityKind = iota
	VisPublic
	VisCrate
	// VisRestricted is `pub(in path)`.
	VisRestricted
)

func (k VisibilityKind) String() string {
	switch k {
	case VisPublic:
		return "pub"
	case VisCrate:
		return "pub(crate)"
	case VisRestricted:
		return "pub(in)"
	default:
		return "inherited"
	}
}

// Visibility of an item. For restricted visibility Path is set and ID is the
// node whose resolution gives the restricting module.
type Visibility struct {
	Kind VisibilityKind
	Path *Path
	ID   NodeID
	Span source.Span
}
