package ast

import (
	"strings"

	"hirlower/internal/source"
)

// Ident is a name with its location.
type Ident struct {
	Name string
	Span source.Span
}

// Well-known identifier spellings.
const (
	KwSelfLower  = "self"
	KwUnderscore = "_"
	KwStatic     = "'static"
	KwAnonLt     = "'_"
)

// Path is a `::`-separated path. Resolution of the whole path is looked up by
// the id of the node that owns it (type, expression, use item, visibility).
type Path struct {
	Segments []PathSegment
	Span     source.Span
}

// PathSegment is one `ident<args>` element of a path.
type PathSegment struct {
	Ident Ident
	ID    NodeID
	Args  *GenericArgs
}

// GenericArgs are angle-bracketed arguments of a segment.
type GenericArgs struct {
	Args []GenericArg
	Span source.Span
}

// GenericArg is either a lifetime or a type.
type GenericArg struct {
	Lifetime *Lifetime
	Type     *Ty
}

// String renders the path the way it was written.
func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		parts[i] = seg.Ident.Name
	}
	return strings.Join(parts, "::")
}

// IsBareIdent reports whether the path is a single segment without arguments.
func (p Path) IsBareIdent() bool {
	return len(p.Segments) == 1 && p.Segments[0].Args == nil
}

// Lifetime is a `'a` reference.
type Lifetime struct {
	ID    NodeID
	Ident Ident
}

// IsAnon reports whether the lifetime is the anonymous `'_`.
func (l Lifetime) IsAnon() bool { return l.Ident.Name == KwAnonLt }

// IsStatic reports whether the lifetime is `'static`.
func (l Lifetime) IsStatic() bool { return l.Ident.Name == KwStatic }
