package ast

import "hirlower/internal/source"

// UseTreeKind is the shape of an import tree.
type UseTreeKind uint8

const (
	// UseSimple is `prefix` or `prefix as rename`.
	UseSimple UseTreeKind = iota
	// UseNested is `prefix::{...}`.
	UseNested
	// UseGlob is `prefix::*`.
	UseGlob
)

// UseTree is one level of an import. SimpleIDs are spare node ids reserved by
// the resolver for extra namespace hits of a simple leaf.
type UseTree struct {
	Prefix    Path
	Kind      UseTreeKind
	Rename    *Ident
	SimpleIDs [2]NodeID
	Nested    []NestedUseTree
	Span      source.Span
}

// NestedUseTree is a child of a nested group with the id of its own item.
type NestedUseTree struct {
	Tree UseTree
	ID   NodeID
}

// Ident returns the name the import binds: the rename when present, the last
// prefix segment otherwise.
func (t *UseTree) Ident() Ident {
	if t.Rename != nil {
		return *t.Rename
	}
	if n := len(t.Prefix.Segments); n > 0 {
		return t.Prefix.Segments[n-1].Ident
	}
	return Ident{}
}
