package ast

import "hirlower/internal/source"

// PatKind is the shape of a pattern.
type PatKind uint8

const (
	PatWild PatKind = iota
	PatIdent
	PatTuple
	PatTupleStruct
	PatRef
	PatLit
	PatPath
	PatRest
)

// BindingMode of an identifier pattern.
type BindingMode struct {
	ByRef bool
	Mut   bool
}

// Pat is a surface pattern.
type Pat struct {
	ID   NodeID
	Kind PatKind
	Span source.Span

	Binding BindingMode // PatIdent
	Ident   Ident       // PatIdent
	Sub     *Pat        // PatIdent (`x @ p`), PatRef
	Elems   []*Pat      // PatTuple, PatTupleStruct
	Path    *Path       // PatTupleStruct, PatPath
	Lit     *Lit        // PatLit
	Mut     bool        // PatRef
}

// IsSimpleBinding reports whether the pattern is `x` or `mut x`: no `ref`
// and no sub-pattern.
func (p *Pat) IsSimpleBinding() bool {
	return p != nil && p.Kind == PatIdent && !p.Binding.ByRef && p.Sub == nil
}
