package hir

import (
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// DefaultnessKind says whether a member may be overridden.
type DefaultnessKind uint8

const (
	DefaultnessFinal DefaultnessKind = iota
	DefaultnessDefault
)

// Defaultness of an associated item. HasValue is meaningful for
// DefaultnessDefault only.
type Defaultness struct {
	Kind     DefaultnessKind
	HasValue bool
}

// Final is the defaultness of an ordinary impl member.
var Final = Defaultness{Kind: DefaultnessFinal}

func (d Defaultness) String() string {
	if d.Kind == DefaultnessFinal {
		return "final"
	}
	if d.HasValue {
		return "default(value)"
	}
	return "default"
}

// AssocKind is the kind tag of a member reference.
type AssocKind uint8

const (
	AssocConst AssocKind = iota
	AssocFn
	AssocType
)

func (k AssocKind) String() string {
	switch k {
	case AssocFn:
		return "fn"
	case AssocType:
		return "type"
	default:
		return "const"
	}
}

// TraitItemRef is the entry a trait keeps for each member.
type TraitItemRef struct {
	ID          resolve.DefID
	Ident       Ident
	Span        source.Span
	Defaultness Defaultness
	Kind        AssocKind
	HasSelf     bool
}

// ImplItemRef is the entry an impl keeps for each member.
type ImplItemRef struct {
	ID          resolve.DefID
	Ident       Ident
	Span        source.Span
	Vis         Visibility
	Defaultness Defaultness
	Kind        AssocKind
	HasSelf     bool
}

// ForeignItemRef is the entry an extern block keeps for each item.
type ForeignItemRef struct {
	ID    resolve.DefID
	Ident Ident
	Span  source.Span
	Vis   Visibility
}

// TraitFnKind distinguishes required and provided trait methods.
type TraitFnKind uint8

const (
	TraitFnRequired TraitFnKind = iota
	TraitFnProvided
)

// TraitItem is the full record of a trait member.
type TraitItem struct {
	DefID    resolve.DefID
	Parent   resolve.DefID
	Ident    Ident
	Generics *Generics
	Kind     AssocKind
	Span     source.Span

	Ty     *Ty            // AssocConst; AssocType default
	Body   *BodyID        // AssocConst default; provided AssocFn
	Sig    *FnSig         // AssocFn
	FnKind TraitFnKind    // AssocFn
	Names  []Ident        // required AssocFn
	Bounds []GenericBound // AssocType
}

// ImplItem is the full record of an impl member.
type ImplItem struct {
	DefID       resolve.DefID
	Parent      resolve.DefID
	Ident       Ident
	Vis         Visibility
	Defaultness Defaultness
	Generics    *Generics
	Kind        AssocKind
	Span        source.Span

	Ty   *Ty    // AssocConst, AssocType
	Body BodyID // AssocConst, AssocFn
	Sig  *FnSig // AssocFn
}

// ForeignItemKind enumerates extern block items.
type ForeignItemKind uint8

const (
	ForeignFn ForeignItemKind = iota
	ForeignStatic
	ForeignType
)

// ForeignItem is the full record of an extern block item.
type ForeignItem struct {
	DefID  resolve.DefID
	Parent resolve.DefID
	Ident  Ident
	Vis    Visibility
	Kind   ForeignItemKind
	Span   source.Span

	Decl     *FnDecl   // ForeignFn
	Names    []Ident   // ForeignFn
	Generics *Generics // ForeignFn
	Ty       *Ty       // ForeignStatic
	Mut      bool      // ForeignStatic
}
