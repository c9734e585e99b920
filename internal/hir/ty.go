package hir

import (
	"hirlower/internal/abi"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// Path is a resolved path.
type Path struct {
	Span     source.Span
	Res      resolve.Res
	Segments []PathSegment
}

type PathSegment struct {
	Ident Ident
	HirID HirID
	Res   resolve.Res
	Args  *GenericArgs
}

type GenericArgs struct {
	Args []GenericArg
	Span source.Span
}

type GenericArg struct {
	Lifetime *Lifetime
	Type     *Ty
}

// LifetimeNameKind classifies a lifetime reference.
type LifetimeNameKind uint8

const (
	// LtParam refers to a declared or synthesized parameter.
	LtParam LifetimeNameKind = iota
	// LtImplicit is an elided lifetime left to inference.
	LtImplicit
	// LtUnderscore is a written `'_` left to inference.
	LtUnderscore
	LtStatic
	LtError
)

type LifetimeName struct {
	Kind  LifetimeNameKind
	Param ParamName // LtParam
}

type Lifetime struct {
	HirID HirID
	Span  source.Span
	Name  LifetimeName
}

// TyKind is the shape of a lowered type.
type TyKind uint8

const (
	TyErr TyKind = iota
	TyPath
	TyRef
	TyPtr
	TySlice
	TyArray
	TyTup
	TyNever
	TyInfer
	// TyOpaque is an `impl Trait` in an allowed position.
	TyOpaque
	TyTraitObject
)

var tyKindNames = [...]string{
	TyErr:         "err",
	TyPath:        "path",
	TyRef:         "ref",
	TyPtr:         "ptr",
	TySlice:       "slice",
	TyArray:       "array",
	TyTup:         "tuple",
	TyNever:       "never",
	TyInfer:       "infer",
	TyOpaque:      "opaque",
	TyTraitObject: "dyn",
}

func (k TyKind) String() string {
	if int(k) < len(tyKindNames) {
		return tyKindNames[k]
	}
	return "?"
}

// OpaqueOrigin says where an opaque type was written.
type OpaqueOrigin uint8

const (
	OpaqueFnReturn OpaqueOrigin = iota
	OpaqueAsyncFn
	OpaqueTyAlias
)

type Ty struct {
	HirID HirID
	Kind  TyKind
	Span  source.Span

	Path     *Path          // TyPath
	Elem     *Ty            // TyRef, TyPtr, TySlice, TyArray; async TyOpaque output
	Lifetime *Lifetime      // TyRef
	Mut      bool           // TyRef, TyPtr
	Len      *AnonConst     // TyArray
	Elems    []*Ty          // TyTup
	Bounds   []GenericBound // TyOpaque, TyTraitObject
	Opaque   resolve.DefID  // TyOpaque
	Origin   OpaqueOrigin   // TyOpaque
}

// ImplicitSelfKind describes the form of a `self` parameter.
type ImplicitSelfKind uint8

const (
	ImplicitSelfNone ImplicitSelfKind = iota
	ImplicitSelfImm
	ImplicitSelfMut
	ImplicitSelfImmRef
	ImplicitSelfMutRef
)

type FnRetTy struct {
	// Ty is nil for the default return type.
	Ty   *Ty
	Span source.Span
}

type FnDecl struct {
	Inputs       []*Ty
	Output       FnRetTy
	ImplicitSelf ImplicitSelfKind
}

type FnHeader struct {
	Unsafe bool
	Async  bool
	Const  bool
	Abi    abi.Abi
}

type FnSig struct {
	Header FnHeader
	Decl   *FnDecl
	Span   source.Span
}
