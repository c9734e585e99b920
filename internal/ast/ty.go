package ast

import "hirlower/internal/source"

// TyKind is the shape of a surface type.
type TyKind uint8

const (
	TyErr TyKind = iota
	TyPath
	TyRef
	TyPtr
	TySlice
	TyArray
	TyTuple
	TyNever
	TyInfer
	TyImplicitSelf
	// TyImplTrait is `impl Bounds`; its ID also names the opaque type.
	TyImplTrait
	TyTraitObject
	TyParen
)

var tyKindNames = [...]string{
	TyErr:          "err",
	TyPath:         "path",
	TyRef:          "ref",
	TyPtr:          "ptr",
	TySlice:        "slice",
	TyArray:        "array",
	TyTuple:        "tuple",
	TyNever:        "never",
	TyInfer:        "infer",
	TyImplicitSelf: "implicit-self",
	TyImplTrait:    "impl-trait",
	TyTraitObject:  "trait-object",
	TyParen:        "paren",
}

func (k TyKind) String() string {
	if int(k) < len(tyKindNames) {
		return tyKindNames[k]
	}
	return "?"
}

// Ty is a surface type. Resolution of a path type is keyed by ID.
type Ty struct {
	ID   NodeID
	Kind TyKind
	Span source.Span

	Path     *Path          // TyPath
	Elem     *Ty            // TyRef, TyPtr, TySlice, TyArray, TyParen
	Lifetime *Lifetime      // TyRef, nil when elided
	Mut      bool           // TyRef, TyPtr
	Len      *AnonConst     // TyArray
	Elems    []*Ty          // TyTuple
	Bounds   []GenericBound // TyImplTrait, TyTraitObject
}

// AnonConst is an expression in a constant position such as an array length
// or an enum discriminant. It becomes a body of its own.
type AnonConst struct {
	ID    NodeID
	Value *Expr
}
