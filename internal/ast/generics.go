package ast

import "hirlower/internal/source"

// GenericParamKind distinguishes lifetime, type and const parameters.
type GenericParamKind uint8

const (
	GenericParamLifetime GenericParamKind = iota
	GenericParamType
	GenericParamConst
)

// GenericParam is one declared parameter. Default is the type default for a
// type parameter; Ty is the declared type of a const parameter.
type GenericParam struct {
	ID      NodeID
	Ident   Ident
	Attrs   []Attribute
	Bounds  []GenericBound
	Kind    GenericParamKind
	Default *Ty
	Ty      *Ty
	Span    source.Span
}

// TraitBoundModifier is the `?` / `?const` prefix of a trait bound.
type TraitBoundModifier uint8

const (
	BoundModNone TraitBoundModifier = iota
	// BoundModMaybe is `?Trait`.
	BoundModMaybe
	// BoundModMaybeConst is `?const Trait`.
	BoundModMaybeConst
	// BoundModMaybeConstMaybe is `?const ?Trait`.
	BoundModMaybeConstMaybe
)

// IsMaybe reports whether the bound is a plain `?Trait`. `?const ?Trait`
// stays where it is written.
func (m TraitBoundModifier) IsMaybe() bool {
	return m == BoundModMaybe
}

// BoundKind says whether a bound is a trait or an outlives bound.
type BoundKind uint8

const (
	BoundTrait BoundKind = iota
	BoundOutlives
)

// GenericBound is `Trait`, `?Trait` or `'a`.
type GenericBound struct {
	Kind     BoundKind
	Trait    *PolyTraitRef
	Modifier TraitBoundModifier
	Lifetime *Lifetime
}

// PolyTraitRef is `for<'a> Trait<'a>`.
type PolyTraitRef struct {
	BoundGenericParams []GenericParam
	TraitRef           TraitRef
	Span               source.Span
}

// TraitRef is a path to a trait; RefID keys its resolution.
type TraitRef struct {
	Path  Path
	RefID NodeID
}

// Generics is a parameter list with its where-clause.
type Generics struct {
	Params []GenericParam
	Where  WhereClause
	Span   source.Span
}

// WhereClause is the `where ...` part of a declaration.
type WhereClause struct {
	HasWhereToken bool
	Predicates    []WherePredicate
	Span          source.Span
}

// WherePredicateKind is the shape of a where predicate.
type WherePredicateKind uint8

const (
	// WhereBound is `for<'a> T: Bound + 'b`.
	WhereBound WherePredicateKind = iota
	// WhereRegion is `'a: 'b`.
	WhereRegion
	// WhereEq is `T = U`.
	WhereEq
)

// WherePredicate is a single where-clause entry.
type WherePredicate struct {
	Kind WherePredicateKind
	Span source.Span

	// WhereBound
	BoundGenericParams []GenericParam
	BoundedTy          *Ty
	Bounds             []GenericBound

	// WhereRegion
	Lifetime *Lifetime

	// WhereEq
	ID  NodeID
	Lhs *Ty
	Rhs *Ty
}
