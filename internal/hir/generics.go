package hir

import "hirlower/internal/source"

// ParamNameKind distinguishes written, synthesized and erroneous names.
type ParamNameKind uint8

const (
	// ParamPlain is a name the user wrote.
	ParamPlain ParamNameKind = iota
	// ParamFresh is a synthesized name for an anonymous lifetime.
	ParamFresh
	// ParamError stands in after a reported error.
	ParamError
)

// ParamName is the name of a generic parameter.
type ParamName struct {
	Kind  ParamNameKind
	Ident Ident
	Fresh uint32
}

// PlainName builds a ParamName for a written identifier.
func PlainName(id Ident) ParamName { return ParamName{Kind: ParamPlain, Ident: id} }

// SameAs compares names by spelling and fresh index, ignoring spans.
func (n ParamName) SameAs(o ParamName) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case ParamPlain:
		return n.Ident.Name == o.Ident.Name
	case ParamFresh:
		return n.Fresh == o.Fresh
	}
	return true
}

// GenericParamKind distinguishes lifetime, type and const parameters.
type GenericParamKind uint8

const (
	GenericParamLifetime GenericParamKind = iota
	GenericParamType
	GenericParamConst
)

// LifetimeParamKind tells where a lifetime parameter came from.
type LifetimeParamKind uint8

const (
	// LifetimeExplicit was declared in `<...>`.
	LifetimeExplicit LifetimeParamKind = iota
	// LifetimeInBand was used without a declaration and added by lowering.
	LifetimeInBand
	// LifetimeElided was created for `'_` or an elided reference.
	LifetimeElided
	// LifetimeError follows a reported error.
	LifetimeError
)

func (k LifetimeParamKind) String() string {
	switch k {
	case LifetimeInBand:
		return "in-band"
	case LifetimeElided:
		return "elided"
	case LifetimeError:
		return "error"
	default:
		return "explicit"
	}
}

// GenericParam is a declared or synthesized parameter.
type GenericParam struct {
	HirID        HirID
	Name         ParamName
	Bounds       []GenericBound
	Span         source.Span
	Kind         GenericParamKind
	LifetimeKind LifetimeParamKind // GenericParamLifetime
	Default      *Ty               // GenericParamType
	Ty           *Ty               // GenericParamConst
}

// Generics is a finished parameter list with its where-clause.
type Generics struct {
	Params []GenericParam
	Where  WhereClause
	Span   source.Span
}

// EmptyGenerics returns generics with no parameters.
func EmptyGenerics() *Generics { return &Generics{} }

// Param looks up a parameter by name.
func (g *Generics) Param(name source.StringID) *GenericParam {
	if g == nil {
		return nil
	}
	for i := range g.Params {
		if g.Params[i].Name.Kind == ParamPlain && g.Params[i].Name.Ident.Name == name {
			return &g.Params[i]
		}
	}
	return nil
}

type WhereClause struct {
	Predicates []WherePredicate
	Span       source.Span
}

// WherePredicateKind is the shape of a where predicate.
type WherePredicateKind uint8

const (
	WhereBound WherePredicateKind = iota
	WhereRegion
	WhereEq
)

type WherePredicate struct {
	Kind WherePredicateKind
	Span source.Span

	BoundGenericParams []GenericParam // WhereBound
	BoundedTy          *Ty            // WhereBound
	Bounds             []GenericBound // WhereBound, WhereRegion
	Lifetime           *Lifetime      // WhereRegion
	HirID              HirID          // WhereEq
	Lhs                *Ty            // WhereEq
	Rhs                *Ty            // WhereEq
}

// TraitBoundModifier is the `?` / `?const` prefix of a bound.
type TraitBoundModifier uint8

const (
	BoundModNone TraitBoundModifier = iota
	BoundModMaybe
	BoundModMaybeConst
	BoundModMaybeConstMaybe
)

// BoundKind says whether a bound is a trait or an outlives bound.
type BoundKind uint8

const (
	BoundTrait BoundKind = iota
	BoundOutlives
)

type GenericBound struct {
	Kind     BoundKind
	Trait    *PolyTraitRef
	Modifier TraitBoundModifier
	Lifetime *Lifetime
}

type PolyTraitRef struct {
	BoundGenericParams []GenericParam
	TraitRef           TraitRef
	Span               source.Span
}

type TraitRef struct {
	Path     *Path
	HirRefID HirID
}
