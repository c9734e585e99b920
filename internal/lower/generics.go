package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/source"
)

// genericsCtor is a parameter list under construction. In-band lifetimes are
// appended to params before the final Generics is built.
type genericsCtor struct {
	params []hir.GenericParam
	where  hir.WhereClause
	span   source.Span
}

func (g *genericsCtor) intoGenerics() *hir.Generics {
	return &hir.Generics{Params: g.params, Where: g.where, Span: g.span}
}

func (l *lowerer) lowerGenerics(g *ast.Generics, itctx implTraitCtx) *hir.Generics {
	return l.lowerGenericsMut(g, itctx).intoGenerics()
}

// lowerGenericsMut lowers parameters and the where-clause. A `?Trait` bound
// in the where-clause moves onto the parameter it names; any other `?Trait`
// predicate is reported and dropped.
func (l *lowerer) lowerGenericsMut(g *ast.Generics, itctx implTraitCtx) *genericsCtor {
	addBounds := make(map[ast.NodeID][]ast.GenericBound)
	for i := range g.Where.Predicates {
		pred := &g.Where.Predicates[i]
		if pred.Kind != ast.WhereBound {
			continue
		}
		for _, b := range pred.Bounds {
			if b.Kind != ast.BoundTrait || !b.Modifier.IsMaybe() {
				continue
			}
			if param := l.boundedParam(g, pred); param != ast.DummyNodeID {
				// the relocated bound keeps its node ids and is lowered once, on the parameter
				addBounds[param] = append(addBounds[param], b)
				l.point("relocate-maybe-bound", pred.BoundedTy.Path.String())
				continue
			}
			l.reporter.Report(diag.Errorf(diag.LowOptionalBoundNotOnParam, pred.BoundedTy.Span,
				"optional bounds are only permitted at the point where a type parameter is declared").
				WithLabel("not a type parameter of this item"))
		}
	}

	ctor := &genericsCtor{span: g.Span}
	ctor.params = l.lowerGenericParams(g.Params, addBounds, itctx)
	l.withAnonLifetimeMode(anonReportError, func() {
		ctor.where = l.lowerWhereClause(&g.Where)
	})
	return ctor
}

// boundedParam returns the node of the type parameter a where predicate
// names, when the bounded type is a bare single-segment path to one of the
// parameters of g.
func (l *lowerer) boundedParam(g *ast.Generics, pred *ast.WherePredicate) ast.NodeID {
	t := pred.BoundedTy
	if t == nil || t.Kind != ast.TyPath || t.Path == nil || len(t.Path.Segments) != 1 || len(pred.BoundGenericParams) != 0 {
		return ast.DummyNodeID
	}
	res := l.resolver.PathRes(t.ID)
	if !res.IsTyParam() {
		return ast.DummyNodeID
	}
	for i := range g.Params {
		p := &g.Params[i]
		if p.Kind != ast.GenericParamType {
			continue
		}
		if def, ok := l.resolver.LookupDef(p.ID); ok && def == res.ID {
			return p.ID
		}
	}
	return ast.DummyNodeID
}

func (l *lowerer) lowerGenericParams(params []ast.GenericParam, addBounds map[ast.NodeID][]ast.GenericBound, itctx implTraitCtx) []hir.GenericParam {
	if len(params) == 0 {
		return nil
	}
	out := make([]hir.GenericParam, 0, len(params))
	for i := range params {
		out = append(out, l.lowerGenericParam(&params[i], addBounds[params[i].ID], itctx))
	}
	return out
}

func (l *lowerer) lowerGenericParam(p *ast.GenericParam, extra []ast.GenericBound, itctx implTraitCtx) hir.GenericParam {
	id := l.lowerNodeID(p.ID)
	l.lowerAttrs(id, p.Attrs)
	out := hir.GenericParam{
		HirID: id,
		Name:  hir.PlainName(l.ident(p.Ident)),
		Span:  p.Span,
	}
	out.Bounds = l.lowerBounds(p.Bounds, itctx)
	if len(extra) > 0 {
		out.Bounds = append(out.Bounds, l.lowerBounds(extra, itctx)...)
	}
	switch p.Kind {
	case ast.GenericParamLifetime:
		out.Kind = hir.GenericParamLifetime
		out.LifetimeKind = hir.LifetimeExplicit
	case ast.GenericParamType:
		out.Kind = hir.GenericParamType
		out.Default = l.lowerTy(p.Default, implTraitDisallowed)
	case ast.GenericParamConst:
		out.Kind = hir.GenericParamConst
		out.Ty = l.lowerTy(p.Ty, implTraitDisallowed)
	}
	return out
}

func (l *lowerer) lowerWhereClause(wc *ast.WhereClause) hir.WhereClause {
	out := hir.WhereClause{Span: wc.Span}
	if len(wc.Predicates) == 0 {
		return out
	}
	out.Predicates = make([]hir.WherePredicate, 0, len(wc.Predicates))
	for i := range wc.Predicates {
		out.Predicates = append(out.Predicates, l.lowerWherePredicate(&wc.Predicates[i]))
	}
	return out
}

func (l *lowerer) lowerWherePredicate(pred *ast.WherePredicate) hir.WherePredicate {
	out := hir.WherePredicate{Span: pred.Span}
	switch pred.Kind {
	case ast.WhereBound:
		out.Kind = hir.WhereBound
		l.withInScopeLifetimeDefs(pred.BoundGenericParams, func() {
			out.BoundGenericParams = l.lowerGenericParams(pred.BoundGenericParams, nil, implTraitDisallowed)
			out.BoundedTy = l.lowerTy(pred.BoundedTy, implTraitDisallowed)
			for _, b := range pred.Bounds {
				if b.Kind == ast.BoundTrait && b.Modifier.IsMaybe() {
					// relocated onto the parameter or already reported
					continue
				}
				out.Bounds = append(out.Bounds, l.lowerBound(&b, implTraitDisallowed))
			}
		})
	case ast.WhereRegion:
		out.Kind = hir.WhereRegion
		out.Lifetime = l.lowerLifetime(pred.Lifetime, pred.Span)
		out.Bounds = l.lowerBounds(pred.Bounds, implTraitDisallowed)
	case ast.WhereEq:
		out.Kind = hir.WhereEq
		out.HirID = l.lowerNodeID(pred.ID)
		out.Lhs = l.lowerTy(pred.Lhs, implTraitDisallowed)
		out.Rhs = l.lowerTy(pred.Rhs, implTraitDisallowed)
	}
	return out
}

func (l *lowerer) lowerBounds(bounds []ast.GenericBound, itctx implTraitCtx) []hir.GenericBound {
	if len(bounds) == 0 {
		return nil
	}
	out := make([]hir.GenericBound, 0, len(bounds))
	for i := range bounds {
		out = append(out, l.lowerBound(&bounds[i], itctx))
	}
	return out
}

func (l *lowerer) lowerBound(b *ast.GenericBound, itctx implTraitCtx) hir.GenericBound {
	switch b.Kind {
	case ast.BoundOutlives:
		var sp source.Span
		if b.Lifetime != nil {
			sp = b.Lifetime.Ident.Span
		}
		return hir.GenericBound{Kind: hir.BoundOutlives, Lifetime: l.lowerLifetime(b.Lifetime, sp)}
	default:
		return hir.GenericBound{
			Kind:     hir.BoundTrait,
			Trait:    l.lowerPolyTraitRef(b.Trait, itctx),
			Modifier: lowerBoundModifier(b.Modifier),
		}
	}
}

func lowerBoundModifier(m ast.TraitBoundModifier) hir.TraitBoundModifier {
	switch m {
	case ast.BoundModMaybe:
		return hir.BoundModMaybe
	case ast.BoundModMaybeConst:
		return hir.BoundModMaybeConst
	case ast.BoundModMaybeConstMaybe:
		return hir.BoundModMaybeConstMaybe
	default:
		return hir.BoundModNone
	}
}

func (l *lowerer) lowerPolyTraitRef(p *ast.PolyTraitRef, itctx implTraitCtx) *hir.PolyTraitRef {
	out := &hir.PolyTraitRef{Span: p.Span}
	l.withInScopeLifetimeDefs(p.BoundGenericParams, func() {
		out.BoundGenericParams = l.lowerGenericParams(p.BoundGenericParams, nil, implTraitDisallowed)
		out.TraitRef = l.lowerTraitRef(&p.TraitRef, itctx)
	})
	return out
}

func (l *lowerer) lowerTraitRef(r *ast.TraitRef, itctx implTraitCtx) hir.TraitRef {
	path := l.lowerPath(r.RefID, &r.Path, itctx)
	return hir.TraitRef{Path: path, HirRefID: l.lowerNodeID(r.RefID)}
}

// lowerLifetime lowers a written lifetime, or an elided one when lt is nil.
// Anonymous and elided lifetimes follow the current anonymous lifetime mode.
func (l *lowerer) lowerLifetime(lt *ast.Lifetime, sp source.Span) *hir.Lifetime {
	if lt == nil {
		return l.elidedLifetime(sp, "`&` without an explicit lifetime name cannot be used here")
	}
	out := &hir.Lifetime{HirID: l.lowerNodeID(lt.ID), Span: lt.Ident.Span}
	switch {
	case lt.IsStatic():
		out.Name = hir.LifetimeName{Kind: hir.LtStatic}
	case lt.IsAnon():
		switch l.anonMode {
		case anonCreateParameter:
			out.Name = hir.LifetimeName{Kind: hir.LtParam, Param: l.collectFreshInBandLifetime(lt.Ident.Span)}
		case anonReportError:
			out.Name = l.anonLifetimeError(lt.Ident.Span, "`'_` cannot be used here")
		default:
			out.Name = hir.LifetimeName{Kind: hir.LtUnderscore}
		}
	default:
		id := l.ident(lt.Ident)
		l.maybeCollectInBandLifetime(id)
		out.Name = hir.LifetimeName{Kind: hir.LtParam, Param: hir.PlainName(id)}
	}
	return out
}

func (l *lowerer) elidedLifetime(sp source.Span, msg string) *hir.Lifetime {
	out := &hir.Lifetime{HirID: l.nextID(), Span: sp}
	switch l.anonMode {
	case anonCreateParameter:
		out.Name = hir.LifetimeName{Kind: hir.LtParam, Param: l.collectFreshInBandLifetime(sp)}
	case anonReportError:
		out.Name = l.anonLifetimeError(sp, msg)
	default:
		out.Name = hir.LifetimeName{Kind: hir.LtImplicit}
	}
	return out
}

func (l *lowerer) anonLifetimeError(sp source.Span, msg string) hir.LifetimeName {
	l.reporter.Report(diag.Errorf(diag.LowAnonLifetimeNotAllowed, sp, "%s", msg).
		WithLabel("explicit lifetime name needed here"))
	return hir.LifetimeName{Kind: hir.LtError}
}
