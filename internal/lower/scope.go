package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// anonLifetimeMode says what `'_` and elided reference lifetimes turn into.
type anonLifetimeMode uint8

const (
	// anonPassThrough keeps them as inference placeholders.
	anonPassThrough anonLifetimeMode = iota
	// anonCreateParameter adds a fresh lifetime parameter per occurrence.
	anonCreateParameter
	// anonReportError rejects them.
	anonReportError
)

// inBandLifetime is a lifetime waiting to become a generic parameter.
type inBandLifetime struct {
	span source.Span
	name hir.ParamName
}

func (l *lowerer) withCurrentModule(def resolve.DefID, f func()) {
	old := l.currentModule
	l.currentModule = def
	defer func() { l.currentModule = old }()
	f()
}

func (l *lowerer) withTraitImplRef(isTraitImpl bool, f func()) {
	old := l.isInTraitImpl
	l.isInTraitImpl = isTraitImpl
	defer func() { l.isInTraitImpl = old }()
	f()
}

func (l *lowerer) withAnonLifetimeMode(mode anonLifetimeMode, f func()) {
	old := l.anonMode
	l.anonMode = mode
	defer func() { l.anonMode = old }()
	f()
}

// withoutInScopeLifetimeDefs clears the in-scope lifetimes for a nested item.
// Nested items never see lifetimes of their surroundings.
func (l *lowerer) withoutInScopeLifetimeDefs(f func()) {
	old := l.inScopeLifetimes
	l.inScopeLifetimes = nil
	assert(len(l.lifetimesToDefine) == 0, "in-band lifetimes leaked into item boundary: %d", len(l.lifetimesToDefine))
	ok := false
	defer func() {
		if ok {
			assert(len(l.inScopeLifetimes) == 0, "in-scope lifetimes not restored: %d left", len(l.inScopeLifetimes))
		}
		l.inScopeLifetimes = old
	}()
	f()
	ok = true
}

// withInScopeLifetimeDefs makes the lifetime parameters of params visible
// while f runs.
func (l *lowerer) withInScopeLifetimeDefs(params []ast.GenericParam, f func()) {
	oldLen := len(l.inScopeLifetimes)
	for i := range params {
		if params[i].Kind == ast.GenericParamLifetime {
			l.inScopeLifetimes = append(l.inScopeLifetimes, hir.PlainName(l.ident(params[i].Ident)))
		}
	}
	defer func() { l.inScopeLifetimes = l.inScopeLifetimes[:oldLen] }()
	f()
}

// withParentItemLifetimeDefs seeds the lifetimes declared by a lowered impl or
// trait (in-band ones included) for its members.
func (l *lowerer) withParentItemLifetimeDefs(parent *hir.Item, f func()) {
	oldLen := len(l.inScopeLifetimes)
	var params []hir.GenericParam
	switch parent.Kind {
	case hir.ItemImpl:
		params = parent.Impl.Generics.Params
	case hir.ItemTrait:
		params = parent.Trait.Generics.Params
	}
	for i := range params {
		if params[i].Kind == hir.GenericParamLifetime {
			l.inScopeLifetimes = append(l.inScopeLifetimes, params[i].Name)
		}
	}
	defer func() { l.inScopeLifetimes = l.inScopeLifetimes[:oldLen] }()
	f()
}

// withNewScopes resets body-local state for a fresh item body.
func (l *lowerer) withNewScopes(f func()) {
	oldGen := l.generatorKind
	l.generatorKind = hir.NotGenerator
	defer func() { l.generatorKind = oldGen }()
	f()
}

// collectInBandDefs runs f while collecting undeclared lifetimes and returns
// them as generic parameters of parent.
func (l *lowerer) collectInBandDefs(parent resolve.DefID, mode anonLifetimeMode, f func()) []hir.GenericParam {
	assert(!l.collectingInBand, "nested in-band lifetime collection")
	assert(len(l.lifetimesToDefine) == 0, "in-band lifetimes left from a previous signature")

	oldMode := l.anonMode
	l.anonMode = mode
	l.collectingInBand = true
	defer func() {
		l.collectingInBand = false
		l.anonMode = oldMode
		l.lifetimesToDefine = l.lifetimesToDefine[:0]
	}()

	f()

	params := make([]hir.GenericParam, 0, len(l.lifetimesToDefine))
	for _, lt := range l.lifetimesToDefine {
		params = append(params, l.lifetimeToGenericParam(lt, parent))
	}
	return params
}

func (l *lowerer) lifetimeToGenericParam(lt inBandLifetime, parent resolve.DefID) hir.GenericParam {
	node := l.resolver.NextNodeID()
	l.resolver.DefID(node, resolve.DefLifetimeParam)
	kind := hir.LifetimeInBand
	switch lt.name.Kind {
	case hir.ParamFresh:
		kind = hir.LifetimeElided
	case hir.ParamError:
		kind = hir.LifetimeError
	}
	return hir.GenericParam{
		HirID:        l.lowerNodeID(node),
		Name:         lt.name,
		Span:         lt.span,
		Kind:         hir.GenericParamLifetime,
		LifetimeKind: kind,
	}
}

// maybeCollectInBandLifetime records a use of a lifetime that is neither in
// scope nor already collected.
func (l *lowerer) maybeCollectInBandLifetime(id hir.Ident) {
	if !l.collectingInBand {
		return
	}
	name := hir.PlainName(id)
	for _, n := range l.inScopeLifetimes {
		if n.SameAs(name) {
			return
		}
	}
	for _, lt := range l.lifetimesToDefine {
		if lt.name.SameAs(name) {
			return
		}
	}
	l.lifetimesToDefine = append(l.lifetimesToDefine, inBandLifetime{span: id.Span, name: name})
}

// collectFreshInBandLifetime creates a fresh parameter for an anonymous
// lifetime.
func (l *lowerer) collectFreshInBandLifetime(sp source.Span) hir.ParamName {
	assert(l.collectingInBand, "fresh lifetime requested outside of in-band collection")
	index := len(l.lifetimesToDefine) + len(l.inScopeLifetimes)
	name := hir.ParamName{Kind: hir.ParamFresh, Fresh: uint32(index)}
	l.lifetimesToDefine = append(l.lifetimesToDefine, inBandLifetime{span: sp, name: name})
	return name
}

// addInBandDefs lowers generics, then runs f with in-band collection active,
// and appends the collected lifetimes to the generics.
func (l *lowerer) addInBandDefs(g *ast.Generics, parent resolve.DefID, mode anonLifetimeMode, f func()) *hir.Generics {
	var ctor *genericsCtor
	l.withInScopeLifetimeDefs(g.Params, func() {
		inBand := l.collectInBandDefs(parent, mode, func() {
			// explicit parameters get their ids before any in-band one
			ctor = l.lowerGenericsMut(g, implTraitDisallowed)
			f()
		})
		ctor.params = append(ctor.params, inBand...)
	})
	return ctor.intoGenerics()
}
