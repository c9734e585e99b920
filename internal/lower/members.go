package lower

import (
	"strconv"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
)

func assocDefKind(ai *ast.AssocItem) resolve.DefKind {
	switch ai.Kind {
	case ast.AssocConst:
		return resolve.DefAssocConst
	case ast.AssocFn:
		return resolve.DefAssocFn
	case ast.AssocTyAlias:
		return resolve.DefAssocTy
	}
	return resolve.DefUnknown
}

// assocKind returns the ref kind of a member and whether it has a value.
func assocKind(ai *ast.AssocItem) (kind hir.AssocKind, hasSelf, hasValue bool) {
	switch ai.Kind {
	case ast.AssocConst:
		return hir.AssocConst, false, ai.Const.Expr != nil
	case ast.AssocFn:
		return hir.AssocFn, ai.Fn.Sig.Decl.HasSelf(), ai.Fn.Body != nil
	case ast.AssocTyAlias:
		return hir.AssocType, false, ai.TyAlias.Ty != nil
	}
	ice("macro invocation in member %q reached lowering unexpanded", ai.Ident.Name)
	return
}

func assocDefaultness(ai *ast.AssocItem) ast.Defaultness {
	switch ai.Kind {
	case ast.AssocConst:
		return ai.Const.Defaultness
	case ast.AssocFn:
		return ai.Fn.Defaultness
	case ast.AssocTyAlias:
		return ai.TyAlias.Defaultness
	}
	return ast.Final
}

// lowerDefaultness maps a written defaultness. A final member always has a
// value.
func lowerDefaultness(d ast.Defaultness, hasValue bool) hir.Defaultness {
	if d == ast.Default {
		return hir.Defaultness{Kind: hir.DefaultnessDefault, HasValue: hasValue}
	}
	assert(hasValue, "final member without a value")
	return hir.Final
}

func (l *lowerer) lowerTraitItemRef(ai *ast.AssocItem) hir.TraitItemRef {
	kind, hasSelf, hasValue := assocKind(ai)
	return hir.TraitItemRef{
		ID:          l.ownerDef(ai.ID, assocDefKind(ai)),
		Ident:       l.ident(ai.Ident),
		Span:        ai.Span,
		Defaultness: hir.Defaultness{Kind: hir.DefaultnessDefault, HasValue: hasValue},
		Kind:        kind,
		HasSelf:     hasSelf,
	}
}

func (l *lowerer) lowerImplItemRef(ai *ast.AssocItem) hir.ImplItemRef {
	kind, hasSelf, _ := assocKind(ai)
	defKind := assocDefKind(ai)
	return hir.ImplItemRef{
		ID:          l.ownerDef(ai.ID, defKind),
		Ident:       l.ident(ai.Ident),
		Span:        ai.Span,
		Vis:         l.lowerVisibility(&ai.Vis, &visOwner{node: ai.ID, kind: defKind}),
		Defaultness: lowerDefaultness(assocDefaultness(ai), true),
		Kind:        kind,
		HasSelf:     hasSelf,
	}
}

// lowerMethodSig lowers a member signature; lifetimes used in it but not
// declared anywhere in scope become parameters of the member.
func (l *lowerer) lowerMethodSig(g *ast.Generics, sig *ast.FnSig, def resolve.DefID, allowReturnImplTrait bool, async *ast.Async) (*hir.Generics, *hir.FnSig) {
	header := l.lowerFnHeader(sig)
	var decl *hir.FnDecl
	generics := l.addInBandDefs(g, def, anonPassThrough, func() {
		decl = l.lowerFnDecl(&sig.Decl, allowReturnImplTrait, async)
	})
	return generics, &hir.FnSig{Header: header, Decl: decl, Span: sig.Span}
}

func (l *lowerer) lowerTraitItem(ai *ast.AssocItem, parent resolve.DefID) *hir.TraitItem {
	def := l.expectCurrentDef()
	l.lowerAttrs(hir.OwnerHirID(def), ai.Attrs)
	out := &hir.TraitItem{DefID: def, Parent: parent, Ident: l.ident(ai.Ident), Span: ai.Span}
	switch ai.Kind {
	case ast.AssocConst:
		out.Kind = hir.AssocConst
		out.Generics = hir.EmptyGenerics()
		out.Ty = l.lowerTy(ai.Const.Ty, implTraitDisallowed)
		if ai.Const.Expr != nil {
			body := l.lowerConstBody(ai.Span, ai.Const.Expr)
			out.Body = &body
		}
	case ast.AssocFn:
		fn := ai.Fn
		out.Kind = hir.AssocFn
		if fn.Body == nil {
			out.FnKind = hir.TraitFnRequired
			out.Names = l.lowerFnParamsToNames(&fn.Sig.Decl)
		} else {
			out.FnKind = hir.TraitFnProvided
			body := l.lowerFnBodyBlock(ai.Span, &fn.Sig.Decl, fn.Body)
			out.Body = &body
		}
		out.Generics, out.Sig = l.lowerMethodSig(&fn.Generics, &fn.Sig, def, false, nil)
	case ast.AssocTyAlias:
		ta := ai.TyAlias
		out.Kind = hir.AssocType
		out.Ty = l.lowerTy(ta.Ty, implTraitDisallowed)
		out.Generics = l.lowerGenerics(&ta.Generics, implTraitDisallowed)
		out.Bounds = l.lowerBounds(ta.Bounds, implTraitDisallowed)
	default:
		ice("macro invocation in trait member %q reached lowering unexpanded", ai.Ident.Name)
	}
	return out
}

func (l *lowerer) lowerImplItem(ai *ast.AssocItem, parent resolve.DefID) *hir.ImplItem {
	def := l.expectCurrentDef()
	out := &hir.ImplItem{DefID: def, Parent: parent, Ident: l.ident(ai.Ident), Span: ai.Span}
	switch ai.Kind {
	case ast.AssocConst:
		out.Kind = hir.AssocConst
		out.Generics = hir.EmptyGenerics()
		out.Ty = l.lowerTy(ai.Const.Ty, implTraitDisallowed)
		out.Body = l.lowerConstBody(ai.Span, ai.Const.Expr)
	case ast.AssocFn:
		fn := ai.Fn
		out.Kind = hir.AssocFn
		out.Body = l.lowerMaybeAsyncBody(ai.Span, &fn.Sig.Decl, fn.Sig.Header.Async, fn.Body)
		// a trait impl method must match the trait's signature exactly
		allow := !l.isInTraitImpl
		out.Generics, out.Sig = l.lowerMethodSig(&fn.Generics, &fn.Sig, def, allow, fn.Sig.Header.Async)
	case ast.AssocTyAlias:
		ta := ai.TyAlias
		out.Kind = hir.AssocType
		out.Generics = l.lowerGenerics(&ta.Generics, implTraitDisallowed)
		if ta.Ty == nil {
			out.Ty = l.tyErr(ai.Span)
		} else {
			out.Ty = l.lowerTy(ta.Ty, implTraitOpaque(hir.OpaqueTyAlias))
		}
	default:
		ice("macro invocation in impl member %q reached lowering unexpanded", ai.Ident.Name)
	}
	out.Defaultness = lowerDefaultness(assocDefaultness(ai), true)
	l.lowerAttrs(hir.OwnerHirID(def), ai.Attrs)
	out.Vis = l.lowerVisibility(&ai.Vis, nil)
	return out
}

func foreignDefKind(fi *ast.ForeignItem) resolve.DefKind {
	switch fi.Kind {
	case ast.ForeignFn:
		return resolve.DefFn
	case ast.ForeignStatic:
		return resolve.DefStatic
	case ast.ForeignTy:
		return resolve.DefForeignTy
	}
	return resolve.DefUnknown
}

func (l *lowerer) lowerForeignItemRef(fi *ast.ForeignItem) hir.ForeignItemRef {
	kind := foreignDefKind(fi)
	return hir.ForeignItemRef{
		ID:    l.ownerDef(fi.ID, kind),
		Ident: l.ident(fi.Ident),
		Span:  fi.Span,
		Vis:   l.lowerVisibility(&fi.Vis, &visOwner{node: fi.ID, kind: kind}),
	}
}

// lowerForeignItem lowers a declaration of an extern block. Only signatures
// exist here; a foreign fn never has a body.
func (l *lowerer) lowerForeignItem(fi *ast.ForeignItem, parent resolve.DefID) *hir.ForeignItem {
	def := l.expectCurrentDef()
	l.lowerAttrs(hir.OwnerHirID(def), fi.Attrs)
	out := &hir.ForeignItem{DefID: def, Parent: parent, Ident: l.ident(fi.Ident), Span: fi.Span}
	switch fi.Kind {
	case ast.ForeignFn:
		fn := fi.Fn
		if fn.Body != nil {
			ice("foreign fn %q has a body", fi.Ident.Name)
		}
		out.Kind = hir.ForeignFn
		out.Generics = l.addInBandDefs(&fn.Generics, def, anonPassThrough, func() {
			out.Decl = l.lowerFnDecl(&fn.Sig.Decl, false, nil)
			out.Names = l.lowerFnParamsToNames(&fn.Sig.Decl)
		})
	case ast.ForeignStatic:
		out.Kind = hir.ForeignStatic
		out.Ty = l.lowerTy(fi.Static.Ty, implTraitDisallowed)
		out.Mut = fi.Static.Mut
	case ast.ForeignTy:
		out.Kind = hir.ForeignType
	default:
		ice("macro invocation in extern block item %q reached lowering unexpanded", fi.Ident.Name)
	}
	out.Vis = l.lowerVisibility(&fi.Vis, nil)
	return out
}

func (l *lowerer) lowerVariant(v *ast.Variant) hir.Variant {
	id := l.lowerNodeID(v.ID)
	l.lowerAttrs(id, v.Attrs)
	return hir.Variant{
		HirID: id,
		Ident: l.ident(v.Ident),
		Data:  l.lowerVariantData(id, &v.Data),
		Disr:  l.lowerAnonConst(v.Disr),
		Span:  v.Span,
	}
}

// lowerVariantData lowers a field list. Tuple and unit shapes get a
// constructor sharing the attributes of parent.
func (l *lowerer) lowerVariantData(parent hir.HirID, vd *ast.VariantData) hir.VariantData {
	out := hir.VariantData{}
	switch vd.Kind {
	case ast.VariantStruct:
		out.Kind = hir.VariantStruct
	case ast.VariantTuple:
		out.Kind = hir.VariantTuple
	case ast.VariantUnit:
		out.Kind = hir.VariantUnit
	}
	if vd.Kind != ast.VariantStruct {
		out.CtorHirID = l.lowerNodeID(vd.CtorID)
		l.aliasAttrs(out.CtorHirID, parent)
	}
	for i := range vd.Fields {
		out.Fields = append(out.Fields, l.lowerFieldDef(i, &vd.Fields[i]))
	}
	return out
}

func (l *lowerer) lowerFieldDef(index int, f *ast.FieldDef) hir.FieldDef {
	ty := l.lowerTy(f.Ty, implTraitDisallowed)
	id := l.lowerNodeID(f.ID)
	l.lowerAttrs(id, f.Attrs)
	var name hir.Ident
	if f.Ident != nil {
		name = l.ident(*f.Ident)
	} else {
		name = l.identStr(strconv.Itoa(index), f.Span)
	}
	return hir.FieldDef{HirID: id, Ident: name, Vis: l.lowerVisibility(&f.Vis, nil), Ty: ty, Span: f.Span}
}
