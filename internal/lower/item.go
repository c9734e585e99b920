package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// itemDefKind is the definition kind an item's owner is allocated with.
func itemDefKind(k ast.ItemKind) resolve.DefKind {
	switch k {
	case ast.ItemExternCrate:
		return resolve.DefExternCrate
	case ast.ItemUse:
		return resolve.DefUse
	case ast.ItemStatic:
		return resolve.DefStatic
	case ast.ItemConst:
		return resolve.DefConst
	case ast.ItemFn:
		return resolve.DefFn
	case ast.ItemMod:
		return resolve.DefMod
	case ast.ItemForeignMod:
		return resolve.DefForeignMod
	case ast.ItemGlobalAsm:
		return resolve.DefGlobalAsm
	case ast.ItemTyAlias:
		return resolve.DefTyAlias
	case ast.ItemEnum:
		return resolve.DefEnum
	case ast.ItemStruct:
		return resolve.DefStruct
	case ast.ItemUnion:
		return resolve.DefUnion
	case ast.ItemTrait:
		return resolve.DefTrait
	case ast.ItemTraitAlias:
		return resolve.DefTraitAlias
	case ast.ItemImpl:
		return resolve.DefImpl
	case ast.ItemMacroDef:
		return resolve.DefMacro
	}
	return resolve.DefUnknown
}

var hirItemKinds = [...]hir.ItemKind{
	ast.ItemExternCrate: hir.ItemExternCrate,
	ast.ItemUse:         hir.ItemUse,
	ast.ItemStatic:      hir.ItemStatic,
	ast.ItemConst:       hir.ItemConst,
	ast.ItemFn:          hir.ItemFn,
	ast.ItemMod:         hir.ItemMod,
	ast.ItemForeignMod:  hir.ItemForeignMod,
	ast.ItemGlobalAsm:   hir.ItemGlobalAsm,
	ast.ItemTyAlias:     hir.ItemTyAlias,
	ast.ItemEnum:        hir.ItemEnum,
	ast.ItemStruct:      hir.ItemStruct,
	ast.ItemUnion:       hir.ItemUnion,
	ast.ItemTrait:       hir.ItemTrait,
	ast.ItemTraitAlias:  hir.ItemTraitAlias,
	ast.ItemImpl:        hir.ItemImpl,
	ast.ItemMacroDef:    0,
	ast.ItemMacCall:     0,
}

func (l *lowerer) insertItem(it *hir.Item) {
	if err := l.out.InsertItem(it); err != nil {
		ice("%v", err)
	}
	m := l.out.Module(l.currentModule)
	m.Items = append(m.Items, it.DefID)
}

func (l *lowerer) lowerMod(m *ast.Mod) *hir.Mod {
	if m.Unloaded {
		ice("module was never loaded")
	}
	out := &hir.Mod{Inner: m.Span}
	for _, it := range m.Items {
		out.ItemIDs = append(out.ItemIDs, l.lowerItemIDs(it)...)
	}
	return out
}

// lowerItemIDs lists the definitions an item lowers to and allocates their
// owners: the item itself, every nested import group member and every extra
// namespace of a simple import. Macro definitions list nothing.
func (l *lowerer) lowerItemIDs(it *ast.Item) []resolve.DefID {
	if it.Kind == ast.ItemMacroDef {
		return nil
	}
	ids := []resolve.DefID{l.ownerDef(it.ID, itemDefKind(it.Kind))}
	if it.Kind == ast.ItemUse {
		ids = l.lowerItemIDsUseTree(it.Use, it.ID, ids)
	}
	return ids
}

func (l *lowerer) lowerItemIDsUseTree(tree *ast.UseTree, base ast.NodeID, ids []resolve.DefID) []resolve.DefID {
	switch tree.Kind {
	case ast.UseNested:
		for i := range tree.Nested {
			child := &tree.Nested[i]
			ids = append(ids, l.ownerDef(child.ID, resolve.DefUse))
			ids = l.lowerItemIDsUseTree(&child.Tree, child.ID, ids)
		}
	case ast.UseSimple:
		extra := len(l.resolver.ImportRes(base)) - 1
		for i := 0; i < extra && i < len(tree.SimpleIDs); i++ {
			ids = append(ids, l.ownerDef(tree.SimpleIDs[i], resolve.DefUse))
		}
	}
	return ids
}

// lowerItem lowers it in its own owner. Macro definitions are recorded on
// the side and produce no item.
func (l *lowerer) lowerItem(it *ast.Item) *hir.Item {
	def := l.expectCurrentDef()
	if it.Kind == ast.ItemMacroDef {
		l.lowerMacroDef(it, def)
		return nil
	}
	l.lowerAttrs(hir.OwnerHirID(def), it.Attrs)

	out := &hir.Item{
		DefID: def,
		Ident: l.ident(it.Ident),
		Vis:   l.lowerVisibility(&it.Vis, nil),
		Span:  it.Span,
		Kind:  hirItemKinds[it.Kind],
	}
	l.lowerItemKind(it, out)
	return out
}

func (l *lowerer) lowerMacroDef(it *ast.Item, def resolve.DefID) {
	if !it.MacroDef.MacroRules || ast.ContainsName(it.Attrs, "macro_export") {
		l.out.ExportedMacros = append(l.out.ExportedMacros, hir.MacroDef{
			Ident:      l.ident(it.Ident),
			Vis:        l.lowerVisibility(&it.Vis, nil),
			DefID:      def,
			Span:       it.Span,
			Body:       it.MacroDef.Body,
			MacroRules: it.MacroDef.MacroRules,
		})
		l.lowerAttrs(hir.OwnerHirID(def), it.Attrs)
		return
	}
	l.out.NonExportedMacroAttrs = append(l.out.NonExportedMacroAttrs, it.Attrs...)
}

func (l *lowerer) lowerItemKind(it *ast.Item, out *hir.Item) {
	switch it.Kind {
	case ast.ItemExternCrate:
		ec := &hir.ExternCrate{}
		if it.ExternCrate.Orig != "" {
			ec.Orig = l.strings.Intern(it.ExternCrate.Orig)
		}
		out.ExternCrate = ec

	case ast.ItemUse:
		prefix := ast.Path{Span: it.Use.Span}
		out.Use = l.lowerUseTree(it.Use, &prefix, it.ID, &out.Vis, &out.Ident, it.Attrs)

	case ast.ItemStatic:
		ty, body := l.lowerConstItem(it.Static.Ty, it.Span, it.Static.Expr)
		out.Static = &hir.Static{Ty: ty, Mut: it.Static.Mut, Body: body}

	case ast.ItemConst:
		ty, body := l.lowerConstItem(it.Const.Ty, it.Span, it.Const.Expr)
		out.Const = &hir.Const{Ty: ty, Body: body}

	case ast.ItemFn:
		out.Fn = l.lowerFnItem(it, out.DefID)

	case ast.ItemMod:
		out.Mod = l.lowerMod(it.Mod)

	case ast.ItemForeignMod:
		fm := it.ForeignMod
		out.ForeignMod = &hir.ForeignMod{Abi: l.lowerForeignModAbi(fm.Abi, it.Span)}
		for _, fi := range fm.Items {
			out.ForeignMod.Items = append(out.ForeignMod.Items, l.lowerForeignItemRef(fi))
		}

	case ast.ItemGlobalAsm:
		out.GlobalAsm = &hir.GlobalAsm{Template: it.GlobalAsm.Template}

	case ast.ItemTyAlias:
		ta := it.TyAlias
		alias := &hir.TyAlias{}
		if ta.Ty != nil {
			alias.Ty = l.lowerTy(ta.Ty, implTraitOpaque(hir.OpaqueTyAlias))
		} else {
			alias.Ty = l.tyErr(it.Span)
		}
		// bounds on a free type alias have no meaning and are dropped
		alias.Generics = l.lowerGenerics(&ta.Generics, implTraitDisallowed)
		out.TyAlias = alias

	case ast.ItemEnum:
		enum := &hir.Enum{}
		for i := range it.Enum.Variants {
			enum.Variants = append(enum.Variants, l.lowerVariant(&it.Enum.Variants[i]))
		}
		enum.Generics = l.lowerGenerics(&it.Enum.Generics, implTraitDisallowed)
		out.Enum = enum

	case ast.ItemStruct, ast.ItemUnion:
		data := l.lowerVariantData(out.HirID(), &it.Adt.Data)
		out.Adt = &hir.Adt{Data: data, Generics: l.lowerGenerics(&it.Adt.Generics, implTraitDisallowed)}

	case ast.ItemImpl:
		out.Impl = l.lowerImpl(it.Impl, out.DefID)

	case ast.ItemTrait:
		tr := it.Trait
		bounds := l.lowerBounds(tr.Bounds, implTraitDisallowed)
		refs := make([]hir.TraitItemRef, 0, len(tr.Items))
		for _, ai := range tr.Items {
			refs = append(refs, l.lowerTraitItemRef(ai))
		}
		out.Trait = &hir.Trait{
			IsAuto:   tr.IsAuto,
			Unsafe:   tr.Unsafe,
			Generics: l.lowerGenerics(&tr.Generics, implTraitDisallowed),
			Bounds:   bounds,
			Items:    refs,
		}

	case ast.ItemTraitAlias:
		out.TraitAlias = &hir.TraitAlias{
			Generics: l.lowerGenerics(&it.TraitAlias.Generics, implTraitDisallowed),
			Bounds:   l.lowerBounds(it.TraitAlias.Bounds, implTraitDisallowed),
		}

	case ast.ItemMacCall:
		ice("macro invocation %s reached lowering unexpanded", it.MacCall.Path.String())

	default:
		ice("unknown item kind %d", it.Kind)
	}
}

func (l *lowerer) lowerConstItem(ty *ast.Ty, sp source.Span, e *ast.Expr) (*hir.Ty, hir.BodyID) {
	lowered := l.lowerTy(ty, implTraitDisallowed)
	return lowered, l.lowerConstBody(sp, e)
}

func (l *lowerer) lowerFnItem(it *ast.Item, def resolve.DefID) *hir.Fn {
	fn := it.Fn
	out := &hir.Fn{}
	l.withNewScopes(func() {
		out.Body = l.lowerMaybeAsyncBody(it.Span, &fn.Sig.Decl, fn.Sig.Header.Async, fn.Body)
		var decl *hir.FnDecl
		out.Generics = l.addInBandDefs(&fn.Generics, def, anonPassThrough, func() {
			decl = l.lowerFnDecl(&fn.Sig.Decl, true, fn.Sig.Header.Async)
		})
		out.Sig = hir.FnSig{Header: l.lowerFnHeader(&fn.Sig), Decl: decl, Span: fn.Sig.Span}
	})
	return out
}

func (l *lowerer) lowerFnHeader(sig *ast.FnSig) hir.FnHeader {
	h := sig.Header
	return hir.FnHeader{
		Unsafe: h.Unsafe,
		Async:  h.Async != nil,
		Const:  h.Const,
		Abi:    l.lowerExtern(h.Ext, sig.Span),
	}
}

// lowerImpl lowers the header before the member refs, so a lifetime named in
// the header is in scope for every member.
func (l *lowerer) lowerImpl(im *ast.Impl, def resolve.DefID) *hir.Impl {
	out := &hir.Impl{
		Unsafe:      im.Unsafe,
		Negative:    im.Negative,
		Defaultness: lowerDefaultness(im.Defaultness, true),
		Const:       im.Const,
	}
	out.Generics = l.addInBandDefs(&im.Generics, def, anonCreateParameter, func() {
		if im.OfTrait != nil {
			tr := l.lowerTraitRef(im.OfTrait, implTraitDisallowed)
			out.OfTrait = &tr
			if res := tr.Path.Res; res.Kind == resolve.ResDef && res.Def == resolve.DefTrait {
				l.out.TraitImpls[res.ID] = append(l.out.TraitImpls[res.ID], def)
			}
		}
		out.SelfTy = l.lowerTy(im.SelfTy, implTraitDisallowed)
	})
	l.withInScopeLifetimeDefs(im.Generics.Params, func() {
		out.Items = make([]hir.ImplItemRef, 0, len(im.Items))
		for _, ai := range im.Items {
			out.Items = append(out.Items, l.lowerImplItemRef(ai))
		}
	})
	return out
}

func (l *lowerer) tyErr(sp source.Span) *hir.Ty {
	return &hir.Ty{HirID: l.nextID(), Kind: hir.TyErr, Span: sp}
}
