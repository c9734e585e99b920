package hir

import "hirlower/internal/resolve"

// idWalker visits every node of the lowered tree and reports each HirID it
// finds, and each item a module or a block statement refers to. Bodies are
// visited from the body table only, never through the BodyID stored in an
// item.
type idWalker struct {
	visit   func(HirID)
	itemRef func(resolve.DefID)
}

func (w *idWalker) ref(id resolve.DefID) {
	if w.itemRef != nil {
		w.itemRef(id)
	}
}

func (w *idWalker) id(id HirID) {
	if id.IsValid() {
		w.visit(id)
	}
}

func (w *idWalker) crate(c *Crate) {
	if c.Root != nil {
		for _, id := range c.Root.ItemIDs {
			w.ref(id)
		}
	}
	for _, id := range c.ItemOrder {
		w.item(c.Items[id])
	}
	for _, id := range c.TraitItemOrder {
		w.traitItem(c.TraitItems[id])
	}
	for _, id := range c.ImplItemOrder {
		w.implItem(c.ImplItems[id])
	}
	for _, id := range c.ForeignItemOrder {
		w.foreignItem(c.ForeignItems[id])
	}
	for _, id := range c.BodyOrder {
		w.body(c.Bodies[id])
	}
	for i := range c.ExportedMacros {
		w.id(OwnerHirID(c.ExportedMacros[i].DefID))
		w.vis(&c.ExportedMacros[i].Vis)
	}
}

func (w *idWalker) item(it *Item) {
	w.id(it.HirID())
	w.vis(&it.Vis)
	switch it.Kind {
	case ItemMod:
		for _, id := range it.Mod.ItemIDs {
			w.ref(id)
		}
	case ItemUse:
		w.path(it.Use.Path)
	case ItemStatic:
		w.ty(it.Static.Ty)
	case ItemConst:
		w.ty(it.Const.Ty)
	case ItemFn:
		w.generics(it.Fn.Generics)
		w.fnDecl(it.Fn.Sig.Decl)
	case ItemForeignMod:
		for i := range it.ForeignMod.Items {
			w.vis(&it.ForeignMod.Items[i].Vis)
		}
	case ItemTyAlias:
		w.ty(it.TyAlias.Ty)
		w.generics(it.TyAlias.Generics)
	case ItemEnum:
		w.generics(it.Enum.Generics)
		for i := range it.Enum.Variants {
			v := &it.Enum.Variants[i]
			w.id(v.HirID)
			w.variantData(&v.Data)
			if v.Disr != nil {
				w.id(v.Disr.HirID)
			}
		}
	case ItemStruct, ItemUnion:
		w.generics(it.Adt.Generics)
		w.variantData(&it.Adt.Data)
	case ItemTrait:
		w.generics(it.Trait.Generics)
		w.bounds(it.Trait.Bounds)
	case ItemTraitAlias:
		w.generics(it.TraitAlias.Generics)
		w.bounds(it.TraitAlias.Bounds)
	case ItemImpl:
		w.generics(it.Impl.Generics)
		if it.Impl.OfTrait != nil {
			w.traitRef(it.Impl.OfTrait)
		}
		w.ty(it.Impl.SelfTy)
		for i := range it.Impl.Items {
			w.vis(&it.Impl.Items[i].Vis)
		}
	}
}

func (w *idWalker) traitItem(ti *TraitItem) {
	w.id(OwnerHirID(ti.DefID))
	w.generics(ti.Generics)
	w.ty(ti.Ty)
	w.bounds(ti.Bounds)
	if ti.Sig != nil {
		w.fnDecl(ti.Sig.Decl)
	}
}

func (w *idWalker) implItem(ii *ImplItem) {
	w.id(OwnerHirID(ii.DefID))
	w.vis(&ii.Vis)
	w.generics(ii.Generics)
	w.ty(ii.Ty)
	if ii.Sig != nil {
		w.fnDecl(ii.Sig.Decl)
	}
}

func (w *idWalker) foreignItem(fi *ForeignItem) {
	w.id(OwnerHirID(fi.DefID))
	w.vis(&fi.Vis)
	w.generics(fi.Generics)
	if fi.Decl != nil {
		w.fnDecl(fi.Decl)
	}
	w.ty(fi.Ty)
}

func (w *idWalker) vis(v *Visibility) {
	if v.Kind == VisRestricted {
		w.id(v.HirID)
		w.path(v.Path)
	}
}

func (w *idWalker) path(p *Path) {
	if p == nil {
		return
	}
	for i := range p.Segments {
		w.segment(&p.Segments[i])
	}
}

func (w *idWalker) segment(s *PathSegment) {
	w.id(s.HirID)
	if s.Args == nil {
		return
	}
	for _, a := range s.Args.Args {
		w.lifetime(a.Lifetime)
		w.ty(a.Type)
	}
}

func (w *idWalker) generics(g *Generics) {
	if g == nil {
		return
	}
	w.params(g.Params)
	for i := range g.Where.Predicates {
		p := &g.Where.Predicates[i]
		switch p.Kind {
		case WhereBound:
			w.params(p.BoundGenericParams)
			w.ty(p.BoundedTy)
			w.bounds(p.Bounds)
		case WhereRegion:
			w.lifetime(p.Lifetime)
			w.bounds(p.Bounds)
		case WhereEq:
			w.id(p.HirID)
			w.ty(p.Lhs)
			w.ty(p.Rhs)
		}
	}
}

func (w *idWalker) params(ps []GenericParam) {
	for i := range ps {
		p := &ps[i]
		w.id(p.HirID)
		w.bounds(p.Bounds)
		w.ty(p.Default)
		w.ty(p.Ty)
	}
}

func (w *idWalker) bounds(bs []GenericBound) {
	for i := range bs {
		b := &bs[i]
		switch b.Kind {
		case BoundTrait:
			w.params(b.Trait.BoundGenericParams)
			w.traitRef(&b.Trait.TraitRef)
		case BoundOutlives:
			w.lifetime(b.Lifetime)
		}
	}
}

func (w *idWalker) traitRef(r *TraitRef) {
	w.id(r.HirRefID)
	w.path(r.Path)
}

func (w *idWalker) lifetime(l *Lifetime) {
	if l != nil {
		w.id(l.HirID)
	}
}

func (w *idWalker) ty(t *Ty) {
	if t == nil {
		return
	}
	w.id(t.HirID)
	w.path(t.Path)
	w.ty(t.Elem)
	w.lifetime(t.Lifetime)
	if t.Len != nil {
		w.id(t.Len.HirID)
	}
	for _, e := range t.Elems {
		w.ty(e)
	}
	w.bounds(t.Bounds)
}

func (w *idWalker) fnDecl(d *FnDecl) {
	if d == nil {
		return
	}
	for _, in := range d.Inputs {
		w.ty(in)
	}
	w.ty(d.Output.Ty)
}

func (w *idWalker) variantData(vd *VariantData) {
	w.id(vd.CtorHirID)
	for i := range vd.Fields {
		f := &vd.Fields[i]
		w.id(f.HirID)
		w.vis(&f.Vis)
		w.ty(f.Ty)
	}
}

func (w *idWalker) body(b *Body) {
	for i := range b.Params {
		w.id(b.Params[i].HirID)
		w.pat(b.Params[i].Pat)
	}
	w.expr(b.Value)
}

func (w *idWalker) expr(e *Expr) {
	if e == nil {
		return
	}
	w.id(e.HirID)
	w.path(e.Path)
	w.expr(e.Callee)
	if e.Method != nil {
		w.segment(e.Method)
	}
	for _, a := range e.Args {
		w.expr(a)
	}
	w.expr(e.Lhs)
	w.expr(e.Rhs)
	w.expr(e.Operand)
	for _, el := range e.Elems {
		w.expr(el)
	}
	w.block(e.Block)
	w.expr(e.Else)
}

func (w *idWalker) block(b *Block) {
	if b == nil {
		return
	}
	w.id(b.HirID)
	for i := range b.Stmts {
		s := &b.Stmts[i]
		w.id(s.HirID)
		switch s.Kind {
		case StmtLocal:
			w.id(s.Local.HirID)
			w.pat(s.Local.Pat)
			w.ty(s.Local.Ty)
			w.expr(s.Local.Init)
		case StmtExpr, StmtSemi:
			w.expr(s.Expr)
		case StmtItem:
			w.ref(s.Item)
		}
	}
	w.expr(b.Expr)
}

func (w *idWalker) pat(p *Pat) {
	if p == nil {
		return
	}
	w.id(p.HirID)
	w.pat(p.Sub)
	for _, el := range p.Elems {
		w.pat(el)
	}
	w.path(p.Path)
}
