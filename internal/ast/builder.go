package ast

import "hirlower/internal/source"

// Builder hands out node ids and synthetic spans for programmatically built
// trees (tests, sample packs). Ids start right after CrateNodeID.
type Builder struct {
	File source.FileID
	next NodeID
	pos  uint32
}

// NewBuilder creates a builder whose spans point into file.
func NewBuilder(file source.FileID) *Builder {
	return &Builder{File: file, next: CrateNodeID + 1}
}

// NextID returns a fresh node id.
func (b *Builder) NextID() NodeID {
	id := b.next
	b.next++
	return id
}

// Peek returns the id NextID would hand out.
func (b *Builder) Peek() NodeID { return b.next }

// Span returns a fresh one-byte span; spans of a builder never overlap.
func (b *Builder) Span() source.Span {
	sp := source.Span{File: b.File, Start: b.pos, End: b.pos + 1}
	b.pos++
	return sp
}

func (b *Builder) Ident(name string) Ident {
	return Ident{Name: name, Span: b.Span()}
}

// Path builds `a::b::c` with a fresh id per segment.
func (b *Builder) Path(names ...string) Path {
	p := Path{Segments: make([]PathSegment, len(names))}
	for i, n := range names {
		p.Segments[i] = PathSegment{Ident: b.Ident(n), ID: b.NextID()}
	}
	if len(names) > 0 {
		p.Span = p.Segments[0].Ident.Span.To(p.Segments[len(names)-1].Ident.Span)
	}
	return p
}

func (b *Builder) Lifetime(name string) *Lifetime {
	return &Lifetime{ID: b.NextID(), Ident: b.Ident(name)}
}

// Types

func (b *Builder) PathTy(names ...string) *Ty {
	p := b.Path(names...)
	return &Ty{ID: b.NextID(), Kind: TyPath, Path: &p, Span: p.Span}
}

// RefTy builds `&'lt elem`; an empty lt means an elided lifetime.
func (b *Builder) RefTy(lt string, mut bool, elem *Ty) *Ty {
	t := &Ty{ID: b.NextID(), Kind: TyRef, Elem: elem, Mut: mut, Span: b.Span()}
	if lt != "" {
		t.Lifetime = b.Lifetime(lt)
	}
	return t
}

func (b *Builder) TupleTy(elems ...*Ty) *Ty {
	return &Ty{ID: b.NextID(), Kind: TyTuple, Elems: elems, Span: b.Span()}
}

// ArrayTy builds `[elem; len]`.
func (b *Builder) ArrayTy(elem *Ty, len *Expr) *Ty {
	return &Ty{ID: b.NextID(), Kind: TyArray, Elem: elem, Len: &AnonConst{ID: b.NextID(), Value: len}, Span: b.Span()}
}

func (b *Builder) ImplTraitTy(bounds ...GenericBound) *Ty {
	return &Ty{ID: b.NextID(), Kind: TyImplTrait, Bounds: bounds, Span: b.Span()}
}

func (b *Builder) ImplicitSelfTy() *Ty {
	return &Ty{ID: b.NextID(), Kind: TyImplicitSelf, Span: b.Span()}
}

// Bounds

func (b *Builder) TraitBound(names ...string) GenericBound {
	return b.traitBound(BoundModNone, names)
}

// MaybeBound builds `?Trait`.
func (b *Builder) MaybeBound(names ...string) GenericBound {
	return b.traitBound(BoundModMaybe, names)
}

func (b *Builder) traitBound(mod TraitBoundModifier, names []string) GenericBound {
	p := b.Path(names...)
	return GenericBound{
		Kind:     BoundTrait,
		Modifier: mod,
		Trait: &PolyTraitRef{
			TraitRef: TraitRef{Path: p, RefID: b.NextID()},
			Span:     p.Span,
		},
	}
}

func (b *Builder) OutlivesBound(lt string) GenericBound {
	return GenericBound{Kind: BoundOutlives, Lifetime: b.Lifetime(lt)}
}

// Generics

func (b *Builder) TypeParam(name string, bounds ...GenericBound) GenericParam {
	return GenericParam{ID: b.NextID(), Ident: b.Ident(name), Kind: GenericParamType, Bounds: bounds, Span: b.Span()}
}

func (b *Builder) LifetimeParam(name string, bounds ...GenericBound) GenericParam {
	return GenericParam{ID: b.NextID(), Ident: b.Ident(name), Kind: GenericParamLifetime, Bounds: bounds, Span: b.Span()}
}

func (b *Builder) ConstParam(name string, ty *Ty) GenericParam {
	return GenericParam{ID: b.NextID(), Ident: b.Ident(name), Kind: GenericParamConst, Ty: ty, Span: b.Span()}
}

// WhereBound builds `ty: bounds`.
func (b *Builder) WhereBound(ty *Ty, bounds ...GenericBound) WherePredicate {
	return WherePredicate{Kind: WhereBound, BoundedTy: ty, Bounds: bounds, Span: b.Span()}
}

func (b *Builder) Generics(params []GenericParam, preds ...WherePredicate) Generics {
	return Generics{
		Params: params,
		Where:  WhereClause{HasWhereToken: len(preds) > 0, Predicates: preds, Span: b.Span()},
		Span:   b.Span(),
	}
}

// Patterns

// BindPat builds `x` or `mut x`.
func (b *Builder) BindPat(name string, mut bool) *Pat {
	return &Pat{ID: b.NextID(), Kind: PatIdent, Ident: b.Ident(name), Binding: BindingMode{Mut: mut}, Span: b.Span()}
}

// RefBindPat builds `ref x`.
func (b *Builder) RefBindPat(name string) *Pat {
	return &Pat{ID: b.NextID(), Kind: PatIdent, Ident: b.Ident(name), Binding: BindingMode{ByRef: true}, Span: b.Span()}
}

func (b *Builder) WildPat() *Pat {
	return &Pat{ID: b.NextID(), Kind: PatWild, Span: b.Span()}
}

func (b *Builder) TuplePat(elems ...*Pat) *Pat {
	return &Pat{ID: b.NextID(), Kind: PatTuple, Elems: elems, Span: b.Span()}
}

// Expressions

func (b *Builder) IntLit(v string) *Expr {
	sp := b.Span()
	return &Expr{ID: b.NextID(), Kind: ExprLit, Lit: &Lit{Kind: LitInt, Value: v, Span: sp}, Span: sp}
}

func (b *Builder) PathExpr(names ...string) *Expr {
	p := b.Path(names...)
	return &Expr{ID: b.NextID(), Kind: ExprPath, Path: &p, Span: p.Span}
}

func (b *Builder) CallExpr(callee *Expr, args ...*Expr) *Expr {
	return &Expr{ID: b.NextID(), Kind: ExprCall, Callee: callee, Args: args, Span: b.Span()}
}

func (b *Builder) BinaryExpr(op string, lhs, rhs *Expr) *Expr {
	return &Expr{ID: b.NextID(), Kind: ExprBinary, Op: op, Lhs: lhs, Rhs: rhs, Span: b.Span()}
}

func (b *Builder) AwaitExpr(operand *Expr) *Expr {
	return &Expr{ID: b.NextID(), Kind: ExprAwait, Operand: operand, Span: b.Span()}
}

func (b *Builder) BlockExpr(blk *Block) *Expr {
	return &Expr{ID: b.NextID(), Kind: ExprBlock, Block: blk, Span: blk.Span}
}

// Statements and blocks

func (b *Builder) Block(stmts ...Stmt) *Block {
	return &Block{ID: b.NextID(), Stmts: stmts, Span: b.Span()}
}

func (b *Builder) ExprStmt(e *Expr) Stmt {
	return Stmt{ID: b.NextID(), Kind: StmtExpr, Expr: e, Span: e.Span}
}

func (b *Builder) SemiStmt(e *Expr) Stmt {
	return Stmt{ID: b.NextID(), Kind: StmtSemi, Expr: e, Span: e.Span}
}

func (b *Builder) LetStmt(pat *Pat, ty *Ty, init *Expr) Stmt {
	l := &Local{ID: b.NextID(), Pat: pat, Ty: ty, Init: init, Span: b.Span()}
	return Stmt{ID: b.NextID(), Kind: StmtLocal, Local: l, Span: l.Span}
}

func (b *Builder) ItemStmt(it *Item) Stmt {
	return Stmt{ID: b.NextID(), Kind: StmtItem, Item: it, Span: it.Span}
}

// Functions

func (b *Builder) Param(pat *Pat, ty *Ty) Param {
	return Param{ID: b.NextID(), Pat: pat, Ty: ty, Span: b.Span()}
}

// SelfParam builds `&self` (ref true) or `self`.
func (b *Builder) SelfParam(ref bool) Param {
	ty := b.ImplicitSelfTy()
	if ref {
		ty = b.RefTy("", false, ty)
	}
	return b.Param(b.BindPat(KwSelfLower, false), ty)
}

// FnSig builds a signature; a nil ret means the default return type.
func (b *Builder) FnSig(params []Param, ret *Ty) FnSig {
	return FnSig{Decl: FnDecl{Inputs: params, Output: FnRetTy{Ty: ret, Span: b.Span()}}, Span: b.Span()}
}

// Async returns an async marker with fresh closure and return ids.
func (b *Builder) Async() *Async {
	return &Async{ClosureID: b.NextID(), ReturnID: b.NextID(), Span: b.Span()}
}

// Items

func (b *Builder) item(kind ItemKind, name string) *Item {
	return &Item{ID: b.NextID(), Ident: b.Ident(name), Kind: kind, Span: b.Span()}
}

func (b *Builder) FnItem(name string, g Generics, sig FnSig, body *Block) *Item {
	it := b.item(ItemFn, name)
	it.Fn = &Fn{Generics: g, Sig: sig, Body: body}
	return it
}

// UnitStruct builds `struct Name;`.
func (b *Builder) UnitStruct(name string) *Item {
	it := b.item(ItemStruct, name)
	it.Adt = &Adt{Data: VariantData{Kind: VariantUnit, CtorID: b.NextID()}}
	return it
}

// Field builds a named field; an empty name builds a positional one.
func (b *Builder) Field(name string, ty *Ty) FieldDef {
	f := FieldDef{ID: b.NextID(), Ty: ty, Span: b.Span()}
	if name != "" {
		id := b.Ident(name)
		f.Ident = &id
	}
	return f
}

func (b *Builder) StructItem(name string, g Generics, fields ...FieldDef) *Item {
	it := b.item(ItemStruct, name)
	it.Adt = &Adt{Generics: g, Data: VariantData{Kind: VariantStruct, Fields: fields}}
	return it
}

func (b *Builder) TupleStruct(name string, g Generics, fields ...FieldDef) *Item {
	it := b.item(ItemStruct, name)
	it.Adt = &Adt{Generics: g, Data: VariantData{Kind: VariantTuple, Fields: fields, CtorID: b.NextID()}}
	return it
}

func (b *Builder) ModItem(name string, items ...*Item) *Item {
	it := b.item(ItemMod, name)
	it.Mod = &Mod{Inline: true, Items: items, Span: it.Span}
	return it
}

func (b *Builder) ConstItem(name string, ty *Ty, e *Expr) *Item {
	it := b.item(ItemConst, name)
	it.Const = &Const{Ty: ty, Expr: e}
	return it
}

func (b *Builder) StaticItem(name string, ty *Ty, mut bool, e *Expr) *Item {
	it := b.item(ItemStatic, name)
	it.Static = &Static{Ty: ty, Mut: mut, Expr: e}
	return it
}

func (b *Builder) TraitItem(name string, g Generics, items ...*AssocItem) *Item {
	it := b.item(ItemTrait, name)
	it.Trait = &Trait{Generics: g, Items: items}
	return it
}

// ImplItem builds `impl<G> trait for self { items }`; a nil trait builds an inherent impl.
func (b *Builder) ImplItem(g Generics, trait *TraitRef, self *Ty, items ...*AssocItem) *Item {
	it := b.item(ItemImpl, "")
	it.Impl = &Impl{Generics: g, OfTrait: trait, SelfTy: self, Items: items}
	return it
}

func (b *Builder) TraitRef(names ...string) *TraitRef {
	return &TraitRef{Path: b.Path(names...), RefID: b.NextID()}
}

func (b *Builder) AssocFn(name string, g Generics, sig FnSig, body *Block) *AssocItem {
	return &AssocItem{
		ID: b.NextID(), Ident: b.Ident(name), Kind: AssocFn, Span: b.Span(),
		Fn: &Fn{Generics: g, Sig: sig, Body: body},
	}
}

func (b *Builder) AssocConst(name string, ty *Ty, e *Expr) *AssocItem {
	return &AssocItem{
		ID: b.NextID(), Ident: b.Ident(name), Kind: AssocConst, Span: b.Span(),
		Const: &Const{Ty: ty, Expr: e},
	}
}

func (b *Builder) AssocType(name string, ty *Ty) *AssocItem {
	return &AssocItem{
		ID: b.NextID(), Ident: b.Ident(name), Kind: AssocTyAlias, Span: b.Span(),
		TyAlias: &TyAlias{Ty: ty},
	}
}

// Imports

// UseItem wraps a tree into a `use` item.
func (b *Builder) UseItem(vis Visibility, tree UseTree) *Item {
	it := b.item(ItemUse, "")
	it.Vis = vis
	it.Use = &tree
	it.Ident = tree.Ident()
	return it
}

// UseSimple builds `a::b [as rename]`; empty rename means none.
func (b *Builder) UseSimple(rename string, names ...string) UseTree {
	t := UseTree{Prefix: b.Path(names...), Kind: UseSimple, Span: b.Span()}
	t.SimpleIDs = [2]NodeID{b.NextID(), b.NextID()}
	if rename != "" {
		r := b.Ident(rename)
		t.Rename = &r
	}
	return t
}

func (b *Builder) UseGlob(names ...string) UseTree {
	return UseTree{Prefix: b.Path(names...), Kind: UseGlob, Span: b.Span()}
}

// UseNested builds `prefix::{children}`.
func (b *Builder) UseNested(prefix []string, children ...UseTree) UseTree {
	t := UseTree{Prefix: b.Path(prefix...), Kind: UseNested, Span: b.Span()}
	for _, c := range children {
		t.Nested = append(t.Nested, NestedUseTree{Tree: c, ID: b.NextID()})
	}
	return t
}

// Visibilities

func (b *Builder) Pub() Visibility {
	return Visibility{Kind: VisPublic, Span: b.Span()}
}

// PubIn builds `pub(in path)`.
func (b *Builder) PubIn(names ...string) Visibility {
	p := b.Path(names...)
	return Visibility{Kind: VisRestricted, Path: &p, ID: b.NextID(), Span: b.Span()}
}

// Crate wraps items into a crate.
func (b *Builder) Crate(items ...*Item) *Crate {
	return &Crate{Module: Mod{Inline: true, Items: items}, Span: b.Span()}
}
