// Package testkit builds ready-made surface crates together with their
// resolutions. Tests use them as fixtures and `hirlower sample` writes them
// out as packs.
package testkit

import (
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"

	"hirlower/internal/ast"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// Scenario is a surface crate, the source text its interesting spans point
// into, and the resolutions an earlier phase would have produced.
type Scenario struct {
	Name   string
	Path   string
	Source string
	Crate  *ast.Crate
	Table  *resolve.Table
	// Expect lists the diagnostic codes lowering should report, in order.
	Expect []string
}

// Builder wraps ast.Builder with spans that can be pinned to source text.
type Builder struct {
	*ast.Builder
	src string
}

func newBuilder(src string) *Builder {
	return &Builder{Builder: ast.NewBuilder(0), src: src}
}

// At returns the span of the first occurrence of needle. A missing needle is
// a broken fixture and panics.
func (b *Builder) At(needle string) source.Span {
	idx := strings.Index(b.src, needle)
	if idx < 0 {
		panic(fmt.Sprintf("testkit: %q not found in scenario source", needle))
	}
	start, err := safecast.Conv[uint32](idx)
	if err != nil {
		panic(err)
	}
	end, err := safecast.Conv[uint32](idx + len(needle))
	if err != nil {
		panic(err)
	}
	return source.Span{File: b.File, Start: start, End: end}
}

// externNode numbers definitions from other crates. They have no surface node
// and must stay clear of the ids a table hands out while lowering.
const externNode ast.NodeID = 1 << 24

var registry = map[string]func() *Scenario{
	"sample":  Sample,
	"imports": Imports,
	"clean":   Clean,
}

// Names lists the registered scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get builds the scenario called name.
func Get(name string) (*Scenario, bool) {
	mk, ok := registry[name]
	if !ok {
		return nil, false
	}
	return mk(), true
}

const sampleSource = `use std::{fmt::{self, Display}, io::*};

pub(crate) struct Point { pub x: i32, y: i32 }

enum Shape { Dot, Pair(i32, i32), Named { r: u8 } }

trait Area {
    const SIDES: u8;
    fn area(&self) -> u32;
    fn name(&self) -> u8 { 0 }
    type Out;
}

impl Area for Point {
    const SIDES: u8 = 4;
    fn area(&self) -> u32 { 1 }
    type Out = u8;
}

async fn fetch((a, b): (u8, u8), _: u8) -> u8 { a.await }

extern "C" {
    fn puts(s: &'a str);
    static mut errno: i32;
    type FILE;
}

extern "bogus" fn broken() {}

fn show(x: impl Display) {}

#[macro_export]
macro_rules! point { () => {} }
`

// Sample covers every item family the lowering pass handles and triggers two
// user diagnostics: an unknown ABI and `impl Trait` in argument position.
func Sample() *Scenario {
	b := newBuilder(sampleSource)
	u8Ty := func() *ast.Ty { return b.PathTy("u8") }
	i32Ty := func() *ast.Ty { return b.PathTy("i32") }

	// use std::{fmt::{self, Display}, io::*};
	fmtSelf := b.UseSimple("", "self")
	display := b.UseSimple("", "Display")
	fmtGroup := b.UseNested([]string{"fmt"}, fmtSelf, display)
	use := b.UseItem(ast.Visibility{}, b.UseNested([]string{"std"}, fmtGroup, b.UseGlob("io")))
	use.Span = b.At("use std::{fmt::{self, Display}, io::*};")

	x := b.Field("x", i32Ty())
	x.Vis = b.Pub()
	point := b.StructItem("Point", ast.Generics{}, x, b.Field("y", i32Ty()))
	point.Vis = ast.Visibility{Kind: ast.VisCrate, Span: b.At("pub(crate)")}
	point.Span = b.At("pub(crate) struct Point { pub x: i32, y: i32 }")

	shape := &ast.Item{ID: b.NextID(), Ident: b.Ident("Shape"), Kind: ast.ItemEnum, Span: b.At("enum Shape")}
	shape.Enum = &ast.Enum{Variants: []ast.Variant{
		{ID: b.NextID(), Ident: b.Ident("Dot"), Data: ast.VariantData{Kind: ast.VariantUnit, CtorID: b.NextID()}, Span: b.Span()},
		{ID: b.NextID(), Ident: b.Ident("Pair"), Data: ast.VariantData{
			Kind: ast.VariantTuple, Fields: []ast.FieldDef{b.Field("", i32Ty()), b.Field("", i32Ty())}, CtorID: b.NextID(),
		}, Span: b.Span()},
		{ID: b.NextID(), Ident: b.Ident("Named"), Data: ast.VariantData{
			Kind: ast.VariantStruct, Fields: []ast.FieldDef{b.Field("r", u8Ty())},
		}, Span: b.Span()},
	}}

	refSelf := func() ast.Param { return b.SelfParam(true) }
	area := b.TraitItem("Area", ast.Generics{},
		b.AssocConst("SIDES", u8Ty(), nil),
		b.AssocFn("area", ast.Generics{}, b.FnSig([]ast.Param{refSelf()}, b.PathTy("u32")), nil),
		b.AssocFn("name", ast.Generics{}, b.FnSig([]ast.Param{refSelf()}, u8Ty()), b.Block(b.ExprStmt(b.IntLit("0")))),
		b.AssocType("Out", nil),
	)
	area.Span = b.At("trait Area")

	areaRef := b.TraitRef("Area")
	impl := b.ImplItem(ast.Generics{}, areaRef, b.PathTy("Point"),
		b.AssocConst("SIDES", u8Ty(), b.IntLit("4")),
		b.AssocFn("area", ast.Generics{}, b.FnSig([]ast.Param{refSelf()}, b.PathTy("u32")), b.Block(b.ExprStmt(b.IntLit("1")))),
		b.AssocType("Out", u8Ty()),
	)
	impl.Span = b.At("impl Area for Point")

	fetchSig := b.FnSig([]ast.Param{
		b.Param(b.TuplePat(b.BindPat("a", false), b.BindPat("b", false)), b.TupleTy(u8Ty(), u8Ty())),
		b.Param(b.WildPat(), u8Ty()),
	}, u8Ty())
	fetchSig.Header.Async = b.Async()
	fetch := b.FnItem("fetch", ast.Generics{}, fetchSig, b.Block(b.ExprStmt(b.AwaitExpr(b.PathExpr("a")))))
	fetch.Span = b.At("async fn fetch")

	puts := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("puts"), Kind: ast.ForeignFn, Span: b.At("fn puts"),
		Fn: &ast.Fn{Sig: b.FnSig([]ast.Param{b.Param(b.BindPat("s", false), b.RefTy("'a", false, b.PathTy("str")))}, nil)}}
	errno := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("errno"), Kind: ast.ForeignStatic, Span: b.At("static mut errno"),
		Static: &ast.Static{Ty: i32Ty(), Mut: true}}
	file := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("FILE"), Kind: ast.ForeignTy, Span: b.At("type FILE")}
	externC := &ast.Item{ID: b.NextID(), Kind: ast.ItemForeignMod, Span: b.At(`extern "C" {`), ForeignMod: &ast.ForeignMod{
		Abi:   &ast.StrLit{Symbol: "C", Span: b.At(`"C"`)},
		Items: []*ast.ForeignItem{puts, errno, file},
	}}

	brokenSig := b.FnSig(nil, nil)
	brokenSig.Header.Ext = ast.Extern{Kind: ast.ExternExplicit, Abi: ast.StrLit{Symbol: "bogus", Span: b.At(`"bogus"`)}}
	broken := b.FnItem("broken", ast.Generics{}, brokenSig, b.Block())
	broken.Span = b.At(`extern "bogus" fn broken() {}`)

	implDisplay := b.ImplTraitTy(b.TraitBound("Display"))
	implDisplay.Span = b.At("impl Display")
	show := b.FnItem("show", ast.Generics{}, b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), implDisplay)}, nil), b.Block())
	show.Span = b.At("fn show(x: impl Display) {}")

	macro := &ast.Item{ID: b.NextID(), Ident: b.Ident("point"), Kind: ast.ItemMacroDef, Span: b.At("macro_rules! point"),
		Attrs:    []ast.Attribute{{ID: b.NextID(), Name: "macro_export", Span: b.At("#[macro_export]")}},
		MacroDef: &ast.MacroDef{Body: "() => {}", MacroRules: true}}

	krate := b.Crate(use, point, shape, area, impl, fetch, externC, broken, show, macro)
	krate.Span = source.Span{File: b.File, Start: 0, End: b.At(sampleSource).End}

	tbl := resolve.NewTable(b.Peek())
	traitDef := tbl.Define(area.ID, resolve.DefTrait)
	tbl.SetPath(areaRef.RefID, resolve.Def(resolve.DefTrait, traitDef))
	tbl.SetPath(impl.Impl.SelfTy.ID, resolve.Def(resolve.DefStruct, tbl.Define(point.ID, resolve.DefStruct)))
	fmtDef := tbl.Define(externNode, resolve.DefMod)
	tbl.SetImport(fmtGroup.Nested[0].ID, resolve.Def(resolve.DefMod, fmtDef))
	// Display lives in the type and macro namespaces
	displayDef := tbl.Define(externNode+1, resolve.DefTrait)
	tbl.SetImport(fmtGroup.Nested[1].ID, resolve.Def(resolve.DefTrait, displayDef), resolve.Def(resolve.DefMacro, displayDef))

	return &Scenario{
		Name:   "sample",
		Path:   "sample.rs",
		Source: sampleSource,
		Crate:  krate,
		Table:  tbl,
		Expect: []string{"LOW5001", "LOW5003"},
	}
}

const importsSource = `pub mod net {
    pub(in crate::net) use self::inner::{Socket as Sock, Addr, proto::*};
    pub use crate::net::inner::self;
    mod inner {}
}
`

// Imports exercises import flattening: renamed and glob leaves inside a
// group, a restricted visibility copied onto every leaf and a `self` leaf.
func Imports() *Scenario {
	b := newBuilder(importsSource)

	group := b.UseNested([]string{"self", "inner"},
		b.UseSimple("Sock", "Socket"),
		b.UseSimple("", "Addr"),
		b.UseGlob("proto"),
	)
	restricted := b.PubIn("crate", "net")
	restricted.Span = b.At("pub(in crate::net)")
	grouped := b.UseItem(restricted, group)
	grouped.Span = b.At("pub(in crate::net) use self::inner::{Socket as Sock, Addr, proto::*};")

	selfLeaf := b.UseItem(b.Pub(), b.UseSimple("", "crate", "net", "inner", "self"))
	selfLeaf.Span = b.At("pub use crate::net::inner::self;")

	inner := b.ModItem("inner")
	inner.Span = b.At("mod inner {}")
	net := b.ModItem("net", grouped, selfLeaf, inner)
	net.Vis = b.Pub()
	net.Span = b.At("pub mod net")

	krate := b.Crate(net)
	krate.Span = b.At(importsSource)

	tbl := resolve.NewTable(b.Peek())
	netDef := tbl.Define(net.ID, resolve.DefMod)
	tbl.SetPath(restricted.ID, resolve.Def(resolve.DefMod, netDef))
	innerDef := tbl.Define(inner.ID, resolve.DefMod)
	tbl.SetImport(selfLeaf.ID, resolve.Def(resolve.DefMod, innerDef))
	sock := tbl.Define(externNode, resolve.DefStruct)
	tbl.SetImport(group.Nested[0].ID, resolve.Def(resolve.DefStruct, sock), resolve.Def(resolve.DefCtor, sock))

	return &Scenario{
		Name:   "imports",
		Path:   "imports.rs",
		Source: importsSource,
		Crate:  krate,
		Table:  tbl,
	}
}

const cleanSource = `mod shapes {
    pub struct Wrapper<'a, T>(&'a T) where T: ?Sized;
    pub const LIMIT: u8 = 8;
    pub static mut COUNT: u8 = 0;
    pub fn first<'a>(xs: &'a [u8], n: &u8) -> &'a u8 { xs }
    impl<T> Wrapper<'_, T> { pub fn get(&self) -> u8 { LIMIT } }
}
`

// Clean lowers without any diagnostic: declared and in-band lifetimes, `'_`
// in an impl header, a `?Sized` bound moved from the where clause onto its
// parameter, statics and consts with bodies.
func Clean() *Scenario {
	b := newBuilder(cleanSource)

	tParam := b.TypeParam("T")
	bounded := b.PathTy("T")
	wrapper := b.TupleStruct("Wrapper",
		b.Generics([]ast.GenericParam{b.LifetimeParam("'a"), tParam}, b.WhereBound(bounded, b.MaybeBound("Sized"))),
		b.Field("", b.RefTy("'a", false, b.PathTy("T"))))
	wrapper.Vis = b.Pub()
	wrapper.Span = b.At("pub struct Wrapper<'a, T>(&'a T) where T: ?Sized;")

	limit := b.ConstItem("LIMIT", b.PathTy("u8"), b.IntLit("8"))
	limit.Vis = b.Pub()
	limit.Span = b.At("pub const LIMIT: u8 = 8;")
	count := b.StaticItem("COUNT", b.PathTy("u8"), true, b.IntLit("0"))
	count.Vis = b.Pub()
	count.Span = b.At("pub static mut COUNT: u8 = 0;")

	firstSig := b.FnSig([]ast.Param{
		b.Param(b.BindPat("xs", false), b.RefTy("'a", false, b.PathTy("u8"))),
		b.Param(b.BindPat("n", false), b.RefTy("", false, b.PathTy("u8"))),
	}, b.RefTy("'a", false, b.PathTy("u8")))
	first := b.FnItem("first", b.Generics([]ast.GenericParam{b.LifetimeParam("'a")}), firstSig, b.Block(b.ExprStmt(b.PathExpr("xs"))))
	first.Vis = b.Pub()
	first.Span = b.At("pub fn first")

	get := b.AssocFn("get", ast.Generics{}, b.FnSig([]ast.Param{b.SelfParam(true)}, b.PathTy("u8")), b.Block(b.ExprStmt(b.PathExpr("LIMIT"))))
	get.Vis = b.Pub()
	selfTy := b.PathTy("Wrapper")
	selfTy.Path.Segments[0].Args = &ast.GenericArgs{Args: []ast.GenericArg{
		{Lifetime: b.Lifetime("'_")},
		{Type: b.PathTy("T")},
	}}
	impl := b.ImplItem(b.Generics([]ast.GenericParam{b.TypeParam("T")}), nil, selfTy, get)
	impl.Span = b.At("impl<T> Wrapper<'_, T>")

	shapes := b.ModItem("shapes", wrapper, limit, count, first, impl)
	shapes.Span = b.At("mod shapes")
	krate := b.Crate(shapes)
	krate.Span = b.At(cleanSource)

	tbl := resolve.NewTable(b.Peek())
	tbl.SetPath(bounded.ID, resolve.Def(resolve.DefTyParam, tbl.Define(tParam.ID, resolve.DefTyParam)))

	return &Scenario{
		Name:   "clean",
		Path:   "clean.rs",
		Source: cleanSource,
		Crate:  krate,
		Table:  tbl,
	}
}
