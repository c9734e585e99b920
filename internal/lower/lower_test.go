package lower_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/lower"
	"hirlower/internal/resolve"
	"hirlower/internal/trace"
)

// run lowers krate with validation on. Resolutions are recorded by setup
// after every builder id was handed out.
func run(t *testing.T, b *ast.Builder, krate *ast.Crate, setup func(*resolve.Table)) (*hir.Crate, *diag.Bag) {
	t.Helper()
	out, bag, err := tryRun(b, krate, setup, lower.MissingABIAllow)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return out, bag
}

func tryRun(b *ast.Builder, krate *ast.Crate, setup func(*resolve.Table), missing lower.MissingABI) (*hir.Crate, *diag.Bag, error) {
	tbl := resolve.NewTable(b.Peek())
	if setup != nil {
		setup(tbl)
	}
	bag := diag.NewBag(100)
	out, err := lower.Lower(context.Background(), krate, tbl, lower.Options{
		Reporter:   diag.BagReporter{Bag: bag},
		MissingABI: missing,
		Validate:   true,
	})
	return out, bag, err
}

// ghost returns a node id far above anything a test hands out, for
// definitions that have no node in the tree.
func ghost(n int) ast.NodeID { return ast.NodeID(1_000_000 + n) }

func segNames(c *hir.Crate, p *hir.Path) string {
	parts := make([]string, len(p.Segments))
	for i := range p.Segments {
		parts[i] = c.Name(p.Segments[i].Ident)
	}
	return strings.Join(parts, "::")
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func TestLowerStructAndNestedImport(t *testing.T) {
	b := ast.NewBuilder(1)
	s := b.UnitStruct("S")
	use := b.UseItem(b.Pub(), b.UseNested([]string{"pkg"},
		b.UseSimple("", "x"),
		b.UseSimple("z", "y"),
	))
	krate := b.Crate(s, use)

	out, bag := run(t, b, krate, func(tbl *resolve.Table) {
		x := tbl.Define(ghost(100), resolve.DefFn)
		y := tbl.Define(ghost(101), resolve.DefStruct)
		tbl.SetImport(use.Use.Nested[0].ID, resolve.Def(resolve.DefFn, x))
		tbl.SetImport(use.Use.Nested[1].ID, resolve.Def(resolve.DefStruct, y))
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}

	if got := len(out.Root.ItemIDs); got != 4 {
		t.Fatalf("root lists %d items, want 4", got)
	}
	if st := out.FindItem(hir.ItemStruct, "S"); st == nil || st.Adt.Data.Kind != hir.VariantUnit {
		t.Fatalf("unit struct S missing: %+v", st)
	}

	uses := out.ItemsOf(hir.ItemUse)
	if len(uses) != 3 {
		t.Fatalf("got %d use records, want 3", len(uses))
	}
	want := []struct {
		name, path string
		kind       hir.UseKind
		vis        hir.VisibilityKind
	}{
		{"x", "pkg::x", hir.UseSingle, hir.VisPublic},
		{"z", "pkg::y", hir.UseSingle, hir.VisPublic},
		{"pkg", "pkg", hir.UseListStem, hir.VisInherited},
	}
	for i, w := range want {
		u := uses[i]
		if got := out.Name(u.Ident); got != w.name {
			t.Errorf("use %d: name %q, want %q", i, got, w.name)
		}
		if got := segNames(out, u.Use.Path); got != w.path {
			t.Errorf("use %d: path %q, want %q", i, got, w.path)
		}
		if u.Use.Kind != w.kind {
			t.Errorf("use %d: kind %v, want %v", i, u.Use.Kind, w.kind)
		}
		if u.Vis.Kind != w.vis {
			t.Errorf("use %d: vis %v, want %v", i, u.Vis.Kind, w.vis)
		}
	}
	if res := uses[1].Use.Path.Res; res.Def != resolve.DefStruct {
		t.Errorf("renamed import resolves to %v, want a struct", res)
	}
	mod := out.Modules[resolve.CrateDefID]
	if mod == nil || len(mod.Items) != 4 {
		t.Fatalf("crate module items = %+v, want 4 entries", mod)
	}
}

func TestLowerFlattensImports(t *testing.T) {
	cases := []struct {
		name  string
		build func(b *ast.Builder) *ast.Item
		res   int
		want  int
		ident string // name of the single record, when checked
	}{
		{"nested", func(b *ast.Builder) *ast.Item {
			return b.UseItem(ast.Visibility{}, b.UseNested([]string{"a"},
				b.UseSimple("", "b"), b.UseSimple("", "c"), b.UseSimple("", "d")))
		}, 0, 4, ""},
		{"glob", func(b *ast.Builder) *ast.Item {
			return b.UseItem(ast.Visibility{}, b.UseGlob("a"))
		}, 0, 1, ""},
		{"simple", func(b *ast.Builder) *ast.Item {
			return b.UseItem(ast.Visibility{}, b.UseSimple("", "a", "b"))
		}, 1, 1, "b"},
		{"rename", func(b *ast.Builder) *ast.Item {
			return b.UseItem(ast.Visibility{}, b.UseSimple("c", "m", "a"))
		}, 1, 1, "c"},
		{"two namespaces", func(b *ast.Builder) *ast.Item {
			return b.UseItem(ast.Visibility{}, b.UseSimple("", "a", "b"))
		}, 2, 2, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ast.NewBuilder(1)
			it := tc.build(b)
			out, _ := run(t, b, b.Crate(it), func(tbl *resolve.Table) {
				var rs []resolve.Res
				if tc.res > 0 {
					rs = append(rs, resolve.Def(resolve.DefStruct, tbl.Define(ghost(50), resolve.DefStruct)))
				}
				if tc.res > 1 {
					rs = append(rs, resolve.Def(resolve.DefFn, tbl.Define(ghost(51), resolve.DefFn)))
				}
				if len(rs) > 0 {
					tbl.SetImport(it.ID, rs...)
				}
			})
			if got := len(out.Root.ItemIDs); got != tc.want {
				t.Errorf("root lists %d items, want %d", got, tc.want)
			}
			uses := out.ItemsOf(hir.ItemUse)
			if got := len(uses); got != tc.want {
				t.Errorf("%d use records, want %d", got, tc.want)
			}
			if tc.ident != "" && len(uses) == 1 {
				if got := out.Name(uses[0].Ident); got != tc.ident {
					t.Errorf("use record bound as %q, want %q", got, tc.ident)
				}
				if uses[0].Use.Kind != hir.UseSingle {
					t.Errorf("use kind = %v", uses[0].Use.Kind)
				}
			}
		})
	}
}

func TestLowerTwoNamespaceImportResolutions(t *testing.T) {
	b := ast.NewBuilder(1)
	it := b.UseItem(b.Pub(), b.UseSimple("", "a", "b"))
	out, _ := run(t, b, b.Crate(it), func(tbl *resolve.Table) {
		ty := tbl.Define(ghost(50), resolve.DefStruct)
		val := tbl.Define(ghost(51), resolve.DefFn)
		tbl.SetImport(it.ID, resolve.Def(resolve.DefStruct, ty), resolve.Def(resolve.DefFn, val))
	})
	uses := out.ItemsOf(hir.ItemUse)
	if len(uses) != 2 {
		t.Fatalf("got %d use records, want 2", len(uses))
	}
	// the extra namespace is emitted while the main record is being lowered
	extra, main := uses[0], uses[1]
	if extra.Use.Path.Res.Def != resolve.DefFn || main.Use.Path.Res.Def != resolve.DefStruct {
		t.Errorf("resolutions = %v / %v", extra.Use.Path.Res, main.Use.Path.Res)
	}
	for _, u := range uses {
		if out.Name(u.Ident) != "b" || u.Vis.Kind != hir.VisPublic {
			t.Errorf("record %d: name %q vis %v", u.DefID, out.Name(u.Ident), u.Vis.Kind)
		}
	}
	if extra.Use.Path.Segments[0].HirID == main.Use.Path.Segments[0].HirID {
		t.Error("extra record shares segment ids with the main record")
	}
}

func TestLowerRestrictedVisibilityOnNestedImport(t *testing.T) {
	b := ast.NewBuilder(1)
	vis := b.PubIn("crate", "m")
	it := b.UseItem(vis, b.UseNested([]string{"a"}, b.UseSimple("", "b"), b.UseSimple("", "c")))
	out, _ := run(t, b, b.Crate(it), nil)

	uses := out.ItemsOf(hir.ItemUse)
	if len(uses) != 3 {
		t.Fatalf("got %d use records, want 3", len(uses))
	}
	seen := map[hir.HirID]bool{}
	for _, u := range uses {
		if u.Vis.Kind != hir.VisRestricted {
			t.Errorf("%s: vis %v, want restricted", segNames(out, u.Use.Path), u.Vis.Kind)
			continue
		}
		if u.Vis.HirID.Owner != u.DefID {
			t.Errorf("%s: visibility numbered in owner %d", segNames(out, u.Use.Path), u.Vis.HirID.Owner)
		}
		if seen[u.Vis.HirID] {
			t.Errorf("visibility id %s shared", u.Vis.HirID)
		}
		seen[u.Vis.HirID] = true
		if got := segNames(out, u.Vis.Path); got != "crate::m" {
			t.Errorf("visibility path %q", got)
		}
	}
}

func TestLowerSelfImport(t *testing.T) {
	b := ast.NewBuilder(1)
	it := b.UseItem(ast.Visibility{}, b.UseNested([]string{"a", "b"}, b.UseSimple("", "self")))
	out, _ := run(t, b, b.Crate(it), nil)
	uses := out.ItemsOf(hir.ItemUse)
	if len(uses) != 2 {
		t.Fatalf("got %d use records, want 2", len(uses))
	}
	self := uses[0]
	if got := segNames(out, self.Use.Path); got != "a::b" {
		t.Errorf("self import path %q, want a::b", got)
	}
	if got := out.Name(self.Ident); got != "b" {
		t.Errorf("self import binds %q, want b", got)
	}
}

func TestLowerNestedItemStatements(t *testing.T) {
	b := ast.NewBuilder(1)
	inner := b.UseItem(ast.Visibility{}, b.UseNested([]string{"a"}, b.UseSimple("", "b")))
	helper := b.FnItem("helper", ast.Generics{}, b.FnSig(nil, nil), b.Block())
	body := b.Block(b.ItemStmt(inner), b.ItemStmt(helper), b.ExprStmt(b.IntLit("1")))
	f := b.FnItem("f", ast.Generics{}, b.FnSig(nil, nil), body)
	out, _ := run(t, b, b.Crate(f), nil)

	fn := out.FindItem(hir.ItemFn, "f")
	value := out.Body(fn.Fn.Body).Value
	stmts := value.Block.Stmts
	// the nested group lowers to two items, the fn to one
	if len(stmts) != 3 {
		t.Fatalf("got %d item statements, want 3", len(stmts))
	}
	for i, s := range stmts {
		if s.Kind != hir.StmtItem || out.Items[s.Item] == nil {
			t.Errorf("statement %d does not name a lowered item: %+v", i, s)
		}
	}
	if out.FindItem(hir.ItemFn, "helper") == nil {
		t.Error("nested fn was not lowered")
	}
	if value.Block.Expr == nil || value.Block.Expr.Kind != hir.ExprLit {
		t.Error("trailing expression lost")
	}
}

func TestLowerItemsInArrayLengths(t *testing.T) {
	b := ast.NewBuilder(1)
	// [u8; { struct <name>; 1 }]
	arr := func(name string) *ast.Ty {
		blk := b.Block(b.ItemStmt(b.UnitStruct(name)), b.ExprStmt(b.IntLit("1")))
		return b.ArrayTy(b.PathTy("u8"), b.BlockExpr(blk))
	}
	s := b.StructItem("S", ast.Generics{}, b.Field("f", arr("InField")))
	body := b.Block(b.LetStmt(b.WildPat(), arr("InLet"), nil))
	f := b.FnItem("f", ast.Generics{}, b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), arr("InParam"))}, nil), body)
	impl := b.ImplItem(ast.Generics{}, nil, arr("InSelfTy"))
	out, _ := run(t, b, b.Crate(s, f, impl), nil)

	for _, name := range []string{"InField", "InLet", "InParam", "InSelfTy"} {
		if out.FindItem(hir.ItemStruct, name) == nil {
			t.Errorf("struct %s was not lowered", name)
		}
	}
	if got := len(out.ItemOrder); got != 7 {
		t.Errorf("items = %d, want 7", got)
	}
}

func TestLowerDenseIDsAcrossItemKinds(t *testing.T) {
	b := ast.NewBuilder(1)
	u8 := func() *ast.Ty { return b.PathTy("u8") }
	tuple := b.TupleStruct("P", ast.Generics{}, b.Field("", u8()), b.Field("", u8()))
	named := b.StructItem("Q", b.Generics([]ast.GenericParam{b.TypeParam("T")}), b.Field("a", b.PathTy("T")))
	konst := b.ConstItem("C", u8(), b.BinaryExpr("+", b.IntLit("1"), b.IntLit("2")))
	static := b.StaticItem("S", u8(), true, b.IntLit("3"))
	call := b.FnItem("g", ast.Generics{}, b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), u8())}, u8()),
		b.Block(
			b.LetStmt(b.TuplePat(b.BindPat("a", false), b.WildPat()), nil, b.PathExpr("x")),
			b.SemiStmt(b.CallExpr(b.PathExpr("g"), b.PathExpr("a"))),
			b.ExprStmt(b.PathExpr("a")),
		))
	mod := b.ModItem("m", b.UnitStruct("Inner"), b.ConstItem("D", u8(), nil))
	enum := &ast.Item{ID: b.NextID(), Ident: b.Ident("E"), Kind: ast.ItemEnum, Span: b.Span(), Enum: &ast.Enum{
		Variants: []ast.Variant{
			{ID: b.NextID(), Ident: b.Ident("A"), Data: ast.VariantData{Kind: ast.VariantUnit, CtorID: b.NextID()},
				Disr: &ast.AnonConst{ID: b.NextID(), Value: b.IntLit("4")}},
			{ID: b.NextID(), Ident: b.Ident("B"), Data: ast.VariantData{Kind: ast.VariantStruct,
				Fields: []ast.FieldDef{b.Field("f", u8())}}},
		},
	}}
	krate := b.Crate(tuple, named, konst, static, call, mod, enum)
	out, _ := run(t, b, krate, nil)

	p := out.FindItem(hir.ItemStruct, "P")
	if got := out.Name(p.Adt.Data.Fields[1].Ident); got != "1" {
		t.Errorf("positional field named %q, want 1", got)
	}
	if !p.Adt.Data.CtorHirID.IsValid() {
		t.Error("tuple struct has no constructor id")
	}
	d := out.FindItem(hir.ItemConst, "D")
	if body := out.Body(d.Const.Body); body.Value.Kind != hir.ExprErr {
		t.Errorf("const without value lowered to %v, want an error expression", body.Value.Kind)
	}
	inner := out.FindItem(hir.ItemStruct, "Inner")
	mdef := out.FindItem(hir.ItemMod, "m").DefID
	if m := out.Modules[mdef]; m == nil || len(m.Items) != 2 || m.Items[0] != inner.DefID {
		t.Errorf("module m items = %+v", m)
	}
	e := out.FindItem(hir.ItemEnum, "E")
	if e.Enum.Variants[0].Disr == nil || e.Enum.Variants[1].Data.CtorHirID.IsValid() {
		t.Errorf("enum variants lowered wrong: %+v", e.Enum.Variants)
	}
}

func TestLowerAttributesFollowNodes(t *testing.T) {
	b := ast.NewBuilder(1)
	st := b.TupleStruct("P", ast.Generics{}, b.Field("", b.PathTy("u8")))
	st.Attrs = []ast.Attribute{{ID: b.NextID(), Name: "derive", Args: "Clone", Span: b.Span()}}
	krate := b.Crate(st)
	krate.Attrs = []ast.Attribute{{ID: b.NextID(), Name: "no_std", Span: b.Span()}}
	out, _ := run(t, b, krate, nil)

	p := out.FindItem(hir.ItemStruct, "P")
	if attrs := out.Attrs[p.HirID()]; len(attrs) != 1 || attrs[0].Name != "derive" {
		t.Errorf("item attrs = %+v", attrs)
	}
	if attrs := out.Attrs[p.Adt.Data.CtorHirID]; len(attrs) != 1 {
		t.Errorf("constructor does not share the item attrs: %+v", attrs)
	}
	if attrs := out.Attrs[hir.OwnerHirID(resolve.CrateDefID)]; len(attrs) != 1 || attrs[0].Name != "no_std" {
		t.Errorf("crate attrs = %+v", attrs)
	}
}

func TestLowerMacroDefinitions(t *testing.T) {
	b := ast.NewBuilder(1)
	mk := func(name string, rules bool, attrs ...string) *ast.Item {
		it := &ast.Item{ID: b.NextID(), Ident: b.Ident(name), Kind: ast.ItemMacroDef, Span: b.Span(),
			MacroDef: &ast.MacroDef{Body: "() => {}", MacroRules: rules}}
		for _, a := range attrs {
			it.Attrs = append(it.Attrs, ast.Attribute{ID: b.NextID(), Name: a, Span: b.Span()})
		}
		return it
	}
	local := mk("local", true, "allow")
	exported := mk("exported", true, "macro_export")
	macro2 := mk("m2", false)
	out, _ := run(t, b, b.Crate(local, exported, macro2), nil)

	if len(out.ExportedMacros) != 2 {
		t.Fatalf("got %d exported macros, want 2", len(out.ExportedMacros))
	}
	if got := out.Name(out.ExportedMacros[0].Ident); got != "exported" {
		t.Errorf("first exported macro %q", got)
	}
	if len(out.NonExportedMacroAttrs) != 1 || out.NonExportedMacroAttrs[0].Name != "allow" {
		t.Errorf("non-exported attrs = %+v", out.NonExportedMacroAttrs)
	}
	if len(out.Root.ItemIDs) != 0 || len(out.Items) != 0 {
		t.Errorf("macro definitions produced items: %v", out.Root.ItemIDs)
	}
}

func TestLowerInternalErrors(t *testing.T) {
	cases := []struct {
		name  string
		build func(b *ast.Builder) *ast.Item
		want  string
	}{
		{"macro call", func(b *ast.Builder) *ast.Item {
			return &ast.Item{ID: b.NextID(), Ident: b.Ident("mc"), Kind: ast.ItemMacCall, Span: b.Span(),
				MacCall: &ast.MacCall{Path: b.Path("println")}}
		}, "unexpanded"},
		{"unloaded module", func(b *ast.Builder) *ast.Item {
			it := b.ModItem("far")
			it.Mod.Unloaded = true
			return it
		}, "never loaded"},
		{"foreign fn body", func(b *ast.Builder) *ast.Item {
			fi := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("puts"), Kind: ast.ForeignFn, Span: b.Span(),
				Fn: &ast.Fn{Sig: b.FnSig(nil, nil), Body: b.Block()}}
			return &ast.Item{ID: b.NextID(), Ident: b.Ident("ffi"), Kind: ast.ItemForeignMod, Span: b.Span(),
				ForeignMod: &ast.ForeignMod{Abi: &ast.StrLit{Symbol: "C"}, Items: []*ast.ForeignItem{fi}}}
		}, "has a body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ast.NewBuilder(1)
			krate := b.Crate(b.UnitStruct("Before"), tc.build(b))
			out, _, err := tryRun(b, krate, nil, lower.MissingABIAllow)
			if err == nil {
				t.Fatal("expected an internal error")
			}
			if out != nil {
				t.Error("partial crate returned with an internal error")
			}
			if !lower.IsInternal(err) {
				t.Fatalf("error %v is not internal", err)
			}
			var ice lower.ICE
			if !errors.As(err, &ice) || !strings.Contains(ice.Msg, tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLowerCancelledContext(t *testing.T) {
	b := ast.NewBuilder(1)
	krate := b.Crate(b.UnitStruct("S"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := lower.Lower(ctx, krate, resolve.NewTable(b.Peek()), lower.Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if lower.IsInternal(err) {
		t.Error("cancellation reported as an internal error")
	}
}

func TestLowerTracesItems(t *testing.T) {
	b := ast.NewBuilder(1)
	krate := b.Crate(b.UnitStruct("S"))
	ring := trace.NewRing(64, trace.LevelDetail)
	ctx := trace.WithTrack(trace.WithTracer(context.Background(), ring), "unit")
	if _, err := lower.Lower(ctx, krate, resolve.NewTable(b.Peek()), lower.Options{}); err != nil {
		t.Fatalf("Lower: %v", err)
	}

	var pass, item *trace.Event
	for _, ev := range ring.Events() {
		if ev.Kind != trace.KindSpanEnd {
			continue
		}
		switch ev.Name {
		case "lower":
			pass = &ev
		case "item:struct":
			item = &ev
		}
	}
	if pass == nil || item == nil {
		t.Fatalf("missing spans in %+v", ring.Events())
	}
	if item.ParentID != pass.SpanID || item.Track != "unit" {
		t.Errorf("item parent=%d track=%q, want %d %q", item.ParentID, item.Track, pass.SpanID, "unit")
	}
	if name, _ := item.Attr("name"); name != "S" {
		t.Errorf("item name attr = %q", name)
	}
	if n, _ := pass.Attr("items"); n != "1" {
		t.Errorf("items attr = %q", n)
	}
}
