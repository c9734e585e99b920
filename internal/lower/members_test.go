package lower_test

import (
	"testing"

	"hirlower/internal/abi"
	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/lower"
	"hirlower/internal/resolve"
)

func TestTraitMembersAgreeWithRefs(t *testing.T) {
	b := ast.NewBuilder(1)
	u8 := b.PathTy("u8")
	tr := b.TraitItem("Tr", ast.Generics{},
		b.AssocConst("N", u8, nil),
		b.AssocFn("req", ast.Generics{}, b.FnSig([]ast.Param{b.SelfParam(true), b.Param(b.BindPat("n", false), b.PathTy("u8"))}, nil), nil),
		b.AssocFn("prov", ast.Generics{}, b.FnSig(nil, nil), b.Block()),
		b.AssocType("Out", nil),
	)
	mod := b.ModItem("m", tr)
	out, _ := run(t, b, b.Crate(mod), nil)

	it := out.FindItem(hir.ItemTrait, "Tr")
	refs := it.Trait.Items
	if len(refs) != 4 || len(out.TraitItemOrder) != 4 {
		t.Fatalf("got %d refs and %d records, want 4", len(refs), len(out.TraitItemOrder))
	}
	wantKinds := []hir.AssocKind{hir.AssocConst, hir.AssocFn, hir.AssocFn, hir.AssocType}
	wantValue := []bool{false, false, true, false}
	for i, r := range refs {
		if r.ID != out.TraitItemOrder[i] {
			t.Errorf("ref %d names %d, record is %d", i, r.ID, out.TraitItemOrder[i])
		}
		if r.Kind != wantKinds[i] || r.Defaultness.HasValue != wantValue[i] {
			t.Errorf("ref %d = %+v", i, r)
		}
		if rec := out.TraitItems[r.ID]; rec.Parent != it.DefID {
			t.Errorf("record %d parent %d, want %d", r.ID, rec.Parent, it.DefID)
		}
	}
	if !refs[1].HasSelf || refs[2].HasSelf {
		t.Errorf("has-self flags = %v, %v", refs[1].HasSelf, refs[2].HasSelf)
	}

	req := out.TraitItems[refs[1].ID]
	if req.FnKind != hir.TraitFnRequired || len(req.Names) != 2 || out.Name(req.Names[1]) != "n" {
		t.Errorf("required fn = %+v", req)
	}
	prov := out.TraitItems[refs[2].ID]
	if prov.FnKind != hir.TraitFnProvided || prov.Body == nil {
		t.Errorf("provided fn = %+v", prov)
	}

	mdef := out.FindItem(hir.ItemMod, "m").DefID
	if m := out.Modules[mdef]; m == nil || len(m.TraitItems) != 4 || len(m.Items) != 1 {
		t.Errorf("module m = %+v", m)
	}
}

func TestImplMembersAndTraitImpls(t *testing.T) {
	b := ast.NewBuilder(1)
	tr := b.TraitItem("Tr", ast.Generics{}, b.AssocFn("go", ast.Generics{}, b.FnSig(nil, nil), nil))
	ref := b.TraitRef("Tr")
	c := b.AssocConst("K", b.PathTy("u8"), b.IntLit("1"))
	c.Vis = b.PubIn("crate")
	fn := b.AssocFn("go", ast.Generics{}, b.FnSig(nil, nil), b.Block())
	fn.Fn.Defaultness = ast.Default
	ty := b.AssocType("Out", nil)
	impl := b.ImplItem(ast.Generics{}, ref, b.PathTy("S"), c, fn, ty)
	out, _ := run(t, b, b.Crate(b.UnitStruct("S"), tr, impl), func(tbl *resolve.Table) {
		tbl.SetPath(ref.RefID, resolve.Def(resolve.DefTrait, tbl.Define(tr.ID, resolve.DefTrait)))
	})

	trDef := out.FindItem(hir.ItemTrait, "Tr").DefID
	implIt := out.ItemsOf(hir.ItemImpl)[0]
	if got := out.TraitImpls[trDef]; len(got) != 1 || got[0] != implIt.DefID {
		t.Errorf("trait impls of Tr = %v, want [%d]", got, implIt.DefID)
	}
	if implIt.Impl.OfTrait == nil || implIt.Impl.Defaultness != hir.Final {
		t.Errorf("impl header = %+v", implIt.Impl)
	}

	refs := implIt.Impl.Items
	if len(refs) != 3 || len(out.ImplItemOrder) != 3 {
		t.Fatalf("got %d refs and %d records", len(refs), len(out.ImplItemOrder))
	}
	for i, r := range refs {
		rec := out.ImplItems[r.ID]
		if rec == nil || r.ID != out.ImplItemOrder[i] || rec.Parent != implIt.DefID {
			t.Fatalf("ref %d does not match its record: %+v", i, r)
		}
		if r.Vis.Kind != rec.Vis.Kind || r.Vis.HirID != rec.Vis.HirID {
			t.Errorf("ref %d vis %+v, record vis %+v", i, r.Vis, rec.Vis)
		}
	}
	if refs[0].Vis.Kind != hir.VisRestricted || refs[0].Vis.HirID.Owner != refs[0].ID {
		t.Errorf("restricted member vis = %+v", refs[0].Vis)
	}
	if d := refs[1].Defaultness; d.Kind != hir.DefaultnessDefault || !d.HasValue {
		t.Errorf("default fn defaultness = %v", d)
	}
	if refs[0].Defaultness != hir.Final {
		t.Errorf("const defaultness = %v, want final", refs[0].Defaultness)
	}
	if out.ImplItems[refs[2].ID].Ty.Kind != hir.TyErr {
		t.Error("associated type without a value should lower to an error type")
	}
	if m := out.Modules[resolve.CrateDefID]; len(m.ImplItems) != 3 || len(m.TraitItems) != 1 {
		t.Errorf("crate module = %+v", m)
	}
}

func TestNestedItemInMethodBody(t *testing.T) {
	b := ast.NewBuilder(1)
	helper := b.UnitStruct("Helper")
	m := b.AssocFn("m", ast.Generics{}, b.FnSig(nil, nil), b.Block(b.ItemStmt(helper)))
	impl := b.ImplItem(ast.Generics{}, nil, b.PathTy("S"), m)
	out, _ := run(t, b, b.Crate(impl), nil)
	if out.FindItem(hir.ItemStruct, "Helper") == nil {
		t.Fatal("item declared in a method body was not lowered")
	}
}

func TestForeignItems(t *testing.T) {
	b := ast.NewBuilder(1)
	puts := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("puts"), Kind: ast.ForeignFn, Span: b.Span(),
		Fn: &ast.Fn{Sig: b.FnSig([]ast.Param{b.Param(b.BindPat("s", false), b.RefTy("'a", false, b.PathTy("str")))}, nil)}}
	errno := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("errno"), Kind: ast.ForeignStatic, Span: b.Span(),
		Vis: b.Pub(), Static: &ast.Static{Ty: b.PathTy("i32"), Mut: true}}
	file := &ast.ForeignItem{ID: b.NextID(), Ident: b.Ident("FILE"), Kind: ast.ForeignTy, Span: b.Span()}
	block := &ast.Item{ID: b.NextID(), Kind: ast.ItemForeignMod, Span: b.Span(),
		ForeignMod: &ast.ForeignMod{Abi: &ast.StrLit{Symbol: "C", Span: b.Span()}, Items: []*ast.ForeignItem{puts, errno, file}}}
	out, bag := run(t, b, b.Crate(block), nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}

	fm := out.ItemsOf(hir.ItemForeignMod)[0].ForeignMod
	if fm.Abi != abi.C {
		t.Errorf("abi = %v, want C", fm.Abi)
	}
	if len(fm.Items) != 3 {
		t.Fatalf("got %d refs, want 3", len(fm.Items))
	}
	fn := out.ForeignItems[fm.Items[0].ID]
	if fn.Kind != hir.ForeignFn || len(fn.Names) != 1 || len(fn.Generics.Params) != 1 {
		t.Errorf("foreign fn = %+v", fn)
	}
	st := out.ForeignItems[fm.Items[1].ID]
	if st.Kind != hir.ForeignStatic || !st.Mut || st.Vis.Kind != hir.VisPublic {
		t.Errorf("foreign static = %+v", st)
	}
	if ty := out.ForeignItems[fm.Items[2].ID]; ty.Kind != hir.ForeignType {
		t.Errorf("foreign type kind = %v", ty.Kind)
	}
}

func TestInvalidABI(t *testing.T) {
	b := ast.NewBuilder(1)
	lit := ast.StrLit{Symbol: "bogus", Span: b.Span()}
	sig := b.FnSig(nil, nil)
	sig.Header.Ext = ast.Extern{Kind: ast.ExternExplicit, Abi: lit}
	f := b.FnItem("f", ast.Generics{}, sig, b.Block())
	out, bag := run(t, b, b.Crate(f), nil)

	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.LowInvalidABI || d.Message != "invalid ABI: found `bogus`" || d.Label != "invalid ABI" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Primary != lit.Span || len(d.Help) != 1 {
		t.Errorf("diagnostic location/help = %v %v", d.Primary, d.Help)
	}
	if got := out.FindItem(hir.ItemFn, "f").Fn.Sig.Header.Abi; got != abi.Default {
		t.Errorf("abi = %v, want the default after an error", got)
	}
}

func TestMissingABI(t *testing.T) {
	for _, tc := range []struct {
		mode lower.MissingABI
		want int
	}{
		{lower.MissingABIAllow, 0},
		{lower.MissingABIWarn, 2},
	} {
		b := ast.NewBuilder(1)
		sig := b.FnSig(nil, nil)
		sig.Header.Ext = ast.Extern{Kind: ast.ExternImplicit}
		f := b.FnItem("f", ast.Generics{}, sig, b.Block())
		block := &ast.Item{ID: b.NextID(), Kind: ast.ItemForeignMod, Span: b.Span(), ForeignMod: &ast.ForeignMod{}}
		out, bag, err := tryRun(b, b.Crate(f, block), nil, tc.mode)
		if err != nil {
			t.Fatalf("Lower: %v", err)
		}
		if bag.Count(diag.SevWarning) != tc.want || bag.HasErrors() {
			t.Errorf("mode %v: %d warnings, want %d", tc.mode, bag.Count(diag.SevWarning), tc.want)
		}
		if got := out.ItemsOf(hir.ItemForeignMod)[0].ForeignMod.Abi; got != abi.Implicit {
			t.Errorf("bare extern block abi = %v, want %v", got, abi.Implicit)
		}
	}
}
