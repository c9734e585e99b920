package lower_test

import (
	"testing"

	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
)

func TestMaybeBoundMovesOntoParam(t *testing.T) {
	b := ast.NewBuilder(1)
	param := b.TypeParam("T")
	bounded := b.PathTy("T")
	g := b.Generics([]ast.GenericParam{param}, b.WhereBound(bounded, b.MaybeBound("Sized"), b.TraitBound("Clone")))
	f := b.FnItem("f", g, b.FnSig(nil, nil), b.Block())
	out, bag := run(t, b, b.Crate(f), func(tbl *resolve.Table) {
		def := tbl.Define(param.ID, resolve.DefTyParam)
		tbl.SetPath(bounded.ID, resolve.Def(resolve.DefTyParam, def))
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}

	gen := out.FindItem(hir.ItemFn, "f").Fn.Generics
	if len(gen.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(gen.Params))
	}
	bounds := gen.Params[0].Bounds
	if len(bounds) != 1 || bounds[0].Modifier != hir.BoundModMaybe {
		t.Errorf("param bounds = %+v, want the relocated ?Sized", bounds)
	}
	preds := gen.Where.Predicates
	if len(preds) != 1 || len(preds[0].Bounds) != 1 || preds[0].Bounds[0].Modifier != hir.BoundModNone {
		t.Errorf("where predicate keeps %+v, want only Clone", preds)
	}
}

func TestMaybeBoundOnNonParamIsReported(t *testing.T) {
	b := ast.NewBuilder(1)
	param := b.TypeParam("T")
	bounded := b.PathTy("Vec")
	g := b.Generics([]ast.GenericParam{param}, b.WhereBound(bounded, b.MaybeBound("Sized")))
	f := b.FnItem("f", g, b.FnSig(nil, nil), b.Block())
	out, bag := run(t, b, b.Crate(f), func(tbl *resolve.Table) {
		tbl.Define(param.ID, resolve.DefTyParam)
		tbl.SetPath(bounded.ID, resolve.Def(resolve.DefStruct, tbl.Define(ghost(1), resolve.DefStruct)))
	})
	if bag.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", bag.Len(), codes(bag))
	}
	d := bag.Items()[0]
	if d.Code != diag.LowOptionalBoundNotOnParam || d.Severity != diag.SevError {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Primary != bounded.Span {
		t.Errorf("diagnostic points at %v, want the bounded type %v", d.Primary, bounded.Span)
	}
	if d.Message != "optional bounds are only permitted at the point where a type parameter is declared" {
		t.Errorf("message = %q", d.Message)
	}

	gen := out.FindItem(hir.ItemFn, "f").Fn.Generics
	if len(gen.Params[0].Bounds) != 0 {
		t.Errorf("bound moved onto an unrelated param: %+v", gen.Params[0].Bounds)
	}
	if preds := gen.Where.Predicates; len(preds) != 1 || len(preds[0].Bounds) != 0 {
		t.Errorf("rejected bound still present: %+v", preds)
	}
}

func TestMaybeConstMaybeBoundStaysInWhereClause(t *testing.T) {
	b := ast.NewBuilder(1)
	param := b.TypeParam("T")
	bounded := b.PathTy("T")
	onParam := b.TraitBound("Sized")
	onParam.Modifier = ast.BoundModMaybeConstMaybe
	other := b.PathTy("Vec")
	onOther := b.TraitBound("Sized")
	onOther.Modifier = ast.BoundModMaybeConstMaybe
	g := b.Generics([]ast.GenericParam{param}, b.WhereBound(bounded, onParam), b.WhereBound(other, onOther))
	f := b.FnItem("f", g, b.FnSig(nil, nil), b.Block())
	out, bag := run(t, b, b.Crate(f), func(tbl *resolve.Table) {
		def := tbl.Define(param.ID, resolve.DefTyParam)
		tbl.SetPath(bounded.ID, resolve.Def(resolve.DefTyParam, def))
		tbl.SetPath(other.ID, resolve.Def(resolve.DefStruct, tbl.Define(ghost(1), resolve.DefStruct)))
	})
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	gen := out.FindItem(hir.ItemFn, "f").Fn.Generics
	if len(gen.Params[0].Bounds) != 0 {
		t.Errorf("?const ?Sized moved onto the param: %+v", gen.Params[0].Bounds)
	}
	for i, pred := range gen.Where.Predicates {
		if len(pred.Bounds) != 1 || pred.Bounds[0].Modifier != hir.BoundModMaybeConstMaybe {
			t.Errorf("predicate %d bounds = %+v", i, pred.Bounds)
		}
	}
}

func TestMaybeBoundUnderForBinderIsReported(t *testing.T) {
	b := ast.NewBuilder(1)
	param := b.TypeParam("T")
	bounded := b.PathTy("T")
	pred := b.WhereBound(bounded, b.MaybeBound("Sized"))
	pred.BoundGenericParams = []ast.GenericParam{b.LifetimeParam("'a")}
	g := b.Generics([]ast.GenericParam{param}, pred)
	f := b.FnItem("f", g, b.FnSig(nil, nil), b.Block())
	_, bag := run(t, b, b.Crate(f), func(tbl *resolve.Table) {
		def := tbl.Define(param.ID, resolve.DefTyParam)
		tbl.SetPath(bounded.ID, resolve.Def(resolve.DefTyParam, def))
	})
	if got := codes(bag); len(got) != 1 || got[0] != diag.LowOptionalBoundNotOnParam {
		t.Errorf("diagnostics = %v", got)
	}
}

func TestInBandLifetimeOnFn(t *testing.T) {
	b := ast.NewBuilder(1)
	sig := b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), b.RefTy("'a", false, b.PathTy("u8")))}, nil)
	f := b.FnItem("f", b.Generics([]ast.GenericParam{b.TypeParam("T")}), sig, b.Block())
	out, bag := run(t, b, b.Crate(f), nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	params := out.FindItem(hir.ItemFn, "f").Fn.Generics.Params
	if len(params) != 2 {
		t.Fatalf("got %d params, want T plus 'a", len(params))
	}
	if params[0].Kind != hir.GenericParamType {
		t.Errorf("explicit params must come first: %+v", params[0])
	}
	lt := params[1]
	if lt.Kind != hir.GenericParamLifetime || lt.LifetimeKind != hir.LifetimeInBand || out.Name(lt.Name.Ident) != "'a" {
		t.Errorf("in-band param = %+v", lt)
	}
}

func TestDeclaredLifetimeIsNotInBand(t *testing.T) {
	b := ast.NewBuilder(1)
	sig := b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), b.RefTy("'a", false, b.PathTy("u8")))}, nil)
	f := b.FnItem("f", b.Generics([]ast.GenericParam{b.LifetimeParam("'a")}), sig, b.Block())
	out, _ := run(t, b, b.Crate(f), nil)
	params := out.FindItem(hir.ItemFn, "f").Fn.Generics.Params
	if len(params) != 1 || params[0].LifetimeKind != hir.LifetimeExplicit {
		t.Errorf("params = %+v, want only the declared 'a", params)
	}
}

func TestImplHeaderElidedLifetimeBecomesParam(t *testing.T) {
	b := ast.NewBuilder(1)
	impl := b.ImplItem(ast.Generics{}, b.TraitRef("Tr"), b.RefTy("", false, b.PathTy("S")))
	out, bag := run(t, b, b.Crate(impl), nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	params := out.ItemsOf(hir.ItemImpl)[0].Impl.Generics.Params
	if len(params) != 1 || params[0].LifetimeKind != hir.LifetimeElided || params[0].Name.Kind != hir.ParamFresh {
		t.Errorf("impl params = %+v, want one fresh lifetime", params)
	}
}

func TestImplHeaderLifetimeVisibleInMembers(t *testing.T) {
	b := ast.NewBuilder(1)
	tr := b.TraitRef("Tr")
	tr.Path.Segments[0].Args = &ast.GenericArgs{Args: []ast.GenericArg{{Lifetime: b.Lifetime("'a")}}, Span: b.Span()}
	sig := b.FnSig([]ast.Param{b.SelfParam(true), b.Param(b.BindPat("x", false), b.RefTy("'a", false, b.PathTy("u8")))}, nil)
	m := b.AssocFn("m", ast.Generics{}, sig, b.Block())
	impl := b.ImplItem(ast.Generics{}, tr, b.PathTy("S"), m)
	out, _ := run(t, b, b.Crate(impl), nil)

	it := out.ItemsOf(hir.ItemImpl)[0]
	if params := it.Impl.Generics.Params; len(params) != 1 || params[0].LifetimeKind != hir.LifetimeInBand {
		t.Fatalf("impl params = %+v, want in-band 'a", params)
	}
	ii := out.ImplItems[it.Impl.Items[0].ID]
	if got := len(ii.Generics.Params); got != 0 {
		t.Errorf("method redeclares the impl lifetime: %d params", got)
	}
}

func TestAnonLifetimeInWhereClauseIsReported(t *testing.T) {
	b := ast.NewBuilder(1)
	bounded := b.RefTy("", false, b.PathTy("u8"))
	g := b.Generics(nil, b.WhereBound(bounded, b.TraitBound("Copy")))
	f := b.FnItem("f", g, b.FnSig(nil, nil), b.Block())
	out, bag := run(t, b, b.Crate(f), nil)
	if got := codes(bag); len(got) != 1 || got[0] != diag.LowAnonLifetimeNotAllowed {
		t.Fatalf("diagnostics = %v", got)
	}
	pred := out.FindItem(hir.ItemFn, "f").Fn.Generics.Where.Predicates[0]
	if pred.BoundedTy.Lifetime.Name.Kind != hir.LtError {
		t.Errorf("lifetime = %+v, want the error placeholder", pred.BoundedTy.Lifetime.Name)
	}
}

func TestImplTraitPositions(t *testing.T) {
	cases := []struct {
		name  string
		build func(b *ast.Builder) *ast.Item
		want  int
	}{
		{"fn return", func(b *ast.Builder) *ast.Item {
			return b.FnItem("f", ast.Generics{}, b.FnSig(nil, b.ImplTraitTy(b.TraitBound("Tr"))), b.Block())
		}, 0},
		{"fn argument", func(b *ast.Builder) *ast.Item {
			arg := b.Param(b.BindPat("x", false), b.ImplTraitTy(b.TraitBound("Tr")))
			return b.FnItem("f", ast.Generics{}, b.FnSig([]ast.Param{arg}, nil), b.Block())
		}, 1},
		{"const type", func(b *ast.Builder) *ast.Item {
			return b.ConstItem("C", b.ImplTraitTy(b.TraitBound("Tr")), b.IntLit("1"))
		}, 1},
		{"type alias", func(b *ast.Builder) *ast.Item {
			return &ast.Item{ID: b.NextID(), Ident: b.Ident("A"), Kind: ast.ItemTyAlias, Span: b.Span(),
				TyAlias: &ast.TyAlias{Ty: b.ImplTraitTy(b.TraitBound("Tr"))}}
		}, 0},
		{"trait impl method", func(b *ast.Builder) *ast.Item {
			m := b.AssocFn("m", ast.Generics{}, b.FnSig(nil, b.ImplTraitTy(b.TraitBound("Tr"))), b.Block())
			return b.ImplItem(ast.Generics{}, b.TraitRef("Tr"), b.PathTy("S"), m)
		}, 1},
		{"inherent method", func(b *ast.Builder) *ast.Item {
			m := b.AssocFn("m", ast.Generics{}, b.FnSig(nil, b.ImplTraitTy(b.TraitBound("Tr"))), b.Block())
			return b.ImplItem(ast.Generics{}, nil, b.PathTy("S"), m)
		}, 0},
		{"trait method", func(b *ast.Builder) *ast.Item {
			m := b.AssocFn("m", ast.Generics{}, b.FnSig(nil, b.ImplTraitTy(b.TraitBound("Tr"))), nil)
			return b.TraitItem("T", ast.Generics{}, m)
		}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := ast.NewBuilder(1)
			_, bag := run(t, b, b.Crate(tc.build(b)), nil)
			got := 0
			for _, d := range bag.Items() {
				if d.Code == diag.LowImplTraitNotAllowed {
					got++
				}
			}
			if got != tc.want {
				t.Errorf("got %d impl-Trait errors, want %d", got, tc.want)
			}
		})
	}
}

// A trait impl followed by an inherent impl: the second one must not inherit
// the trait-impl restriction on return types.
func TestTraitImplStateDoesNotLeak(t *testing.T) {
	b := ast.NewBuilder(1)
	ret := func() *ast.Ty { return b.ImplTraitTy(b.TraitBound("Tr")) }
	traitImpl := b.ImplItem(ast.Generics{}, b.TraitRef("Tr"), b.PathTy("S"),
		b.AssocFn("a", ast.Generics{}, b.FnSig(nil, ret()), b.Block()))
	inherent := b.ImplItem(ast.Generics{}, nil, b.PathTy("S"),
		b.AssocFn("b", ast.Generics{}, b.FnSig(nil, ret()), b.Block()))
	_, bag := run(t, b, b.Crate(traitImpl, inherent), nil)
	if got := codes(bag); len(got) != 1 {
		t.Errorf("diagnostics = %v, want exactly one for the trait impl", got)
	}
}
