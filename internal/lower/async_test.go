package lower_test

import (
	"testing"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
)

// asyncParts digs the generator closure and its capture block out of an
// async fn body.
func asyncParts(t *testing.T, c *hir.Crate, id hir.BodyID) (outer, inner *hir.Body, blk *hir.Block) {
	t.Helper()
	outer = c.Body(id)
	if outer.Value.Kind != hir.ExprClosure {
		t.Fatalf("async body value is %v, want a closure", outer.Value.Kind)
	}
	inner = c.Body(outer.Value.Closure.Body)
	if inner == nil || inner.Value.Kind != hir.ExprBlock {
		t.Fatalf("generator body missing or not a block: %+v", inner)
	}
	return outer, inner, inner.Value.Block
}

func TestAsyncFnSimpleParam(t *testing.T) {
	b := ast.NewBuilder(1)
	sig := b.FnSig([]ast.Param{b.Param(b.BindPat("x", false), b.PathTy("u8"))}, b.PathTy("u8"))
	sig.Header.Async = b.Async()
	f := b.FnItem("f", ast.Generics{}, sig, b.Block(b.ExprStmt(b.AwaitExpr(b.PathExpr("x")))))
	out, _ := run(t, b, b.Crate(f), nil)

	fn := out.FindItem(hir.ItemFn, "f").Fn
	if !fn.Sig.Header.Async {
		t.Error("header lost async")
	}
	ret := fn.Sig.Decl.Output.Ty
	if ret == nil || ret.Kind != hir.TyOpaque || ret.Origin != hir.OpaqueAsyncFn {
		t.Fatalf("return type %+v, want the async opaque type", ret)
	}
	if ret.Elem == nil || ret.Elem.Kind != hir.TyPath {
		t.Errorf("async output type %+v, want u8", ret.Elem)
	}

	outer, inner, blk := asyncParts(t, out, fn.Body)
	if outer.Generator != hir.NotGenerator || inner.Generator != hir.GeneratorAsyncFn {
		t.Errorf("generator kinds = %v / %v", outer.Generator, inner.Generator)
	}
	if !outer.Value.Closure.CaptureByValue {
		t.Error("async closure does not capture by value")
	}
	if len(outer.Params) != 1 || out.Name(outer.Params[0].Pat.Ident) != "x" {
		t.Fatalf("outer params = %+v", outer.Params)
	}
	if len(blk.Stmts) != 1 {
		t.Fatalf("simple param produced %d statements, want 1", len(blk.Stmts))
	}
	local := blk.Stmts[0].Local
	if local.Source != hir.LocalAsyncFn || local.Pat.Kind != hir.PatBinding || out.Name(local.Pat.Ident) != "x" {
		t.Errorf("capture local = %+v", local)
	}
	if local.Init.Path.Res.Local == 0 {
		t.Error("capture initializer does not refer to the new binding")
	}
	if blk.Expr == nil || blk.Expr.Kind != hir.ExprDropTemps || blk.Expr.Operand.Kind != hir.ExprBlock {
		t.Fatalf("user block not wrapped in drop-temps: %+v", blk.Expr)
	}
	user := blk.Expr.Operand.Block
	if user.Expr == nil || user.Expr.Kind != hir.ExprAwait {
		t.Errorf("user block tail = %+v, want await", user.Expr)
	}
}

func TestAsyncFnPatternParamMovesFirst(t *testing.T) {
	b := ast.NewBuilder(1)
	pat := b.TuplePat(b.BindPat("a", false), b.BindPat("b", false))
	sig := b.FnSig([]ast.Param{b.Param(pat, b.TupleTy(b.PathTy("u8"), b.PathTy("u8")))}, nil)
	sig.Header.Async = b.Async()
	f := b.FnItem("f", ast.Generics{}, sig, b.Block())
	out, _ := run(t, b, b.Crate(f), nil)

	outer, _, blk := asyncParts(t, out, out.FindItem(hir.ItemFn, "f").Fn.Body)
	if got := out.Name(outer.Params[0].Pat.Ident); got != "__arg0" {
		t.Errorf("pattern param renamed to %q, want __arg0", got)
	}
	if len(blk.Stmts) != 2 {
		t.Fatalf("pattern param produced %d statements, want 2", len(blk.Stmts))
	}
	move, bind := blk.Stmts[0].Local, blk.Stmts[1].Local
	if move.Pat.Binding != hir.BindMutable || out.Name(move.Pat.Ident) != "__arg0" {
		t.Errorf("first statement = %+v, want `let mut __arg0`", move.Pat)
	}
	if bind.Pat.Kind != hir.PatTuple {
		t.Errorf("second statement binds %v, want the original tuple pattern", bind.Pat.Kind)
	}
	if ret := out.FindItem(hir.ItemFn, "f").Fn.Sig.Decl.Output.Ty; ret.Elem != nil {
		t.Errorf("default return got an output type: %+v", ret.Elem)
	}
}

// Capture statements run in parameter order, so the bindings they introduce
// are dropped last to first at the end of the generator.
func TestAsyncFnCaptureOrder(t *testing.T) {
	b := ast.NewBuilder(1)
	u8 := func() *ast.Ty { return b.PathTy("u8") }
	params := []ast.Param{
		b.Param(b.BindPat("a", false), u8()),
		b.Param(b.WildPat(), u8()),
		b.Param(b.TuplePat(b.BindPat("c", false), b.BindPat("d", false)), b.TupleTy(u8(), u8())),
	}
	sig := b.FnSig(params, nil)
	sig.Header.Async = b.Async()
	f := b.FnItem("f", ast.Generics{}, sig, b.Block())
	out, _ := run(t, b, b.Crate(f), nil)

	outer, _, blk := asyncParts(t, out, out.FindItem(hir.ItemFn, "f").Fn.Body)
	wantParams := []string{"a", "_", "__arg2"}
	for i, w := range wantParams {
		if got := out.Name(outer.Params[i].Pat.Ident); got != w {
			t.Errorf("param %d renamed to %q, want %q", i, got, w)
		}
	}

	type shape struct {
		kind hir.PatKind
		mode hir.BindingMode
		name string
	}
	want := []shape{
		{hir.PatBinding, hir.BindUnannotated, "a"},
		{hir.PatBinding, hir.BindMutable, "_"},
		{hir.PatWild, 0, ""},
		{hir.PatBinding, hir.BindMutable, "__arg2"},
		{hir.PatTuple, 0, ""},
	}
	if len(blk.Stmts) != len(want) {
		t.Fatalf("got %d capture statements, want %d", len(blk.Stmts), len(want))
	}
	for i, w := range want {
		p := blk.Stmts[i].Local.Pat
		got := shape{kind: p.Kind}
		if p.Kind == hir.PatBinding {
			got.mode, got.name = p.Binding, out.Name(p.Ident)
		}
		if got != w {
			t.Errorf("statement %d binds %+v, want %+v", i, got, w)
		}
	}
}

func TestAsyncFnWithoutBodyIsPlain(t *testing.T) {
	b := ast.NewBuilder(1)
	sig := b.FnSig(nil, nil)
	sig.Header.Async = b.Async()
	f := b.FnItem("f", ast.Generics{}, sig, nil)
	out, _ := run(t, b, b.Crate(f), nil)
	body := out.Body(out.FindItem(hir.ItemFn, "f").Fn.Body)
	if body.Value.Kind != hir.ExprErr {
		t.Errorf("bodyless async fn lowered to %v, want an error expression", body.Value.Kind)
	}
}

func TestAsyncMethodInImpl(t *testing.T) {
	b := ast.NewBuilder(1)
	sig := b.FnSig([]ast.Param{b.SelfParam(true)}, nil)
	sig.Header.Async = b.Async()
	m := b.AssocFn("run", ast.Generics{}, sig, b.Block())
	impl := b.ImplItem(ast.Generics{}, nil, b.PathTy("S"), m)
	out, bag := run(t, b, b.Crate(b.UnitStruct("S"), impl), nil)
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", codes(bag))
	}
	ii := out.ImplItems[out.ImplItemOrder[0]]
	if ii.Sig.Decl.ImplicitSelf != hir.ImplicitSelfImmRef {
		t.Errorf("implicit self = %v, want &self", ii.Sig.Decl.ImplicitSelf)
	}
	// elided lifetimes in method signatures are left to inference
	if got := len(ii.Generics.Params); got != 0 {
		t.Errorf("method has %d generic params, want 0", got)
	}
	outer, _, blk := asyncParts(t, out, ii.Body)
	if len(outer.Params) != 1 || len(blk.Stmts) != 1 {
		t.Errorf("self capture: %d params, %d statements", len(outer.Params), len(blk.Stmts))
	}
}
