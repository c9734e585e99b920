package lower

import (
	"fmt"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

func (l *lowerer) recordBody(params []hir.Param, value *hir.Expr) hir.BodyID {
	body := &hir.Body{Params: params, Value: value, Generator: l.generatorKind}
	id, err := l.out.InsertBody(body)
	if err != nil {
		ice("%v", err)
	}
	return id
}

// lowerBody runs f outside of any generator and stores its result as a body.
func (l *lowerer) lowerBody(f func() ([]hir.Param, *hir.Expr)) hir.BodyID {
	prev := l.generatorKind
	l.generatorKind = hir.NotGenerator
	defer func() { l.generatorKind = prev }()
	params, value := f()
	return l.recordBody(params, value)
}

func (l *lowerer) lowerParam(p *ast.Param) hir.Param {
	id := l.lowerNodeID(p.ID)
	l.lowerAttrs(id, p.Attrs)
	out := hir.Param{HirID: id, Pat: l.lowerPat(p.Pat), Span: p.Span}
	if p.Ty != nil {
		out.TySpan = p.Ty.Span
	}
	return out
}

func (l *lowerer) lowerFnBody(decl *ast.FnDecl, value func() *hir.Expr) hir.BodyID {
	return l.lowerBody(func() ([]hir.Param, *hir.Expr) {
		params := make([]hir.Param, 0, len(decl.Inputs))
		for i := range decl.Inputs {
			params = append(params, l.lowerParam(&decl.Inputs[i]))
		}
		return params, value()
	})
}

func (l *lowerer) lowerFnBodyBlock(sp source.Span, decl *ast.FnDecl, body *ast.Block) hir.BodyID {
	return l.lowerFnBody(decl, func() *hir.Expr { return l.lowerBlockExprOpt(sp, body) })
}

func (l *lowerer) lowerConstBody(sp source.Span, e *ast.Expr) hir.BodyID {
	return l.lowerBody(func() ([]hir.Param, *hir.Expr) {
		if e == nil {
			return nil, l.exprErr(sp)
		}
		return nil, l.lowerExpr(e)
	})
}

// lowerMaybeAsyncBody lowers a function body. For an async fn the parameters
// become plain bindings and the value is an async closure that first moves
// every parameter into a local, then runs the user block.
//
//	async fn f(x: T, (a, b): U) { body }
//
// becomes
//
//	fn f(x: T, __arg1: U) {
//	    async move {
//	        let x = x;
//	        let mut __arg1 = __arg1;
//	        let (a, b) = __arg1;
//	        drop-temps { body }
//	    }
//	}
//
// Capture statements follow parameter order, so at the end of the closure
// body the user's locals go first and the parameters drop last to first,
// like the parameters of a plain fn.
func (l *lowerer) lowerMaybeAsyncBody(sp source.Span, decl *ast.FnDecl, async *ast.Async, body *ast.Block) hir.BodyID {
	if async == nil || body == nil {
		return l.lowerFnBodyBlock(sp, decl, body)
	}
	return l.lowerBody(func() ([]hir.Param, *hir.Expr) {
		params := make([]hir.Param, 0, len(decl.Inputs))
		var stmts []hir.Stmt
		for index := range decl.Inputs {
			param := l.lowerParam(&decl.Inputs[index])
			pspan := param.Pat.Span

			var ident hir.Ident
			simple := false
			switch {
			case param.Pat.Kind == hir.PatBinding:
				ident = param.Pat.Ident
				simple = param.Pat.Sub == nil &&
					(param.Pat.Binding == hir.BindUnannotated || param.Pat.Binding == hir.BindMutable)
			case param.Pat.Kind == hir.PatWild:
				ident = l.identStr(ast.KwUnderscore, pspan)
			default:
				ident = l.identStr(fmt.Sprintf("__arg%d", index), pspan)
			}

			newPat, newNode := l.patIdent(pspan, ident, hir.BindUnannotated)
			if simple {
				// let <pat> = <param>;
				init := l.exprIdent(pspan, ident, newNode)
				stmts = append(stmts, l.stmtLetPat(param.HirID, pspan, init, param.Pat))
			} else {
				// let mut <ident> = <param>; let <pat> = <ident>;
				movePat, moveNode := l.patIdent(pspan, ident, hir.BindMutable)
				moveInit := l.exprIdent(pspan, ident, newNode)
				stmts = append(stmts, l.stmtLetPat(hir.DummyHirID, pspan, moveInit, movePat))
				patInit := l.exprIdent(pspan, ident, moveNode)
				stmts = append(stmts, l.stmtLetPat(param.HirID, pspan, patInit, param.Pat))
			}
			params = append(params, hir.Param{HirID: param.HirID, Pat: newPat, TySpan: param.TySpan, Span: param.Span})
		}
		l.point("async-body", fmt.Sprintf("%d params, %d stmts", len(params), len(stmts)))

		closure := l.makeAsyncExpr(async, body.Span, func() *hir.Expr {
			user := l.lowerBlockExpr(body)
			dropTemps := &hir.Expr{HirID: l.nextID(), Kind: hir.ExprDropTemps, Span: body.Span, Operand: user}
			blk := &hir.Block{HirID: l.nextID(), Stmts: stmts, Expr: dropTemps, Span: body.Span}
			return &hir.Expr{HirID: l.nextID(), Kind: hir.ExprBlock, Span: body.Span, Block: blk}
		})
		return params, closure
	})
}

// makeAsyncExpr builds the generator closure of an async fn. Its body is
// stored separately and marked as an async generator.
func (l *lowerer) makeAsyncExpr(async *ast.Async, sp source.Span, body func() *hir.Expr) *hir.Expr {
	id := l.lowerNodeID(async.ClosureID)
	l.resolver.DefID(async.ClosureID, resolve.DefClosure)
	bodyID := l.lowerBody(func() ([]hir.Param, *hir.Expr) {
		l.generatorKind = hir.GeneratorAsyncFn
		return nil, body()
	})
	return &hir.Expr{
		HirID: id,
		Kind:  hir.ExprClosure,
		Span:  sp,
		Closure: &hir.Closure{
			CaptureByValue: true,
			Body:           bodyID,
			Generator:      hir.GeneratorAsyncFn,
		},
	}
}

// patIdent synthesizes a binding pattern. The returned node keys local
// resolutions that refer to it.
func (l *lowerer) patIdent(sp source.Span, ident hir.Ident, mode hir.BindingMode) (*hir.Pat, ast.NodeID) {
	node := l.resolver.NextNodeID()
	return &hir.Pat{
		HirID:   l.lowerNodeID(node),
		Kind:    hir.PatBinding,
		Span:    sp,
		Binding: mode,
		Ident:   ident,
	}, node
}

func (l *lowerer) exprIdent(sp source.Span, ident hir.Ident, binding ast.NodeID) *hir.Expr {
	return &hir.Expr{
		HirID: l.nextID(),
		Kind:  hir.ExprPath,
		Span:  sp,
		Path: &hir.Path{
			Span:     sp,
			Res:      resolve.Local(binding),
			Segments: []hir.PathSegment{{Ident: ident, Res: resolve.Local(binding)}},
		},
	}
}

// stmtLetPat builds a capture statement. attrsFrom names the node whose
// attributes the new local shares.
func (l *lowerer) stmtLetPat(attrsFrom hir.HirID, sp source.Span, init *hir.Expr, pat *hir.Pat) hir.Stmt {
	local := &hir.Local{HirID: l.nextID(), Pat: pat, Init: init, Span: sp, Source: hir.LocalAsyncFn}
	if attrsFrom.IsValid() {
		l.aliasAttrs(local.HirID, attrsFrom)
	}
	return hir.Stmt{HirID: l.nextID(), Kind: hir.StmtLocal, Span: sp, Local: local}
}

func (l *lowerer) exprErr(sp source.Span) *hir.Expr {
	return &hir.Expr{HirID: l.nextID(), Kind: hir.ExprErr, Span: sp}
}
