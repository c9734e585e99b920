package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

func (l *lowerer) lowerExpr(e *ast.Expr) *hir.Expr {
	if e == nil {
		return nil
	}
	if e.Kind == ast.ExprParen {
		inner := l.lowerExpr(e.Operand)
		if inner != nil {
			inner.Span = e.Span
		}
		return inner
	}
	id := l.lowerNodeID(e.ID)
	l.lowerAttrs(id, e.Attrs)
	out := &hir.Expr{HirID: id, Span: e.Span}
	switch e.Kind {
	case ast.ExprLit:
		out.Kind = hir.ExprLit
		out.Lit = e.Lit
	case ast.ExprPath:
		out.Kind = hir.ExprPath
		out.Path = l.lowerPath(e.ID, e.Path, implTraitDisallowed)
	case ast.ExprCall:
		out.Kind = hir.ExprCall
		out.Callee = l.lowerExpr(e.Callee)
		out.Args = l.lowerExprs(e.Args)
	case ast.ExprMethodCall:
		out.Kind = hir.ExprMethodCall
		if e.Method != nil {
			seg := l.lowerPathSegment(e.Method, implTraitDisallowed)
			out.Method = &seg
		}
		out.Args = l.lowerExprs(e.Args)
	case ast.ExprBinary:
		out.Kind = hir.ExprBinary
		out.Op = e.Op
		out.Lhs = l.lowerExpr(e.Lhs)
		out.Rhs = l.lowerExpr(e.Rhs)
	case ast.ExprUnary:
		out.Kind = hir.ExprUnary
		out.Op = e.Op
		out.Operand = l.lowerExpr(e.Operand)
	case ast.ExprField:
		out.Kind = hir.ExprField
		out.Operand = l.lowerExpr(e.Operand)
		out.Field = l.ident(e.Field)
	case ast.ExprTuple:
		out.Kind = hir.ExprTup
		out.Elems = l.lowerExprs(e.Elems)
	case ast.ExprBlock:
		out.Kind = hir.ExprBlock
		out.Block = l.lowerBlock(e.Block)
	case ast.ExprIf:
		out.Kind = hir.ExprIf
		out.Operand = l.lowerExpr(e.Operand)
		out.Block = l.lowerBlock(e.Block)
		out.Else = l.lowerExpr(e.Else)
	case ast.ExprReturn:
		out.Kind = hir.ExprRet
		out.Operand = l.lowerExpr(e.Operand)
	case ast.ExprAssign:
		out.Kind = hir.ExprAssign
		out.Lhs = l.lowerExpr(e.Lhs)
		out.Rhs = l.lowerExpr(e.Rhs)
	case ast.ExprAddrOf:
		out.Kind = hir.ExprAddrOf
		out.Mut = e.Mut
		out.Operand = l.lowerExpr(e.Operand)
	case ast.ExprAwait:
		out.Kind = hir.ExprAwait
		out.Operand = l.lowerExpr(e.Operand)
	default:
		out.Kind = hir.ExprErr
	}
	return out
}

func (l *lowerer) lowerExprs(es []*ast.Expr) []*hir.Expr {
	if len(es) == 0 {
		return nil
	}
	out := make([]*hir.Expr, 0, len(es))
	for _, e := range es {
		out = append(out, l.lowerExpr(e))
	}
	return out
}

// lowerBlock lowers statements; a trailing expression statement becomes the
// block's value.
func (l *lowerer) lowerBlock(b *ast.Block) *hir.Block {
	if b == nil {
		return nil
	}
	out := &hir.Block{HirID: l.lowerNodeID(b.ID), Unsafe: b.Unsafe, Span: b.Span}
	stmts := b.Stmts
	var tail *ast.Expr
	if n := len(stmts); n > 0 && stmts[n-1].Kind == ast.StmtExpr {
		tail = stmts[n-1].Expr
		stmts = stmts[:n-1]
	}
	for i := range stmts {
		out.Stmts = append(out.Stmts, l.lowerStmt(&stmts[i])...)
	}
	out.Expr = l.lowerExpr(tail)
	return out
}

func (l *lowerer) lowerBlockExpr(b *ast.Block) *hir.Expr {
	blk := l.lowerBlock(b)
	return &hir.Expr{HirID: l.nextID(), Kind: hir.ExprBlock, Span: b.Span, Block: blk}
}

func (l *lowerer) lowerBlockExprOpt(sp source.Span, b *ast.Block) *hir.Expr {
	if b == nil {
		return l.exprErr(sp)
	}
	return l.lowerBlockExpr(b)
}

func (l *lowerer) lowerStmt(s *ast.Stmt) []hir.Stmt {
	switch s.Kind {
	case ast.StmtEmpty:
		return nil
	case ast.StmtItem:
		l.nested = append(l.nested, s.Item)
		ids := l.lowerItemIDs(s.Item)
		out := make([]hir.Stmt, 0, len(ids))
		for i, def := range ids {
			var hid hir.HirID
			if i == 0 {
				hid = l.lowerNodeID(s.ID)
			} else {
				hid = l.nextID()
			}
			out = append(out, hir.Stmt{HirID: hid, Kind: hir.StmtItem, Span: s.Span, Item: def})
		}
		return out
	case ast.StmtLocal:
		id := l.lowerNodeID(s.ID)
		return []hir.Stmt{{HirID: id, Kind: hir.StmtLocal, Span: s.Span, Local: l.lowerLocal(s.Local)}}
	case ast.StmtExpr:
		id := l.lowerNodeID(s.ID)
		return []hir.Stmt{{HirID: id, Kind: hir.StmtExpr, Span: s.Span, Expr: l.lowerExpr(s.Expr)}}
	default:
		id := l.lowerNodeID(s.ID)
		return []hir.Stmt{{HirID: id, Kind: hir.StmtSemi, Span: s.Span, Expr: l.lowerExpr(s.Expr)}}
	}
}

func (l *lowerer) lowerLocal(loc *ast.Local) *hir.Local {
	id := l.lowerNodeID(loc.ID)
	l.lowerAttrs(id, loc.Attrs)
	return &hir.Local{
		HirID:  id,
		Ty:     l.lowerTy(loc.Ty, implTraitDisallowed),
		Pat:    l.lowerPat(loc.Pat),
		Init:   l.lowerExpr(loc.Init),
		Span:   loc.Span,
		Source: hir.LocalNormal,
	}
}

func (l *lowerer) lowerPat(p *ast.Pat) *hir.Pat {
	if p == nil {
		return nil
	}
	out := &hir.Pat{HirID: l.lowerNodeID(p.ID), Span: p.Span}
	switch p.Kind {
	case ast.PatWild:
		out.Kind = hir.PatWild
	case ast.PatIdent:
		res := l.resolver.PathRes(p.ID)
		if res.Kind == resolve.ResDef && p.Sub == nil {
			// a bare name that resolves to a unit struct or constant
			out.Kind = hir.PatPath
			out.Path = &hir.Path{
				Span:     p.Ident.Span,
				Res:      res,
				Segments: []hir.PathSegment{{Ident: l.ident(p.Ident), Res: res}},
			}
			break
		}
		out.Kind = hir.PatBinding
		out.Binding = lowerBindingMode(p.Binding)
		out.Ident = l.ident(p.Ident)
		out.Sub = l.lowerPat(p.Sub)
	case ast.PatTuple:
		out.Kind = hir.PatTuple
		out.Elems = l.lowerPats(p.Elems)
	case ast.PatTupleStruct:
		out.Kind = hir.PatTupleStruct
		out.Path = l.lowerPath(p.ID, p.Path, implTraitDisallowed)
		out.Elems = l.lowerPats(p.Elems)
	case ast.PatRef:
		out.Kind = hir.PatRef
		out.Mut = p.Mut
		out.Sub = l.lowerPat(p.Sub)
	case ast.PatLit:
		out.Kind = hir.PatLit
		out.Lit = p.Lit
	case ast.PatPath:
		out.Kind = hir.PatPath
		out.Path = l.lowerPath(p.ID, p.Path, implTraitDisallowed)
	case ast.PatRest:
		out.Kind = hir.PatRest
	}
	return out
}

func (l *lowerer) lowerPats(ps []*ast.Pat) []*hir.Pat {
	if len(ps) == 0 {
		return nil
	}
	out := make([]*hir.Pat, 0, len(ps))
	for _, p := range ps {
		out = append(out, l.lowerPat(p))
	}
	return out
}

func lowerBindingMode(m ast.BindingMode) hir.BindingMode {
	switch {
	case m.ByRef && m.Mut:
		return hir.BindRefMut
	case m.ByRef:
		return hir.BindRef
	case m.Mut:
		return hir.BindMutable
	default:
		return hir.BindUnannotated
	}
}
