package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// implTraitCtx says whether `impl Trait` may appear in the type being lowered.
type implTraitCtx struct {
	allowed bool
	origin  hir.OpaqueOrigin
}

var implTraitDisallowed = implTraitCtx{}

func implTraitOpaque(origin hir.OpaqueOrigin) implTraitCtx {
	return implTraitCtx{allowed: true, origin: origin}
}

func returnImplTraitCtx(allow bool) implTraitCtx {
	if allow {
		return implTraitOpaque(hir.OpaqueFnReturn)
	}
	return implTraitDisallowed
}

func (l *lowerer) lowerTy(t *ast.Ty, itctx implTraitCtx) *hir.Ty {
	if t == nil {
		return nil
	}
	if t.Kind == ast.TyParen {
		return l.lowerTy(t.Elem, itctx)
	}
	out := &hir.Ty{HirID: l.lowerNodeID(t.ID), Span: t.Span}
	switch t.Kind {
	case ast.TyPath:
		out.Kind = hir.TyPath
		out.Path = l.lowerPath(t.ID, t.Path, itctx)
	case ast.TyImplicitSelf:
		out.Kind = hir.TyPath
		out.Path = &hir.Path{
			Span:     t.Span,
			Res:      l.resolver.PathRes(t.ID),
			Segments: []hir.PathSegment{{Ident: l.identStr("Self", t.Span)}},
		}
	case ast.TyRef:
		out.Kind = hir.TyRef
		out.Lifetime = l.lowerLifetime(t.Lifetime, t.Span.ShrinkToLo())
		out.Mut = t.Mut
		out.Elem = l.lowerTy(t.Elem, itctx)
	case ast.TyPtr:
		out.Kind = hir.TyPtr
		out.Mut = t.Mut
		out.Elem = l.lowerTy(t.Elem, itctx)
	case ast.TySlice:
		out.Kind = hir.TySlice
		out.Elem = l.lowerTy(t.Elem, itctx)
	case ast.TyArray:
		out.Kind = hir.TyArray
		out.Elem = l.lowerTy(t.Elem, itctx)
		out.Len = l.lowerAnonConst(t.Len)
	case ast.TyTuple:
		out.Kind = hir.TyTup
		for _, e := range t.Elems {
			out.Elems = append(out.Elems, l.lowerTy(e, itctx))
		}
	case ast.TyNever:
		out.Kind = hir.TyNever
	case ast.TyInfer:
		out.Kind = hir.TyInfer
	case ast.TyTraitObject:
		out.Kind = hir.TyTraitObject
		out.Bounds = l.lowerBounds(t.Bounds, itctx)
	case ast.TyImplTrait:
		if !itctx.allowed {
			l.reporter.Report(diag.Errorf(diag.LowImplTraitNotAllowed, t.Span,
				"`impl Trait` not allowed outside of function and inherent method return types"))
			out.Kind = hir.TyErr
			break
		}
		out.Kind = hir.TyOpaque
		out.Origin = itctx.origin
		out.Opaque = l.resolver.DefID(t.ID, resolve.DefOpaqueTy)
		// nested `impl Trait` inside the bounds is never allowed
		out.Bounds = l.lowerBounds(t.Bounds, implTraitDisallowed)
	default:
		out.Kind = hir.TyErr
	}
	return out
}

// lowerPath lowers a path whose resolution is keyed by owner.
func (l *lowerer) lowerPath(owner ast.NodeID, p *ast.Path, itctx implTraitCtx) *hir.Path {
	if p == nil {
		return nil
	}
	return l.lowerPathWithRes(l.resolver.PathRes(owner), p, itctx)
}

func (l *lowerer) lowerPathWithRes(res resolve.Res, p *ast.Path, itctx implTraitCtx) *hir.Path {
	out := &hir.Path{Span: p.Span, Res: res, Segments: make([]hir.PathSegment, 0, len(p.Segments))}
	for i := range p.Segments {
		seg := l.lowerPathSegment(&p.Segments[i], itctx)
		if i == len(p.Segments)-1 && seg.Res.IsErr() {
			seg.Res = res
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}

func (l *lowerer) lowerPathSegment(seg *ast.PathSegment, itctx implTraitCtx) hir.PathSegment {
	out := hir.PathSegment{Ident: l.ident(seg.Ident), Res: resolve.Err}
	if seg.ID.IsValid() {
		out.HirID = l.lowerNodeID(seg.ID)
		out.Res = l.resolver.PathRes(seg.ID)
	}
	if seg.Args != nil {
		out.Args = &hir.GenericArgs{Span: seg.Args.Span}
		for _, a := range seg.Args.Args {
			var arg hir.GenericArg
			if a.Lifetime != nil {
				arg.Lifetime = l.lowerLifetime(a.Lifetime, a.Lifetime.Ident.Span)
			}
			if a.Type != nil {
				arg.Type = l.lowerTy(a.Type, itctx)
			}
			out.Args.Args = append(out.Args.Args, arg)
		}
	}
	return out
}

// lowerFnDecl lowers parameter types and the return type. With async set the
// return type becomes the opaque future produced by the body.
func (l *lowerer) lowerFnDecl(decl *ast.FnDecl, allowReturnImplTrait bool, async *ast.Async) *hir.FnDecl {
	out := &hir.FnDecl{Inputs: make([]*hir.Ty, 0, len(decl.Inputs))}
	for i := range decl.Inputs {
		out.Inputs = append(out.Inputs, l.lowerTy(decl.Inputs[i].Ty, implTraitDisallowed))
	}
	out.Output.Span = decl.Output.Span
	if async != nil {
		out.Output.Ty = l.lowerAsyncFnRetTy(&decl.Output, async, allowReturnImplTrait)
	} else {
		out.Output.Ty = l.lowerTy(decl.Output.Ty, returnImplTraitCtx(allowReturnImplTrait))
	}
	out.ImplicitSelf = implicitSelfKind(decl)
	return out
}

func (l *lowerer) lowerAsyncFnRetTy(ret *ast.FnRetTy, async *ast.Async, allowReturnImplTrait bool) *hir.Ty {
	inner := l.lowerTy(ret.Ty, returnImplTraitCtx(allowReturnImplTrait))
	l.point("async-return", "")
	return &hir.Ty{
		HirID:  l.lowerNodeID(async.ReturnID),
		Kind:   hir.TyOpaque,
		Span:   ret.Span,
		Elem:   inner,
		Opaque: l.resolver.DefID(async.ReturnID, resolve.DefOpaqueTy),
		Origin: hir.OpaqueAsyncFn,
	}
}

func implicitSelfKind(decl *ast.FnDecl) hir.ImplicitSelfKind {
	if !decl.HasSelf() {
		return hir.ImplicitSelfNone
	}
	p := decl.Inputs[0]
	mutPat := p.Pat.Binding.Mut
	switch {
	case p.Ty == nil:
		return hir.ImplicitSelfNone
	case p.Ty.Kind == ast.TyImplicitSelf && mutPat:
		return hir.ImplicitSelfMut
	case p.Ty.Kind == ast.TyImplicitSelf:
		return hir.ImplicitSelfImm
	case p.Ty.Kind == ast.TyRef && p.Ty.Elem != nil && p.Ty.Elem.Kind == ast.TyImplicitSelf:
		if p.Ty.Mut {
			return hir.ImplicitSelfMutRef
		}
		return hir.ImplicitSelfImmRef
	}
	return hir.ImplicitSelfNone
}

// lowerFnParamsToNames returns the binding names of a body-less signature.
// Parameters with a complex pattern get an empty name.
func (l *lowerer) lowerFnParamsToNames(decl *ast.FnDecl) []hir.Ident {
	names := make([]hir.Ident, 0, len(decl.Inputs))
	for i := range decl.Inputs {
		p := decl.Inputs[i].Pat
		if p != nil && p.Kind == ast.PatIdent {
			names = append(names, l.ident(p.Ident))
			continue
		}
		var sp source.Span
		if p != nil {
			sp = p.Span
		}
		names = append(names, l.identStr("", sp))
	}
	return names
}

func (l *lowerer) lowerAnonConst(c *ast.AnonConst) *hir.AnonConst {
	if c == nil {
		return nil
	}
	out := &hir.AnonConst{}
	l.withNewScopes(func() {
		out.HirID = l.lowerNodeID(c.ID)
		var sp source.Span
		if c.Value != nil {
			sp = c.Value.Span
		}
		out.Body = l.lowerConstBody(sp, c.Value)
	})
	return out
}
