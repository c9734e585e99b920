package lower

import (
	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
)

// visOwner names the owner a member's visibility is numbered in when the
// visibility is lowered before that owner is entered.
type visOwner struct {
	node ast.NodeID
	kind resolve.DefKind
}

// lowerVisibility lowers v in the current owner, or in owner when given.
func (l *lowerer) lowerVisibility(v *ast.Visibility, owner *visOwner) hir.Visibility {
	out := hir.Visibility{Span: v.Span}
	switch v.Kind {
	case ast.VisPublic:
		out.Kind = hir.VisPublic
	case ast.VisCrate:
		out.Kind = hir.VisCrate
	case ast.VisRestricted:
		out.Kind = hir.VisRestricted
		lowerID := l.lowerNodeID
		if owner != nil {
			lowerID = func(n ast.NodeID) hir.HirID { return l.lowerNodeIDWithOwner(n, owner.node, owner.kind) }
		}
		out.HirID = lowerID(v.ID)
		res := l.resolver.PathRes(v.ID)
		path := &hir.Path{Res: res}
		if v.Path != nil {
			path.Span = v.Path.Span
			for i := range v.Path.Segments {
				seg := &v.Path.Segments[i]
				ps := hir.PathSegment{Ident: l.ident(seg.Ident), Res: resolve.Err}
				if seg.ID.IsValid() {
					ps.HirID = lowerID(seg.ID)
					ps.Res = l.resolver.PathRes(seg.ID)
				}
				if i == len(v.Path.Segments)-1 && ps.Res.IsErr() {
					ps.Res = res
				}
				path.Segments = append(path.Segments, ps)
			}
		}
		out.Path = path
	default:
		out.Kind = hir.VisInherited
	}
	return out
}

// rebuildVis copies a lowered visibility for a synthesized item. A restricted
// visibility gets fresh ids in the current owner.
func (l *lowerer) rebuildVis(v hir.Visibility) hir.Visibility {
	if v.Kind != hir.VisRestricted {
		return v
	}
	return hir.Visibility{
		Kind:  hir.VisRestricted,
		Path:  l.rebuildUsePath(v.Path),
		HirID: l.nextID(),
		Span:  v.Span,
	}
}

func (l *lowerer) rebuildUsePath(p *hir.Path) *hir.Path {
	if p == nil {
		return nil
	}
	out := &hir.Path{Span: p.Span, Res: p.Res, Segments: make([]hir.PathSegment, len(p.Segments))}
	for i, seg := range p.Segments {
		if seg.HirID.IsValid() {
			seg.HirID = l.nextID()
		}
		out.Segments[i] = seg
	}
	return out
}
