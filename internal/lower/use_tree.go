package lower

import (
	"fmt"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
)

// lowerUseTree lowers one level of an import rooted at prefix and returns the
// record for id. Extra namespace hits of a simple leaf and every child of a
// nested group become items of their own; vis and ident are updated for the
// record being returned.
func (l *lowerer) lowerUseTree(tree *ast.UseTree, prefix *ast.Path, id ast.NodeID, vis *hir.Visibility, ident *hir.Ident, attrs []ast.Attribute) *hir.Use {
	segments := make([]ast.PathSegment, 0, len(prefix.Segments)+len(tree.Prefix.Segments))
	segments = append(segments, prefix.Segments...)
	segments = append(segments, tree.Prefix.Segments...)

	switch tree.Kind {
	case ast.UseGlob:
		path := ast.Path{Segments: segments, Span: tree.Prefix.Span}
		return &hir.Use{Path: l.lowerPath(id, &path, implTraitDisallowed), Kind: hir.UseGlob}

	case ast.UseNested:
		stem := ast.Path{Segments: segments, Span: prefix.Span.To(tree.Prefix.Span)}
		for i := range tree.Nested {
			child := &tree.Nested[i]
			l.lowerNestedUseTree(child, &stem, *vis, *ident, attrs)
		}
		// the stem only anchors the group; it never exports anything itself
		if vis.Kind == hir.VisPublic || vis.Kind == hir.VisCrate {
			*vis = hir.Visibility{Kind: hir.VisInherited, Span: stem.Span.ShrinkToLo()}
		}
		res := resolve.Err
		if rs := l.resolver.ImportRes(id); len(rs) > 0 {
			res = rs[0]
		}
		l.point("use-list-stem", fmt.Sprintf("%s: %d children", stem.String(), len(tree.Nested)))
		return &hir.Use{Path: l.lowerPathWithRes(res, &stem, implTraitDisallowed), Kind: hir.UseListStem}

	default:
		*ident = l.ident(tree.Ident())
		path := ast.Path{Segments: segments, Span: tree.Prefix.Span}
		if n := len(path.Segments); n > 1 && path.Segments[n-1].Ident.Name == ast.KwSelfLower {
			path.Segments = path.Segments[:n-1]
			if tree.Rename == nil {
				*ident = l.ident(path.Segments[n-2].Ident)
			}
		}

		resolutions := l.resolver.ImportRes(id)
		ret := resolve.Err
		if len(resolutions) > 0 {
			ret = resolutions[0]
		}
		for i, res := range resolutions[min(1, len(resolutions)):] {
			if i >= len(tree.SimpleIDs) {
				break
			}
			l.lowerExtraUseRes(tree.SimpleIDs[i], res, path, *vis, *ident, attrs, tree.Span)
		}
		return &hir.Use{Path: l.lowerPathWithRes(ret, &path, implTraitDisallowed), Kind: hir.UseSingle}
	}
}

// lowerExtraUseRes emits the import item of one extra namespace hit.
func (l *lowerer) lowerExtraUseRes(node ast.NodeID, res resolve.Res, path ast.Path, vis hir.Visibility, ident hir.Ident, attrs []ast.Attribute, span source.Span) {
	if !node.IsValid() {
		ice("import %s has an extra resolution but no reserved id", path.String())
	}
	path.Segments = l.freshSegments(path.Segments)
	l.withHirIDOwner(node, resolve.DefUse, func() {
		def := l.expectCurrentDef()
		l.lowerAttrs(hir.OwnerHirID(def), attrs)
		l.insertItem(&hir.Item{
			DefID: def,
			Ident: ident,
			Vis:   l.rebuildVis(vis),
			Span:  span,
			Kind:  hir.ItemUse,
			Use:   &hir.Use{Path: l.lowerPathWithRes(res, &path, implTraitDisallowed), Kind: hir.UseSingle},
		})
	})
	l.point("use-extra-namespace", path.String())
}

// lowerNestedUseTree lowers one child of a nested group as an item of its own.
func (l *lowerer) lowerNestedUseTree(child *ast.NestedUseTree, stem *ast.Path, vis hir.Visibility, ident hir.Ident, attrs []ast.Attribute) {
	prefix := ast.Path{Segments: l.freshSegments(stem.Segments), Span: stem.Span}
	l.withHirIDOwner(child.ID, resolve.DefUse, func() {
		def := l.expectCurrentDef()
		childVis := l.rebuildVis(vis)
		childIdent := ident
		use := l.lowerUseTree(&child.Tree, &prefix, child.ID, &childVis, &childIdent, attrs)
		l.lowerAttrs(hir.OwnerHirID(def), attrs)
		l.insertItem(&hir.Item{
			DefID: def,
			Ident: childIdent,
			Vis:   childVis,
			Span:  child.Tree.Span,
			Kind:  hir.ItemUse,
			Use:   use,
		})
	})
}

// freshSegments copies segments, giving every copy a new node id.
func (l *lowerer) freshSegments(segs []ast.PathSegment) []ast.PathSegment {
	out := make([]ast.PathSegment, len(segs))
	for i, seg := range segs {
		seg.ID = l.resolver.NextNodeID()
		out[i] = seg
	}
	return out
}
