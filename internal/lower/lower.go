package lower

import (
	"context"
	"slices"
	"strconv"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/trace"
)

// Lower converts a fully expanded and resolved crate into HIR.
//
// User errors (invalid ABIs, misplaced lifetimes, `impl Trait` where it is not
// allowed) are reported through opts.Reporter and lowering goes on with error
// placeholders. Internal faults abort the run and come back as an
// *InternalError; the partial crate is discarded.
func Lower(ctx context.Context, krate *ast.Crate, r resolve.Resolver, opts Options) (out *hir.Crate, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	span, ctx := trace.Start(ctx, trace.ScopePass, "lower")
	l := newLowerer(ctx, r, opts)
	l.span = span
	defer func() {
		if rec := recover(); rec != nil {
			switch fault := rec.(type) {
			case ICE:
				out, err = nil, &InternalError{Cause: fault, Item: l.currentItem}
				span.End("ice")
			case cancelled:
				out, err = nil, fault.err
				span.End("cancelled")
			default:
				span.End("panic")
				panic(rec)
			}
			return
		}
		if err != nil {
			span.End("invalid")
			return
		}
		span.Attr("items", strconv.Itoa(len(out.Items))).Attr("bodies", strconv.Itoa(len(out.Bodies))).End("")
	}()

	l.lowerCrate(krate)
	l.finishCounters()
	if l.opts.Validate {
		if verr := hir.Validate(l.out); verr != nil {
			return nil, &InternalError{Cause: verr}
		}
	}
	return l.out, nil
}

func (l *lowerer) lowerCrate(krate *ast.Crate) {
	l.withHirIDOwner(ast.CrateNodeID, resolve.DefMod, func() {
		l.out.Root = l.lowerMod(&krate.Module)
		l.lowerAttrs(hir.OwnerHirID(resolve.CrateDefID), krate.Attrs)
	})
	l.withCurrentModule(resolve.CrateDefID, func() {
		for _, it := range krate.Module.Items {
			l.visitItem(it)
		}
	})
}

// cancelled unwinds a run whose context was done between items.
type cancelled struct{ err error }

// visitItem lowers it as an owner and then visits everything nested in it.
func (l *lowerer) visitItem(it *ast.Item) {
	if err := l.ctx.Err(); err != nil {
		panic(cancelled{err: err})
	}
	oldItem, oldSpan := l.currentItem, l.span
	l.currentItem = it.Ident.Name
	l.span = oldSpan.Child(trace.ScopeItem, "item:"+it.Kind.String()).Attr("name", it.Ident.Name)
	defer func() {
		l.span.End("")
		l.currentItem, l.span = oldItem, oldSpan
	}()

	var lowered *hir.Item
	mark := len(l.nested)
	l.withHirIDOwner(it.ID, itemDefKind(it.Kind), func() {
		l.withoutInScopeLifetimeDefs(func() {
			lowered = l.lowerItem(it)
			if lowered != nil {
				l.insertItem(lowered)
			}
		})
	})
	found := l.takeNested(mark)
	if lowered == nil {
		return
	}
	l.withParentItemLifetimeDefs(lowered, func() {
		for _, n := range found {
			l.visitItem(n)
		}
		l.walkItem(it, lowered)
	})
}

// takeNested removes the items queued since mark, in source order.
func (l *lowerer) takeNested(mark int) []*ast.Item {
	found := slices.Clone(l.nested[mark:])
	l.nested = l.nested[:mark]
	return found
}

// walkItem visits the children and members of a lowered item.
func (l *lowerer) walkItem(it *ast.Item, lowered *hir.Item) {
	switch it.Kind {
	case ast.ItemMod:
		l.withCurrentModule(lowered.DefID, func() {
			for _, child := range it.Mod.Items {
				l.visitItem(child)
			}
		})
	case ast.ItemImpl:
		l.withTraitImplRef(it.Impl.OfTrait != nil, func() {
			for _, ai := range it.Impl.Items {
				l.visitAssocItem(ai, lowered.DefID, false)
			}
		})
	case ast.ItemTrait:
		for _, ai := range it.Trait.Items {
			l.visitAssocItem(ai, lowered.DefID, true)
		}
	case ast.ItemForeignMod:
		for _, fi := range it.ForeignMod.Items {
			l.visitForeignItem(fi, lowered.DefID)
		}
	}
}

func (l *lowerer) visitAssocItem(ai *ast.AssocItem, parent resolve.DefID, inTrait bool) {
	oldSpan := l.span
	l.span = oldSpan.Child(trace.ScopeItem, "member").Attr("name", ai.Ident.Name)
	defer func() {
		l.span.End("")
		l.span = oldSpan
	}()

	mark := len(l.nested)
	l.withHirIDOwner(ai.ID, assocDefKind(ai), func() {
		m := l.out.Module(l.currentModule)
		if inTrait {
			ti := l.lowerTraitItem(ai, parent)
			if err := l.out.InsertTraitItem(ti); err != nil {
				ice("%v", err)
			}
			m.TraitItems = append(m.TraitItems, ti.DefID)
			return
		}
		ii := l.lowerImplItem(ai, parent)
		if err := l.out.InsertImplItem(ii); err != nil {
			ice("%v", err)
		}
		m.ImplItems = append(m.ImplItems, ii.DefID)
	})
	for _, n := range l.takeNested(mark) {
		l.visitItem(n)
	}
}

func (l *lowerer) visitForeignItem(fi *ast.ForeignItem, parent resolve.DefID) {
	l.withHirIDOwner(fi.ID, foreignDefKind(fi), func() {
		lowered := l.lowerForeignItem(fi, parent)
		if err := l.out.InsertForeignItem(lowered); err != nil {
			ice("%v", err)
		}
		m := l.out.Module(l.currentModule)
		m.ForeignItems = append(m.ForeignItems, lowered.DefID)
	})
}
