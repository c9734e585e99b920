package lower

import (
	"context"

	"hirlower/internal/ast"
	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/resolve"
	"hirlower/internal/source"
	"hirlower/internal/trace"
)

// lowerer is the lowering context of one run. It owns the output tables and
// all ephemeral scope state; nothing in it is shared between runs.
type lowerer struct {
	ctx  context.Context
	span *trace.Span // innermost item span; nil when tracing is off

	resolver resolve.Resolver
	reporter diag.Reporter
	opts     Options
	out      *hir.Crate
	strings  *source.Interner

	nodeToHir map[ast.NodeID]hir.HirID
	counters  map[ast.NodeID]*ownerCounter
	owners    []*ownerCounter

	// items met as block statements of the owner being lowered; each is
	// visited as its own owner once the enclosing one is closed
	nested []*ast.Item

	// Scope state. Every mutation goes through a with* helper that restores
	// the previous value on all exit paths.
	currentModule     resolve.DefID
	isInTraitImpl     bool
	inScopeLifetimes  []hir.ParamName
	lifetimesToDefine []inBandLifetime
	collectingInBand  bool
	anonMode          anonLifetimeMode
	generatorKind     hir.GeneratorKind
	currentItem       string
}

func newLowerer(ctx context.Context, r resolve.Resolver, opts Options) *lowerer {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	strings := opts.Strings
	if strings == nil {
		strings = source.NewInterner()
	}
	return &lowerer{
		ctx:           ctx,
		resolver:      r,
		reporter:      opts.Reporter,
		opts:          opts,
		out:           hir.NewCrate(strings),
		strings:       strings,
		nodeToHir:     make(map[ast.NodeID]hir.HirID),
		counters:      make(map[ast.NodeID]*ownerCounter),
		currentModule: resolve.CrateDefID,
	}
}

func (l *lowerer) ident(id ast.Ident) hir.Ident {
	return hir.Ident{Name: l.strings.Intern(id.Name), Span: id.Span}
}

func (l *lowerer) identStr(name string, sp source.Span) hir.Ident {
	return hir.Ident{Name: l.strings.Intern(name), Span: sp}
}

func (l *lowerer) lowerAttrs(id hir.HirID, attrs []ast.Attribute) {
	if len(attrs) == 0 {
		return
	}
	l.out.Attrs[id] = append([]hir.Attribute(nil), attrs...)
}

// aliasAttrs gives target the attributes already recorded for source.
func (l *lowerer) aliasAttrs(target, src hir.HirID) {
	if attrs, ok := l.out.Attrs[src]; ok {
		l.out.Attrs[target] = attrs
	}
}

func (l *lowerer) point(name, detail string) {
	l.span.Point(trace.ScopeNode, name, detail)
}
