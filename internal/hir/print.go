package hir

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"hirlower/internal/resolve"
)

// DumpOptions configures HIR dumping.
type DumpOptions struct {
	// Bodies prints body expressions after each owner.
	Bodies bool
	// Spans appends spans to item headers.
	Spans bool
}

// Printer is used to dump HIR to text format.
type Printer struct {
	w      io.Writer
	c      *Crate
	indent int
	opts   DumpOptions
	err    error
}

// NewPrinter creates a new HIR printer.
func NewPrinter(w io.Writer, c *Crate, opts DumpOptions) *Printer {
	return &Printer{w: w, c: c, opts: opts}
}

// Dump writes the crate tables in a stable textual form.
func Dump(w io.Writer, c *Crate, opts DumpOptions) error {
	return NewPrinter(w, c, opts).PrintCrate()
}

// PrintCrate prints the item table followed by member tables, macros and
// trait impls.
func (p *Printer) PrintCrate() error {
	c := p.c
	if c.Root != nil {
		p.printf("crate root: items %s\n", defList(c.Root.ItemIDs))
	}

	nameWidth := 0
	for _, id := range c.ItemOrder {
		if n := runewidth.StringWidth(c.Name(c.Items[id].Ident)); n > nameWidth {
			nameWidth = n
		}
	}

	for _, id := range c.ItemOrder {
		p.printItem(c.Items[id], nameWidth)
	}
	for _, id := range c.TraitItemOrder {
		p.printTraitItem(c.TraitItems[id])
	}
	for _, id := range c.ImplItemOrder {
		p.printImplItem(c.ImplItems[id])
	}
	for _, id := range c.ForeignItemOrder {
		p.printForeignItem(c.ForeignItems[id])
	}
	for _, m := range c.ExportedMacros {
		p.printf("macro #%d %s %s\n", m.DefID, c.Name(m.Ident), p.visStr(&m.Vis))
	}
	if n := len(c.NonExportedMacroAttrs); n > 0 {
		p.printf("non-exported macro attrs: %d\n", n)
	}
	if len(c.TraitImpls) > 0 {
		traits := make([]resolve.DefID, 0, len(c.TraitImpls))
		for t := range c.TraitImpls {
			traits = append(traits, t)
		}
		sort.Slice(traits, func(i, j int) bool { return traits[i] < traits[j] })
		for _, t := range traits {
			p.printf("trait #%d impls %s\n", t, defList(c.TraitImpls[t]))
		}
	}
	return p.err
}

func (p *Printer) printItem(it *Item, nameWidth int) {
	name := runewidth.FillRight(p.c.Name(it.Ident), nameWidth)
	p.printf("item #%d %-11s %s %s", it.DefID, it.Kind, name, p.visStr(&it.Vis))
	if p.opts.Spans {
		p.printf(" @%s", it.Span)
	}
	p.printf("\n")

	p.indent++
	defer func() { p.indent-- }()

	if g := it.Generics(); g != nil && (len(g.Params) > 0 || len(g.Where.Predicates) > 0) {
		p.line("generics %s", p.genericsStr(g))
	}
	switch it.Kind {
	case ItemUse:
		p.line("use %s %s -> %s", it.Use.Kind, p.pathStr(it.Use.Path), it.Use.Path.Res)
	case ItemStatic:
		mut := ""
		if it.Static.Mut {
			mut = "mut "
		}
		p.line("static %s%s", mut, p.tyStr(it.Static.Ty))
		p.printBody(it.Static.Body)
	case ItemConst:
		p.line("const %s", p.tyStr(it.Const.Ty))
		p.printBody(it.Const.Body)
	case ItemFn:
		p.line("sig %s", p.sigStr(&it.Fn.Sig))
		p.printBody(it.Fn.Body)
	case ItemMod:
		p.line("items %s", defList(it.Mod.ItemIDs))
	case ItemForeignMod:
		p.line("abi %q", it.ForeignMod.Abi.String())
		for _, r := range it.ForeignMod.Items {
			p.line("ref #%d %s", r.ID, p.c.Name(r.Ident))
		}
	case ItemTyAlias:
		p.line("= %s", p.tyStr(it.TyAlias.Ty))
	case ItemEnum:
		for _, v := range it.Enum.Variants {
			p.line("variant %s %s", p.c.Name(v.Ident), p.variantDataStr(&v.Data))
		}
	case ItemStruct, ItemUnion:
		p.line("data %s", p.variantDataStr(&it.Adt.Data))
	case ItemTrait:
		if len(it.Trait.Bounds) > 0 {
			p.line("bounds %s", p.boundsStr(it.Trait.Bounds))
		}
		for _, r := range it.Trait.Items {
			p.line("ref #%d %s %s %s", r.ID, r.Kind, p.c.Name(r.Ident), r.Defaultness)
		}
	case ItemTraitAlias:
		p.line("= %s", p.boundsStr(it.TraitAlias.Bounds))
	case ItemImpl:
		if it.Impl.OfTrait != nil {
			p.line("of %s", p.pathStr(it.Impl.OfTrait.Path))
		}
		p.line("for %s", p.tyStr(it.Impl.SelfTy))
		for _, r := range it.Impl.Items {
			p.line("ref #%d %s %s %s %s", r.ID, r.Kind, p.c.Name(r.Ident), p.visStr(&r.Vis), r.Defaultness)
		}
	case ItemExternCrate:
		if it.ExternCrate.Orig.IsValid() {
			p.line("orig %s", p.c.Strings.MustLookup(it.ExternCrate.Orig))
		}
	case ItemGlobalAsm:
		p.line("asm %q", it.GlobalAsm.Template)
	}
}

func (p *Printer) printTraitItem(ti *TraitItem) {
	p.printf("trait-item #%d (of #%d) %s %s\n", ti.DefID, ti.Parent, ti.Kind, p.c.Name(ti.Ident))
	p.indent++
	defer func() { p.indent-- }()
	if ti.Sig != nil {
		p.line("sig %s%s", p.genericsStr(ti.Generics), p.sigStr(ti.Sig))
	}
	if ti.Ty != nil {
		p.line("ty %s", p.tyStr(ti.Ty))
	}
	if ti.Body != nil {
		p.printBody(*ti.Body)
	}
}

func (p *Printer) printImplItem(ii *ImplItem) {
	p.printf("impl-item #%d (of #%d) %s %s %s\n", ii.DefID, ii.Parent, ii.Kind, p.c.Name(ii.Ident), p.visStr(&ii.Vis))
	p.indent++
	defer func() { p.indent-- }()
	if ii.Sig != nil {
		p.line("sig %s%s", p.genericsStr(ii.Generics), p.sigStr(ii.Sig))
	}
	if ii.Ty != nil {
		p.line("ty %s", p.tyStr(ii.Ty))
	}
	if ii.Body.IsValid() {
		p.printBody(ii.Body)
	}
}

func (p *Printer) printForeignItem(fi *ForeignItem) {
	p.printf("foreign-item #%d (of #%d) %s\n", fi.DefID, fi.Parent, p.c.Name(fi.Ident))
	p.indent++
	defer func() { p.indent-- }()
	switch fi.Kind {
	case ForeignFn:
		names := make([]string, len(fi.Names))
		for i, n := range fi.Names {
			names[i] = p.c.Name(n)
		}
		p.line("fn(%s) %s", strings.Join(names, ", "), p.declStr(fi.Decl))
	case ForeignStatic:
		p.line("static %s", p.tyStr(fi.Ty))
	case ForeignType:
		p.line("type")
	}
}

func (p *Printer) printBody(id BodyID) {
	if !p.opts.Bodies {
		return
	}
	b := p.c.Body(id)
	if b == nil {
		p.line("body %s <missing>", id.HirID)
		return
	}
	params := make([]string, len(b.Params))
	for i := range b.Params {
		params[i] = p.patStr(b.Params[i].Pat)
	}
	p.line("body %s (%s) = %s", id.HirID, strings.Join(params, ", "), p.exprStr(b.Value))
}

func (p *Printer) line(format string, args ...any) {
	p.printf("%s", strings.Repeat("  ", p.indent))
	p.printf(format, args...)
	p.printf("\n")
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func defList(ids []resolve.DefID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
