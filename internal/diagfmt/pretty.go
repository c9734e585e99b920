package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"hirlower/internal/diag"
	"hirlower/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, help *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgRed),
		help:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.help} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем строку исходника с подчёркиванием ^~~~ по Span и подсказки.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, pal)
	}
	if n := bag.Overflow(); n > 0 {
		fmt.Fprintf(w, "%s %d more diagnostics not shown\n", pal.gutter.Sprint("..."), n)
	}
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sev := pal.severity(d.Severity)
	var f *source.File
	if fs != nil {
		f = fs.Get(d.Primary.File)
	}
	if f == nil {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		printHelp(w, d, opts, pal, "")
		return
	}

	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		FormatPath(f.Path, opts.PathMode, opts.BaseDir), start.Line, start.Col,
		sev.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)

	gutterWidth := len(fmt.Sprint(start.Line))
	blank := strings.Repeat(" ", gutterWidth)

	first := uint32(1)
	if opts.Context > 0 && start.Line > uint32(opts.Context) {
		first = start.Line - uint32(opts.Context)
	}
	for ln := first; ln <= start.Line; ln++ {
		text := clip(expandTabs(f.Line(ln)), opts.Width)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.Line(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:endCol])), 1)
	marker := "^" + strings.Repeat("~", width-1)
	underline := strings.Repeat(" ", pad) + pal.caret.Sprint(marker)
	if d.Label != "" {
		underline += " " + pal.caret.Sprint(d.Label)
	}
	fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprint(blank+" |"), underline)
	printHelp(w, d, opts, pal, blank)
}

func printHelp(w io.Writer, d diag.Diagnostic, opts PrettyOpts, pal palette, indent string) {
	if !opts.ShowHelp {
		return
	}
	for _, h := range d.Help {
		fmt.Fprintf(w, " %s %s %s\n", indent, pal.gutter.Sprint("="), pal.help.Sprint("help: ")+h)
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}
