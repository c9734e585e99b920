package diagfmt

import (
	"encoding/json"
	"io"

	"hirlower/internal/diag"
	"hirlower/internal/source"
)

// PosJSON is a 1-based line and byte column.
type PosJSON struct {
	Line uint32 `json:"line"`
	Col  uint32 `json:"col"`
}

// LocationJSON places a diagnostic. Start and End are set only with
// JSONOpts.IncludePositions.
type LocationJSON struct {
	File      string   `json:"file"`
	ByteStart uint32   `json:"byte_start"`
	ByteEnd   uint32   `json:"byte_end"`
	Start     *PosJSON `json:"start,omitempty"`
	End       *PosJSON `json:"end,omitempty"`
}

type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Title    string        `json:"title"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Label    string        `json:"label,omitempty"`
	Help     []string      `json:"help,omitempty"`
}

// DiagnosticsOutput is the JSON document written for one pack. Omitted
// counts diagnostics cut by the bag limit or JSONOpts.Max.
type DiagnosticsOutput struct {
	Pack        string           `json:"pack,omitempty"`
	Count       int              `json:"count"`
	Omitted     int              `json:"omitted,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

func locate(sp source.Span, fs *source.FileSet, opts JSONOpts) *LocationJSON {
	f := fs.Get(sp.File)
	if f == nil {
		// пакет не прочитан или span из другого набора
		return nil
	}
	loc := &LocationJSON{
		File:      FormatPath(f.Path, opts.PathMode, opts.BaseDir),
		ByteStart: sp.Start,
		ByteEnd:   sp.End,
	}
	if opts.IncludePositions {
		start, end := f.Position(sp.Start), f.Position(sp.End)
		loc.Start = &PosJSON{Line: start.Line, Col: start.Col}
		loc.End = &PosJSON{Line: end.Line, Col: end.Col}
	}
	return loc
}

func toJSON(d diag.Diagnostic, fs *source.FileSet, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: locate(d.Primary, fs, opts),
		Label:    d.Label,
	}
	if opts.IncludeHelp {
		out.Help = d.Help
	}
	return out
}

// BuildDiagnosticsOutput converts the bag of one pack without encoding it.
func BuildDiagnosticsOutput(pack string, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 {
		items = items[:min(opts.Max, len(items))]
	}
	out := DiagnosticsOutput{
		Pack:        pack,
		Count:       len(items),
		Omitted:     bag.Len() - len(items) + bag.Overflow(),
		Diagnostics: make([]DiagnosticJSON, 0, len(items)),
	}
	for _, d := range items {
		out.Diagnostics = append(out.Diagnostics, toJSON(d, fs, opts))
	}
	return out
}

// JSON writes the diagnostics of one pack as an indented document.
func JSON(w io.Writer, pack string, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(pack, bag, fs, opts))
}
