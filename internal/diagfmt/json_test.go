package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"hirlower/internal/diag"
	"hirlower/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	bag, fs := abiBag(t, "lib.rs")
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LowMissingABI, Message: "extern block without an explicit ABI"})

	var buf bytes.Buffer
	err := JSON(&buf, "sample", bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeHelp: true})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Pack != "sample" || output.Count != 2 {
		t.Fatalf("pack=%q count=%d", output.Pack, output.Count)
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LOW5001" || d.Title != "Invalid ABI" {
		t.Errorf("header = %s %s %q", d.Severity, d.Code, d.Title)
	}
	loc := d.Location
	if loc == nil || loc.File != "lib.rs" || loc.Start == nil || *loc.Start != (PosJSON{Line: 2, Col: 8}) {
		t.Fatalf("location = %+v", loc)
	}
	if loc.End.Col != 15 || loc.ByteEnd-loc.ByteStart != 7 {
		t.Errorf("end = %+v, bytes %d..%d", loc.End, loc.ByteStart, loc.ByteEnd)
	}
	if len(d.Help) != 1 || d.Label != "invalid ABI" {
		t.Errorf("help = %v, label = %q", d.Help, d.Label)
	}
}

func TestJSONWithoutFiles(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IOLoadFileError, Message: "failed to read x.hlpack"})
	out := BuildDiagnosticsOutput("x", bag, source.NewFileSet(), JSONOpts{IncludePositions: true})
	// пакет не прочитан: без location
	if out.Count != 1 || out.Diagnostics[0].Location != nil {
		t.Errorf("out = %+v", out)
	}
}

func TestJSONMax(t *testing.T) {
	bag, fs := abiBag(t, "lib.rs")
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.LowImplTraitNotAllowed, Message: "second"})
	out := BuildDiagnosticsOutput("", bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 || out.Omitted != 1 || out.Diagnostics[0].Help != nil {
		t.Errorf("out = %+v", out)
	}
	if out.Diagnostics[0].Location.Start != nil {
		t.Error("positions written without IncludePositions")
	}
}
