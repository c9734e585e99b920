package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"hirlower/internal/diag"
	"hirlower/internal/source"
)

const abiSource = "fn ok() {}\nextern \"bogus\" fn broken() {}\n"

func abiBag(t *testing.T, path string) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID, err := fs.Add(path, []byte(abiSource))
	if err != nil {
		t.Fatal(err)
	}
	start := strings.Index(abiSource, `"bogus"`)
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.LowInvalidABI,
		Message:  "invalid ABI: found `bogus`",
		Primary:  source.Span{File: fileID, Start: uint32(start), End: uint32(start + len(`"bogus"`))},
		Label:    "invalid ABI",
		Help:     []string{"valid ABIs: C, Rust, system"},
	})
	return bag, fs
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	bag, fs := abiBag(t, "/home/user/project/src/lib.rs")

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/lib.rs:2:8"},
		{"Relative path", PathModeRelative, "src/lib.rs:2:8"},
		{"Basename only", PathModeBasename, "lib.rs:2:8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/project"})
			output := buf.String()
			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LOW5001: invalid ABI: found `bogus`") {
				t.Errorf("header missing:\n%s", output)
			}
		})
	}
}

func TestPrettyUnderlineAndHelp(t *testing.T) {
	bag, fs := abiBag(t, "lib.rs")
	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, ShowHelp: true})

	want := strings.Join([]string{
		"lib.rs:2:8: ERROR LOW5001: invalid ABI: found `bogus`",
		" 1 | fn ok() {}",
		" 2 | extern \"bogus\" fn broken() {}",
		"   |        ^~~~~~~ invalid ABI",
		"   = help: valid ABIs: C, Rust, system",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestPrettyWithoutLocation(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IODecodePack, Message: "x.hlpack: unsupported pack schema"})
	bag.Add(diag.Diagnostic{Severity: diag.SevError, Code: diag.IODecodePack, Message: "dropped"})
	var buf bytes.Buffer
	Pretty(&buf, bag, source.NewFileSet(), PrettyOpts{})
	want := "ERROR IO4002: x.hlpack: unsupported pack schema\n... 1 more diagnostics not shown\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q", got)
	}
}

func TestFormatPathAuto(t *testing.T) {
	if got := FormatPath("src/lib.rs", PathModeAuto, ""); got != "src/lib.rs" {
		t.Errorf("short path = %q", got)
	}
	long := "/very/long/absolute/path/to/some/nested/directory/lib.rs"
	if got := FormatPath(long, PathModeAuto, ""); got != "lib.rs" {
		t.Errorf("long path = %q", got)
	}
	if _, ok := ParsePathMode("sideways"); ok {
		t.Error("unknown path mode accepted")
	}
}
