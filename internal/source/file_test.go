package source

import "testing"

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id, err := fs.Add("pkg/../a.rs", []byte("\xEF\xBB\xBFstruct S;\r\npub use pkg::{x, y};\n"))
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if f.Path != "a.rs" || f.Content[0] != 's' {
		t.Fatalf("file = %q %q", f.Path, f.Content[:3])
	}

	start, end := fs.Resolve(Span{File: id, Start: 10, End: 13})
	if start != (Pos{Line: 2, Col: 1}) || end != (Pos{Line: 2, Col: 4}) {
		t.Errorf("resolved %+v..%+v", start, end)
	}
	if got := f.Line(2); got != "pub use pkg::{x, y};" {
		t.Errorf("Line(2) = %q", got)
	}
	if got := f.Line(1); got != "struct S;" {
		t.Errorf("Line(1) = %q", got)
	}
	if f.Lines() != 3 || f.Line(3) != "" || f.Line(4) != "" {
		t.Errorf("lines = %d, last = %q", f.Lines(), f.Line(3))
	}
	if p := f.Position(1000); p != (Pos{Line: 3, Col: 1}) {
		t.Errorf("clamped position = %+v", p)
	}
}

func TestFileSetUnknownFile(t *testing.T) {
	fs := NewFileSet()
	if fs.Get(7) != nil {
		t.Fatal("expected nil for unknown file")
	}
	start, _ := fs.Resolve(Span{File: 7})
	if start != (Pos{}) {
		t.Errorf("start = %+v", start)
	}
	var nilSet *FileSet
	if nilSet.Len() != 0 || nilSet.Get(0) != nil {
		t.Error("nil set must be empty")
	}
}
