package resolve

import (
	"testing"

	"hirlower/internal/ast"
)

func TestTableDefineIsStable(t *testing.T) {
	tab := NewTable(10)
	if got, ok := tab.LookupDef(ast.CrateNodeID); !ok || got != CrateDefID {
		t.Fatalf("crate root def = %d, %v", got, ok)
	}
	a := tab.DefID(5, DefStruct)
	b := tab.DefID(5, DefFn)
	if a != b {
		t.Fatalf("second request allocated a new def: %d vs %d", a, b)
	}
	if tab.DefKind(a) != DefStruct {
		t.Errorf("kind = %s, want struct", tab.DefKind(a))
	}
	if tab.DefKind(NoDefID) != DefUnknown || tab.DefKind(99) != DefUnknown {
		t.Errorf("out of range kinds must be unknown")
	}
}

func TestTableUnresolvedIsErr(t *testing.T) {
	tab := NewTable(10)
	if !tab.PathRes(42).IsErr() {
		t.Errorf("missing path must resolve to Err")
	}
	if len(tab.ImportRes(42)) != 0 {
		t.Errorf("missing import must have no hits")
	}
}

func TestTableImportKeepsAtMostTwo(t *testing.T) {
	tab := NewTable(10)
	tab.SetImport(3, Def(DefStruct, 2), Def(DefCtor, 3), Def(DefFn, 4))
	if n := len(tab.ImportRes(3)); n != 2 {
		t.Fatalf("import hits = %d, want 2", n)
	}
}

func TestTableNextNodeID(t *testing.T) {
	tab := NewTable(0)
	first := tab.NextNodeID()
	if first <= ast.CrateNodeID {
		t.Fatalf("fresh id collides with reserved ids: %d", first)
	}
	if second := tab.NextNodeID(); second != first+1 {
		t.Errorf("ids not monotonic: %d then %d", first, second)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tab := NewTable(100)
	s := tab.DefID(7, DefStruct)
	f := tab.DefID(8, DefFn)
	tab.SetPath(20, Def(DefStruct, s))
	tab.SetImport(21, Def(DefFn, f))

	back := FromSnapshot(tab.Snapshot())
	if got, _ := back.LookupDef(7); got != s {
		t.Errorf("struct def = %d, want %d", got, s)
	}
	if got, _ := back.LookupDef(8); got != f {
		t.Errorf("fn def = %d, want %d", got, f)
	}
	if back.DefKind(f) != DefFn {
		t.Errorf("fn kind lost")
	}
	if back.PathRes(20) != Def(DefStruct, s) {
		t.Errorf("path res = %v", back.PathRes(20))
	}
	if back.NextNodeID() != 100 {
		t.Errorf("next node id not preserved")
	}
}

func TestResString(t *testing.T) {
	cases := map[string]Res{
		"struct#3": Def(DefStruct, 3),
		"prim(u8)": Prim("u8"),
		"Self#2":   SelfTy(2),
		"local(9)": Local(9),
		"err":      Err,
	}
	for want, r := range cases {
		if got := r.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
