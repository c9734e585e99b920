package abi

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		in   string
		want Abi
		ok   bool
	}{
		{"C", C, true},
		{"Rust", Rust, true},
		{"system", System, true},
		{"C-unwind", CUnwind, true},
		{"c", 0, false},
		{"", 0, false},
		{"rust", 0, false},
	}
	for _, tc := range cases {
		got, ok := Lookup(tc.in)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Lookup(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAllNamesRoundTrip(t *testing.T) {
	all := AllNames()
	if len(all) == 0 || all[0] != "Rust" {
		t.Fatalf("unexpected catalogue head: %v", all)
	}
	for _, n := range all {
		a, ok := Lookup(n)
		if !ok || a.String() != n {
			t.Errorf("%q does not round-trip", n)
		}
	}
	all[0] = "mutated"
	if AllNames()[0] != "Rust" {
		t.Errorf("AllNames exposes internal storage")
	}
}
