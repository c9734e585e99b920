package hir_test

import (
	"context"
	"strings"
	"testing"

	"hirlower/internal/ast"
	"hirlower/internal/hir"
	"hirlower/internal/lower"
	"hirlower/internal/resolve"
)

// lowered returns a small valid crate: a unit struct and a trait with one
// provided method.
func lowered(t *testing.T) *hir.Crate {
	t.Helper()
	b := ast.NewBuilder(1)
	method := b.AssocFn("get", ast.Generics{}, b.FnSig([]ast.Param{b.SelfParam(true)}, nil), b.Block())
	krate := b.Crate(
		b.UnitStruct("S"),
		b.TraitItem("Get", ast.Generics{}, method),
	)
	out, err := lower.Lower(context.Background(), krate, resolve.NewTable(b.Peek()), lower.Options{})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	return out
}

func TestValidateAcceptsLoweredCrate(t *testing.T) {
	if err := hir.Validate(lowered(t)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsBrokenCrates(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*hir.Crate)
		want   string
	}{
		{
			name: "gap in local ids",
			mutate: func(c *hir.Crate) {
				id := c.FindItem(hir.ItemStruct, "S").DefID
				c.OwnerCounters[id] += 2
			},
			want: "issued but unused",
		},
		{
			name: "local id beyond counter",
			mutate: func(c *hir.Crate) {
				id := c.FindItem(hir.ItemStruct, "S").DefID
				c.OwnerCounters[id] = 0
			},
			want: "beyond counter",
		},
		{
			name: "member refs disagree with table",
			mutate: func(c *hir.Crate) {
				tr := c.FindItem(hir.ItemTrait, "Get")
				tr.Trait.Items = nil
			},
			want: "disagree with records",
		},
		{
			name: "module lists a missing item",
			mutate: func(c *hir.Crate) {
				c.Root.ItemIDs = append(c.Root.ItemIDs, 9999)
			},
			want: "item 9999 is referenced but was never lowered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := lowered(t)
			tt.mutate(c)
			err := hir.Validate(c)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate = %v, want %q", err, tt.want)
			}
		})
	}
}
