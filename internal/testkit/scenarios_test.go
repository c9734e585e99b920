package testkit_test

import (
	"context"
	"slices"
	"testing"

	"hirlower/internal/diag"
	"hirlower/internal/hir"
	"hirlower/internal/lower"
	"hirlower/internal/testkit"
)

func TestScenariosLowerAndValidate(t *testing.T) {
	for _, name := range testkit.Names() {
		t.Run(name, func(t *testing.T) {
			sc, ok := testkit.Get(name)
			if !ok {
				t.Fatalf("scenario %q not registered", name)
			}
			bag := diag.NewBag(50)
			out, err := lower.Lower(context.Background(), sc.Crate, sc.Table, lower.Options{
				Reporter: diag.BagReporter{Bag: bag},
				Validate: true,
			})
			if err != nil {
				t.Fatalf("Lower: %v", err)
			}
			bag.Sort()
			var got []string
			for _, d := range bag.Items() {
				got = append(got, d.Code.ID())
				if int(d.Primary.End) > len(sc.Source) {
					t.Errorf("%s points past the source: %v", d.Code.ID(), d.Primary)
				}
			}
			if !slices.Equal(got, sc.Expect) {
				t.Errorf("diagnostics = %v, want %v", got, sc.Expect)
			}
			if len(out.ItemOrder) == 0 {
				t.Error("no items lowered")
			}
		})
	}
}

func TestSampleCoversItemFamilies(t *testing.T) {
	sc := testkit.Sample()
	out, err := lower.Lower(context.Background(), sc.Crate, sc.Table, lower.Options{Validate: true})
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	for _, kind := range []hir.ItemKind{hir.ItemUse, hir.ItemStruct, hir.ItemEnum, hir.ItemTrait, hir.ItemImpl, hir.ItemFn, hir.ItemForeignMod} {
		if len(out.ItemsOf(kind)) == 0 {
			t.Errorf("no %v item", kind)
		}
	}
	if len(out.ExportedMacros) != 1 {
		t.Errorf("exported macros = %d, want 1", len(out.ExportedMacros))
	}
	if len(out.TraitImpls) != 1 {
		t.Errorf("trait impls = %v", out.TraitImpls)
	}
}

func TestGetUnknownScenario(t *testing.T) {
	if _, ok := testkit.Get("nope"); ok {
		t.Fatal("unknown scenario reported as found")
	}
}
