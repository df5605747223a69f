package avatar_test

import (
	"slices"
	"testing"

	"avatarforge/internal/avatar"
)

func TestZIndexMonotonicWithDeclarationOrder(t *testing.T) {
	order := avatar.DrawOrder{"A", "B/*"}
	if got := order.ZIndex("A"); got != 0 {
		t.Fatalf("ZIndex(A) = %d", got)
	}
	for _, slot := range []string{"B/x", "B/deep/leaf"} {
		if got := order.ZIndex(slot); got != 1 {
			t.Fatalf("ZIndex(%s) = %d, want 1", slot, got)
		}
	}
	if got := order.ZIndex("C/unmatched"); got != 2 {
		t.Fatalf("unmatched slot = %d, want pattern count 2", got)
	}
}

func TestWildcardNeedsSeparator(t *testing.T) {
	order := avatar.DrawOrder{"Hair/*"}
	if order.ZIndex("Hairpin/x") != 1 {
		t.Fatal("Hair/* must not match the Hairpin group")
	}
	if order.ZIndex("Hair") != 1 {
		t.Fatal("Hair/* must not match the bare group name")
	}
}

func TestSortSlotPathsBackToFront(t *testing.T) {
	order := avatar.DrawOrder{"Body/*", "Hair/back", "Hair/front"}
	got := order.SortSlotPaths([]string{"Hair/front", "Hair/back", "Body/torso"})
	want := []string{"Body/torso", "Hair/back", "Hair/front"}
	if !slices.Equal(got, want) {
		t.Fatalf("sorted = %v, want %v", got, want)
	}
}

func TestSortStabilityWithinTiedPattern(t *testing.T) {
	order := avatar.DrawOrder{"Accessories/*"}
	input := []string{"Accessories/hat", "Accessories/ribbon", "Accessories/glasses"}
	got := order.SortSlotPaths(input)
	if !slices.Equal(got, input) {
		t.Fatalf("tied slots reordered: %v", got)
	}
}

func TestCompositeZClampsOffset(t *testing.T) {
	order := avatar.DrawOrder{"Body/*", "Accessories/*"}
	base := order.CompositeZ("Accessories/hat", 0)
	if base != 1*avatar.ZStride {
		t.Fatalf("base z = %d", base)
	}
	if got := order.CompositeZ("Accessories/hat", -7); got != base-2 {
		t.Fatalf("clamped z = %d, want %d", got, base-2)
	}
	// A maximally nudged accessory still sits above a maximally raised
	// body slot: offsets cannot escape their layer.
	if order.CompositeZ("Accessories/hat", -2) <= order.CompositeZ("Body/torso", 2) {
		t.Fatal("offset escaped its semantic layer")
	}
}

func TestUnmatchedSlotsWarning(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	av.SetDrawOrder(avatar.DrawOrder{"Body/*"})
	_ = av.AddSliceMapping("Body/torso", mapping("s1"))
	_ = av.AddSliceMapping("FX/sparkles", mapping("s2"))
	got := av.UnmatchedSlots()
	if !slices.Equal(got, []string{"FX/sparkles"}) {
		t.Fatalf("unmatched = %v", got)
	}
}
