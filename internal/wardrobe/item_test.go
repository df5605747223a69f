package wardrobe_test

import (
	"slices"
	"testing"

	"avatarforge/internal/avatar"
	"avatarforge/internal/geom"
	"avatarforge/internal/slice"
	"avatarforge/internal/wardrobe"
)

func buildAvatar(t *testing.T) *avatar.Avatar {
	t.Helper()
	av := avatar.New("Mika", "rig-a")
	front := avatar.NewMapping(slice.ID("s1"), geom.Rect{X: 10, Y: 0, W: 40, H: 30}, 1, "", true)
	back := avatar.NewMapping(slice.ID("s2"), geom.Rect{X: 0, Y: 10, W: 30, H: 50}, 0, "", true)
	if err := av.AddSliceMapping("Hair/front", front); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	if err := av.AddSliceMapping("Hair/back", back); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	return av
}

func TestExtract(t *testing.T) {
	av := buildAvatar(t)
	item, err := wardrobe.Extract(av, "hair", "twin-tail-01", []string{"Hair/front", "Hair/back"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if item.RigID != "rig-a" {
		t.Fatalf("rigId = %q", item.RigID)
	}
	if !slices.Equal(item.Fills, []string{"Hair/back", "Hair/front"}) {
		t.Fatalf("fills = %v", item.Fills)
	}
	if item.FitBox != (geom.Rect{X: 0, Y: 0, W: 50, H: 60}) {
		t.Fatalf("fitBox = %v", item.FitBox)
	}
	if item.ZOffsets["Hair/front"] != 1 {
		t.Fatalf("zOffsets = %v", item.ZOffsets)
	}
	if _, zero := item.ZOffsets["Hair/back"]; zero {
		t.Fatal("zero offsets must not serialize")
	}
	if item.Slices["Hair/front"] != "Hair_front.png" {
		t.Fatalf("slice filename = %q", item.Slices["Hair/front"])
	}
}

func TestExtractUnmappedSlotFails(t *testing.T) {
	av := buildAvatar(t)
	if _, err := wardrobe.Extract(av, "hair", "x", []string{"Hair/side"}); err == nil {
		t.Fatal("expected consistency error for unmapped slot")
	}
}

func TestExtractValidation(t *testing.T) {
	av := buildAvatar(t)
	if _, err := wardrobe.Extract(av, "", "sku", []string{"Hair/front"}); err == nil {
		t.Fatal("missing type should fail")
	}
	if _, err := wardrobe.Extract(av, "hair", "sku", nil); err == nil {
		t.Fatal("empty slot list should fail")
	}
}

func TestCompatibility(t *testing.T) {
	av := buildAvatar(t)
	item, err := wardrobe.Extract(av, "hair", "twin-tail-01", []string{"Hair/front"})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !item.CompatibleWith("rig-a") {
		t.Fatal("same rigId should be compatible")
	}
	if item.CompatibleWith("rig-b") {
		t.Fatal("different rigId must not be compatible")
	}
	item.RigID = ""
	if item.CompatibleWith("") {
		t.Fatal("empty rigId is never compatible")
	}
}
