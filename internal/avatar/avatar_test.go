package avatar_test

import (
	"bytes"
	"testing"

	"avatarforge/internal/avatar"
	"avatarforge/internal/geom"
	"avatarforge/internal/slice"
)

func mapping(id string) avatar.SliceMapping {
	return avatar.NewMapping(slice.ID(id), geom.Rect{X: 1, Y: 2, W: 3, H: 4}, 0, "", true)
}

func TestAddRemoveRoundTrip(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("Mouth/viseme/AI", mapping("s1")); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	if !av.HasSliceMapping("Mouth/viseme/AI") {
		t.Fatal("mapping missing after add")
	}
	av.RemoveSliceMapping("Mouth/viseme/AI")
	if av.HasSliceMapping("Mouth/viseme/AI") {
		t.Fatal("mapping present after remove")
	}
}

func TestLatestWinsOnReMap(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("Hair/front", mapping("first")); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	if err := av.AddSliceMapping("Hair/front", mapping("second")); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	if got := len(av.SlotPaths()); got != 1 {
		t.Fatalf("slots = %d, want 1", got)
	}
	m, _ := av.Mapping("Hair/front")
	if m.SliceID != "second" {
		t.Fatalf("slice id = %s, want second", m.SliceID)
	}
}

func TestAddSliceMappingValidation(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("", mapping("s1")); err == nil {
		t.Fatal("empty slot path should fail")
	}
	if err := av.AddSliceMapping("/leading", mapping("s1")); err == nil {
		t.Fatal("leading slash should fail")
	}
	if err := av.AddSliceMapping("Hair/front", avatar.SliceMapping{}); err == nil {
		t.Fatal("mapping without slice id should fail")
	}
}

func TestZOffsetClampedOnAdd(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	m := avatar.NewMapping("s1", geom.Rect{W: 1, H: 1}, 9, "", true)
	if err := av.AddSliceMapping("FX/sparkles", m); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	stored, _ := av.Mapping("FX/sparkles")
	if stored.ZOffset != 2 {
		t.Fatalf("zOffset = %d, want clamp to 2", stored.ZOffset)
	}
}

func TestMappingBoundsCopiedAtMappingTime(t *testing.T) {
	store := slice.NewStore()
	s := &slice.Slice{Name: "Hair Front", Bounds: geom.Rect{X: 5, Y: 5, W: 10, H: 10}}
	id, err := store.Add(s)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("Hair/front", avatar.NewMapping(id, s.Bounds, 0, "", true)); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	s.Bounds = geom.Rect{X: 99, Y: 99, W: 1, H: 1}
	m, _ := av.Mapping("Hair/front")
	if m.Bounds != (geom.Rect{X: 5, Y: 5, W: 10, H: 10}) {
		t.Fatalf("mapped bounds moved with slice mutation: %v", m.Bounds)
	}
}

func TestResolveSliceConsistency(t *testing.T) {
	store := slice.NewStore()
	s := &slice.Slice{Name: "Hair Front", Bounds: geom.Rect{W: 4, H: 4}}
	id, err := store.Add(s)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("Hair/front", avatar.NewMapping(id, s.Bounds, 0, "", true)); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}

	if _, err := av.ResolveSlice(store, "Hair/front"); err != nil {
		t.Fatalf("ResolveSlice: %v", err)
	}
	store.Remove(id)
	if _, err := av.ResolveSlice(store, "Hair/front"); err == nil {
		t.Fatal("expected consistency error after slice removal")
	}
	if _, err := av.ResolveSlice(store, "Hair/back"); err == nil {
		t.Fatal("expected not-found for unmapped slot")
	}
}

func TestDocumentDeterministicAndOmitsUnset(t *testing.T) {
	build := func() *avatar.Avatar {
		av := avatar.New("Mika", "rig-a")
		av.ID = "fixed"
		_ = av.AddSliceMapping("Hair/front", mapping("s1"))
		_ = av.AddSliceMapping("Mouth/viseme/REST", mapping("s2"))
		return av
	}
	first, err := build().MarshalDocument()
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	second, err := build().MarshalDocument()
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("serialization not deterministic")
	}
	if bytes.Contains(first, []byte("anchors")) {
		t.Fatal("never-set anchors must not serialize")
	}

	av := build()
	av.SetAnchor("headPivot", geom.Point{X: 256, Y: 128})
	withAnchor, err := av.MarshalDocument()
	if err != nil {
		t.Fatalf("MarshalDocument: %v", err)
	}
	if !bytes.Contains(withAnchor, []byte("headPivot")) {
		t.Fatal("set anchor missing from document")
	}
}

func TestFromDocumentRoundTrip(t *testing.T) {
	av := avatar.New("Mika", "rig-a")
	if err := av.AddSliceMapping("Hair/front", mapping("s1")); err != nil {
		t.Fatalf("AddSliceMapping: %v", err)
	}
	av.SetAnchor("headPivot", geom.Point{X: 12, Y: 34})
	av.SetDrawOrder(avatar.DrawOrder{"Hair/*"})

	rebuilt, err := avatar.FromDocument(av.Document())
	if err != nil {
		t.Fatalf("FromDocument: %v", err)
	}
	if rebuilt.Name != "Mika" || rebuilt.RigID != "rig-a" {
		t.Fatalf("identity lost: %s %s", rebuilt.Name, rebuilt.RigID)
	}
	m, ok := rebuilt.Mapping("Hair/front")
	if !ok || m.SliceID != "s1" || m.Bounds != (geom.Rect{X: 1, Y: 2, W: 3, H: 4}) {
		t.Fatalf("mapping lost: %+v", m)
	}
	if point, ok := rebuilt.Anchor("headPivot"); !ok || point.X != 12 {
		t.Fatalf("anchor lost: %+v", point)
	}
	if len(rebuilt.DrawOrder()) != 1 || rebuilt.DrawOrder()[0] != "Hair/*" {
		t.Fatalf("draw order lost: %v", rebuilt.DrawOrder())
	}
}
