package schema_test

import (
	"fmt"
	"strings"
	"testing"

	"avatarforge/internal/avatar"
	"avatarforge/internal/geom"
	"avatarforge/internal/manifest"
	"avatarforge/internal/schema"
	"avatarforge/internal/slice"
	"avatarforge/internal/vocab"
	"avatarforge/internal/wardrobe"
)

func mustMap(t *testing.T, av *avatar.Avatar, slot string, n int) {
	t.Helper()
	m := avatar.NewMapping(slice.ID(fmt.Sprintf("s%d", n)), geom.Rect{X: n, Y: n, W: 10, H: 10}, 0, "", true)
	if err := av.AddSliceMapping(slot, m); err != nil {
		t.Fatalf("AddSliceMapping(%s): %v", slot, err)
	}
}

// riggedAvatar populates every essential and recommended slot.
func riggedAvatar(t *testing.T) *avatar.Avatar {
	t.Helper()
	palette := vocab.Default()
	av := avatar.New("Mika", "rig-a")
	n := 0
	for _, slot := range palette.EssentialSlots() {
		mustMap(t, av, slot, n)
		n++
	}
	for _, slot := range palette.RecommendedSlots() {
		mustMap(t, av, slot, n)
		n++
	}
	av.SetAnchor("headPivot", geom.Point{X: 128, Y: 64})
	return av
}

func TestValidateAvatarDocument(t *testing.T) {
	av := riggedAvatar(t)
	findings := schema.ValidateAvatarDocument(av.Document())
	if !findings.Valid() {
		t.Fatalf("expected valid document, got errors %v", findings.Errors)
	}
}

func TestValidateAvatarDocumentStructuralErrors(t *testing.T) {
	doc := avatar.Document{
		Meta: avatar.Meta{Generator: "", RigID: ""},
		Images: avatar.Images{Slices: map[string]avatar.SliceRef{
			"/bad/slot": {W: 10, H: 10, ID: "s1"},
			"Hair/front": {W: -1, H: 10, ID: ""},
		}},
		DrawOrder: []string{"Hair/*", "/*"},
	}
	findings := schema.ValidateAvatarDocument(doc)
	if findings.Valid() {
		t.Fatal("expected structural errors")
	}
	codes := map[string]bool{}
	for _, f := range findings.Errors {
		codes[f.Code] = true
	}
	for _, want := range []string{schema.CodeMissingField, schema.CodeBadSlotKey, schema.CodeBadRect, schema.CodeBadPattern} {
		if !codes[want] {
			t.Errorf("missing error code %s in %v", want, findings.Errors)
		}
	}
}

func TestCheckCompletenessMissingEssential(t *testing.T) {
	av := riggedAvatar(t)
	av.RemoveSliceMapping("Eyes/EyeL/state/closed")
	findings := schema.CheckCompleteness(av, vocab.Default())
	if findings.Valid() {
		t.Fatal("missing essential slot must be an error")
	}
	found := false
	for _, f := range findings.Errors {
		if f.Code == schema.CodeMissingEssential && f.Slot == "Eyes/EyeL/state/closed" {
			found = true
		}
	}
	if !found {
		t.Fatalf("error should name the missing slot, got %v", findings.Errors)
	}
}

func TestCheckCompletenessUncoveredSlot(t *testing.T) {
	av := riggedAvatar(t)
	mustMap(t, av, "FX/sparkles", 99)
	order := av.DrawOrder()
	var trimmed avatar.DrawOrder
	for _, pattern := range order {
		if strings.HasPrefix(pattern, "FX") {
			continue
		}
		trimmed = append(trimmed, pattern)
	}
	av.SetDrawOrder(trimmed)

	findings := schema.CheckCompleteness(av, vocab.Default())
	if !findings.Valid() {
		t.Fatalf("uncovered slot must not block, got errors %v", findings.Errors)
	}
	if len(findings.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", findings.Warnings)
	}
	w := findings.Warnings[0]
	if w.Code != schema.CodeUncoveredSlot || w.Slot != "FX/sparkles" {
		t.Fatalf("warning = %+v", w)
	}
}

func TestCheckCompletenessAggregatesVisemes(t *testing.T) {
	av := riggedAvatar(t)
	av.RemoveSliceMapping("Mouth/viseme/AI")
	av.RemoveSliceMapping("Mouth/viseme/FV")
	findings := schema.CheckCompleteness(av, vocab.Default())
	if !findings.Valid() {
		t.Fatalf("missing visemes must not block, got %v", findings.Errors)
	}
	count := 0
	for _, w := range findings.Warnings {
		if w.Code == schema.CodeMissingViseme {
			count++
			if !strings.Contains(w.Message, "Mouth/viseme/AI") || !strings.Contains(w.Message, "Mouth/viseme/FV") {
				t.Fatalf("aggregated warning should list both slots: %q", w.Message)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected one aggregated viseme warning, got %d", count)
	}
}

func TestCheckCompletenessUnknownSlot(t *testing.T) {
	av := riggedAvatar(t)
	mustMap(t, av, "Nonsense/thing", 98)
	findings := schema.CheckCompleteness(av, vocab.Default())
	found := false
	for _, w := range findings.Warnings {
		if w.Code == schema.CodeUnknownSlot && w.Slot == "Nonsense/thing" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected unknown-slot warning, got %v", findings.Warnings)
	}
}

func TestCheckCompletenessMissingAnchors(t *testing.T) {
	palette := vocab.Default()
	av := avatar.New("Mika", "rig-a")
	n := 0
	for _, slot := range palette.EssentialSlots() {
		mustMap(t, av, slot, n)
		n++
	}
	for _, slot := range palette.RecommendedSlots() {
		mustMap(t, av, slot, n)
		n++
	}
	findings := schema.CheckCompleteness(av, palette)
	found := false
	for _, w := range findings.Warnings {
		if w.Code == schema.CodeMissingAnchors {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected missing-anchors warning, got %v", findings.Warnings)
	}
}

func TestValidateManifest(t *testing.T) {
	m := manifest.New("Mika", "1.0.0", "rig-a")
	m.RecordHash("avatar.json", []byte("{}"))
	if findings := schema.ValidateManifest(m); !findings.Valid() {
		t.Fatalf("expected valid manifest, got %v", findings.Errors)
	}

	m.Hashes["slices/canon/Hair_front.png"] = "nothex"
	m.RigID = ""
	findings := schema.ValidateManifest(m)
	if findings.Valid() {
		t.Fatal("expected errors")
	}
	codes := map[string]bool{}
	for _, f := range findings.Errors {
		codes[f.Code] = true
	}
	if !codes[schema.CodeBadHash] || !codes[schema.CodeMissingField] {
		t.Fatalf("errors = %v", findings.Errors)
	}
}

func TestValidateItem(t *testing.T) {
	item := wardrobe.Item{
		Type:  "hair",
		SKU:   "twin-tail-01",
		RigID: "rig-a",
		Fills: []string{"Hair/front"},
		Slices: map[string]string{
			"Hair/front": "Hair_front.png",
		},
	}
	if findings := schema.ValidateItem(item); !findings.Valid() {
		t.Fatalf("expected valid item, got %v", findings.Errors)
	}

	item.Fills = append(item.Fills, "Hair/back")
	findings := schema.ValidateItem(item)
	if findings.Valid() {
		t.Fatal("fill without slice file must fail")
	}
}

func TestCrossCheckRigMismatch(t *testing.T) {
	m := manifest.New("Mika", "1.0.0", "rig-b")
	av := avatar.New("Mika", "rig-a")
	findings := schema.CrossCheck(m, av.Document())
	if !findings.Valid() {
		t.Fatal("rig mismatch is advisory, not blocking")
	}
	if len(findings.Warnings) != 1 || findings.Warnings[0].Code != schema.CodeRigMismatch {
		t.Fatalf("warnings = %v", findings.Warnings)
	}
}

func TestMerge(t *testing.T) {
	a := schema.ValidateManifest(manifest.Manifest{})
	b := schema.CrossCheck(manifest.New("x", "1", "rig-b"), avatar.New("x", "rig-a").Document())
	a.Merge(b)
	if len(a.Warnings) != 1 {
		t.Fatalf("merge lost warnings: %v", a.Warnings)
	}
	if a.Valid() {
		t.Fatal("merge lost errors")
	}
}
