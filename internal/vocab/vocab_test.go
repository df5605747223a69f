package vocab_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"avatarforge/internal/vocab"
)

func TestDefaultPaletteContains(t *testing.T) {
	palette := vocab.Default()
	valid := []string{
		"Eyes/EyeL/state/open",
		"Eyes/EyeR/state/closed",
		"Mouth/viseme/AI",
		"Mouth/viseme/REST",
		"Brows/BrowL/shape/neutral",
		"Hair/front",
		"Body/torso",
		"Accessories/ribbon",
		"FX/sparkles",
	}
	for _, slot := range valid {
		if !palette.Contains(slot) {
			t.Errorf("Contains(%q) = false", slot)
		}
	}
	invalid := []string{
		"Eyes/EyeL/state/sideways",
		"Mouth/viseme/XX",
		"Hair",
		"Accessories/a/b",
		"Unknown/thing",
	}
	for _, slot := range invalid {
		if palette.Contains(slot) {
			t.Errorf("Contains(%q) = true", slot)
		}
	}
}

func TestEssentialSlots(t *testing.T) {
	got := vocab.Default().EssentialSlots()
	want := []string{
		"Eyes/EyeL/state/closed",
		"Eyes/EyeL/state/open",
		"Eyes/EyeR/state/closed",
		"Eyes/EyeR/state/open",
		"Mouth/viseme/REST",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("EssentialSlots = %v, want %v", got, want)
	}
}

func TestRecommendedSlotsExcludeNeutral(t *testing.T) {
	recommended := vocab.Default().RecommendedSlots()
	if slices.Contains(recommended, "Mouth/viseme/REST") {
		t.Fatal("REST must not be recommended, it is essential")
	}
	if !slices.Contains(recommended, "Mouth/viseme/FV") {
		t.Fatal("FV should be recommended")
	}
}

func TestLoadCustomPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	body := `
groups:
  Tail:
    parts: [base, tip]
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write palette: %v", err)
	}
	palette, err := vocab.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !palette.Contains("Tail/tip") {
		t.Fatal("custom palette slot missing")
	}
	if palette.Contains("Eyes/EyeL/state/open") {
		t.Fatal("custom palette should replace the default, not extend it")
	}
}

func TestLoadRejectsEmptyPalette(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.yaml")
	if err := os.WriteFile(path, []byte("groups: {}\n"), 0o644); err != nil {
		t.Fatalf("write palette: %v", err)
	}
	if _, err := vocab.Load(path); err == nil {
		t.Fatal("expected error for empty palette")
	}
}
