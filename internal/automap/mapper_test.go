package automap_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"avatarforge/internal/automap"
	"avatarforge/internal/logging"
	"avatarforge/internal/slice"
)

func named(name string) *slice.Slice {
	return &slice.Slice{Name: name, Visible: true}
}

func pathed(name, sourcePath string) *slice.Slice {
	return &slice.Slice{Name: name, SourcePath: sourcePath, Visible: true}
}

func TestBootstrapScenario(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	slices := []*slice.Slice{
		named("Mouth/A"),
		named("Eye L Open"),
		named("Eye R Open"),
		named("Hair Front"),
	}
	result := mapper.MapSlices(slices)
	if len(result.Unmapped) != 0 {
		t.Fatalf("unmapped = %d, want 0", len(result.Unmapped))
	}
	want := map[string]string{
		"Mouth/A":    "Mouth/viseme/AI",
		"Eye L Open": "Eyes/EyeL/state/open",
		"Eye R Open": "Eyes/EyeR/state/open",
		"Hair Front": "Hair/front",
	}
	for _, match := range result.Mapped {
		if got := want[match.Slice.Name]; match.SlotPath != got {
			t.Errorf("%s mapped to %s, want %s", match.Slice.Name, match.SlotPath, got)
		}
	}
}

func TestFirstMatchAcrossSearchStrings(t *testing.T) {
	// The raw name is tried before the source path. A name matching a
	// later rule must still win over a path matching an earlier one.
	ruleA, err := automap.NewRule(`alpha`, "Hair", "front", 0.9)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	ruleB, err := automap.NewRule(`beta`, "Hair", "back", 0.5)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	mapper := automap.NewWithRules(logging.NewNop(), []automap.Rule{ruleA, ruleB})

	s := pathed("beta strand", "Group/alpha/strand")
	result := mapper.MapSlices([]*slice.Slice{s})
	if len(result.Mapped) != 1 {
		t.Fatalf("mapped = %d", len(result.Mapped))
	}
	if result.Mapped[0].SlotPath != "Hair/back" {
		t.Fatalf("slot = %s, want Hair/back (name beats path)", result.Mapped[0].SlotPath)
	}

	// Within a single search string, rule declaration order decides.
	both := named("alpha beta")
	result = mapper.MapSlices([]*slice.Slice{both})
	if result.Mapped[0].SlotPath != "Hair/front" {
		t.Fatalf("slot = %s, want Hair/front (rule order decides)", result.Mapped[0].SlotPath)
	}
}

func TestConfidenceArithmetic(t *testing.T) {
	mapper := automap.New(logging.NewNop())

	// "Mouth/A": base 0.8, no leaf token "ai" in search string, contains
	// a separator: 0.8 - 0.1 = 0.7.
	result := mapper.MapSlices([]*slice.Slice{named("Mouth/A")})
	if got := result.Mapped[0].Confidence; math.Abs(got-0.7) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.7", got)
	}

	// "Eye L Open": base 0.85, contains leaf token "open", no separator:
	// 0.85 + 0.1 = 0.95.
	result = mapper.MapSlices([]*slice.Slice{named("Eye L Open")})
	if got := result.Mapped[0].Confidence; math.Abs(got-0.95) > 1e-9 {
		t.Fatalf("confidence = %v, want 0.95", got)
	}
}

func TestConfidenceClamped(t *testing.T) {
	rule, err := automap.NewRule(`wisp`, "Hair", "wisp", 0.98)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	mapper := automap.NewWithRules(logging.NewNop(), []automap.Rule{rule})
	result := mapper.MapSlices([]*slice.Slice{named("hair wisp")})
	if got := result.Mapped[0].Confidence; got > 1.0 {
		t.Fatalf("confidence = %v, must be clamped to 1", got)
	}
}

func TestUnmappedSlices(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	mystery := named("Zorp Flibble")
	result := mapper.MapSlices([]*slice.Slice{mystery, named("Eye L Open")})
	if len(result.Unmapped) != 1 || result.Unmapped[0] != mystery {
		t.Fatalf("unmapped = %v", result.Unmapped)
	}
	for _, match := range result.Mapped {
		if match.Slice == mystery {
			t.Fatal("unmapped slice must never also appear mapped")
		}
	}
}

func TestManualMapLearnsAndDeduplicates(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	s := named("Kami Mae")

	match, added, err := mapper.ManualMap(s, "Hair/front")
	if err != nil {
		t.Fatalf("ManualMap: %v", err)
	}
	if !added {
		t.Fatal("first correction should add a rule")
	}
	if match.SlotPath != "Hair/front" || match.Confidence != 1.0 {
		t.Fatalf("match = %+v", match)
	}

	_, added, err = mapper.ManualMap(s, "Hair/front")
	if err != nil {
		t.Fatalf("ManualMap repeat: %v", err)
	}
	if added {
		t.Fatal("repeated correction must not add a second rule")
	}
	if got := len(mapper.Learned()); got != 1 {
		t.Fatalf("learned rules = %d, want 1", got)
	}

	// The learned rule now maps a fresh slice with the same name.
	result := mapper.MapSlices([]*slice.Slice{named("Kami Mae")})
	if len(result.Mapped) != 1 || result.Mapped[0].SlotPath != "Hair/front" {
		t.Fatalf("learned rule did not apply: %+v", result)
	}
}

func TestManualMapRejectsBareGroup(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	if _, _, err := mapper.ManualMap(named("x"), "Hair"); err == nil {
		t.Fatal("expected error for slot path without a slot segment")
	}
}

func TestLearnedRulesRunAfterBootstrap(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	// A learned rule targeting the same text as a bootstrap rule must not
	// preempt it.
	if _, _, err := mapper.ManualMap(named("Eye L Open"), "FX/override"); err != nil {
		t.Fatalf("ManualMap: %v", err)
	}
	result := mapper.MapSlices([]*slice.Slice{named("Eye L Open")})
	if result.Mapped[0].SlotPath != "Eyes/EyeL/state/open" {
		t.Fatalf("bootstrap rule should win, got %s", result.Mapped[0].SlotPath)
	}
}

func TestLoadRulesYAMLSkipsInvalidPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PCS_RULES.yaml")
	body := `
aliases:
  - match: "eye[_ -]?l.*open"
    map: {group: Eyes, slot: EyeL/state/open}
    confidence: 0.85
  - match: "([unclosed"
    map: {group: Hair, slot: front}
  - match: "hair.*front"
    map: {group: Hair, slot: front}
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	rules, err := automap.LoadRulesYAML(path, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadRulesYAML: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2 (invalid pattern skipped)", len(rules))
	}
}

func TestRulesYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "PCS_RULES.yaml")
	rule, err := automap.NewRule(`^kami mae$`, "Hair", "front", automap.LearnedConfidence)
	if err != nil {
		t.Fatalf("NewRule: %v", err)
	}
	rule.Learned = true
	if err := automap.SaveRulesYAML(path, []automap.Rule{rule}); err != nil {
		t.Fatalf("SaveRulesYAML: %v", err)
	}
	loaded, err := automap.LoadRulesYAML(path, logging.NewNop())
	if err != nil {
		t.Fatalf("LoadRulesYAML: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded = %d", len(loaded))
	}
	got := loaded[0]
	if got.Pattern != rule.Pattern || got.SlotPath() != "Hair/front" || !got.Learned {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestUnicodeNormalizationInMatching(t *testing.T) {
	mapper := automap.New(logging.NewNop())
	// Full-width letters from art tools fold to their plain forms.
	result := mapper.MapSlices([]*slice.Slice{named("Ｅｙｅ Ｌ Ｏｐｅｎ")})
	if len(result.Mapped) != 1 || result.Mapped[0].SlotPath != "Eyes/EyeL/state/open" {
		t.Fatalf("full-width name should map, got %+v", result)
	}
}
