package schema

import (
	"regexp"
	"strings"

	"avatarforge/internal/avatar"
	"avatarforge/internal/manifest"
	"avatarforge/internal/vocab"
	"avatarforge/internal/wardrobe"
)

var (
	slotKeyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 _.-]*(/[A-Za-z0-9][A-Za-z0-9 _.-]*)*$`)
	hashPattern    = regexp.MustCompile(`^[0-9a-f]{64}$`)
)

// Finding codes.
const (
	CodeMissingField     = "missing-field"
	CodeBadSlotKey       = "bad-slot-key"
	CodeBadRect          = "bad-rect"
	CodeBadPattern       = "bad-pattern"
	CodeBadHash          = "bad-hash"
	CodeMissingEssential = "missing-essential-slot"
	CodeMissingViseme    = "missing-viseme"
	CodeUncoveredSlot    = "uncovered-slot"
	CodeUnknownSlot      = "unknown-slot"
	CodeMissingAnchors   = "missing-anchors"
	CodeRigMismatch      = "rig-mismatch"
)

// ValidateAvatarDocument runs structural checks over an avatar.json
// document.
func ValidateAvatarDocument(doc avatar.Document) Findings {
	var findings Findings
	if strings.TrimSpace(doc.Meta.Generator) == "" {
		findings.addError(CodeMissingField, "", "meta.generator is required")
	}
	if strings.TrimSpace(doc.Meta.RigID) == "" {
		findings.addError(CodeMissingField, "", "meta.rigId is required")
	}
	for slot, ref := range doc.Images.Slices {
		if !slotKeyPattern.MatchString(slot) {
			findings.addError(CodeBadSlotKey, slot, "slot key does not match the canonical path shape")
		}
		if ref.W < 0 || ref.H < 0 {
			findings.addError(CodeBadRect, slot, "negative slice size %dx%d", ref.W, ref.H)
		}
		if strings.TrimSpace(ref.ID) == "" {
			findings.addError(CodeMissingField, slot, "slice entry has no id")
		}
	}
	for _, pattern := range doc.DrawOrder {
		target := strings.TrimSuffix(pattern, "/*")
		if target == "" || !slotKeyPattern.MatchString(target) {
			findings.addError(CodeBadPattern, "", "draw order pattern %q is malformed", pattern)
		}
	}
	return findings
}

// ValidateManifest runs structural checks over a manifest.json document.
func ValidateManifest(m manifest.Manifest) Findings {
	var findings Findings
	if strings.TrimSpace(m.Name) == "" {
		findings.addError(CodeMissingField, "", "name is required")
	}
	if strings.TrimSpace(m.Version) == "" {
		findings.addError(CodeMissingField, "", "version is required")
	}
	if strings.TrimSpace(m.RigID) == "" {
		findings.addError(CodeMissingField, "", "rigId is required")
	}
	if strings.TrimSpace(m.Schema.Avatar) == "" || strings.TrimSpace(m.Schema.Bundle) == "" {
		findings.addError(CodeMissingField, "", "schema versions are required")
	}
	if strings.TrimSpace(m.Entry.Avatar) == "" {
		findings.addError(CodeMissingField, "", "entry.avatar is required")
	}
	for path, hash := range m.Hashes {
		if !hashPattern.MatchString(hash) {
			findings.addError(CodeBadHash, "", "hash for %s is not a sha-256 hex digest", path)
		}
	}
	return findings
}

// ValidateItem runs structural checks over an item.json document.
func ValidateItem(item wardrobe.Item) Findings {
	var findings Findings
	if strings.TrimSpace(item.Type) == "" {
		findings.addError(CodeMissingField, "", "item type is required")
	}
	if strings.TrimSpace(item.SKU) == "" {
		findings.addError(CodeMissingField, "", "item sku is required")
	}
	if strings.TrimSpace(item.RigID) == "" {
		findings.addError(CodeMissingField, "", "item rigId is required")
	}
	if len(item.Fills) == 0 {
		findings.addError(CodeMissingField, "", "item fills nothing")
	}
	for _, slot := range item.Fills {
		if !slotKeyPattern.MatchString(slot) {
			findings.addError(CodeBadSlotKey, slot, "fill slot does not match the canonical path shape")
		}
		if item.Slices[slot] == "" {
			findings.addError(CodeMissingField, slot, "fill slot has no slice file")
		}
	}
	return findings
}

// CheckCompleteness runs semantic checks over a live avatar aggregate:
// essential slot coverage (errors), recommended viseme coverage
// (one aggregated warning), draw-order coverage, palette membership, and
// anchor presence (warnings).
func CheckCompleteness(av *avatar.Avatar, palette vocab.Palette) Findings {
	var findings Findings

	for _, slot := range palette.EssentialSlots() {
		if !av.HasSliceMapping(slot) {
			findings.addError(CodeMissingEssential, slot, "essential slot is not mapped")
		}
	}

	var missingVisemes []string
	for _, slot := range palette.RecommendedSlots() {
		if !av.HasSliceMapping(slot) {
			missingVisemes = append(missingVisemes, slot)
		}
	}
	if len(missingVisemes) > 0 {
		findings.addWarning(CodeMissingViseme, "", "recommended slots not mapped: %s", strings.Join(missingVisemes, ", "))
	}

	for _, slot := range av.UnmatchedSlots() {
		findings.addWarning(CodeUncoveredSlot, slot, "no draw order pattern covers this slot; it will sort last")
	}

	for _, slot := range av.SlotPaths() {
		if !palette.Contains(slot) {
			findings.addWarning(CodeUnknownSlot, slot, "slot is outside the configured palette")
		}
	}

	if len(av.Anchors()) == 0 {
		findings.addWarning(CodeMissingAnchors, "", "no anchors set (headPivot, mouthCenter, ...)")
	}

	return findings
}

// CrossCheck compares a manifest against the avatar document it wraps.
// A rigId mismatch is advisory: the consumer owns the fit decision.
func CrossCheck(m manifest.Manifest, doc avatar.Document) Findings {
	var findings Findings
	if m.RigID != "" && doc.Meta.RigID != "" && m.RigID != doc.Meta.RigID {
		findings.addWarning(CodeRigMismatch, "", "manifest rigId %q does not match avatar rigId %q", m.RigID, doc.Meta.RigID)
	}
	return findings
}
