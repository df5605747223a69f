package wardrobe

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"avatarforge/internal/avatar"
	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
)

// Variant is a recolor of an item.
type Variant struct {
	Name string    `json:"name"`
	Tint geom.Tint `json:"tint"`
}

// Item is one equip-able wardrobe component, serialized as item.json.
type Item struct {
	Type     string               `json:"type"`
	SKU      string               `json:"sku"`
	RigID    string               `json:"rigId"`
	Fills    []string             `json:"fills"`
	ZOffsets map[string]int       `json:"zOffsets,omitempty"`
	FitBox   geom.Rect            `json:"fitBox"`
	Slices   map[string]string    `json:"slices"`
	Variants []Variant            `json:"variants,omitempty"`
	Tags     []string             `json:"tags,omitempty"`
	License  string               `json:"license,omitempty"`
}

// Extract builds an item from a subset of an avatar's populated slots.
// Every requested slot must be mapped; the fitBox is the union of the
// extracted mappings' bounds at extraction time.
func Extract(av *avatar.Avatar, itemType, sku string, slots []string) (Item, error) {
	itemType = strings.TrimSpace(itemType)
	sku = strings.TrimSpace(sku)
	if itemType == "" || sku == "" {
		return Item{}, errs.Wrap(errs.ErrInput, "wardrobe", "extract", "type and sku are required", nil)
	}
	if len(slots) == 0 {
		return Item{}, errs.Wrap(errs.ErrInput, "wardrobe", "extract", "no slots requested", nil)
	}

	item := Item{
		Type:     itemType,
		SKU:      sku,
		RigID:    av.RigID,
		ZOffsets: make(map[string]int),
		Slices:   make(map[string]string, len(slots)),
	}
	var fitBox geom.Rect
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		m, ok := av.Mapping(slot)
		if !ok {
			return Item{}, errs.Wrap(errs.ErrConsistency, "wardrobe", "extract", "slot not mapped: "+slot, nil)
		}
		item.Fills = append(item.Fills, slot)
		if m.ZOffset != 0 {
			item.ZOffsets[slot] = m.ZOffset
		}
		item.Slices[slot] = SliceFilename(slot)
		fitBox = fitBox.Union(m.Bounds)
	}
	sort.Strings(item.Fills)
	item.FitBox = fitBox
	if len(item.ZOffsets) == 0 {
		item.ZOffsets = nil
	}
	return item, nil
}

// CompatibleWith reports drop-in compatibility: rigId equality, nothing
// else. Mismatches require a manual fit decision by the consumer.
func (it Item) CompatibleWith(rigID string) bool {
	return it.RigID != "" && it.RigID == rigID
}

// SliceFilename flattens a slot path into the item-local PNG filename.
func SliceFilename(slot string) string {
	return strings.ReplaceAll(slot, "/", "_") + ".png"
}

// Marshal renders the item.json payload.
func (it Item) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal item %s/%s: %w", it.Type, it.SKU, err)
	}
	return data, nil
}
