package avatar

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"avatarforge/internal/errs"
	"avatarforge/internal/geom"
	"avatarforge/internal/slice"
)

// Generator identifies bundles produced by this engine.
const Generator = "avatarforge@1.0.0"

// NewMapping builds a mapping with the z-offset clamped into range.
func NewMapping(sliceID slice.ID, bounds geom.Rect, zOffset int, tint geom.Tint, visible bool) SliceMapping {
	return SliceMapping{
		SliceID: sliceID,
		Bounds:  bounds,
		ZOffset: geom.ClampZOffset(zOffset),
		Tint:    tint,
		Visible: visible,
	}
}

// SliceMapping binds a slot path to a slice. Bounds are copied at
// mapping time so later slice mutation cannot retroactively move a
// mapped slot.
type SliceMapping struct {
	SliceID slice.ID
	Bounds  geom.Rect
	ZOffset int
	Tint    geom.Tint
	Visible bool
}

// Avatar is the aggregate root for one rigged character.
type Avatar struct {
	ID        string
	Name      string
	RigID     string
	Generator string

	mappings  map[string]SliceMapping
	drawOrder DrawOrder
	anchors   map[string]geom.Point
}

// New constructs an empty avatar with the default draw order.
func New(name, rigID string) *Avatar {
	return &Avatar{
		ID:        uuid.NewString(),
		Name:      name,
		RigID:     rigID,
		Generator: Generator,
		mappings:  make(map[string]SliceMapping),
		drawOrder: DefaultDrawOrder(),
		anchors:   make(map[string]geom.Point),
	}
}

// AddSliceMapping assigns a slot. Re-adding an occupied slot silently
// replaces the previous mapping so interactive re-assignment never needs
// an explicit unmap step.
func (a *Avatar) AddSliceMapping(slotPath string, m SliceMapping) error {
	slotPath = strings.TrimSpace(slotPath)
	if slotPath == "" || strings.HasPrefix(slotPath, "/") || strings.HasSuffix(slotPath, "/") {
		return errs.Wrap(errs.ErrInput, "avatar", "add mapping", "malformed slot path: "+slotPath, nil)
	}
	if m.SliceID == "" {
		return errs.Wrap(errs.ErrInput, "avatar", "add mapping", "mapping has no slice id", nil)
	}
	m.ZOffset = geom.ClampZOffset(m.ZOffset)
	a.mappings[slotPath] = m
	return nil
}

// RemoveSliceMapping clears a slot. Removing an empty slot is a no-op.
func (a *Avatar) RemoveSliceMapping(slotPath string) {
	delete(a.mappings, slotPath)
}

// HasSliceMapping reports whether the slot is populated.
func (a *Avatar) HasSliceMapping(slotPath string) bool {
	_, ok := a.mappings[slotPath]
	return ok
}

// Mapping returns the slot's mapping.
func (a *Avatar) Mapping(slotPath string) (SliceMapping, bool) {
	m, ok := a.mappings[slotPath]
	return m, ok
}

// SlotPaths returns the currently populated slots, sorted for
// deterministic iteration.
func (a *Avatar) SlotPaths() []string {
	paths := make([]string, 0, len(a.mappings))
	for path := range a.mappings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// DrawOrder returns the avatar's pattern list.
func (a *Avatar) DrawOrder() DrawOrder {
	return a.drawOrder
}

// SetDrawOrder replaces the pattern list.
func (a *Avatar) SetDrawOrder(order DrawOrder) {
	a.drawOrder = order
}

// SetAnchor records a named pixel point (headPivot, mouthCenter, ...).
func (a *Avatar) SetAnchor(name string, point geom.Point) {
	a.anchors[name] = point
}

// Anchor returns a named anchor.
func (a *Avatar) Anchor(name string) (geom.Point, bool) {
	point, ok := a.anchors[name]
	return point, ok
}

// Anchors returns a copy of the anchor table.
func (a *Avatar) Anchors() map[string]geom.Point {
	out := make(map[string]geom.Point, len(a.anchors))
	for name, point := range a.anchors {
		out[name] = point
	}
	return out
}

// UnmatchedSlots returns populated slots no draw-order pattern covers.
// These sort last at composition time; a warning condition.
func (a *Avatar) UnmatchedSlots() []string {
	var unmatched []string
	for _, path := range a.SlotPaths() {
		if a.drawOrder.ZIndex(path) == len(a.drawOrder) {
			unmatched = append(unmatched, path)
		}
	}
	return unmatched
}

// ResolveSlice looks a mapping's slice up in the store. A missing slice
// is a consistency error the caller decides how to handle.
func (a *Avatar) ResolveSlice(store *slice.Store, slotPath string) (*slice.Slice, error) {
	m, ok := a.mappings[slotPath]
	if !ok {
		return nil, errs.Wrap(errs.ErrNotFound, "avatar", "resolve slice", "slot not mapped: "+slotPath, nil)
	}
	s, ok := store.Get(m.SliceID)
	if !ok {
		return nil, errs.Wrap(errs.ErrConsistency, "avatar", "resolve slice",
			"slice "+string(m.SliceID)+" for slot "+slotPath+" is no longer resident", nil)
	}
	return s, nil
}
