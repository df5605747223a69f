package avatar

import (
	"encoding/json"

	"avatarforge/internal/geom"
	"avatarforge/internal/slice"
)

// Document is the serialized avatar.json shape. Map keys marshal in
// sorted order, so serialization is deterministic for equal state.
type Document struct {
	Meta      Meta                  `json:"meta"`
	Images    Images                `json:"images"`
	DrawOrder []string              `json:"drawOrder"`
	Anchors   map[string]geom.Point `json:"anchors,omitempty"`
}

// Meta carries bundle provenance.
type Meta struct {
	Name      string `json:"name,omitempty"`
	Generator string `json:"generator"`
	RigID     string `json:"rigId"`
	ZStride   int    `json:"zStride"`
}

// Images describes where slot pixels live: loose per-slot files, or a
// packed atlas when Atlas is set (slice rects are then atlas-space).
type Images struct {
	Atlas  string              `json:"atlas,omitempty"`
	Slices map[string]SliceRef `json:"slices"`
}

// SliceRef is one slot's rectangle plus the slice identity for
// traceability back to the source document.
type SliceRef struct {
	X  int    `json:"x"`
	Y  int    `json:"y"`
	W  int    `json:"w"`
	H  int    `json:"h"`
	ID string `json:"id"`
}

// Rect returns the reference's rectangle.
func (r SliceRef) Rect() geom.Rect {
	return geom.Rect{X: r.X, Y: r.Y, W: r.W, H: r.H}
}

// Document builds the loose-files serialization of the avatar. It is
// pure: equal aggregates produce equal documents, and neither unmapped
// slices nor never-set anchors appear.
func (a *Avatar) Document() Document {
	doc := Document{
		Meta: Meta{
			Name:      a.Name,
			Generator: a.Generator,
			RigID:     a.RigID,
			ZStride:   ZStride,
		},
		Images:    Images{Slices: make(map[string]SliceRef, len(a.mappings))},
		DrawOrder: append([]string{}, a.drawOrder...),
	}
	for slotPath, m := range a.mappings {
		doc.Images.Slices[slotPath] = SliceRef{
			X:  m.Bounds.X,
			Y:  m.Bounds.Y,
			W:  m.Bounds.W,
			H:  m.Bounds.H,
			ID: string(m.SliceID),
		}
	}
	if len(a.anchors) > 0 {
		doc.Anchors = a.Anchors()
	}
	return doc
}

// MarshalDocument renders the avatar.json payload.
func (a *Avatar) MarshalDocument() ([]byte, error) {
	return json.MarshalIndent(a.Document(), "", "  ")
}

// FromDocument rebuilds an aggregate from a serialized document. The
// rebuilt avatar gets a fresh ID; identity is not serialized. Per-slot
// z-offsets and tints are session state and do not round-trip.
func FromDocument(doc Document) (*Avatar, error) {
	av := New(doc.Meta.Name, doc.Meta.RigID)
	if doc.Meta.Generator != "" {
		av.Generator = doc.Meta.Generator
	}
	if len(doc.DrawOrder) > 0 {
		av.SetDrawOrder(append(DrawOrder{}, doc.DrawOrder...))
	}
	for slotPath, ref := range doc.Images.Slices {
		m := NewMapping(slice.ID(ref.ID), ref.Rect(), 0, "", true)
		if err := av.AddSliceMapping(slotPath, m); err != nil {
			return nil, err
		}
	}
	for name, point := range doc.Anchors {
		av.SetAnchor(name, point)
	}
	return av, nil
}
