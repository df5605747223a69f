// Package manifest defines the export-time bundle summary written as
// manifest.json. A manifest is created once during export and never
// mutated after writing.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"avatarforge/internal/geom"
)

// Schema versions of the documents this engine writes. Consumers key
// compatibility checks off these strings.
const (
	AvatarSchemaVersion = "avatar/1"
	BundleSchemaVersion = "bundle/1"
)

// Schemas names the document schema versions inside the bundle.
type Schemas struct {
	Avatar string `json:"avatar"`
	Bundle string `json:"bundle"`
}

// Entry points consumers at the bundle's primary documents.
type Entry struct {
	Avatar string `json:"avatar"`
}

// Manifest is the manifest.json document.
type Manifest struct {
	Name     string               `json:"name"`
	Version  string               `json:"version"`
	Schema   Schemas              `json:"schema"`
	Entry    Entry                `json:"entry"`
	RigID    string               `json:"rigId"`
	FitBoxes map[string]geom.Rect `json:"fitBoxes,omitempty"`
	Hashes   map[string]string    `json:"hashes"`
}

// New returns a manifest with schema versions and entry points filled.
func New(name, version, rigID string) Manifest {
	return Manifest{
		Name:    name,
		Version: version,
		Schema:  Schemas{Avatar: AvatarSchemaVersion, Bundle: BundleSchemaVersion},
		Entry:   Entry{Avatar: "avatar.json"},
		RigID:   rigID,
		Hashes:  make(map[string]string),
	}
}

// RecordHash stores the SHA-256 of an archived payload keyed by its
// archive-relative path.
func (m *Manifest) RecordHash(path string, payload []byte) {
	sum := sha256.Sum256(payload)
	m.Hashes[path] = hex.EncodeToString(sum[:])
}

// RecordFitBox stores a wardrobe item's fit rectangle keyed by
// "<type>/<sku>".
func (m *Manifest) RecordFitBox(key string, box geom.Rect) {
	if m.FitBoxes == nil {
		m.FitBoxes = make(map[string]geom.Rect)
	}
	m.FitBoxes[key] = box
}

// Marshal renders the manifest.json payload.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}
