package slice

import (
	"fmt"
	"image"
	"strings"

	"github.com/google/uuid"

	"avatarforge/internal/geom"
)

// ID identifies a slice within the store.
type ID string

// NewID returns a fresh slice identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// Slice is one extracted image fragment. Identity, name, source path,
// and bounds are immutable after construction; only Visible may toggle.
type Slice struct {
	ID         ID
	Name       string
	SourcePath string
	Bounds     geom.Rect
	Image      image.Image
	Visible    bool
}

// Leaf returns the last segment of the slice's source path, or the name
// when no path is recorded.
func (s *Slice) Leaf() string {
	if s.SourcePath == "" {
		return s.Name
	}
	if idx := strings.LastIndex(s.SourcePath, "/"); idx >= 0 {
		return s.SourcePath[idx+1:]
	}
	return s.SourcePath
}

// Store is the arena owning all slices of one extraction pass. Iteration
// preserves insertion order, which downstream packing depends on.
type Store struct {
	byID  map[ID]*Slice
	order []ID
}

// NewStore returns an empty slice store.
func NewStore() *Store {
	return &Store{byID: make(map[ID]*Slice)}
}

// Add inserts a slice, assigning an ID when none is set. Re-adding an
// existing ID is a consistency error: slices are created once per
// extraction pass.
func (st *Store) Add(s *Slice) (ID, error) {
	if s == nil {
		return "", fmt.Errorf("slice store: nil slice")
	}
	if s.ID == "" {
		s.ID = NewID()
	}
	if _, exists := st.byID[s.ID]; exists {
		return "", fmt.Errorf("slice store: duplicate id %s", s.ID)
	}
	st.byID[s.ID] = s
	st.order = append(st.order, s.ID)
	return s.ID, nil
}

// Get returns the slice for id, or false when it is no longer resident.
func (st *Store) Get(id ID) (*Slice, bool) {
	s, ok := st.byID[id]
	return s, ok
}

// Remove drops a slice from the arena. Mappings referring to it keep
// their copied bounds and simply fail future lookups.
func (st *Store) Remove(id ID) {
	if _, ok := st.byID[id]; !ok {
		return
	}
	delete(st.byID, id)
	for i, existing := range st.order {
		if existing == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
}

// Len returns the resident slice count.
func (st *Store) Len() int {
	return len(st.byID)
}

// All returns the resident slices in insertion order.
func (st *Store) All() []*Slice {
	out := make([]*Slice, 0, len(st.order))
	for _, id := range st.order {
		if s, ok := st.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}
