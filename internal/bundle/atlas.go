package bundle

import (
	"math"
	"sort"

	"avatarforge/internal/geom"
)

// Atlas is the result of packing slot rectangles into one square image.
type Atlas struct {
	// Side is the atlas edge length in pixels.
	Side int
	// Rects maps packed slots to their atlas-space rectangles.
	Rects map[string]geom.Rect
	// Omitted lists slots that did not fit and stay as loose files.
	Omitted []string
}

// PackAtlas shelf-packs the given slot sizes into a square whose side is
// ceil(sqrt(total area * paddingFactor)), capped at maxDimension. Slots
// are placed tallest first with name as the tie-break, so equal inputs
// always pack identically. Slots that do not fit are omitted, never an
// error.
func PackAtlas(sizes map[string]geom.Rect, maxDimension int, paddingFactor float64) Atlas {
	if paddingFactor < 1 {
		paddingFactor = 1
	}

	slots := make([]string, 0, len(sizes))
	totalArea := 0
	maxEdge := 0
	for slot, r := range sizes {
		if r.Empty() {
			continue
		}
		slots = append(slots, slot)
		totalArea += r.Area()
		if r.W > maxEdge {
			maxEdge = r.W
		}
		if r.H > maxEdge {
			maxEdge = r.H
		}
	}
	sort.Slice(slots, func(i, j int) bool {
		a, b := sizes[slots[i]], sizes[slots[j]]
		if a.H != b.H {
			return a.H > b.H
		}
		if a.W != b.W {
			return a.W > b.W
		}
		return slots[i] < slots[j]
	})

	side := int(math.Ceil(math.Sqrt(float64(totalArea) * paddingFactor)))
	if side < maxEdge {
		side = maxEdge
	}
	if maxDimension > 0 && side > maxDimension {
		side = maxDimension
	}

	atlas := Atlas{Side: side, Rects: make(map[string]geom.Rect, len(slots))}
	x, shelfY, shelfH := 0, 0, 0
	for _, slot := range slots {
		r := sizes[slot]
		if x+r.W > side {
			// Open the next shelf.
			x = 0
			shelfY += shelfH
			shelfH = 0
		}
		if r.W > side || shelfY+r.H > side {
			atlas.Omitted = append(atlas.Omitted, slot)
			continue
		}
		atlas.Rects[slot] = geom.Rect{X: x, Y: shelfY, W: r.W, H: r.H}
		x += r.W
		if r.H > shelfH {
			shelfH = r.H
		}
	}
	sort.Strings(atlas.Omitted)
	return atlas
}
