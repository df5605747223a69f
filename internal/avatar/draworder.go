package avatar

import (
	"sort"
	"strings"

	"avatarforge/internal/geom"
)

// ZStride is the index multiplier separating adjacent draw-order layers.
// Per-mapping z-offsets stay within (-ZStride/2, ZStride/2), so a nudged
// slot can never cross into a neighbouring semantic layer.
const ZStride = 10

// DrawOrder is an ordered list of patterns, back to front. A pattern is
// either an exact canonical slot path or a prefix wildcard "Group/*".
type DrawOrder []string

// DefaultDrawOrder covers the default palette groups back to front.
func DefaultDrawOrder() DrawOrder {
	return DrawOrder{
		"Hair/back",
		"Body/*",
		"Face/*",
		"Eyes/*",
		"Brows/*",
		"Mouth/*",
		"Hair/side",
		"Hair/front",
		"Accessories/*",
		"FX/*",
	}
}

// ZIndex returns the index of the first pattern matching slotPath. A
// slot matching no pattern sorts after all patterns: index = len(d).
func (d DrawOrder) ZIndex(slotPath string) int {
	for i, pattern := range d {
		if matchPattern(pattern, slotPath) {
			return i
		}
	}
	return len(d)
}

// SortSlotPaths stable-sorts paths by draw-order index. Relative order
// among slots tied on the same pattern is preserved: artists rely on
// insertion order within a tied group to control front/back order.
func (d DrawOrder) SortSlotPaths(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.SliceStable(out, func(i, j int) bool {
		return d.ZIndex(out[i]) < d.ZIndex(out[j])
	})
	return out
}

// CompositeZ returns the effective z value for a slot: its pattern index
// scaled by ZStride, nudged by the mapping's clamped offset.
func (d DrawOrder) CompositeZ(slotPath string, zOffset int) int {
	return d.ZIndex(slotPath)*ZStride + geom.ClampZOffset(zOffset)
}

func matchPattern(pattern, slotPath string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return strings.HasPrefix(slotPath, prefix+"/")
	}
	return pattern == slotPath
}
