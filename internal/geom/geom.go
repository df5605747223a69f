package geom

import (
	"fmt"
	"regexp"
	"strings"
)

// Rect is an axis-aligned pixel rectangle. W and H are never negative in
// a well-formed rect; Empty reports the degenerate cases.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// NewRect builds a rect, normalizing negative sizes to zero.
func NewRect(x, y, w, h int) Rect {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether the rect covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the covered pixel count.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

// Union returns the smallest rect containing both operands. An empty
// operand is the identity, so unions can start from the zero value.
func (r Rect) Union(other Rect) Rect {
	if r.Empty() {
		return other
	}
	if other.Empty() {
		return r
	}
	x0 := min(r.X, other.X)
	y0 := min(r.Y, other.Y)
	x1 := max(r.X+r.W, other.X+other.W)
	y1 := max(r.Y+r.H, other.Y+other.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Overlaps reports whether the rects share any pixel.
func (r Rect) Overlaps(other Rect) bool {
	if r.Empty() || other.Empty() {
		return false
	}
	return r.X < other.X+other.W && other.X < r.X+r.W &&
		r.Y < other.Y+other.H && other.Y < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d@%d,%d", r.W, r.H, r.X, r.Y)
}

// Point is a named pixel position, fractional so anchors can sit between
// pixels on downscaled art.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Z-offset bounds. Offsets nudge a slot within its draw-order layer and
// must stay well inside half a layer stride.
const (
	MinZOffset = -2
	MaxZOffset = 2
)

// ClampZOffset pins an offset into the permitted range.
func ClampZOffset(offset int) int {
	if offset < MinZOffset {
		return MinZOffset
	}
	if offset > MaxZOffset {
		return MaxZOffset
	}
	return offset
}

// Tint is a "#RRGGBB" or "#RRGGBBAA" color string. The empty tint means
// no tint is applied.
type Tint string

var tintPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ParseTint validates a tint string and canonicalizes the hex digits to
// upper case.
func ParseTint(value string) (Tint, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if !tintPattern.MatchString(value) {
		return "", fmt.Errorf("tint %q: want #RRGGBB or #RRGGBBAA", value)
	}
	return Tint("#" + strings.ToUpper(value[1:])), nil
}
