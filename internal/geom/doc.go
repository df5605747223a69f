// Package geom holds the small value types the engine measures with:
// integer pixel rectangles, anchor points, z-offset bounds, and tint
// colors. Everything here is a plain value; nothing allocates or locks.
package geom
