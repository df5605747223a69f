// Package schema validates the documents a bundle carries, on two
// independent axes.
//
// Structural validation checks required fields, value shapes, and
// pattern-matched key names against the avatar, manifest, and item
// schemas; any structural failure is a blocking error, because a
// malformed document must never be written to disk.
//
// Semantic completeness checks whether a rig can actually function:
// both-eye open and closed states, a neutral mouth viseme, draw-order
// coverage of every populated slot, rigId agreement. Gaps in
// recommended-but-non-essential content are warnings only, so a
// partially rigged avatar stays exportable for iterative work.
package schema
