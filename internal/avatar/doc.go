// Package avatar holds the canonical avatar document: the slot-to-slice
// mapping table, draw-order patterns, and named anchors, plus the
// resolver that turns draw-order patterns into a total compositing
// order.
//
// The aggregate owns two invariants: at most one mapping per slot path
// (latest wins, never a merge), and every populated slot should resolve
// to a finite draw-order index. An unmatched slot sorts last and is a
// warning, not an error.
package avatar
