// Package wardrobe models equip-able items: named, reusable subsets of
// slot mappings extracted from an avatar (a hair style, an outfit).
//
// Items carry the avatar's rigId at extraction time; two items, or an
// item and an avatar, are drop-in compatible iff their rigId strings are
// equal. The fitBox records the bounding rectangle the item's slices
// were authored against. It is a fit-check input for consumers, never an
// enforcement mechanism here.
package wardrobe
