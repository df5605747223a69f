// Package bundle serializes an avatar aggregate into the distributable
// ZIP artifact: avatar.json, manifest.json with payload hashes, the
// per-slot slice images (optionally packed into a single atlas),
// wardrobe items, the active rule set, previews, and a README.
//
// Export is all-or-nothing. Validation runs before any byte is written,
// the archive is assembled in a temp file under an advisory lock, and
// the final name only appears once the whole bundle is on disk.
package bundle
