// Package rulestore persists learned mapping rules in SQLite so manual
// corrections made in one session carry into future imports.
//
// The store is append-mostly: a UNIQUE constraint over (pattern, target
// group, target slot) makes deduplication structural, so replaying the
// same correction any number of times keeps exactly one row. Rules are
// never removed automatically; Clear is the explicit user action.
package rulestore
