// Package automap matches slice names and source paths against an
// ordered rule set to propose canonical slot paths with advisory
// confidence scores.
//
// The policy is first-match, not best-match: for each slice a small set
// of search strings is derived (raw name, full source path, leaf
// segment, path with separators spaced out), and the first rule whose
// pattern matches any search string wins. Rules are tried in bootstrap
// declaration order, then learned append order. Confidence is still computed for every
// accepted match so a reviewing human can rank proposals, but it never
// gates acceptance.
//
// Manual corrections feed back into the engine: each override learns a
// literal, case-insensitive rule for the corrected name, so artist
// vocabulary from one document carries into the next import.
package automap
