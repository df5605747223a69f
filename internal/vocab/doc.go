// Package vocab holds the canonical slot vocabulary: the closed,
// configurable palette of slot paths a slice can be mapped onto.
//
// The palette is data, not code. A YAML file describes each group's
// parts, states, shapes, visemes, or layers; new parts and slots are
// added by editing that file, never by touching mapping logic. A default
// palette is embedded for zero-config use.
package vocab
