// Package slice defines the image fragment entity produced by the
// external source decoder and the arena store that owns every fragment
// for the lifetime of a run.
//
// Mappings and documents refer to slices by ID only; whether the pixel
// data is still resident is always answered by a store lookup, never
// assumed.
package slice
