// Package logging builds the slog loggers used by the CLI and pipeline.
//
// It offers a console handler that prints a compact header line (time,
// level, component, message) with indented structured fields underneath,
// and a JSON handler for machine consumption. Attr helpers keep call
// sites terse and make the field vocabulary greppable.
package logging
