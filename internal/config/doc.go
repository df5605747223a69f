// Package config loads, normalizes, and validates avatarforge
// configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the AVATARFORGE_CONFIG
// environment fallback. The Config type centralizes every knob the CLI
// needs: workspace and output directories, atlas packing limits, export
// toggles, the learned-rules database location, and log settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
