// Package config loads, normalizes, and validates stenograf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates the election year against the
// known Chamber terms. The Config type centralizes every knob the CLI needs,
// so output, cache, and store locations are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
