// Package config loads, normalizes, and validates beatsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// BEATSYNC_SPEED. The Config type centralizes every knob the CLI needs: the
// display speed written into timelines, the padding used by the selection
// fallbacks, onset analysis parameters, the analysis cache, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
