// Package config loads, normalizes, and validates ishe configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment overrides such as
// ISHE_API_TOKEN. The Config type centralizes every knob the recording
// server and the CLI need, so the recordings directory, the server address,
// and the cue player are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
