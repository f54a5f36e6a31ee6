// Package config loads, normalizes, and validates hopper configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// HOPPER_API_TOKEN. The Config type centralizes every knob the daemon and CLI
// need, so the queue root, worker cadence, and control-plane credentials are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
