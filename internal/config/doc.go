// Package config loads, normalizes, and validates Cleaver configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// engine and CLI need: the per-segment byte budget, bitrate fallback, split
// depth bound, external tool binaries, and session retention.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
