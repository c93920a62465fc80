// Package config loads, normalizes, and validates envwatch configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// ENVWATCH_DATABASE. The Config type centralizes every knob the monitor and CLI
// need so the database location, check cadences, and notification backends are
// discovered in one pass.
//
// Load reports whether a configuration file actually exists. The monitor treats
// a missing file as "not configured" and refuses to start, so always obtain
// settings through this package rather than building Config values by hand.
package config
