// Package config loads, normalizes, and validates the TOML configuration
// for the lumen daemon and CLI.
package config
