// Package logging provides slog construction, shared attribute helpers,
// and log file retention for the lumen daemon and CLI.
package logging
