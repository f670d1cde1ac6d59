// Package daemon supervises the pipeline and enforces single-instance
// execution through a file lock.
package daemon
