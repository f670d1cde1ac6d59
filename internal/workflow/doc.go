// Package workflow drives the pipeline end to end.
//
// The controller alternates between discovery and processing: a scan
// loop claims new files in the catalog, organizes them into the
// library, and hands them to the worker pool; workers run enrichment
// and settle each file as done or failed. A file reaches a terminal
// state exactly once — even when a stage fails — so a scan can never
// pick the same file up twice.
package workflow
