// Package catalog persists the processed-file tracker: which source paths
// have been claimed by the pipeline and how they settled. Backed by SQLite;
// an empty path keeps the catalog in memory, matching the tracker's
// process-scoped lifetime, while a file path lets it survive restarts.
package catalog
