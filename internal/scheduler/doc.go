// Package scheduler runs enrichment jobs on a fixed worker pool.
//
// The queue is unbounded and strictly FIFO, so submission never blocks
// the scan loop and jobs start in the order they were enqueued.
// Completion order is unspecified once more than one worker runs.
package scheduler
