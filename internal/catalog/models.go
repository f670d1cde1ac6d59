package catalog

import (
	"time"

	"lumen/internal/media"
)

// State describes how far a tracked file has progressed.
type State string

const (
	// StateInFlight marks a file claimed at enqueue time. Claiming at enqueue
	// rather than completion closes the window where a second scan could
	// re-yield a file whose first job has not settled yet.
	StateInFlight State = "in_flight"
	// StateDone marks a file whose enrichment job completed.
	StateDone State = "done"
	// StateFailed marks a file whose job failed terminally. Failed files stay
	// tracked so the watcher can never loop on a poison file.
	StateFailed State = "failed"
)

// Entry is one tracked source path.
type Entry struct {
	Path         string
	Kind         media.Kind
	State        State
	FinalPath    string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Terminal reports whether the entry reached a settled state.
func (e *Entry) Terminal() bool {
	return e.State == StateDone || e.State == StateFailed
}

// Stats counts tracked files per state.
type Stats struct {
	InFlight int
	Done     int
	Failed   int
}

// Total returns the number of tracked files across all states.
func (s Stats) Total() int {
	return s.InFlight + s.Done + s.Failed
}
