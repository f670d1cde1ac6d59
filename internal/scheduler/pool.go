package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"lumen/internal/logging"
	"lumen/internal/media"
)

// Job is one unit of work for the pool. Path is where the file lives
// now; Source is the path it was discovered under, which stays the
// tracking key even after the organizer moves the file.
type Job struct {
	ID         uuid.UUID
	Path       string
	Source     string
	Kind       media.Kind
	EnqueuedAt time.Time
}

// NewJob stamps a job with a fresh identifier.
func NewJob(path string, kind media.Kind) Job {
	return Job{ID: uuid.New(), Path: path, Source: path, Kind: kind, EnqueuedAt: time.Now()}
}

// Handler processes one job. Handlers own their error reporting; the
// pool only guards against panics.
type Handler func(ctx context.Context, job Job)

// Pool is a fixed-size worker pool over an unbounded FIFO queue.
type Pool struct {
	workers int
	handler Handler
	logger  *slog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Job
	running int
	closed  bool

	wg sync.WaitGroup
}

// NewPool builds a pool with the given worker count. Counts below one
// are clamped to one worker.
func NewPool(workers int, handler Handler, logger *slog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pool{
		workers: workers,
		handler: handler,
		logger:  logging.NewComponentLogger(logger, "scheduler"),
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// Start launches the workers. They run until Stop is called or ctx is
// cancelled; cancellation finishes the jobs already running but starts
// no new ones.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(ctx, i)
	}
	go func() {
		<-ctx.Done()
		p.close()
	}()
}

// Submit appends the job to the queue. It never blocks; after Stop it
// drops the job and reports false.
func (p *Pool) Submit(job Job) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return false
	}
	p.queue = append(p.queue, job)
	p.cond.Signal()
	return true
}

// Stop refuses new work and waits for running jobs to finish. Jobs
// still queued are dropped.
func (p *Pool) Stop() {
	p.close()
	p.wg.Wait()
}

// Depth reports queued plus running jobs.
func (p *Pool) Depth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) + p.running
}

func (p *Pool) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}

func (p *Pool) work(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if p.closed {
			p.mu.Unlock()
			return
		}
		job := p.queue[0]
		p.queue = p.queue[1:]
		p.running++
		p.mu.Unlock()

		p.runJob(ctx, id, job)

		p.mu.Lock()
		p.running--
		p.mu.Unlock()
	}
}

// runJob isolates handler panics so one poisonous file cannot take a
// worker down with it.
func (p *Pool) runJob(ctx context.Context, worker int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked",
				logging.String(logging.FieldJobID, job.ID.String()),
				logging.String(logging.FieldPath, job.Path),
				logging.String("panic", fmt.Sprint(r)),
				logging.String("stack", string(debug.Stack())))
		}
	}()
	p.logger.Debug("job started",
		logging.Int("worker", worker),
		logging.String(logging.FieldJobID, job.ID.String()),
		logging.String(logging.FieldPath, job.Path))
	p.handler(ctx, job)
}
