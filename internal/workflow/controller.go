package workflow

import (
	"context"
	"log/slog"
	"time"

	"lumen/internal/catalog"
	"lumen/internal/config"
	"lumen/internal/enrich"
	"lumen/internal/logging"
	"lumen/internal/metadata"
	"lumen/internal/organizer"
	"lumen/internal/scheduler"
	"lumen/internal/services"
	"lumen/internal/watch"
)

// MetadataWriter applies enrichment results to a file's metadata.
type MetadataWriter interface {
	Write(ctx context.Context, path string, fields metadata.Fields) error
}

// Controller owns the scan loop and the worker pool.
type Controller struct {
	cfg       *config.Config
	store     *catalog.Store
	scanner   *watch.Scanner
	organizer *organizer.Organizer
	writer    MetadataWriter
	caps      []enrich.Capability
	pool      *scheduler.Pool
	logger    *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New assembles a controller. writer may be nil when metadata writes
// are disabled; organizer may be nil when organizing is disabled.
func New(cfg *config.Config, store *catalog.Store, scanner *watch.Scanner, org *organizer.Organizer, writer MetadataWriter, caps []enrich.Capability, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = logging.NewNop()
	}
	c := &Controller{
		cfg:       cfg,
		store:     store,
		scanner:   scanner,
		organizer: org,
		writer:    writer,
		caps:      caps,
		logger:    logging.NewComponentLogger(logger, "workflow"),
		done:      make(chan struct{}),
	}
	c.pool = scheduler.NewPool(cfg.Scheduler.Workers, c.process, logger)
	return c
}

// Start launches the worker pool and the periodic scan loop.
func (c *Controller) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.pool.Start(runCtx)
	go c.loop(runCtx)
}

// Stop halts scanning, waits for running jobs, and leaves queued jobs
// for the next start: their in-flight claims are reclaimed when the
// catalog reopens.
func (c *Controller) Stop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.pool.Stop()
}

// Depth reports jobs queued or running.
func (c *Controller) Depth() int { return c.pool.Depth() }

func (c *Controller) loop(ctx context.Context) {
	defer close(c.done)

	interval := time.Duration(c.cfg.Watcher.Interval) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.RunScan(ctx); err != nil {
			if services.IsFailFast(err) {
				c.logger.Error("configuration fault, stopping scan loop", logging.Error(err))
				return
			}
			c.logger.Warn("scan failed", logging.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunScan performs one discovery pass: claim, organize, enqueue. It
// returns the number of jobs enqueued.
func (c *Controller) RunScan(ctx context.Context) (int, error) {
	candidates, err := c.scanner.Scan(ctx)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, candidate := range candidates {
		claimed, err := c.store.MarkInFlight(ctx, candidate.Path, candidate.Kind)
		if err != nil {
			c.logger.Warn("claim failed", logging.String(logging.FieldPath, candidate.Path), logging.Error(err))
			continue
		}
		if !claimed {
			continue
		}

		path := candidate.Path
		if c.organizer != nil && c.cfg.Organizer.Enabled && !c.cfg.Scheduler.Simulate {
			result, err := c.organizer.Organize(ctx, path, candidate.Kind)
			switch {
			case err != nil && services.IsFailFast(err):
				if ferr := c.store.MarkFailed(ctx, candidate.Path, err); ferr != nil {
					c.logger.Warn("settle after config fault failed", logging.Error(ferr))
				}
				return enqueued, err
			case err != nil:
				// The file still gets its enrichment pass from
				// wherever it is.
				c.logger.Warn("organize failed", logging.String(logging.FieldPath, path), logging.Error(err))
			default:
				path = result.FinalPath
			}
		}

		job := scheduler.NewJob(path, candidate.Kind)
		job.Source = candidate.Path
		if !c.pool.Submit(job) {
			return enqueued, nil
		}
		enqueued++
	}
	return enqueued, nil
}

func (c *Controller) process(ctx context.Context, job scheduler.Job) {
	log := c.logger.With(
		logging.String(logging.FieldJobID, job.ID.String()),
		logging.String(logging.FieldPath, job.Path),
		logging.String(logging.FieldKind, string(job.Kind)))

	if c.cfg.Scheduler.Simulate {
		log.Info("simulation: would enrich file")
		c.settleDone(ctx, job, log)
		return
	}

	result := enrich.Run(ctx, c.caps, job.Path, job.Kind, log)
	fields := fieldsFromResult(result)

	if c.writer != nil && !fields.Empty() {
		if err := c.writer.Write(ctx, job.Path, fields); err != nil {
			log.Error("metadata write failed", logging.Error(err))
			c.settleFailed(ctx, job, err, log)
			return
		}
	}

	if c.cfg.Metadata.Sidecar && len(result) > 0 {
		doc := metadata.Sidecar{
			Path:        job.Path,
			Kind:        string(job.Kind),
			Keywords:    fields.Keywords,
			Description: fields.Description,
			Extra:       sidecarExtras(result),
		}
		if err := metadata.WriteSidecar(doc); err != nil {
			log.Warn("sidecar write failed", logging.Error(err))
		}
	}

	c.settleDone(ctx, job, log)
}

func (c *Controller) settleDone(ctx context.Context, job scheduler.Job, log *slog.Logger) {
	if err := c.store.MarkDone(ctx, job.Source, job.Path); err != nil {
		log.Error("settle done failed", logging.Error(err))
		return
	}
	log.Info("file processed")
}

func (c *Controller) settleFailed(ctx context.Context, job scheduler.Job, cause error, log *slog.Logger) {
	// Failures are terminal too: a poison file must never be
	// rediscovered by the next scan.
	if err := c.store.MarkFailed(ctx, job.Source, cause); err != nil {
		log.Error("settle failed failed", logging.Error(err))
	}
}

// fieldsFromResult folds capability values into writable metadata.
// Tags, objects, faces, colors, and the resolved place all become
// keywords; the description capability fills the description. OCR text
// and transcripts stay out of embedded metadata and go to the sidecar.
func fieldsFromResult(result enrich.Result) metadata.Fields {
	var fields metadata.Fields
	for _, name := range []string{"tags", "objects", "faces", "colors"} {
		fields.Keywords = append(fields.Keywords, result.Strings(name)...)
	}
	if place := result.String("geotag"); place != "" {
		fields.Keywords = append(fields.Keywords, place)
	}
	fields.Description = result.String("description")
	return fields
}

func sidecarExtras(result enrich.Result) map[string]string {
	extras := make(map[string]string)
	if text := result.String("ocr"); text != "" {
		extras["ocr_text"] = text
	}
	if transcript := result.String("transcription"); transcript != "" {
		extras["transcript"] = transcript
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}
