package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"lumen/internal/catalog"
	"lumen/internal/config"
	"lumen/internal/logging"
	"lumen/internal/workflow"
)

// Daemon coordinates the controller lifecycle and holds the instance lock.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *catalog.Store
	controller *workflow.Controller

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	QueueDepth   int
	Catalog      catalog.Stats
	CatalogPath  string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, ctrl *workflow.Controller, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || ctrl == nil {
		return nil, errors.New("daemon requires config, store, and controller")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.LogDir, "lumend.lock")
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		controller: ctrl,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, reclaims interrupted work, and
// launches the controller.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire daemon lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another instance holds %s", d.lockPath)
	}

	// Claims left behind by a crash go back to undiscovered so the
	// next scan retries them.
	reclaimed, err := d.store.ResetInFlight(ctx)
	if err != nil {
		d.unlock()
		return fmt.Errorf("reset interrupted claims: %w", err)
	}
	if reclaimed > 0 {
		d.logger.Info("reclaimed interrupted files", logging.Int("count", int(reclaimed)))
	}

	d.controller.Start(ctx)
	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("watch_dir", d.cfg.Paths.WatchDir),
		logging.Int("workers", d.cfg.Scheduler.Workers),
		logging.Bool("simulate", d.cfg.Scheduler.Simulate))
	return nil
}

// Stop winds the controller down and releases the lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.controller.Stop()
	d.unlock()
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Status reports current runtime counters.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	stats, err := d.store.Counts(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:      d.running.Load(),
		QueueDepth:   d.controller.Depth(),
		Catalog:      stats,
		CatalogPath:  d.cfg.Paths.CatalogPath,
		LockFilePath: d.lockPath,
	}, nil
}

func (d *Daemon) unlock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("release daemon lock", logging.Error(err))
	}
}
