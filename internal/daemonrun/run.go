// Package daemonrun wires the full pipeline together for the daemon
// process: logging, catalog, capabilities, controller, and signal
// handling.
package daemonrun

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"lumen/internal/catalog"
	"lumen/internal/config"
	"lumen/internal/daemon"
	"lumen/internal/deps"
	"lumen/internal/enrich"
	"lumen/internal/logging"
	"lumen/internal/metadata"
	"lumen/internal/organizer"
	"lumen/internal/watch"
	"lumen/internal/workflow"
)

// Options configures daemon process runtime behavior.
type Options struct {
	LogLevel string
}

// Run starts the daemon runtime loop and blocks until a signal or
// context cancellation.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("lumen-%s.log", runID))
	level := opts.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	logging.CleanupOldLogs(logger, cfg.Paths.LogDir, "lumen-*.log", cfg.Logging.RetentionDays, logPath)

	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		logger.Info("dependency snapshot",
			logging.String("name", status.Name),
			logging.String("binary", status.Command),
			logging.Bool("available", status.Available),
			logging.Bool("optional", status.Optional))
		if !status.Available && !status.Optional {
			return fmt.Errorf("required dependency %s unavailable: %s", status.Name, status.Detail)
		}
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "lumend.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	if catalogDSN(cfg) != cfg.Paths.CatalogPath {
		logger.Info("simulation uses an in-memory catalog",
			logging.String("catalog_path", cfg.Paths.CatalogPath))
	}
	store, err := catalog.Open(catalogDSN(cfg))
	if err != nil {
		logger.Error("open catalog", logging.Error(err))
		return err
	}
	defer store.Close()

	meta := metadata.NewService(cfg, logger)
	caps, err := enrich.Assemble(cfg, meta)
	if err != nil {
		logger.Error("assemble capabilities", logging.Error(err))
		return err
	}

	scanner := watch.NewScanner(cfg, store, logger)
	org := organizer.New(cfg, meta, logger)
	controller := workflow.New(cfg, store, scanner, org, meta, caps, logger)

	d, err := daemon.New(cfg, store, controller, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	if err := d.Start(signalCtx); err != nil {
		logger.Error("daemon start failed", logging.Error(err))
		return err
	}
	defer d.Stop()

	<-signalCtx.Done()
	logger.Info("lumen daemon shutting down")
	return nil
}

// catalogDSN forces a volatile catalog in simulation mode so a dry run
// never marks files processed for later real runs.
func catalogDSN(cfg *config.Config) string {
	if cfg.Scheduler.Simulate {
		return ""
	}
	return cfg.Paths.CatalogPath
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
