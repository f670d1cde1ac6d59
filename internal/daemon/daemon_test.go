package daemon

import (
	"context"
	"path/filepath"
	"testing"

	"lumen/internal/catalog"
	"lumen/internal/config"
	"lumen/internal/media"
	"lumen/internal/organizer"
	"lumen/internal/testsupport"
	"lumen/internal/watch"
	"lumen/internal/workflow"
)

func newDaemon(t *testing.T, cfg *config.Config) (*Daemon, *catalog.Store) {
	t.Helper()
	store := testsupport.MustOpenCatalog(t, cfg)
	scanner := watch.NewScanner(cfg, store, nil)
	org := organizer.New(cfg, nil, nil)
	ctrl := workflow.New(cfg, store, scanner, org, nil, nil, nil)
	d, err := New(cfg, store, ctrl, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, store
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, _ := newDaemon(t, cfg)
	second, _ := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := first.Start(ctx); err != nil {
		t.Fatalf("first start: %v", err)
	}
	defer first.Stop()

	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatalf("second instance must be refused")
	}
}

func TestDaemonReclaimsInterruptedClaims(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDurableCatalog())
	d, store := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A claim with no terminal state simulates a crash mid-job.
	claimed, err := store.MarkInFlight(ctx, "/watch/crashed.jpg", media.KindImage)
	if err != nil || !claimed {
		t.Fatalf("MarkInFlight: claimed=%v err=%v", claimed, err)
	}

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	entry, err := store.Get(ctx, "/watch/crashed.jpg")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if entry != nil {
		t.Fatalf("interrupted claim should be reclaimed, got %+v", entry)
	}
}

func TestDaemonStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	d, store := newDaemon(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	if claimed, err := store.MarkInFlight(ctx, "/watch/a.jpg", media.KindImage); err != nil || !claimed {
		t.Fatalf("MarkInFlight: %v", err)
	}
	if err := store.MarkDone(ctx, "/watch/a.jpg", "/library/a.jpg"); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	status, err := d.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running || status.Catalog.Done != 1 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.LockFilePath != filepath.Join(cfg.Paths.LogDir, "lumend.lock") {
		t.Fatalf("unexpected lock path %s", status.LockFilePath)
	}

	d.Stop()
	status, err = d.Status(ctx)
	if err != nil {
		t.Fatalf("Status after stop: %v", err)
	}
	if status.Running {
		t.Fatalf("stopped daemon must not report running")
	}
}
