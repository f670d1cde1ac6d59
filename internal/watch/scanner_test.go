package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lumen/internal/services"
	"lumen/internal/testsupport"
)

type memoryTracker struct {
	seen map[string]bool
	err  error
}

func (m *memoryTracker) Seen(_ context.Context, path string) (bool, error) {
	return m.seen[path], m.err
}

func TestScanFindsSettledMediaSorted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	for _, name := range []string{"b.mp4", "a.jpg", "c.png"} {
		testsupport.WriteAgedFile(t, filepath.Join(cfg.Paths.WatchDir, name), time.Minute)
	}
	testsupport.WriteAgedFile(t, filepath.Join(cfg.Paths.WatchDir, "notes.txt"), time.Minute)

	scanner := NewScanner(cfg, &memoryTracker{seen: map[string]bool{}}, nil)
	candidates, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 3 {
		t.Fatalf("expected 3 media files, got %d", len(candidates))
	}
	for i, want := range []string{"a.jpg", "b.mp4", "c.png"} {
		if filepath.Base(candidates[i].Path) != want {
			t.Fatalf("candidate %d = %s, want %s", i, candidates[i].Path, want)
		}
	}
}

func TestScanAgeBoundaryInclusive(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithMinFileAge(60))
	old := filepath.Join(cfg.Paths.WatchDir, "old.jpg")
	exact := filepath.Join(cfg.Paths.WatchDir, "exact.jpg")
	young := filepath.Join(cfg.Paths.WatchDir, "young.jpg")
	testsupport.WriteAgedFile(t, old, 2*time.Minute)
	testsupport.WriteFile(t, young, 1)

	scanner := NewScanner(cfg, &memoryTracker{seen: map[string]bool{}}, nil)

	// Pin the clock so the exact-age file sits precisely on the
	// boundary.
	now := time.Now()
	scanner.now = func() time.Time { return now }
	stamp := now.Add(-60 * time.Second)
	testsupport.WriteFile(t, exact, 1)
	if err := os.Chtimes(exact, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	candidates, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	got := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		got[filepath.Base(c.Path)] = true
	}
	if !got["old.jpg"] || !got["exact.jpg"] {
		t.Fatalf("settled files missing: %v", got)
	}
	if got["young.jpg"] {
		t.Fatalf("young file must wait for a later scan")
	}
}

func TestScanSkipsTrackedFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	tracked := filepath.Join(cfg.Paths.WatchDir, "done.jpg")
	fresh := filepath.Join(cfg.Paths.WatchDir, "new.jpg")
	testsupport.WriteAgedFile(t, tracked, time.Minute)
	testsupport.WriteAgedFile(t, fresh, time.Minute)

	scanner := NewScanner(cfg, &memoryTracker{seen: map[string]bool{tracked: true}}, nil)
	candidates, err := scanner.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Path != fresh {
		t.Fatalf("expected only the untracked file, got %v", candidates)
	}
}

func TestScanRecursiveToggle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	nested := filepath.Join(cfg.Paths.WatchDir, "sub", "deep.jpg")
	testsupport.WriteAgedFile(t, nested, time.Minute)

	flat := NewScanner(cfg, &memoryTracker{seen: map[string]bool{}}, nil)
	candidates, err := flat.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("flat scan should ignore subdirectories, got %v", candidates)
	}

	cfg.Watcher.Recursive = true
	recursive := NewScanner(cfg, &memoryTracker{seen: map[string]bool{}}, nil)
	candidates, err = recursive.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Path != nested {
		t.Fatalf("recursive scan should find nested file, got %v", candidates)
	}
}

func TestScanMissingWatchDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := os.RemoveAll(cfg.Paths.WatchDir); err != nil {
		t.Fatalf("remove watch dir: %v", err)
	}

	scanner := NewScanner(cfg, &memoryTracker{seen: map[string]bool{}}, nil)
	_, err := scanner.Scan(context.Background())
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestScanPropagatesTrackerFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteAgedFile(t, filepath.Join(cfg.Paths.WatchDir, "a.jpg"), time.Minute)

	scanner := NewScanner(cfg, &memoryTracker{err: errors.New("catalog closed")}, nil)
	if _, err := scanner.Scan(context.Background()); err == nil {
		t.Fatalf("tracker failures must surface")
	}
}
