package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lumen/internal/media"
	"lumen/internal/services"
	"lumen/internal/testsupport"
)

type stubTimestamps struct {
	value string
	err   error
}

func (s stubTimestamps) CreationTimestamp(context.Context, string, media.Kind) (string, error) {
	return s.value, s.err
}

func TestDeriverUsesMetadataTimestamp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	testsupport.WriteFile(t, path, 1)

	d := NewDeriver(stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	got := d.Destination(context.Background(), "/library", path, media.KindImage)
	if got != filepath.Join("/library", "2023", "04") {
		t.Fatalf("unexpected destination %s", got)
	}
}

func TestDeriverParsesZonedTimestamp(t *testing.T) {
	d := NewDeriver(stubTimestamps{value: "2021:12:31 23:00:00-05:00"}, nil)
	got := d.Destination(context.Background(), "/library", filepath.Join(t.TempDir(), "missing.jpg"), media.KindImage)
	if got != filepath.Join("/library", "2021", "12") {
		t.Fatalf("unexpected destination %s", got)
	}
}

func TestDeriverFallsBackToFilesystemTimes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	testsupport.WriteFile(t, path, 1)
	stamp := time.Date(2019, time.July, 4, 12, 0, 0, 0, time.Local)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	// Garbled metadata must not abort the derivation; the filesystem
	// supplies the timestamp instead. Filesystems with btime report
	// the creation instant, others fall through to the mtime stamp.
	d := NewDeriver(stubTimestamps{value: "not a timestamp"}, nil)
	want := filepath.Join("/library", "2019", "07")
	if ts, ok := birthTime(path); ok {
		want = FolderFor("/library", ts)
	}
	got := d.Destination(context.Background(), "/library", path, media.KindVideo)
	if got != want {
		t.Fatalf("unexpected destination %s, want %s", got, want)
	}
}

func TestDeriverFallsBackToClock(t *testing.T) {
	d := NewDeriver(nil, nil)
	d.now = func() time.Time { return time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC) }
	got := d.Destination(context.Background(), "/library", filepath.Join(t.TempDir(), "gone.jpg"), media.KindImage)
	if got != filepath.Join("/library", "2024", "02") {
		t.Fatalf("unexpected destination %s", got)
	}
}

func TestOrganizeMovesIntoDatedFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 1)

	o := New(cfg, stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	res, err := o.Organize(context.Background(), src, media.KindImage)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	want := filepath.Join(cfg.Paths.ImageDir, "2023", "04", "photo.jpg")
	if res.FinalPath != want || !res.Moved {
		t.Fatalf("unexpected result %+v, want path %s", res, want)
	}
	if _, err := os.Stat(src); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("source should be gone after the move")
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestOrganizeSkipLeavesSource(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithConflictStrategy("skip"))
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 1)
	occupied := filepath.Join(cfg.Paths.ImageDir, "2023", "04", "photo.jpg")
	testsupport.WriteFile(t, occupied, 4)

	o := New(cfg, stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	res, err := o.Organize(context.Background(), src, media.KindImage)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if !res.Skipped || res.Moved || res.FinalPath != src {
		t.Fatalf("expected skip with source untouched, got %+v", res)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source should remain: %v", err)
	}
	info, err := os.Stat(occupied)
	if err != nil || info.Size() != 4 {
		t.Fatalf("existing destination should be untouched: %v", err)
	}
}

func TestOrganizeRenameAppendsCounter(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithConflictStrategy("rename"))
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 1)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.ImageDir, "2023", "04", "photo.jpg"), 1)

	o := New(cfg, stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	res, err := o.Organize(context.Background(), src, media.KindImage)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	want := filepath.Join(cfg.Paths.ImageDir, "2023", "04", "photo_1.jpg")
	if res.FinalPath != want || !res.Renamed {
		t.Fatalf("expected renamed destination %s, got %+v", want, res)
	}
}

func TestOrganizeOverwriteReplacesTarget(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithConflictStrategy("overwrite"))
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 8)
	target := filepath.Join(cfg.Paths.ImageDir, "2023", "04", "photo.jpg")
	testsupport.WriteFile(t, target, 2)

	o := New(cfg, stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	res, err := o.Organize(context.Background(), src, media.KindImage)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || info.Size() != 8 {
		t.Fatalf("target should hold the new contents, got %v size %d", err, info.Size())
	}
	if res.FinalPath != target {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestOrganizeMissingSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	o := New(cfg, stubTimestamps{}, nil)
	_, err := o.Organize(context.Background(), filepath.Join(cfg.Paths.WatchDir, "gone.jpg"), media.KindImage)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestOrganizeUnknownStrategyFailsFast(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Organizer.OnConflict = "merge"
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 1)

	o := New(cfg, stubTimestamps{}, nil)
	_, err := o.Organize(context.Background(), src, media.KindImage)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !services.IsFailFast(err) {
		t.Fatalf("configuration errors must abort the run")
	}
}

func TestOrganizePreserveOriginalsCopies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Organizer.PreserveOriginals = true
	src := filepath.Join(cfg.Paths.WatchDir, "photo.jpg")
	testsupport.WriteFile(t, src, 3)

	o := New(cfg, stubTimestamps{value: "2023:04:15 10:30:00"}, nil)
	res, err := o.Organize(context.Background(), src, media.KindImage)
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("original should survive: %v", err)
	}
	if _, err := os.Stat(res.FinalPath); err != nil {
		t.Fatalf("copy missing: %v", err)
	}
}
