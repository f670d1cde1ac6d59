package organizer

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"lumen/internal/services"
	"lumen/internal/testsupport"
)

func TestParseStrategy(t *testing.T) {
	for _, raw := range []string{"skip", "Overwrite", " RENAME "} {
		if _, err := ParseStrategy(raw); err != nil {
			t.Fatalf("ParseStrategy(%q): %v", raw, err)
		}
	}
	_, err := ParseStrategy("merge")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestResolveConflictFreeTarget(t *testing.T) {
	target := filepath.Join(t.TempDir(), "photo.jpg")
	res, err := ResolveConflict(target, StrategySkip, "_{counter}")
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if res.Skipped || res.Path != target {
		t.Fatalf("free target should resolve to itself, got %+v", res)
	}
}

func TestResolveConflictSkip(t *testing.T) {
	target := filepath.Join(t.TempDir(), "photo.jpg")
	testsupport.WriteFile(t, target, 1)

	res, err := ResolveConflict(target, StrategySkip, "_{counter}")
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if !res.Skipped {
		t.Fatalf("expected skip, got %+v", res)
	}
}

func TestResolveConflictOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "photo.jpg")
	testsupport.WriteFile(t, target, 1)

	res, err := ResolveConflict(target, StrategyOverwrite, "_{counter}")
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if res.Skipped || res.Path != target {
		t.Fatalf("overwrite should keep the target path, got %+v", res)
	}
}

func TestResolveConflictRenameCountsUp(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "photo.jpg")
	testsupport.WriteFile(t, target, 1)

	res, err := ResolveConflict(target, StrategyRename, "_{counter}")
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if res.Path != filepath.Join(dir, "photo_1.jpg") || !res.Renamed {
		t.Fatalf("expected photo_1.jpg, got %+v", res)
	}

	testsupport.WriteFile(t, res.Path, 1)
	res, err = ResolveConflict(target, StrategyRename, "_{counter}")
	if err != nil {
		t.Fatalf("ResolveConflict: %v", err)
	}
	if res.Path != filepath.Join(dir, "photo_2.jpg") {
		t.Fatalf("expected photo_2.jpg, got %+v", res)
	}
}

func TestResolveConflictRenameExhausts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "photo.jpg")
	testsupport.WriteFile(t, target, 1)
	for i := 1; i <= maxRenameAttempts; i++ {
		testsupport.WriteFile(t, filepath.Join(dir, fmt.Sprintf("photo_%d.jpg", i)), 1)
	}

	_, err := ResolveConflict(target, StrategyRename, "_{counter}")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error after exhausting attempts, got %v", err)
	}
}
