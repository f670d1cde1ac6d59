package deps

import (
	"os"
	"path/filepath"
	"testing"

	"lumen/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: ""},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("present binary reported unavailable: %+v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("missing binary should carry a detail: %+v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unset command should report unconfigured: %+v", results[2])
	}
}

func TestRequirementsOptionalTracksWrites(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	cfg.Metadata.Write = false
	reqs := Requirements(cfg)
	if len(reqs) != 1 || !reqs[0].Optional {
		t.Fatalf("exiftool should be optional without writes: %+v", reqs)
	}

	cfg.Metadata.Write = true
	reqs = Requirements(cfg)
	if reqs[0].Optional {
		t.Fatalf("exiftool must be required when writes are enabled")
	}
}
