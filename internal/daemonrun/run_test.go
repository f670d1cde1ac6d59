package daemonrun

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"lumen/internal/testsupport"
)

func TestCatalogDSNDurable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDurableCatalog())
	if got := catalogDSN(cfg); got != cfg.Paths.CatalogPath {
		t.Fatalf("expected durable catalog path, got %q", got)
	}
}

func TestCatalogDSNSimulationStaysVolatile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDurableCatalog())
	cfg.Scheduler.Simulate = true
	if got := catalogDSN(cfg); got != "" {
		t.Fatalf("simulation must not touch the durable catalog, got %q", got)
	}
}

func TestWritePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lumend.pid")
	if err := writePIDFile(path); err != nil {
		t.Fatalf("writePIDFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pid file: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid != os.Getpid() {
		t.Fatalf("unexpected pid file contents %q", data)
	}
}
