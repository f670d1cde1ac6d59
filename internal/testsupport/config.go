package testsupport

import (
	"path/filepath"
	"testing"

	"lumen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WatchDir = filepath.Join(base, "watch")
	cfgVal.Paths.ImageDir = filepath.Join(base, "images")
	cfgVal.Paths.VideoDir = filepath.Join(base, "videos")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Watcher.MinFileAge = 0
	cfgVal.Metadata.Write = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithConflictStrategy sets the organizer conflict strategy.
func WithConflictStrategy(strategy string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organizer.OnConflict = strategy
	}
}

// WithMinFileAge sets the watcher minimum file age in seconds.
func WithMinFileAge(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Watcher.MinFileAge = seconds
	}
}

// WithDurableCatalog points the catalog at a file under the test base
// directory instead of the in-memory default.
func WithDurableCatalog() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.CatalogPath = filepath.Join(b.baseDir, "catalog.db")
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WatchDir)
}
