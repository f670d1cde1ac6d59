package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lumen/internal/testsupport"
)

// runCLI executes the root command with args and returns its stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("output missing %q:\n%s", needle, haystack)
	}
}

// writeTestConfig persists a minimal config file so CLI commands can
// load it through --config.
func writeTestConfig(t *testing.T) (string, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	content := `
[paths]
watch_dir = "` + cfg.Paths.WatchDir + `"
image_dir = "` + cfg.Paths.ImageDir + `"
video_dir = "` + cfg.Paths.VideoDir + `"
log_dir = "` + cfg.Paths.LogDir + `"
catalog_path = "` + filepath.Join(base, "catalog.db") + `"

[watcher]
min_file_age = 0
`
	path := filepath.Join(base, "lumen.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path, base
}

func TestConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	// Re-running without --overwrite must refuse.
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatalf("second init should fail without --overwrite")
	}
}

func TestConfigValidate(t *testing.T) {
	path, _ := writeTestConfig(t)
	out, err := runCLI(t, "config", "validate", "--path", path)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "is valid")
}

func TestConfigShow(t *testing.T) {
	path, _ := writeTestConfig(t)
	out, err := runCLI(t, "config", "show", "--path", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "watch_dir")
	requireContains(t, out, "[organizer]")
}

func TestConfigShowRedactsSecrets(t *testing.T) {
	path, base := writeTestConfig(t)
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content = append(content, []byte("\n[services]\ntag_api_key = \"super-secret\"\n")...)
	secretPath := filepath.Join(base, "secret.toml")
	if err := os.WriteFile(secretPath, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, "config", "show", "--path", secretPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "super-secret") {
		t.Fatalf("secret leaked in output:\n%s", out)
	}
	requireContains(t, out, "***")
}

func TestRunCommandCapabilityFlags(t *testing.T) {
	cmd := newRunCommand(newCommandContext(new(string)))
	for _, name := range []string{"tagging", "description", "ocr", "objects", "faces", "colors", "geotagging", "transcription"} {
		if cmd.Flags().Lookup("disable-"+name) == nil {
			t.Fatalf("missing --disable-%s flag", name)
		}
	}
}

func TestApplyCapabilityOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Images.Tagging = true
	cfg.Videos.Tagging = true
	cfg.Images.Colors = true
	cfg.Videos.Transcription = true

	on := true
	off := false
	applyCapabilityOverrides(cfg, map[string]*bool{
		"tagging":       &on,
		"transcription": &on,
		"colors":        &off,
	})
	if cfg.Images.Tagging || cfg.Videos.Tagging {
		t.Fatalf("tagging should be disabled for both kinds")
	}
	if cfg.Videos.Transcription {
		t.Fatalf("transcription should be disabled")
	}
	if !cfg.Images.Colors {
		t.Fatalf("colors must stay enabled when its flag is unset")
	}
}

func TestScanListsCandidates(t *testing.T) {
	path, base := writeTestConfig(t)
	media := filepath.Join(base, "watch", "photo.jpg")
	testsupport.WriteAgedFile(t, media, time.Minute)

	out, err := runCLI(t, "--config", path, "scan")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	requireContains(t, out, "photo.jpg")
}

func TestOrganizeDryRun(t *testing.T) {
	path, base := writeTestConfig(t)
	media := filepath.Join(base, "watch", "photo.jpg")
	testsupport.WriteAgedFile(t, media, time.Minute)

	out, err := runCLI(t, "--config", path, "organize", "--dry-run", media)
	if err != nil {
		t.Fatalf("organize --dry-run: %v", err)
	}
	requireContains(t, out, "photo.jpg ->")
}

func TestCatalogStatsEmpty(t *testing.T) {
	path, _ := writeTestConfig(t)
	out, err := runCLI(t, "--config", path, "catalog", "stats")
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	requireContains(t, out, "total")
}
