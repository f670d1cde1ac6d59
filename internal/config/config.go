package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WatchDir    string `toml:"watch_dir"`
	ImageDir    string `toml:"image_dir"`
	VideoDir    string `toml:"video_dir"`
	LogDir      string `toml:"log_dir"`
	CatalogPath string `toml:"catalog_path"` // empty keeps the processed-file catalog in memory
}

// Watcher contains configuration for the polling file watcher.
type Watcher struct {
	MinFileAge int  `toml:"min_file_age"` // seconds; files younger than this are skipped
	Interval   int  `toml:"interval"`     // seconds between scans
	Recursive  bool `toml:"recursive"`
}

// Organizer contains configuration for moving files into the dated hierarchy.
type Organizer struct {
	Enabled           bool   `toml:"enabled"`
	OnConflict        string `toml:"on_conflict"`   // skip | overwrite | rename
	RenameSuffix      string `toml:"rename_suffix"` // must contain the {counter} placeholder
	PreserveOriginals bool   `toml:"preserve_originals"`
}

// Scheduler contains configuration for the enrichment worker pool.
type Scheduler struct {
	Workers  int  `toml:"workers"`
	Simulate bool `toml:"simulate"`
}

// Metadata contains configuration for the metadata-writing collaborator.
type Metadata struct {
	Write          bool   `toml:"write"`
	Behavior       string `toml:"behavior"` // append | overwrite | do_nothing
	Sidecar        bool   `toml:"sidecar"`
	ExiftoolBinary string `toml:"exiftool_binary"`
}

// ImageCapabilities toggles enrichment capabilities for images.
type ImageCapabilities struct {
	Tagging     bool `toml:"tagging"`
	Geotagging  bool `toml:"geotagging"`
	Description bool `toml:"description"`
	Colors      bool `toml:"colors"`
	Faces       bool `toml:"faces"`
	OCR         bool `toml:"ocr"`
	Objects     bool `toml:"objects"`
}

// VideoCapabilities toggles enrichment capabilities for videos.
type VideoCapabilities struct {
	Tagging       bool `toml:"tagging"`
	Geotagging    bool `toml:"geotagging"`
	Description   bool `toml:"description"`
	Colors        bool `toml:"colors"`
	Faces         bool `toml:"faces"`
	OCR           bool `toml:"ocr"`
	Objects       bool `toml:"objects"`
	Transcription bool `toml:"transcription"`
}

// Services contains endpoints and credentials for the remote capability collaborators.
type Services struct {
	TagURL          string `toml:"tag_url"`
	TagAPIKey       string `toml:"tag_api_key"`
	DescriptionURL  string `toml:"description_url"`
	OCRURL          string `toml:"ocr_url"`
	ObjectsURL      string `toml:"objects_url"`
	FacesURL        string `toml:"faces_url"`
	GeocodeURL      string `toml:"geocode_url"`
	GeocodeAPIKey   string `toml:"geocode_api_key"`
	TranscribeURL   string `toml:"transcribe_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	TranscribeMaxMB int    `toml:"transcribe_max_mb"` // videos above this size skip transcription
	MaxImageWidth   int    `toml:"max_image_width"`   // downscale bound before remote image calls
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for lumen.
//
// Configuration sections by subsystem:
//   - Paths: watch root, destination roots, log and catalog locations
//   - Watcher: polling interval, minimum file age, recursive scan
//   - Organizer: conflict strategy and rename suffix template
//   - Scheduler: worker pool size and simulation mode
//   - Metadata: write behavior and sidecar output
//   - Images / Videos: per-kind capability toggles
//   - Services: capability endpoint URLs and credentials
//   - Logging: log format, level, and retention
type Config struct {
	Paths     Paths             `toml:"paths"`
	Watcher   Watcher           `toml:"watcher"`
	Organizer Organizer         `toml:"organizer"`
	Scheduler Scheduler         `toml:"scheduler"`
	Metadata  Metadata          `toml:"metadata"`
	Images    ImageCapabilities `toml:"images"`
	Videos    VideoCapabilities `toml:"videos"`
	Services  Services          `toml:"services"`
	Logging   Logging           `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lumen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("lumen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for daemon operation. The
// destination roots are created best-effort so the daemon can start while
// external storage is temporarily unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WatchDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, dir := range []string{c.Paths.ImageDir, c.Paths.VideoDir} {
		if strings.TrimSpace(dir) != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
	}
	if path := strings.TrimSpace(c.Paths.CatalogPath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create catalog directory %q: %w", filepath.Dir(path), err)
		}
	}
	return nil
}

// DestinationRoot returns the configured destination root for a media kind
// string ("image" or "video"). Unknown kinds fall back to the image root.
func (c *Config) DestinationRoot(kind string) string {
	if kind == "video" {
		return c.Paths.VideoDir
	}
	return c.Paths.ImageDir
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
