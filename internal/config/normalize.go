package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOrganizer()
	c.normalizeMetadata()
	c.normalizeServices()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.WatchDir, err = expandPath(c.Paths.WatchDir); err != nil {
		return fmt.Errorf("paths.watch_dir: %w", err)
	}
	if c.Paths.ImageDir, err = expandPath(c.Paths.ImageDir); err != nil {
		return fmt.Errorf("paths.image_dir: %w", err)
	}
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CatalogPath) != "" {
		if c.Paths.CatalogPath, err = expandPath(c.Paths.CatalogPath); err != nil {
			return fmt.Errorf("paths.catalog_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeOrganizer() {
	c.Organizer.OnConflict = strings.ToLower(strings.TrimSpace(c.Organizer.OnConflict))
	if c.Organizer.OnConflict == "" {
		c.Organizer.OnConflict = defaultOnConflict
	}
	if strings.TrimSpace(c.Organizer.RenameSuffix) == "" {
		c.Organizer.RenameSuffix = defaultRenameSuffix
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.Behavior = strings.ToLower(strings.TrimSpace(c.Metadata.Behavior))
	if c.Metadata.Behavior == "" {
		c.Metadata.Behavior = defaultBehavior
	}
	if strings.TrimSpace(c.Metadata.ExiftoolBinary) == "" {
		c.Metadata.ExiftoolBinary = defaultExiftoolBinary
	}
}

func (c *Config) normalizeServices() {
	if c.Services.TagAPIKey == "" {
		if value, ok := os.LookupEnv("LUMEN_TAG_API_KEY"); ok {
			c.Services.TagAPIKey = value
		}
	}
	if c.Services.GeocodeAPIKey == "" {
		if value, ok := os.LookupEnv("LUMEN_GEOCODE_API_KEY"); ok {
			c.Services.GeocodeAPIKey = value
		}
	}
	if c.Services.TimeoutSeconds <= 0 {
		c.Services.TimeoutSeconds = defaultServiceTimeout
	}
	if c.Services.TranscribeMaxMB <= 0 {
		c.Services.TranscribeMaxMB = defaultTranscribeMaxMB
	}
	if c.Services.MaxImageWidth <= 0 {
		c.Services.MaxImageWidth = defaultMaxImageWidth
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
