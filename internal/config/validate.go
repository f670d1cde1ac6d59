package config

import (
	"errors"
	"fmt"
	"strings"
)

// CounterPlaceholder is the token the rename suffix template must contain.
const CounterPlaceholder = "{counter}"

var validConflictStrategies = map[string]struct{}{
	"skip":      {},
	"overwrite": {},
	"rename":    {},
}

var validMetadataBehaviors = map[string]struct{}{
	"append":     {},
	"overwrite":  {},
	"do_nothing": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	if err := c.validateOrganizer(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		return errors.New("paths.watch_dir must be set")
	}
	if c.Organizer.Enabled {
		if strings.TrimSpace(c.Paths.ImageDir) == "" {
			return errors.New("paths.image_dir must be set when organizer.enabled is true")
		}
		if strings.TrimSpace(c.Paths.VideoDir) == "" {
			return errors.New("paths.video_dir must be set when organizer.enabled is true")
		}
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.MinFileAge < 0 {
		return errors.New("watcher.min_file_age must be >= 0")
	}
	if c.Watcher.Interval <= 0 {
		return errors.New("watcher.interval must be positive")
	}
	return nil
}

func (c *Config) validateOrganizer() error {
	if _, ok := validConflictStrategies[c.Organizer.OnConflict]; !ok {
		return fmt.Errorf("organizer.on_conflict must be one of skip, overwrite, rename; got %q", c.Organizer.OnConflict)
	}
	if !strings.Contains(c.Organizer.RenameSuffix, CounterPlaceholder) {
		return fmt.Errorf("organizer.rename_suffix must contain the %s placeholder", CounterPlaceholder)
	}
	return nil
}

func (c *Config) validateScheduler() error {
	if c.Scheduler.Workers <= 0 {
		return errors.New("scheduler.workers must be positive")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	if _, ok := validMetadataBehaviors[c.Metadata.Behavior]; !ok {
		return fmt.Errorf("metadata.behavior must be one of append, overwrite, do_nothing; got %q", c.Metadata.Behavior)
	}
	return nil
}
