package organizer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lumen/internal/config"
	"lumen/internal/services"
)

// Strategy names a conflict policy for occupied destination paths.
type Strategy string

const (
	// StrategySkip leaves the source in place when the target exists.
	StrategySkip Strategy = "skip"
	// StrategyOverwrite replaces the existing target.
	StrategyOverwrite Strategy = "overwrite"
	// StrategyRename probes numbered alternatives until a free name is found.
	StrategyRename Strategy = "rename"
)

// maxRenameAttempts bounds the numbered-suffix probe so a pathological
// directory cannot spin the resolver forever.
const maxRenameAttempts = 100

// ParseStrategy validates a configured strategy string. Unknown values
// are a configuration fault and abort the run rather than silently
// falling back to a default.
func ParseStrategy(value string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case StrategySkip:
		return StrategySkip, nil
	case StrategyOverwrite:
		return StrategyOverwrite, nil
	case StrategyRename:
		return StrategyRename, nil
	default:
		return "", services.Wrap(services.ErrConfiguration, "organizer", "parse strategy", fmt.Sprintf("unknown conflict strategy %q", value), nil)
	}
}

// Resolution is the resolver's decision for a single target path.
type Resolution struct {
	// Path is the destination to use. Empty when Skipped.
	Path string
	// Skipped reports that the file should stay at its source.
	Skipped bool
	// Renamed reports that Path differs from the requested target.
	Renamed bool
}

// ResolveConflict decides where a file may land given the desired
// target path. The decision is pure with respect to the strategy: the
// same directory contents always yield the same resolution.
func ResolveConflict(target string, strategy Strategy, suffixTemplate string) (Resolution, error) {
	if !pathExists(target) {
		return Resolution{Path: target}, nil
	}
	switch strategy {
	case StrategySkip:
		return Resolution{Skipped: true}, nil
	case StrategyOverwrite:
		return Resolution{Path: target}, nil
	case StrategyRename:
		renamed, err := nextFreePath(target, suffixTemplate)
		if err != nil {
			return Resolution{}, err
		}
		return Resolution{Path: renamed, Renamed: true}, nil
	default:
		return Resolution{}, services.Wrap(services.ErrConfiguration, "organizer", "resolve conflict", fmt.Sprintf("unknown conflict strategy %q", strategy), nil)
	}
}

// nextFreePath substitutes counters 1..maxRenameAttempts into the
// suffix template until it finds an unoccupied name. The suffix lands
// between the stem and the extension: photo.jpg becomes photo_1.jpg.
func nextFreePath(target, suffixTemplate string) (string, error) {
	dir := filepath.Dir(target)
	ext := filepath.Ext(target)
	stem := strings.TrimSuffix(filepath.Base(target), ext)
	for counter := 1; counter <= maxRenameAttempts; counter++ {
		suffix := strings.ReplaceAll(suffixTemplate, config.CounterPlaceholder, fmt.Sprintf("%d", counter))
		candidate := filepath.Join(dir, stem+suffix+ext)
		if !pathExists(candidate) {
			return candidate, nil
		}
	}
	return "", services.Wrap(services.ErrValidation, "organizer", "resolve conflict", fmt.Sprintf("no free name for %s after %d attempts", target, maxRenameAttempts), nil)
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
