package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lumen/internal/config"
	"lumen/internal/fileutil"
	"lumen/internal/logging"
	"lumen/internal/media"
	"lumen/internal/services"
)

// libraryDirMode is applied to freshly created dated directories so
// group members can browse the library.
const libraryDirMode = 0o775

// Result reports what the organizer did with one file.
type Result struct {
	// FinalPath is where the file lives after the call. When Skipped
	// it is the original source path.
	FinalPath string
	// Moved reports that the file changed location.
	Moved bool
	// Skipped reports a skip-strategy conflict decision.
	Skipped bool
	// Renamed reports that a numbered suffix was applied.
	Renamed bool
}

// Organizer moves media files into the dated library.
type Organizer struct {
	cfg     *config.Config
	deriver *Deriver
	logger  *slog.Logger
}

// New builds an Organizer. meta supplies capture timestamps and may be
// nil when metadata reads are disabled.
func New(cfg *config.Config, meta TimestampSource, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Organizer{
		cfg:     cfg,
		deriver: NewDeriver(meta, logger),
		logger:  logger,
	}
}

// Plan returns the destination the file would move to without touching
// the filesystem. Conflict resolution is not applied; the path names
// the dated directory target before any renaming.
func (o *Organizer) Plan(ctx context.Context, path string, kind media.Kind) string {
	dir := o.deriver.Destination(ctx, o.cfg.DestinationRoot(string(kind)), path, kind)
	return filepath.Join(dir, filepath.Base(path))
}

// Organize moves the file into its dated directory, applying the
// configured conflict strategy. The move happens only after the full
// decision (destination plus conflict resolution) is made.
func (o *Organizer) Organize(ctx context.Context, path string, kind media.Kind) (Result, error) {
	if _, err := os.Lstat(path); err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "organizer", "organize", fmt.Sprintf("source %s missing", path), err)
	}

	strategy, err := ParseStrategy(o.cfg.Organizer.OnConflict)
	if err != nil {
		return Result{}, err
	}

	dir := o.deriver.Destination(ctx, o.cfg.DestinationRoot(string(kind)), path, kind)
	if err := os.MkdirAll(dir, libraryDirMode); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "organizer", "organize", fmt.Sprintf("create directory %s", dir), err)
	}
	// MkdirAll honors umask; force the intended mode on the leaf.
	if err := os.Chmod(dir, libraryDirMode); err != nil {
		o.logger.Warn("unable to set library directory mode", logging.String(logging.FieldPath, dir), logging.Error(err))
	}

	target := filepath.Join(dir, filepath.Base(path))
	resolution, err := ResolveConflict(target, strategy, o.cfg.Organizer.RenameSuffix)
	if err != nil {
		return Result{}, err
	}
	if resolution.Skipped {
		o.logger.Info("destination occupied, skipping",
			logging.String(logging.FieldPath, path),
			logging.String("target", target))
		return Result{FinalPath: path, Skipped: true}, nil
	}

	if o.cfg.Organizer.PreserveOriginals {
		if err := fileutil.CopyFile(path, resolution.Path); err != nil {
			return Result{}, services.Wrap(services.ErrTransient, "organizer", "organize", fmt.Sprintf("copy %s", path), err)
		}
	} else if err := fileutil.MoveFile(path, resolution.Path); err != nil {
		return Result{}, services.Wrap(services.ErrTransient, "organizer", "organize", fmt.Sprintf("move %s", path), err)
	}

	o.logger.Info("organized file",
		logging.String(logging.FieldPath, path),
		logging.String("destination", resolution.Path),
		logging.Bool("renamed", resolution.Renamed))
	return Result{FinalPath: resolution.Path, Moved: true, Renamed: resolution.Renamed}, nil
}
