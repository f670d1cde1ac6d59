package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"lumen/internal/config"
	"lumen/internal/logging"
	"lumen/internal/media"
	"lumen/internal/services"
)

// Tracker answers whether a path has already entered the pipeline.
type Tracker interface {
	Seen(ctx context.Context, path string) (bool, error)
}

// Scanner polls the watch directory for settled media files.
type Scanner struct {
	cfg     *config.Config
	tracker Tracker
	logger  *slog.Logger
	now     func() time.Time
}

// NewScanner builds a Scanner over the configured watch directory.
func NewScanner(cfg *config.Config, tracker Tracker, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Scanner{
		cfg:     cfg,
		tracker: tracker,
		logger:  logging.NewComponentLogger(logger, "watch"),
		now:     time.Now,
	}
}

// Scan returns the new, settled media files under the watch directory
// in lexicographic path order. A file is settled once its age reaches
// the configured minimum; younger files are left for a later scan. A
// missing watch directory is an error: silently returning nothing
// would look like an empty inbox.
func (s *Scanner) Scan(ctx context.Context) ([]media.WatchCandidate, error) {
	root := s.cfg.Paths.WatchDir
	if _, err := os.Stat(root); err != nil {
		return nil, services.Wrap(services.ErrNotFound, "watch", "scan", root, err)
	}

	cutoff := time.Duration(s.cfg.Watcher.MinFileAge) * time.Second
	now := s.now()
	var candidates []media.WatchCandidate

	walk := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("unreadable entry during scan", logging.String(logging.FieldPath, path), logging.Error(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !s.cfg.Watcher.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		kind := media.DetectKind(path)
		if kind == media.KindOther {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			s.logger.Warn("stat failed during scan", logging.String(logging.FieldPath, path), logging.Error(err))
			return nil
		}
		// Age boundary is inclusive: a file exactly min_file_age old
		// is ready.
		if now.Sub(info.ModTime()) < cutoff {
			return nil
		}
		seen, err := s.tracker.Seen(ctx, path)
		if err != nil {
			return err
		}
		if seen {
			return nil
		}
		candidates = append(candidates, media.WatchCandidate{Path: path, Kind: kind, ModTime: info.ModTime()})
		return nil
	}

	if err := filepath.WalkDir(root, walk); err != nil {
		return nil, services.Wrap(services.ErrTransient, "watch", "scan", root, err)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
	if len(candidates) > 0 {
		s.logger.Debug("scan found candidates", logging.Int("count", len(candidates)))
	}
	return candidates, nil
}
