package organizer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lumen/internal/logging"
	"lumen/internal/media"
)

// captureTimeFormats are tried in order against metadata timestamps.
// Cameras commonly omit the zone, so the naive layout comes first.
var captureTimeFormats = []string{
	"2006:01:02 15:04:05",
	"2006:01:02 15:04:05-07:00",
}

// TimestampSource reads a creation timestamp from embedded metadata.
// An empty string with a nil error means the file carries none.
type TimestampSource interface {
	CreationTimestamp(ctx context.Context, path string, kind media.Kind) (string, error)
}

// Deriver maps a media file to its destination directory. The capture
// time decides the folder; when metadata is missing or unreadable the
// deriver falls back to filesystem birth time, then modification time,
// then the current clock, so every file always gets a home.
type Deriver struct {
	meta   TimestampSource
	logger *slog.Logger
	now    func() time.Time
}

// NewDeriver builds a Deriver. meta may be nil when metadata reads are
// disabled; the filesystem fallbacks still apply.
func NewDeriver(meta TimestampSource, logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Deriver{meta: meta, logger: logger, now: time.Now}
}

// Destination returns {root}/{year}/{zero-padded month} for the file.
func (d *Deriver) Destination(ctx context.Context, root, path string, kind media.Kind) string {
	return FolderFor(root, d.captureTime(ctx, path, kind))
}

// FolderFor renders the dated directory for a timestamp.
func FolderFor(root string, ts time.Time) string {
	return filepath.Join(root, fmt.Sprintf("%d", ts.Year()), fmt.Sprintf("%02d", int(ts.Month())))
}

func (d *Deriver) captureTime(ctx context.Context, path string, kind media.Kind) time.Time {
	if d.meta != nil {
		raw, err := d.meta.CreationTimestamp(ctx, path, kind)
		if err != nil {
			d.logger.Debug("metadata timestamp unavailable", logging.String(logging.FieldPath, path), logging.Error(err))
		} else if raw != "" {
			if ts, ok := parseCaptureTime(raw); ok {
				return ts
			}
			d.logger.Debug("unparsable metadata timestamp", logging.String(logging.FieldPath, path), logging.String("value", raw))
		}
	}
	if ts, ok := birthTime(path); ok {
		return ts
	}
	if info, err := os.Stat(path); err == nil {
		return info.ModTime()
	}
	return d.now()
}

func parseCaptureTime(raw string) (time.Time, bool) {
	for _, layout := range captureTimeFormats {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
