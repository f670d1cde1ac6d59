// Package media classifies filesystem entries into media kinds and carries
// the watch candidate type produced by directory scans.
package media

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind identifies the broad media category of a file.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindOther Kind = "other"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".heic": {},
	".webp": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {},
	".mov": {},
	".avi": {},
	".mkv": {},
}

// DetectKind classifies a path by its extension, case-insensitively.
func DetectKind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := imageExtensions[ext]; ok {
		return KindImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return KindVideo
	}
	return KindOther
}

// WatchCandidate is a filesystem entry discovered by the watcher and not yet
// tracked as processed. Produced by one scan, consumed once by the controller.
type WatchCandidate struct {
	Path    string
	Kind    Kind
	ModTime time.Time
}
