package metadata

import (
	"encoding/json"
	"os"
	"time"

	"lumen/internal/services"
)

// Sidecar is the JSON document written next to a media file when
// sidecar output is enabled. It preserves enrichment results even for
// formats whose metadata cannot be written in place.
type Sidecar struct {
	Path        string            `json:"path"`
	Kind        string            `json:"kind"`
	Keywords    []string          `json:"keywords,omitempty"`
	Description string            `json:"description,omitempty"`
	Extra       map[string]string `json:"extra,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// SidecarPath returns the sidecar location for a media file. The full
// filename keeps the media extension so photo.jpg and photo.mp4 never
// collide on one sidecar.
func SidecarPath(mediaPath string) string {
	return mediaPath + ".json"
}

// WriteSidecar serializes the document next to the media file.
func WriteSidecar(doc Sidecar) error {
	if doc.GeneratedAt.IsZero() {
		doc.GeneratedAt = time.Now().UTC()
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "metadata", "write sidecar", doc.Path, err)
	}
	if err := os.WriteFile(SidecarPath(doc.Path), payload, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "metadata", "write sidecar", doc.Path, err)
	}
	return nil
}
