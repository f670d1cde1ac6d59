package media_test

import (
	"testing"

	"lumen/internal/media"
)

func TestDetectKind(t *testing.T) {
	cases := []struct {
		path string
		want media.Kind
	}{
		{"/watch/IMG_0001.jpg", media.KindImage},
		{"/watch/IMG_0002.JPEG", media.KindImage},
		{"/watch/pano.heic", media.KindImage},
		{"/watch/clip.mp4", media.KindVideo},
		{"/watch/clip.MOV", media.KindVideo},
		{"/watch/notes.txt", media.KindOther},
		{"/watch/noext", media.KindOther},
	}
	for _, tc := range cases {
		if got := media.DetectKind(tc.path); got != tc.want {
			t.Errorf("DetectKind(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
