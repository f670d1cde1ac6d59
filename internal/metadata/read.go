package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rwcarlsen/goexif/exif"

	"lumen/internal/media"
	"lumen/internal/services"
)

// CreationTimestamp returns the capture timestamp recorded in the
// file's metadata, or an empty string when none is present. The value
// is returned verbatim in exiftool's "2006:01:02 15:04:05" shape so
// callers decide how to parse it.
func (s *Service) CreationTimestamp(ctx context.Context, path string, kind media.Kind) (string, error) {
	if kind == media.KindImage {
		return imageCreationTimestamp(path)
	}
	return s.videoCreationTimestamp(ctx, path)
}

func imageCreationTimestamp(path string) (string, error) {
	x, err := decodeEXIF(path)
	if err != nil {
		return "", err
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return "", nil
	}
	value, err := tag.StringVal()
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "metadata", "read exif", fmt.Sprintf("%s: malformed DateTimeOriginal", path), err)
	}
	return value, nil
}

func (s *Service) videoCreationTimestamp(ctx context.Context, path string) (string, error) {
	fields, err := s.readFields(ctx, path, "-QuickTime:CreateDate", "-CreateDate")
	if err != nil {
		return "", err
	}
	if v, ok := fields["CreateDate"].(string); ok {
		return v, nil
	}
	return "", nil
}

// GPSCoordinates returns the embedded GPS position. ok is false when
// the file carries no location.
func (s *Service) GPSCoordinates(ctx context.Context, path string, kind media.Kind) (lat, lon float64, ok bool, err error) {
	if kind == media.KindImage {
		x, err := decodeEXIF(path)
		if err != nil {
			return 0, 0, false, err
		}
		lat, lon, err := x.LatLong()
		if err != nil {
			return 0, 0, false, nil
		}
		return lat, lon, true, nil
	}

	fields, err := s.readFields(ctx, path, "-n", "-GPSLatitude", "-GPSLongitude")
	if err != nil {
		return 0, 0, false, err
	}
	latVal, latOK := asFloat(fields["GPSLatitude"])
	lonVal, lonOK := asFloat(fields["GPSLongitude"])
	if !latOK || !lonOK {
		return 0, 0, false, nil
	}
	return latVal, lonVal, true, nil
}

// Keywords returns the keyword list currently stored on the file.
func (s *Service) Keywords(ctx context.Context, path string) ([]string, error) {
	fields, err := s.readFields(ctx, path, "-Keywords")
	if err != nil {
		return nil, err
	}
	return asStrings(fields["Keywords"]), nil
}

// Description returns the description stored on the file, if any.
func (s *Service) Description(ctx context.Context, path string) (string, error) {
	fields, err := s.readFields(ctx, path, "-Description")
	if err != nil {
		return "", err
	}
	if v, ok := fields["Description"].(string); ok {
		return v, nil
	}
	return "", nil
}

// readFields runs exiftool -json with the given selectors and returns
// the first (only) record.
func (s *Service) readFields(ctx context.Context, path string, selectors ...string) (map[string]any, error) {
	args := append([]string{"-json"}, selectors...)
	args = append(args, path)
	out, err := s.exiftool(ctx, args...)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(out, &records); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", fmt.Sprintf("%s: unparsable output", path), err)
	}
	if len(records) == 0 {
		return map[string]any{}, nil
	}
	return records[0], nil
}

func decodeEXIF(path string) (*exif.Exif, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "metadata", "read exif", path, err)
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "metadata", "read exif", fmt.Sprintf("%s: no EXIF data", path), err)
	}
	return x, nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asStrings normalizes exiftool's habit of returning a bare string for
// single-valued list tags.
func asStrings(v any) []string {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
		return []string{val}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
