package enrich

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"lumen/internal/media"
)

// GPSReader supplies embedded coordinates for a media file.
type GPSReader interface {
	GPSCoordinates(ctx context.Context, path string, kind media.Kind) (lat, lon float64, ok bool, err error)
}

// geotagCapability resolves embedded GPS coordinates to a place name
// through a reverse-geocoding service. Files without coordinates skip
// silently.
type geotagCapability struct {
	endpoint string
	apiKey   string
	kinds    map[media.Kind]bool
	reader   GPSReader
	client   *remoteClient
}

func (geotagCapability) Name() string { return "geotag" }

func (g *geotagCapability) Supports(kind media.Kind) bool { return g.kinds[kind] }

func (g *geotagCapability) Enrich(ctx context.Context, path string) (any, error) {
	lat, lon, ok, err := g.reader.GPSCoordinates(ctx, path, media.DetectKind(path))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%.6f", lat))
	query.Set("lon", fmt.Sprintf("%.6f", lon))
	if g.apiKey != "" {
		query.Set("key", g.apiKey)
	}

	var raw struct {
		Place   string `json:"place"`
		City    string `json:"city"`
		Country string `json:"country"`
	}
	endpoint := g.endpoint + "?" + query.Encode()
	if err := g.client.getJSON(ctx, "geotag", endpoint, &raw); err != nil {
		return nil, err
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{raw.Place, raw.City, raw.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil, nil
	}
	return strings.Join(parts, ", "), nil
}
