package enrich

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"os"

	"github.com/disintegration/imaging"

	"lumen/internal/media"
	"lumen/internal/services"
)

// remoteCapability is a capability backed by an HTTP service that
// accepts the media payload and answers with a small JSON document.
type remoteCapability struct {
	name     string
	endpoint string
	apiKey   string
	kinds    map[media.Kind]bool
	client   *remoteClient
	loader   func(ctx context.Context, path string) ([]byte, error)
	extract  func(raw map[string]any) any
}

func (c *remoteCapability) Name() string { return c.name }

func (c *remoteCapability) Supports(kind media.Kind) bool { return c.kinds[kind] }

func (c *remoteCapability) Enrich(ctx context.Context, path string) (any, error) {
	payload, err := c.loader(ctx, path)
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, nil
	}
	var raw map[string]any
	if err := c.client.postPayload(ctx, c.name, c.endpoint, c.apiKey, payload, &raw); err != nil {
		return nil, err
	}
	return c.extract(raw), nil
}

// rawFileLoader reads the file verbatim.
func rawFileLoader(_ context.Context, path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "enrich", "read file", path, err)
	}
	return payload, nil
}

// imageLoader downscales large images before upload so remote services
// never receive full-resolution originals.
func imageLoader(maxWidth int) func(ctx context.Context, path string) ([]byte, error) {
	return func(ctx context.Context, path string) ([]byte, error) {
		if maxWidth <= 0 {
			return rawFileLoader(ctx, path)
		}
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		if err != nil {
			// Undecodable image formats go up as-is.
			return rawFileLoader(ctx, path)
		}
		if img.Bounds().Dx() > maxWidth {
			img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
			return nil, services.Wrap(services.ErrValidation, "enrich", "encode image", path, err)
		}
		return buf.Bytes(), nil
	}
}

// sizeCappedLoader refuses files above the byte limit by returning a
// nil payload, which skips the capability without error.
func sizeCappedLoader(maxBytes int64) func(ctx context.Context, path string) ([]byte, error) {
	return func(ctx context.Context, path string) ([]byte, error) {
		if maxBytes > 0 {
			info, err := os.Stat(path)
			if err != nil {
				return nil, services.Wrap(services.ErrNotFound, "enrich", "stat file", path, err)
			}
			if info.Size() > maxBytes {
				return nil, nil
			}
		}
		return rawFileLoader(ctx, path)
	}
}

func extractStrings(key string) func(raw map[string]any) any {
	return func(raw map[string]any) any {
		list, ok := raw[key].([]any)
		if !ok {
			return nil
		}
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
}

func extractString(key string) func(raw map[string]any) any {
	return func(raw map[string]any) any {
		s, ok := raw[key].(string)
		if !ok || s == "" {
			return nil
		}
		return s
	}
}

func videoOnly() map[media.Kind]bool {
	return map[media.Kind]bool{media.KindVideo: true}
}

func megabytes(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(n) * 1 << 20
}

// endpointRequired guards assembly: a toggled-on remote capability with
// no endpoint is a configuration fault, not a silent skip.
func endpointRequired(name, endpoint string) error {
	if endpoint == "" {
		return services.Wrap(services.ErrConfiguration, "enrich", "assemble", fmt.Sprintf("capability %s enabled but no service URL configured", name), nil)
	}
	return nil
}
