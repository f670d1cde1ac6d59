package enrich

import (
	"context"
	"fmt"
	"image/color"
	"sort"

	"github.com/disintegration/imaging"

	"lumen/internal/media"
	"lumen/internal/services"
)

// colorSampleWidth keeps the dominant-color scan cheap regardless of
// the source resolution.
const colorSampleWidth = 64

// maxDominantColors caps how many swatches a file reports.
const maxDominantColors = 5

// colorsCapability extracts the dominant colors of an image locally,
// without any remote service.
type colorsCapability struct{}

func (colorsCapability) Name() string { return "colors" }

func (colorsCapability) Supports(kind media.Kind) bool { return kind == media.KindImage }

func (colorsCapability) Enrich(_ context.Context, path string) (any, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "colors", "decode image", path, err)
	}
	img = imaging.Resize(img, colorSampleWidth, 0, imaging.NearestNeighbor)

	counts := make(map[color.RGBA]int)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			counts[quantize(img.At(x, y))]++
		}
	}

	type swatch struct {
		c color.RGBA
		n int
	}
	swatches := make([]swatch, 0, len(counts))
	for c, n := range counts {
		swatches = append(swatches, swatch{c, n})
	}
	sort.Slice(swatches, func(i, j int) bool {
		if swatches[i].n != swatches[j].n {
			return swatches[i].n > swatches[j].n
		}
		return hexColor(swatches[i].c) < hexColor(swatches[j].c)
	})

	limit := maxDominantColors
	if len(swatches) < limit {
		limit = len(swatches)
	}
	out := make([]string, 0, limit)
	for _, s := range swatches[:limit] {
		out = append(out, hexColor(s.c))
	}
	return out, nil
}

// quantize buckets each channel to 32 levels so near-identical pixels
// count as one color.
func quantize(c color.Color) color.RGBA {
	r, g, b, _ := c.RGBA()
	return color.RGBA{
		R: uint8(r>>8) &^ 0x07,
		G: uint8(g>>8) &^ 0x07,
		B: uint8(b>>8) &^ 0x07,
		A: 0xff,
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
