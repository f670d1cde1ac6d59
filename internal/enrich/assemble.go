package enrich

import (
	"lumen/internal/config"
	"lumen/internal/media"
)

// Assemble builds the capability list from the per-kind config toggles.
// The list is fixed for the life of the process; per-file applicability
// is decided by each capability's Supports method. A remote capability
// that is toggled on anywhere but has no service URL is a configuration
// error.
func Assemble(cfg *config.Config, gps GPSReader) ([]Capability, error) {
	client := newRemoteClient(cfg.Services.TimeoutSeconds)
	imgLoad := imageLoader(cfg.Services.MaxImageWidth)
	var caps []Capability

	if cfg.Images.Tagging || cfg.Videos.Tagging {
		if err := endpointRequired("tags", cfg.Services.TagURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "tags",
			endpoint: cfg.Services.TagURL,
			apiKey:   cfg.Services.TagAPIKey,
			kinds:    toggleKinds(cfg.Images.Tagging, cfg.Videos.Tagging),
			client:   client,
			loader:   imgLoad,
			extract:  extractStrings("tags"),
		})
	}

	if cfg.Images.Description || cfg.Videos.Description {
		if err := endpointRequired("description", cfg.Services.DescriptionURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "description",
			endpoint: cfg.Services.DescriptionURL,
			kinds:    toggleKinds(cfg.Images.Description, cfg.Videos.Description),
			client:   client,
			loader:   imgLoad,
			extract:  extractString("description"),
		})
	}

	if cfg.Images.OCR || cfg.Videos.OCR {
		if err := endpointRequired("ocr", cfg.Services.OCRURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "ocr",
			endpoint: cfg.Services.OCRURL,
			kinds:    toggleKinds(cfg.Images.OCR, cfg.Videos.OCR),
			client:   client,
			loader:   imgLoad,
			extract:  extractString("text"),
		})
	}

	if cfg.Images.Objects || cfg.Videos.Objects {
		if err := endpointRequired("objects", cfg.Services.ObjectsURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "objects",
			endpoint: cfg.Services.ObjectsURL,
			kinds:    toggleKinds(cfg.Images.Objects, cfg.Videos.Objects),
			client:   client,
			loader:   imgLoad,
			extract:  extractStrings("objects"),
		})
	}

	if cfg.Images.Faces || cfg.Videos.Faces {
		if err := endpointRequired("faces", cfg.Services.FacesURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "faces",
			endpoint: cfg.Services.FacesURL,
			kinds:    toggleKinds(cfg.Images.Faces, cfg.Videos.Faces),
			client:   client,
			loader:   imgLoad,
			extract:  extractStrings("faces"),
		})
	}

	if cfg.Images.Colors || cfg.Videos.Colors {
		caps = append(caps, colorsCapability{})
	}

	if (cfg.Images.Geotagging || cfg.Videos.Geotagging) && gps != nil {
		if err := endpointRequired("geotag", cfg.Services.GeocodeURL); err != nil {
			return nil, err
		}
		caps = append(caps, &geotagCapability{
			endpoint: cfg.Services.GeocodeURL,
			apiKey:   cfg.Services.GeocodeAPIKey,
			kinds:    toggleKinds(cfg.Images.Geotagging, cfg.Videos.Geotagging),
			reader:   gps,
			client:   client,
		})
	}

	if cfg.Videos.Transcription {
		if err := endpointRequired("transcription", cfg.Services.TranscribeURL); err != nil {
			return nil, err
		}
		caps = append(caps, &remoteCapability{
			name:     "transcription",
			endpoint: cfg.Services.TranscribeURL,
			kinds:    videoOnly(),
			client:   client,
			loader:   sizeCappedLoader(megabytes(cfg.Services.TranscribeMaxMB)),
			extract:  extractString("transcript"),
		})
	}

	return caps, nil
}

func toggleKinds(images, videos bool) map[media.Kind]bool {
	kinds := make(map[media.Kind]bool, 2)
	if images {
		kinds[media.KindImage] = true
	}
	if videos {
		kinds[media.KindVideo] = true
	}
	return kinds
}
