package enrich

import (
	"context"
	"log/slog"

	"lumen/internal/logging"
	"lumen/internal/media"
)

// Capability produces one enrichment facet for a media file.
type Capability interface {
	// Name keys the capability's value in a Result.
	Name() string
	// Supports reports whether the capability applies to the kind.
	Supports(kind media.Kind) bool
	// Enrich computes the capability's value for the file.
	Enrich(ctx context.Context, path string) (any, error)
}

// Result maps capability names to their values for one file. Keys are
// absent for capabilities that were disabled, unsupported, or failed.
type Result map[string]any

// Strings returns the named value as a string slice when possible.
func (r Result) Strings(name string) []string {
	switch v := r[name].(type) {
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

// String returns the named value as a string, or "".
func (r Result) String(name string) string {
	if v, ok := r[name].(string); ok {
		return v
	}
	return ""
}

// Run executes every applicable capability and collects the partial
// result. A failing provider is logged at warn and skipped; it never
// aborts the rest of the job.
func Run(ctx context.Context, caps []Capability, path string, kind media.Kind, logger *slog.Logger) Result {
	if logger == nil {
		logger = logging.NewNop()
	}
	result := make(Result, len(caps))
	for _, capability := range caps {
		if !capability.Supports(kind) {
			continue
		}
		if err := ctx.Err(); err != nil {
			logger.Debug("enrichment cancelled", logging.String(logging.FieldPath, path), logging.Error(err))
			return result
		}
		value, err := capability.Enrich(ctx, path)
		if err != nil {
			logger.Warn("capability failed",
				logging.String(logging.FieldCapability, capability.Name()),
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			continue
		}
		if value == nil {
			continue
		}
		result[capability.Name()] = value
	}
	return result
}
