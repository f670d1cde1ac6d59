package metadata

import (
	"context"
	"fmt"
	"strings"

	"lumen/internal/logging"
	"lumen/internal/services"
)

// Fields carries the enrichment results destined for a file's metadata.
type Fields struct {
	Keywords    []string
	Description string
}

// Empty reports whether there is nothing to write.
func (f Fields) Empty() bool {
	return len(f.Keywords) == 0 && f.Description == ""
}

// Write applies the fields to the file under the configured behavior.
// Overwrite replaces both fields outright. Append merges keywords with
// the existing set and concatenates a new description onto an existing
// one. Do_nothing only fills fields the file does not carry yet: absent
// keywords or an absent description are still written, present values
// are left untouched.
func (s *Service) Write(ctx context.Context, path string, fields Fields) error {
	if !s.cfg.Metadata.Write || fields.Empty() {
		return nil
	}

	behavior := s.behavior()
	switch behavior {
	case BehaviorOverwrite:
		return s.apply(ctx, path, fields.Keywords, fields.Description)
	case BehaviorAppend, BehaviorDoNothing:
		planned, err := s.planWrite(ctx, path, fields, behavior)
		if err != nil {
			return err
		}
		if planned.Empty() {
			return nil
		}
		return s.apply(ctx, path, planned.Keywords, planned.Description)
	default:
		return services.Wrap(services.ErrConfiguration, "metadata", "write", fmt.Sprintf("unknown behavior %q", s.cfg.Metadata.Behavior), nil)
	}
}

// planWrite reads the file's current keywords and description and
// decides what actually gets written under append or do_nothing.
func (s *Service) planWrite(ctx context.Context, path string, fields Fields, behavior Behavior) (Fields, error) {
	var planned Fields

	if len(fields.Keywords) > 0 {
		existing, err := s.Keywords(ctx, path)
		if err != nil {
			return Fields{}, err
		}
		switch {
		case len(existing) == 0:
			planned.Keywords = fields.Keywords
		case behavior == BehaviorAppend:
			planned.Keywords = mergeKeywords(existing, fields.Keywords)
		}
	}

	if fields.Description != "" {
		current, err := s.Description(ctx, path)
		if err != nil {
			return Fields{}, err
		}
		switch {
		case current == "":
			planned.Description = fields.Description
		case behavior == BehaviorAppend:
			planned.Description = current + " " + fields.Description
		}
	}
	return planned, nil
}

func (s *Service) apply(ctx context.Context, path string, keywords []string, description string) error {
	args := []string{"-overwrite_original"}
	if len(keywords) > 0 {
		// Reset the list, then add each keyword.
		args = append(args, "-Keywords=")
		for _, kw := range keywords {
			args = append(args, "-Keywords="+kw)
		}
	}
	if description != "" {
		args = append(args, "-Description="+description)
	}
	if len(args) == 1 {
		return nil
	}
	args = append(args, path)
	if _, err := s.exiftool(ctx, args...); err != nil {
		return err
	}
	s.logger.Debug("metadata written",
		logging.String(logging.FieldPath, path),
		logging.Int("keywords", len(keywords)))
	return nil
}

// mergeKeywords unions the two lists, preserving order of first
// appearance and ignoring case-insensitive duplicates.
func mergeKeywords(existing, added []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(added))
	var out []string
	for _, list := range [][]string{existing, added} {
		for _, kw := range list {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			key := strings.ToLower(kw)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}
