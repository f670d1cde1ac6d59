package metadata

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"lumen/internal/config"
	"lumen/internal/logging"
	"lumen/internal/services"
)

// Behavior controls how writes merge with metadata already on the file.
type Behavior string

const (
	// BehaviorAppend keeps existing values and adds new ones.
	BehaviorAppend Behavior = "append"
	// BehaviorOverwrite replaces existing values.
	BehaviorOverwrite Behavior = "overwrite"
	// BehaviorDoNothing disables writes entirely.
	BehaviorDoNothing Behavior = "do_nothing"
)

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Service wraps metadata access for the pipeline.
type Service struct {
	cfg    *config.Config
	logger *slog.Logger
	run    commandRunner
}

// Option customizes a Service.
type Option func(*Service)

// WithCommandRunner sets a custom command runner (for testing).
func WithCommandRunner(run func(ctx context.Context, name string, args ...string) ([]byte, error)) Option {
	return func(s *Service) { s.run = run }
}

// NewService builds a metadata service from configuration.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Service{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "metadata"),
		run:    runExiftool,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) behavior() Behavior {
	return Behavior(s.cfg.Metadata.Behavior)
}

func (s *Service) exiftool(ctx context.Context, args ...string) ([]byte, error) {
	out, err := s.run(ctx, s.cfg.Metadata.ExiftoolBinary, args...)
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail == "" {
			detail = err.Error()
		}
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", fmt.Sprintf("%s: %s", strings.Join(args, " "), detail), err)
	}
	return out, nil
}

func runExiftool(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.Bytes(), err
}
