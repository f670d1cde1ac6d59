// Package deps reports the availability of the external tools the
// pipeline shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"lumen/internal/config"
)

// Requirement defines an external dependency the pipeline relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools for the given configuration.
// exiftool is optional when metadata writes are disabled: image reads
// have a native decoder, and video timestamps fall back to filesystem
// times.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "ExifTool",
			Command:     cfg.Metadata.ExiftoolBinary,
			Description: "video metadata reads and all metadata writes",
			Optional:    !cfg.Metadata.Write,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
