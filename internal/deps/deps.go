package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Requirement defines an external dependency ffjob relies on.
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
	Version     string
	Detail      string
}

// versionTimeout bounds the `-version` probe so a wedged binary cannot stall status.
const versionTimeout = 5 * time.Second

// CheckBinaries evaluates the provided requirements and reports availability.
// Available binaries are asked for their version banner.
func CheckBinaries(ctx context.Context, requirements []Requirement) []Status {
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
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		if version, err := ProbeVersion(ctx, resolved); err == nil {
			status.Version = version
		} else {
			status.Detail = fmt.Sprintf("version probe failed: %v", err)
		}
		results = append(results, status)
	}
	return results
}

// ProbeVersion runs `<binary> -version` and returns the version token of the
// first banner line ("ffmpeg version 7.1 Copyright ..." yields "7.1").
func ProbeVersion(ctx context.Context, binary string) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("run %s -version: %w", binary, err)
	}
	first, _, _ := strings.Cut(string(out), "\n")
	fields := strings.Fields(first)
	for i, field := range fields {
		if field == "version" && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	if first = strings.TrimSpace(first); first != "" {
		return first, nil
	}
	return "", fmt.Errorf("empty version output from %s", binary)
}
