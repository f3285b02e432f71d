package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"ffjob/internal/config"
	"ffjob/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckInputFile verifies that a local source exists and is readable.
// Protocol URLs, pipes and stdin are left for ffmpeg to open.
func CheckInputFile(name, path string) Result {
	if !IsLocalPath(path) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not a local file, skipped)", path)}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckOutputPath verifies that the output's parent directory is writable and,
// when overwriting is disabled, that the output does not exist yet.
func CheckOutputPath(name, path string, overwrite bool) Result {
	if !IsLocalPath(path) {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (not a local file, skipped)", path)}
	}
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory %s does not exist)", path, dir)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s is not a directory)", path, dir)}
	}
	if err := unix.Access(dir, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: directory not writable: %v)", path, err)}
	}
	if existing, err := os.Stat(path); err == nil {
		if existing.IsDir() {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
		}
		if !overwrite {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: already exists and overwrite is disabled)", path)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be overwritten)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// IsLocalPath reports whether ffmpeg will treat path as a filesystem path
// rather than a protocol URL, pipe or stdin. Like ffmpeg, any scheme-like
// prefix ending in ':' names a protocol (concat:, subfile:, data:, ...),
// except a single letter, which is a Windows drive.
func IsLocalPath(path string) bool {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "-" {
		return false
	}
	end := strings.IndexFunc(trimmed, func(r rune) bool { return !isSchemeChar(r) })
	if end > 1 && trimmed[end] == ':' {
		return false
	}
	return true
}

func isSchemeChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '+' || r == '-' || r == '.':
		return true
	}
	return false
}

// CheckSystemDeps evaluates the ffmpeg and ffprobe binaries for the given config.
// Both the runner and the CLI status command use this to avoid duplicating
// the requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	ffmpegPath := deps.ResolveFFmpegPath(cfg.FFmpeg.Binary)
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpegPath,
			Description: "Required for encoding",
		},
		{
			Name:        "FFprobe",
			Command:     deps.ResolveFFprobePath(cfg.FFmpeg.FFprobeBinary, ffmpegPath),
			Description: "Required for stream verification and probe",
			Optional:    !cfg.Encoding.VerifyStreams,
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}
