package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpegPath returns the ffmpeg executable a run will use: the
// configured command when set, otherwise "ffmpeg" from PATH. Resolvable
// commands are returned as absolute paths.
func ResolveFFmpegPath(configured string) string {
	return resolveCommand(configured, "ffmpeg")
}

// ResolveFFprobePath returns the ffprobe executable to pair with ffmpegPath.
//
// An explicitly configured command wins. Otherwise an ffprobe sitting next to
// the resolved ffmpeg binary is preferred over PATH, so a static build
// unpacked into one directory probes with the matching version.
func ResolveFFprobePath(configured, ffmpegPath string) string {
	if strings.TrimSpace(configured) != "" {
		return resolveCommand(configured, "ffprobe")
	}
	if ffmpegPath = strings.TrimSpace(ffmpegPath); ffmpegPath != "" {
		if resolved, err := exec.LookPath(ffmpegPath); err == nil {
			if candidate, ok := sidecarCandidate(resolved, "ffprobe"); ok {
				if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
					return candidate
				}
			}
		}
	}
	return resolveCommand("", "ffprobe")
}

func resolveCommand(configured, fallback string) string {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = executableName(fallback)
	}
	if resolved, err := exec.LookPath(name); err == nil {
		if abs, absErr := filepath.Abs(resolved); absErr == nil {
			return abs
		}
		return resolved
	}
	return name
}

func sidecarCandidate(binaryPath, name string) (string, bool) {
	if binaryPath == "" {
		return "", false
	}
	return filepath.Join(filepath.Dir(binaryPath), executableName(name)), true
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
