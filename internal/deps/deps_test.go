package deps

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ffjob/internal/testsupport"
)

func TestCheckBinaries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	testsupport.WriteScript(t, present, `echo "ffmpeg version 7.1.1 Copyright (c) 2000-2025 the FFmpeg developers"`)
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Empty", Command: "  "},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Version != "7.1.1" {
		t.Fatalf("expected version 7.1.1, got %q", results[0].Version)
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for empty command: %#v", results[2])
	}
}

func TestProbeVersionFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	broken := filepath.Join(t.TempDir(), "broken")
	testsupport.WriteScript(t, broken, "exit 3")
	if _, err := ProbeVersion(context.Background(), broken); err == nil {
		t.Fatal("expected error from failing binary")
	}
}

func TestResolveFFprobeSidecar(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	ffprobePath := filepath.Join(tmp, executableName("ffprobe"))
	testsupport.WriteScript(t, ffmpegPath, "exit 0")
	testsupport.WriteScript(t, ffprobePath, "exit 0")

	if got := ResolveFFprobePath("", ffmpegPath); got != ffprobePath {
		t.Fatalf("expected sidecar %q, got %q", ffprobePath, got)
	}
}

func TestResolveFFprobeConfiguredWins(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	testsupport.WriteScript(t, ffmpegPath, "exit 0")
	testsupport.WriteScript(t, filepath.Join(tmp, executableName("ffprobe")), "exit 0")

	otherDir := t.TempDir()
	configured := filepath.Join(otherDir, executableName("ffprobe"))
	testsupport.WriteScript(t, configured, "exit 0")

	if got := ResolveFFprobePath(configured, ffmpegPath); got != configured {
		t.Fatalf("expected configured ffprobe %q, got %q", configured, got)
	}
}

func TestResolveFFprobePathFallback(t *testing.T) {
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, executableName("ffmpeg"))
	testsupport.WriteScript(t, ffmpegPath, "exit 0")

	binDir := filepath.Join(tmp, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	ffprobePath := filepath.Join(binDir, executableName("ffprobe"))
	testsupport.WriteScript(t, ffprobePath, "exit 0")
	t.Setenv("PATH", binDir)

	if got := ResolveFFprobePath("", ffmpegPath); got != ffprobePath {
		t.Fatalf("expected PATH ffprobe %q, got %q", ffprobePath, got)
	}
}

func TestResolveFFmpegPathNotFound(t *testing.T) {
	t.Setenv("PATH", "")
	if got := ResolveFFmpegPath(""); got != executableName("ffmpeg") {
		t.Fatalf("expected bare ffmpeg name, got %q", got)
	}
}

func TestSidecarIgnoresNonExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	tmp := t.TempDir()
	ffmpegPath := filepath.Join(tmp, "ffmpeg")
	testsupport.WriteScript(t, ffmpegPath, "exit 0")
	if err := os.WriteFile(filepath.Join(tmp, "ffprobe"), []byte("data"), 0o644); err != nil {
		t.Fatalf("write ffprobe: %v", err)
	}
	t.Setenv("PATH", "")

	if got := ResolveFFprobePath("", ffmpegPath); got != "ffprobe" {
		t.Fatalf("expected non-executable sidecar to be skipped, got %q", got)
	}
}
