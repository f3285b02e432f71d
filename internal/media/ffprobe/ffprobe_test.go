package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"ffjob/internal/services"
)

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio"},
			{CodecType: "audio"},
			{CodecType: "subtitle"},
		},
		Format: Format{
			Duration: "123.45",
			Size:     "1000",
			BitRate:  "32000",
		},
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	if result.AudioStreamCount() != 2 {
		t.Fatalf("expected 2 audio streams, got %d", result.AudioStreamCount())
	}
	if result.SubtitleStreamCount() != 1 {
		t.Fatalf("expected 1 subtitle stream, got %d", result.SubtitleStreamCount())
	}
	if result.DurationSeconds() != 123.45 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 1000 {
		t.Fatalf("unexpected size: %d", result.SizeBytes())
	}
	if result.BitRate() != 32000 {
		t.Fatalf("unexpected bitrate: %d", result.BitRate())
	}
}

func TestResultHelpersHandleInvalidNumbers(t *testing.T) {
	result := Result{
		Format: Format{
			Duration: "bad",
			Size:     "-1",
			BitRate:  "nope",
		},
	}
	if !math.IsNaN(result.DurationSeconds()) {
		t.Fatalf("expected duration NaN, got %v", result.DurationSeconds())
	}
	if result.SizeBytes() != 0 {
		t.Fatalf("expected size 0, got %d", result.SizeBytes())
	}
	if result.BitRate() != 0 {
		t.Fatalf("expected bitrate 0, got %d", result.BitRate())
	}
}

func TestArgsIncludeCountFrames(t *testing.T) {
	args := Args("/media/a b.mkv", Options{CountFrames: true})
	if args[len(args)-3] != "-count_frames" || args[len(args)-2] != "--" || args[len(args)-1] != "/media/a b.mkv" {
		t.Fatalf("unexpected args %q", args)
	}
	for _, arg := range Args("x.mkv", Options{}) {
		if arg == "-count_frames" {
			t.Fatal("count_frames should be opt-in")
		}
	}
}

func writeProbeStub(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestInspectRunsBinary(t *testing.T) {
	stub := writeProbeStub(t, `cat <<'JSON'
{"streams": [{"index": 0, "codec_name": "opus", "codec_type": "audio", "channels": 2}], "format": {"duration": "3.5"}}
JSON`)
	result, err := Inspect(context.Background(), stub, "clip.mka", Options{})
	if err != nil {
		t.Fatalf("Inspect returned error: %v", err)
	}
	if result.AudioStreamCount() != 1 || result.DurationSeconds() != 3.5 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestInspectFailureIsExternalToolError(t *testing.T) {
	stub := writeProbeStub(t, `echo "clip.mka: No such file or directory" >&2; exit 1`)
	_, err := Inspect(context.Background(), stub, "clip.mka", Options{})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "No such file or directory") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}
