package ffmpeg_test

import (
	"errors"
	"strings"
	"testing"

	"ffjob/internal/ffmpeg"
	"ffjob/internal/services"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name    string
		stderr  []string
		reason  string
		subject string
	}{
		{"output exists", []string{"File '/out.mkv' already exists. Exiting."}, ffmpeg.ReasonOutputExists, "/out.mkv"},
		{"unknown option", []string{"Unrecognized option 'crff'.", "Error splitting the argument list: Option not found"}, ffmpeg.ReasonUnknownOption, "crff"},
		{"missing input", []string{"missing.mkv: No such file or directory"}, ffmpeg.ReasonMissingInput, "missing.mkv"},
		{"unknown encoder", []string{"Unknown encoder 'libfoo'"}, ffmpeg.ReasonUnknownEncoder, "libfoo"},
		{"invalid argument", []string{"Error opening output files: Invalid argument"}, ffmpeg.ReasonInvalidArgs, ""},
		{"unrecognised", []string{"something odd"}, ffmpeg.ReasonUnknown, ""},
		{"empty", nil, ffmpeg.ReasonUnknown, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reason, subject := ffmpeg.Classify(tc.stderr)
			if reason != tc.reason || subject != tc.subject {
				t.Fatalf("Classify = (%q, %q), want (%q, %q)", reason, subject, tc.reason, tc.subject)
			}
		})
	}
}

func TestToolErrorMessageAndTail(t *testing.T) {
	stderr := make([]string, 0, 30)
	for i := 0; i < 29; i++ {
		stderr = append(stderr, "noise")
	}
	stderr = append(stderr, "File 'x.mkv' already exists. Exiting.")

	err := ffmpeg.NewToolError("ffmpeg", errors.New("boom"), stderr)
	if len(err.Stderr) != ffmpeg.StderrTailLines {
		t.Fatalf("expected %d tail lines, got %d", ffmpeg.StderrTailLines, len(err.Stderr))
	}
	msg := err.Error()
	if !strings.Contains(msg, "output exists: x.mkv") {
		t.Fatalf("message %q missing classification", msg)
	}
	if err.ExitCode != -1 {
		t.Fatalf("expected unknown exit code, got %d", err.ExitCode)
	}
	if services.ExitCode(err) != services.ExitFailure {
		t.Fatalf("expected fallback exit code, got %d", services.ExitCode(err))
	}
}

func TestToolErrorWithoutStderrKeepsCause(t *testing.T) {
	err := ffmpeg.NewToolError("ffmpeg", errors.New("signal: killed"), nil)
	if msg := err.Error(); msg != "ffmpeg exited with status -1: signal: killed" {
		t.Fatalf("unexpected message %q", msg)
	}
}
