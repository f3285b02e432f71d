package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerKeepsPerSideLevels(t *testing.T) {
	var console, file bytes.Buffer
	logger := slog.New(teeHandler{
		console: slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		file:    slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}).With(String(FieldComponent, "encoder")).WithGroup("job")

	logger.Debug("args assembled", String("output", "out.mkv"))
	logger.Warn("stream skipped", Int("index", 2))

	if strings.Contains(console.String(), "args assembled") {
		t.Fatalf("console should hide debug lines, got %q", console.String())
	}
	if !strings.Contains(console.String(), "stream skipped") || !strings.Contains(console.String(), "job.index=2") {
		t.Fatalf("console missing warning, got %q", console.String())
	}
	for _, want := range []string{"args assembled", "stream skipped", "component=encoder", "job.output=out.mkv"} {
		if !strings.Contains(file.String(), want) {
			t.Fatalf("file log missing %q, got %q", want, file.String())
		}
	}
}

func TestTeeHandlerEnabledIfEitherSideIs(t *testing.T) {
	h := teeHandler{console: slog.DiscardHandler, file: slog.NewTextHandler(&bytes.Buffer{}, nil)}
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("expected info enabled through the file side")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug disabled on both sides")
	}
}
