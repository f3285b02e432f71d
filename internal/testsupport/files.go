package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and any missing parents, holding size filler
// bytes. Sources only need to exist and be non-empty for preflight, so a
// size <= 0 still writes one byte.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()
	if size <= 0 {
		size = 1
	}
	mkdirParent(t, path)
	if err := os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteScript writes an executable /bin/sh script used to stand in for
// ffmpeg or ffprobe. Callers skip on platforms without a POSIX shell.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	mkdirParent(t, path)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

func mkdirParent(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
