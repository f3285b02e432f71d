package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"ffjob/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "encoding", "ffmpeg", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"encoding", "ffmpeg", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsMarkerAndDetail(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

type exitErr struct{ code int }

func (e exitErr) Error() string   { return fmt.Sprintf("exit %d", e.code) }
func (e exitErr) ExitStatus() int { return e.code }

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"schema", services.Wrap(services.ErrValidation, "job", "load", "bad", nil), services.ExitValidation},
		{"configuration", services.Wrap(services.ErrConfiguration, "job", "validate", "bad index", nil), services.ExitConfiguration},
		{"not found", fmt.Errorf("lookup: %w", services.ErrNotFound), services.ExitConfiguration},
		{"tool exit status", fmt.Errorf("run: %w", exitErr{code: 187}), 187},
		{"tool without status", exitErr{code: -1}, services.ExitFailure},
		{"plain", errors.New("io"), services.ExitFailure},
	}
	for _, tc := range cases {
		if got := services.ExitCode(tc.err); got != tc.want {
			t.Fatalf("%s: expected exit code %d, got %d", tc.name, tc.want, got)
		}
	}
}
