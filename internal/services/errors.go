package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("schema validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTransient     = errors.New("transient failure")
)

// Exit codes reported by the CLI for each failure class.
const (
	ExitFailure       = 1
	ExitConfiguration = 2
	ExitValidation    = 100
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of
// the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitStatuser is implemented by errors that carry the exit status of an
// external process.
type ExitStatuser interface {
	ExitStatus() int
}

// ExitCode maps an error to the process exit code the CLI should report.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, ErrValidation):
		return ExitValidation
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return ExitConfiguration
	}
	var status ExitStatuser
	if errors.As(err, &status) {
		if code := status.ExitStatus(); code > 0 {
			return code
		}
	}
	return ExitFailure
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
