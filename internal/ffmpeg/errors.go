package ffmpeg

import (
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"ffjob/internal/services"
)

// Failure reasons recognised in ffmpeg stderr.
const (
	ReasonUnknown        = "unknown"
	ReasonMissingStream  = "missing_stream"
	ReasonOutputExists   = "output_exists"
	ReasonUnknownOption  = "unrecognized_option"
	ReasonMissingInput   = "missing_input"
	ReasonUnknownEncoder = "unknown_encoder"
	ReasonInvalidArgs    = "invalid_argument"
)

// Precompiled stderr patterns.
var (
	MatchMissingStream  = regexp.MustCompile(`Stream map '([^']*)' matches no streams`)
	MatchOutputExists   = regexp.MustCompile(`File '([^']*)' already exists`)
	MatchUnknownOption  = regexp.MustCompile(`Unrecognized option '([^']*)'`)
	MatchMissingInput   = regexp.MustCompile(`^(.*): No such file or directory`)
	MatchUnknownEncoder = regexp.MustCompile(`Unknown encoder '([^']*)'`)
	MatchInvalidArgs    = regexp.MustCompile(`Invalid argument`)
)

// StderrTailLines is how many trailing stderr lines a ToolError keeps.
const StderrTailLines = 20

// ToolError reports a non-zero exit from an external binary.
type ToolError struct {
	Binary   string
	ExitCode int
	Reason   string
	// Subject is the file, option or map named by the classified stderr line.
	Subject string
	Stderr  []string
	Err     error
}

// NewToolError classifies stderr and captures the exit status of err.
func NewToolError(binary string, err error, stderr []string) *ToolError {
	te := &ToolError{
		Binary:   binary,
		ExitCode: -1,
		Reason:   ReasonUnknown,
		Stderr:   tail(stderr, StderrTailLines),
		Err:      err,
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		te.ExitCode = exitErr.ExitCode()
	}
	te.Reason, te.Subject = Classify(stderr)
	return te
}

// Classify returns the first recognised failure reason in stderr along with
// the subject it names. Later lines win because ffmpeg prints the fatal
// message last.
func Classify(stderr []string) (reason, subject string) {
	for i := len(stderr) - 1; i >= 0; i-- {
		line := strings.TrimSpace(stderr[i])
		if line == "" {
			continue
		}
		if m := MatchMissingStream.FindStringSubmatch(line); m != nil {
			return ReasonMissingStream, m[1]
		}
		if m := MatchOutputExists.FindStringSubmatch(line); m != nil {
			return ReasonOutputExists, m[1]
		}
		if m := MatchUnknownOption.FindStringSubmatch(line); m != nil {
			return ReasonUnknownOption, m[1]
		}
		if m := MatchUnknownEncoder.FindStringSubmatch(line); m != nil {
			return ReasonUnknownEncoder, m[1]
		}
		if m := MatchMissingInput.FindStringSubmatch(line); m != nil {
			return ReasonMissingInput, strings.TrimSpace(m[1])
		}
	}
	for i := len(stderr) - 1; i >= 0; i-- {
		if MatchInvalidArgs.MatchString(stderr[i]) {
			return ReasonInvalidArgs, ""
		}
	}
	return ReasonUnknown, ""
}

func (e *ToolError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s exited with status %d", e.Binary, e.ExitCode)
	if e.Reason != "" && e.Reason != ReasonUnknown {
		b.WriteString(" (")
		b.WriteString(strings.ReplaceAll(e.Reason, "_", " "))
		if e.Subject != "" {
			b.WriteString(": ")
			b.WriteString(e.Subject)
		}
		b.WriteString(")")
	}
	if last := lastNonEmpty(e.Stderr); last != "" {
		b.WriteString(": ")
		b.WriteString(last)
	} else if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ToolError) Unwrap() []error {
	if e.Err == nil {
		return []error{services.ErrExternalTool}
	}
	return []error{services.ErrExternalTool, e.Err}
}

// ExitStatus satisfies services.ExitStatuser.
func (e *ToolError) ExitStatus() int {
	return e.ExitCode
}

func tail(lines []string, n int) []string {
	if len(lines) <= n {
		return append([]string(nil), lines...)
	}
	return append([]string(nil), lines[len(lines)-n:]...)
}

func lastNonEmpty(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
