package ffmpeg

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// RuntimeFlags are process-level flags that do not change what ffmpeg
// produces, only how it reports while doing so.
type RuntimeFlags struct {
	HideBanner bool
	NoStdin    bool
	// Progress requests machine-readable key=value progress blocks on stdout.
	Progress bool
	LogLevel string
}

// Args renders the flags in a fixed order.
func (f RuntimeFlags) Args() []string {
	args := make([]string, 0, 8)
	if f.HideBanner {
		args = append(args, "-hide_banner")
	}
	if f.NoStdin {
		args = append(args, "-nostdin")
	}
	if level := strings.TrimSpace(f.LogLevel); level != "" {
		args = append(args, "-loglevel", level)
	}
	if f.Progress {
		args = append(args, "-progress", "pipe:1", "-nostats")
	}
	return args
}

// Invocation is a complete, runnable ffmpeg command.
type Invocation struct {
	Binary   string
	Preamble []string
	Args     []string
}

// NewInvocation combines the binary, runtime flags and assembled arguments.
func NewInvocation(binary string, flags RuntimeFlags, args []string) Invocation {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return Invocation{
		Binary:   binary,
		Preamble: flags.Args(),
		Args:     append([]string(nil), args...),
	}
}

// Argv returns the arguments passed to the binary.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, len(inv.Preamble)+len(inv.Args))
	argv = append(argv, inv.Preamble...)
	argv = append(argv, inv.Args...)
	return argv
}

// String renders the invocation as a shell-quoted command line.
func (inv Invocation) String() string {
	return shellquote.Join(append([]string{inv.Binary}, inv.Argv()...)...)
}
