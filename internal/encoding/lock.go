package encoding

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"ffjob/internal/logging"
	"ffjob/internal/preflight"
	"ffjob/internal/services"
)

// outputLock serializes runs that write the same output file.
type outputLock struct {
	path string
	lock *flock.Flock
}

func acquireOutputLock(output string) (*outputLock, error) {
	if !preflight.IsLocalPath(output) {
		return &outputLock{}, nil
	}
	path := output + ".lock"
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "run", "lock output", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrTransient, "run", "lock output", fmt.Sprintf("%s is being written by another ffjob process", output), nil)
	}
	return &outputLock{path: path, lock: lock}, nil
}

func (l *outputLock) release(logger *slog.Logger) {
	if l == nil || l.lock == nil {
		return
	}
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(logger, "failed to release output lock", "output_lock_release_failed",
			logging.String("path", l.path),
			logging.Error(err),
		)
		return
	}
	_ = os.Remove(l.path)
}
