package encoding

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ffjob/internal/ffmpeg"
	"ffjob/internal/logging"
)

// transcriptPattern matches files written by openTranscript.
const transcriptPattern = "*.log"

// transcript keeps the complete stderr of one run on disk.
type transcript struct {
	path string
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// openTranscript creates the transcript for a run and prunes expired ones.
// Failures are logged and the run proceeds without a transcript.
func (r *Runner) openTranscript(logger *slog.Logger, runID string, inv ffmpeg.Invocation) *transcript {
	if r.transcriptDir == "" {
		return nil
	}
	if err := os.MkdirAll(r.transcriptDir, 0o755); err != nil {
		logging.WarnWithContext(logger, "transcript directory unavailable", "transcript_unavailable",
			logging.String("path", r.transcriptDir),
			logging.Error(err),
			logging.String(logging.FieldImpact, "ffmpeg stderr is not kept for this run"),
		)
		return nil
	}
	if removed := logging.CleanupOldFiles(logger, r.retentionDays, r.transcriptDir, transcriptPattern); removed > 0 {
		logger.Debug("pruned run transcripts", logging.Int("removed", removed))
	}
	name := fmt.Sprintf("%s-%s.log", time.Now().Format("20060102T150405"), runID)
	path := filepath.Join(r.transcriptDir, name)
	file, err := os.Create(path)
	if err != nil {
		logging.WarnWithContext(logger, "transcript create failed", "transcript_unavailable",
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "ffmpeg stderr is not kept for this run"),
		)
		return nil
	}
	t := &transcript{path: path, file: file, buf: bufio.NewWriter(file)}
	t.writeLine("# " + inv.String())
	return t
}

func (t *transcript) writeLine(line string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.buf.WriteString(line)
	_ = t.buf.WriteByte('\n')
}

func (t *transcript) close(logger *slog.Logger) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.buf.Flush(); err != nil {
		logger.Warn("transcript flush failed", logging.String("path", t.path), logging.Error(err))
	}
	if err := t.file.Close(); err != nil {
		logger.Warn("transcript close failed", logging.String("path", t.path), logging.Error(err))
	}
}
