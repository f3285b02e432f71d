package encoding

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"ffjob/internal/config"
	"ffjob/internal/deps"
	"ffjob/internal/ffmpeg"
	"ffjob/internal/job"
	"ffjob/internal/logging"
	"ffjob/internal/media/ffprobe"
	"ffjob/internal/preflight"
	"ffjob/internal/services"
)

// stderrKeepLines bounds the stderr kept in memory for error classification.
const stderrKeepLines = 200

// ProbeFunc inspects a media file. ffprobe.Inspect satisfies it.
type ProbeFunc func(ctx context.Context, binary, path string, opts ffprobe.Options) (ffprobe.Result, error)

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor replaces the process executor.
func WithExecutor(executor ffmpeg.Executor) Option {
	return func(r *Runner) {
		if executor != nil {
			r.executor = executor
		}
	}
}

// WithProber replaces the ffprobe runner used for stream verification.
func WithProber(probe ProbeFunc) Option {
	return func(r *Runner) {
		if probe != nil {
			r.probe = probe
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithResolver sets the option-set resolver.
func WithResolver(resolver job.Resolver) Option {
	return func(r *Runner) {
		r.resolver = resolver
	}
}

// WithBinaries overrides the ffmpeg and ffprobe executables.
func WithBinaries(ffmpegBinary, ffprobeBinary string) Option {
	return func(r *Runner) {
		if strings.TrimSpace(ffmpegBinary) != "" {
			r.ffmpegBinary = strings.TrimSpace(ffmpegBinary)
		}
		if strings.TrimSpace(ffprobeBinary) != "" {
			r.ffprobeBinary = strings.TrimSpace(ffprobeBinary)
		}
	}
}

// Runner executes encode jobs with ffmpeg.
type Runner struct {
	logger        *slog.Logger
	executor      ffmpeg.Executor
	probe         ProbeFunc
	resolver      job.Resolver
	ffmpegBinary  string
	ffprobeBinary string
	flags         ffmpeg.RuntimeFlags
	verifyStreams bool
	countFrames   bool
	timeout       time.Duration
	transcriptDir string
	retentionDays int
}

// NewRunner constructs a Runner from configuration. A nil cfg uses defaults.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	if cfg == nil {
		defaults := config.Default()
		cfg = &defaults
	}
	ffmpegPath := deps.ResolveFFmpegPath(cfg.FFmpeg.Binary)
	r := &Runner{
		logger:        logging.NewNop(),
		executor:      ffmpeg.CommandExecutor{},
		probe:         ffprobe.Inspect,
		ffmpegBinary:  ffmpegPath,
		ffprobeBinary: deps.ResolveFFprobePath(cfg.FFmpeg.FFprobeBinary, ffmpegPath),
		flags: ffmpeg.RuntimeFlags{
			HideBanner: cfg.FFmpeg.HideBanner,
			NoStdin:    true,
			Progress:   true,
			LogLevel:   cfg.FFmpeg.LogLevel,
		},
		verifyStreams: cfg.Encoding.VerifyStreams,
		countFrames:   cfg.Encoding.CountFrames,
		timeout:       cfg.EncodeTimeout(),
		retentionDays: cfg.Logging.RetentionDays,
	}
	if cfg.Encoding.Transcripts {
		r.transcriptDir = cfg.TranscriptDir()
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "encoding")
	return r
}

// RunOptions controls a single run.
type RunOptions struct {
	// Progress draws a progress bar on ProgressWriter. Without it, progress
	// is reported through sampled log lines.
	Progress bool
	// Verbose forwards every ffmpeg stderr line to the log at info level.
	Verbose bool
	// DryRun stops after assembly and returns the invocation unexecuted.
	DryRun bool
	// ProgressWriter receives the progress bar; nil means io.Discard.
	ProgressWriter io.Writer
	// Timeout overrides the configured run timeout when positive.
	Timeout time.Duration
}

// Result describes a finished, or dry, run.
type Result struct {
	RunID          string
	Invocation     ffmpeg.Invocation
	DryRun         bool
	Elapsed        time.Duration
	Progress       ffmpeg.Progress
	Warnings       []string
	TranscriptPath string
}

// Invocation resolves, validates and assembles j without side effects.
func (r *Runner) Invocation(ctx context.Context, j job.EncodeJob) (ffmpeg.Invocation, error) {
	resolved, err := job.ResolveOptionSets(ctx, j, r.resolver)
	if err != nil {
		return ffmpeg.Invocation{}, err
	}
	args, err := ffmpeg.Assemble(resolved)
	if err != nil {
		return ffmpeg.Invocation{}, err
	}
	return ffmpeg.NewInvocation(r.ffmpegBinary, r.flags, args), nil
}

// Run executes j and blocks until ffmpeg exits.
func (r *Runner) Run(ctx context.Context, j job.EncodeJob, opts RunOptions) (Result, error) {
	result := Result{RunID: uuid.NewString(), DryRun: opts.DryRun}
	ctx = services.WithRequestID(ctx, result.RunID)
	ctx = services.WithStage(ctx, "run")
	logger := logging.WithContext(ctx, r.logger)

	resolved, err := job.ResolveOptionSets(ctx, j, r.resolver)
	if err != nil {
		return result, err
	}
	// Assemble validates before producing any token.
	args, err := ffmpeg.Assemble(resolved)
	if err != nil {
		return result, err
	}
	result.Invocation = ffmpeg.NewInvocation(r.ffmpegBinary, r.flags, args)
	logger.Info("ffmpeg invocation assembled",
		logging.String("command", result.Invocation.String()),
		logging.Int("sources", len(resolved.Sources)),
		logging.String("output", resolved.OutputFile),
	)
	if opts.DryRun {
		return result, nil
	}

	if failure, failed := preflight.FirstFailure(preflight.CheckJob(resolved)); failed {
		return result, services.Wrap(services.ErrConfiguration, "preflight", strings.ToLower(failure.Name), failure.Detail, nil)
	}

	totals := progressTotals{}
	if r.verifyStreams {
		probes, err := r.probeSources(ctx, resolved)
		if err != nil {
			return result, err
		}
		warnings, err := verifyStreams(resolved, probes)
		if err != nil {
			return result, err
		}
		for _, warning := range warnings {
			logging.WarnWithContext(logger, "optional stream missing", "optional_stream_missing",
				logging.String("detail", warning),
				logging.String(logging.FieldImpact, "output will not contain this stream"),
				logging.String(logging.FieldErrorHint, "mark the map non-optional to make this fatal"),
			)
		}
		result.Warnings = warnings
		totals = totalsFromProbes(resolved, probes)
	} else if opts.Progress {
		// Only the bar depends on these probes, so a failure just leaves it
		// without a total.
		probes, err := r.probeSources(ctx, resolved)
		if err != nil {
			logging.WarnWithContext(logger, "progress totals unavailable", "progress_probe_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "progress bar shows no percentage"),
				logging.String(logging.FieldErrorHint, "check ffmpeg.ffprobe_binary"),
			)
		} else {
			totals = totalsFromProbes(resolved, probes)
		}
	}

	lock, err := acquireOutputLock(resolved.OutputFile)
	if err != nil {
		return result, err
	}
	defer lock.release(logger)

	timeout := r.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	transcript := r.openTranscript(logger, result.RunID, result.Invocation)
	if transcript != nil {
		result.TranscriptPath = transcript.path
		defer transcript.close(logger)
	}

	writer := opts.ProgressWriter
	if writer == nil {
		writer = io.Discard
	}
	reporter := newProgressReporter(logger, writer, opts.Progress, totals)
	var (
		mu     sync.Mutex
		parser ffmpeg.ProgressParser
		stderr []string
	)
	onStdout := func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if snapshot, ok := parser.Feed(line); ok {
			reporter.update(snapshot)
		}
	}
	onStderr := func(line string) {
		transcript.writeLine(line)
		mu.Lock()
		stderr = append(stderr, line)
		if len(stderr) > stderrKeepLines {
			stderr = stderr[len(stderr)-stderrKeepLines:]
		}
		mu.Unlock()
		if opts.Verbose {
			logger.Info("ffmpeg", logging.String("line", line))
		} else {
			logger.Debug("ffmpeg", logging.String("line", line))
		}
	}

	started := time.Now()
	logger.Info("ffmpeg started", logging.String(logging.FieldEventType, "encode_started"))
	runErr := r.executor.Run(runCtx, result.Invocation.Binary, result.Invocation.Argv(), onStdout, onStderr)
	result.Elapsed = time.Since(started)

	mu.Lock()
	result.Progress = reporter.finish(runErr == nil)
	captured := append([]string(nil), stderr...)
	mu.Unlock()

	if runErr != nil {
		return result, r.runFailure(ctx, runCtx, timeout, runErr, captured, logger)
	}
	logger.Info("ffmpeg finished",
		logging.String(logging.FieldEventType, "encode_finished"),
		logging.Duration("elapsed", result.Elapsed),
		logging.Int64("frames", result.Progress.Frame),
		logging.String("output", resolved.OutputFile),
	)
	return result, nil
}

func (r *Runner) runFailure(ctx, runCtx context.Context, timeout time.Duration, runErr error, stderr []string, logger *slog.Logger) error {
	if ctx.Err() != nil {
		return fmt.Errorf("ffmpeg run canceled: %w", ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		logging.ErrorWithContext(logger, "ffmpeg timed out", "encode_timeout",
			logging.Duration("timeout", timeout),
			logging.String(logging.FieldErrorHint, "raise encoding.timeout_seconds or pass --timeout"),
		)
		return services.Wrap(services.ErrExternalTool, "run", "execute ffmpeg", fmt.Sprintf("timed out after %s", timeout), runCtx.Err())
	}
	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		logging.ErrorWithContext(logger, "ffmpeg did not run", "encode_start_failed",
			logging.String("binary", r.ffmpegBinary),
			logging.Error(runErr),
			logging.String(logging.FieldErrorHint, "check ffmpeg.binary or FFMPEG_PATH"),
		)
		return services.Wrap(services.ErrExternalTool, "run", "start ffmpeg", r.ffmpegBinary, runErr)
	}
	toolErr := ffmpeg.NewToolError(filepath.Base(r.ffmpegBinary), runErr, stderr)
	logging.ErrorWithContext(logger, "ffmpeg failed", "encode_failed",
		logging.Int("exit_code", toolErr.ExitCode),
		logging.String("reason", toolErr.Reason),
		logging.String("subject", toolErr.Subject),
		logging.Error(runErr),
	)
	return toolErr
}
