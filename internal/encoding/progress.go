package encoding

import (
	"io"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"ffjob/internal/ffmpeg"
	"ffjob/internal/logging"
)

// progressLogBucket is the percent step between sampled progress log lines.
const progressLogBucket = 10

// progressReporter renders progress snapshots. Callers serialize access.
type progressReporter struct {
	logger  *slog.Logger
	bar     *progressbar.ProgressBar
	sampler *logging.ProgressSampler
	totals  progressTotals
	last    ffmpeg.Progress
}

func newProgressReporter(logger *slog.Logger, w io.Writer, show bool, totals progressTotals) *progressReporter {
	p := &progressReporter{
		logger:  logger,
		sampler: logging.NewProgressSampler(progressLogBucket),
		totals:  totals,
	}
	if show {
		p.bar = newBar(w, totals)
	}
	return p
}

func newBar(w io.Writer, totals progressTotals) *progressbar.ProgressBar {
	options := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Encoding"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "▐",
			BarEnd:        "▌",
		}),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100 * time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	}
	switch {
	case totals.Frames > 0:
		options = append(options, progressbar.OptionShowCount(), progressbar.OptionSetItsString("frames"), progressbar.OptionShowIts())
		return progressbar.NewOptions64(totals.Frames, options...)
	case totals.Duration > 0:
		options = append(options, progressbar.OptionSetPredictTime(true))
		return progressbar.NewOptions64(int64(totals.Duration.Seconds()), options...)
	default:
		return progressbar.NewOptions64(-1, options...)
	}
}

// percent estimates completion from frames, else from output time.
func (p *progressReporter) percent(snapshot ffmpeg.Progress) (float64, bool) {
	switch {
	case p.totals.Frames > 0 && snapshot.Frame > 0:
		return clampPercent(float64(snapshot.Frame) / float64(p.totals.Frames) * 100), true
	case p.totals.Duration > 0 && snapshot.OutTime > 0:
		return clampPercent(snapshot.OutTime.Seconds() / p.totals.Duration.Seconds() * 100), true
	}
	return 0, false
}

func (p *progressReporter) update(snapshot ffmpeg.Progress) {
	p.last = snapshot
	if p.bar != nil {
		switch {
		case p.totals.Frames > 0:
			_ = p.bar.Set64(min(snapshot.Frame, p.totals.Frames))
		case p.totals.Duration > 0:
			_ = p.bar.Set64(min(int64(snapshot.OutTime.Seconds()), int64(p.totals.Duration.Seconds())))
		default:
			_ = p.bar.Add64(1)
		}
		return
	}
	percent, ok := p.percent(snapshot)
	if !ok || !p.sampler.ShouldLog(percent) {
		return
	}
	p.logger.Info("encode progress",
		logging.String(logging.FieldEventType, "encode_progress"),
		logging.Float64("percent", percent),
		logging.Int64("frame", snapshot.Frame),
		logging.Float64("fps", snapshot.FPS),
		logging.Float64("speed", snapshot.Speed),
		logging.Duration("out_time", snapshot.OutTime),
	)
}

// finish completes the bar on success and returns the last snapshot.
func (p *progressReporter) finish(success bool) ffmpeg.Progress {
	if p.bar != nil {
		if success {
			_ = p.bar.Finish()
		} else {
			_ = p.bar.Exit()
		}
	}
	return p.last
}

func clampPercent(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
