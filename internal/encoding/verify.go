package encoding

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ffjob/internal/job"
	"ffjob/internal/media/ffprobe"
	"ffjob/internal/preflight"
	"ffjob/internal/services"
)

// probeSources runs ffprobe once per local source referenced by a source map.
func (r *Runner) probeSources(ctx context.Context, j job.EncodeJob) (map[int]ffprobe.Result, error) {
	probes := make(map[int]ffprobe.Result, len(j.Sources))
	for _, sm := range j.SourceMaps {
		if _, done := probes[sm.Source]; done {
			continue
		}
		path := j.Sources[sm.Source]
		if !preflight.IsLocalPath(path) {
			continue
		}
		result, err := r.probe(ctx, r.ffprobeBinary, path, ffprobe.Options{CountFrames: r.countFrames})
		if err != nil {
			return nil, fmt.Errorf("verify streams: %w", err)
		}
		probes[sm.Source] = result
	}
	return probes, nil
}

// verifyStreams checks every source map against the probed streams. A
// selection that matches nothing fails unless the map is optional, in which
// case a warning is returned instead.
func verifyStreams(j job.EncodeJob, probes map[int]ffprobe.Result) ([]string, error) {
	var warnings []string
	for i, sm := range j.SourceMaps {
		probe, ok := probes[sm.Source]
		if !ok {
			continue
		}
		if len(probe.Select(sm.Specifier.CodecType(), sm.Stream)) > 0 {
			continue
		}
		detail := fmt.Sprintf("source_maps[%d]: %s has no stream matching %s", i, j.Sources[sm.Source], describeSelection(sm))
		if sm.Optional {
			warnings = append(warnings, detail)
			continue
		}
		return warnings, fmt.Errorf("%w: %s", services.ErrConfiguration, detail)
	}
	return warnings, nil
}

func describeSelection(sm job.SourceMap) string {
	parts := []string{strconv.Itoa(sm.Source)}
	if sm.Specifier != "" {
		parts = append(parts, sm.Specifier.String())
	}
	if sm.Stream != nil {
		parts = append(parts, strconv.Itoa(*sm.Stream))
	}
	return strings.Join(parts, ":")
}

// progressTotals sizes the progress bar.
type progressTotals struct {
	Frames   int64
	Duration time.Duration
}

// totalsFromProbes sizes the bar from the first source map that selects a
// video stream, using that stream's frame count and its source's duration.
// Without one, the longest mapped source duration is used. A -t input option
// caps the expected duration and scales the frame count with it.
func totalsFromProbes(j job.EncodeJob, probes map[int]ffprobe.Result) progressTotals {
	var totals progressTotals
	found := false
	for _, sm := range j.SourceMaps {
		probe, ok := probes[sm.Source]
		if !ok {
			continue
		}
		duration := time.Duration(probe.DurationSeconds() * float64(time.Second))
		if duration > totals.Duration && !found {
			totals.Duration = duration
		}
		if found {
			continue
		}
		if video, ok := mappedVideo(probe, sm); ok {
			found = true
			totals.Frames = video.Frames
			if duration > 0 {
				totals.Duration = duration
			}
		}
	}
	if limit, ok := ParseDuration(j.InputOptions.T); ok && limit > 0 && (totals.Duration == 0 || limit < totals.Duration) {
		if totals.Duration > 0 && totals.Frames > 0 {
			totals.Frames = int64(float64(totals.Frames) * limit.Seconds() / totals.Duration.Seconds())
		}
		totals.Duration = limit
	}
	return totals
}

// mappedVideo returns the video stream a source map selects. Maps for other
// stream types select none; a map of a whole source selects its primary
// video stream.
func mappedVideo(probe ffprobe.Result, sm job.SourceMap) (ffprobe.StreamInfo, bool) {
	switch sm.Specifier {
	case job.SpecifierVideo:
	case job.SpecifierNone:
		if sm.Stream == nil {
			return probe.PrimaryVideo()
		}
	default:
		return ffprobe.StreamInfo{}, false
	}
	for _, stream := range probe.Select(sm.Specifier.CodecType(), sm.Stream) {
		if stream.Type == "video" {
			return stream, true
		}
	}
	return ffprobe.StreamInfo{}, false
}

// ParseDuration parses ffmpeg's time duration syntax: either
// [-][HH:]MM:SS[.m...] or [-]S+[.m...][s|ms|us].
func ParseDuration(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	negative := strings.HasPrefix(value, "-")
	value = strings.TrimPrefix(value, "-")

	var total float64
	if strings.Contains(value, ":") {
		parts := strings.Split(value, ":")
		if len(parts) > 3 {
			return 0, false
		}
		for _, part := range parts {
			n, err := strconv.ParseFloat(part, 64)
			if err != nil || n < 0 {
				return 0, false
			}
			total = total*60 + n
		}
	} else {
		divisor := 1.0
		switch {
		case strings.HasSuffix(value, "ms"):
			value, divisor = strings.TrimSuffix(value, "ms"), 1e3
		case strings.HasSuffix(value, "us"):
			value, divisor = strings.TrimSuffix(value, "us"), 1e6
		case strings.HasSuffix(value, "s"):
			value = strings.TrimSuffix(value, "s")
		}
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || n < 0 {
			return 0, false
		}
		total = n / divisor
	}
	if negative {
		total = -total
	}
	return time.Duration(total * float64(time.Second)), true
}
