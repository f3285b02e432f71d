package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"ffjob/internal/services"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream
	Format  Format
	raw     []byte
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index         int
	CodecName     string
	CodecLongName string
	CodecType     string
	CodecTag      string
	Duration      string
	BitRate       string
	NBFrames      string
	NBReadFrames  string
	Width         int
	Height        int
	SampleRate    string
	Channels      int
	Disposition   map[string]int
	Tags          map[string]string
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string
	NBStreams  int
	Duration   string
	Size       string
	BitRate    string
	FormatName string
}

// Options tune an inspection.
type Options struct {
	// CountFrames makes ffprobe decode every stream to count frames. Slow, but
	// exact when the container carries no frame statistics.
	CountFrames bool
}

// Args returns the ffprobe arguments used to inspect path.
func Args(path string, opts Options) []string {
	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json"}
	if opts.CountFrames {
		args = append(args, "-count_frames")
	}
	return append(args, "--", path)
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string, opts Options) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, Args(path, opts)...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("%w: ffprobe inspect %s: %w: %s", services.ErrExternalTool, path, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("%w: ffprobe inspect %s: %w", services.ErrExternalTool, path, err)
	}
	return Parse(output)
}

// Parse decodes an ffprobe JSON payload.
func Parse(data []byte) (Result, error) {
	if !gjson.ValidBytes(data) {
		return Result{}, errors.New("ffprobe parse: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return Result{}, errors.New("ffprobe parse: expected a JSON object")
	}

	var result Result
	doc.Get("streams").ForEach(func(_, value gjson.Result) bool {
		result.Streams = append(result.Streams, parseStream(value))
		return true
	})
	format := doc.Get("format")
	result.Format = Format{
		Filename:   format.Get("filename").String(),
		NBStreams:  int(format.Get("nb_streams").Int()),
		Duration:   format.Get("duration").String(),
		Size:       format.Get("size").String(),
		BitRate:    format.Get("bit_rate").String(),
		FormatName: format.Get("format_name").String(),
	}
	result.raw = append([]byte(nil), data...)
	return result, nil
}

func parseStream(value gjson.Result) Stream {
	stream := Stream{
		Index:         int(value.Get("index").Int()),
		CodecName:     value.Get("codec_name").String(),
		CodecLongName: value.Get("codec_long_name").String(),
		CodecType:     value.Get("codec_type").String(),
		CodecTag:      value.Get("codec_tag_string").String(),
		Duration:      value.Get("duration").String(),
		BitRate:       value.Get("bit_rate").String(),
		NBFrames:      value.Get("nb_frames").String(),
		NBReadFrames:  value.Get("nb_read_frames").String(),
		Width:         int(value.Get("width").Int()),
		Height:        int(value.Get("height").Int()),
		SampleRate:    value.Get("sample_rate").String(),
		Channels:      int(value.Get("channels").Int()),
	}
	if disposition := value.Get("disposition"); disposition.IsObject() {
		stream.Disposition = make(map[string]int)
		disposition.ForEach(func(key, flag gjson.Result) bool {
			stream.Disposition[key.String()] = int(flag.Int())
			return true
		})
	}
	if tags := value.Get("tags"); tags.IsObject() {
		stream.Tags = make(map[string]string)
		tags.ForEach(func(key, tag gjson.Result) bool {
			stream.Tags[key.String()] = tag.String()
			return true
		})
	}
	return stream
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.countType("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.countType("audio")
}

// SubtitleStreamCount returns the number of subtitle streams discovered.
func (r Result) SubtitleStreamCount() int {
	return r.countType("subtitle")
}

func (r Result) countType(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, codecType) {
			count++
		}
	}
	return count
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	return nonNegative(parseFloat(r.Format.Size))
}

// BitRate returns the container bitrate in bits per second, or 0 when unavailable.
func (r Result) BitRate() int64 {
	return nonNegative(parseFloat(r.Format.BitRate))
}

// Tag looks up a stream tag. Exact matches win; otherwise keys compare
// case-insensitively since muxers disagree on tag casing.
func (s Stream) Tag(key string) (string, bool) {
	if value, ok := s.Tags[key]; ok {
		return value, true
	}
	for name, value := range s.Tags {
		if strings.EqualFold(name, key) {
			return value, true
		}
	}
	return "", false
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

func nonNegative(value float64) int64 {
	if math.IsNaN(value) || value < 0 {
		return 0
	}
	return int64(value)
}
