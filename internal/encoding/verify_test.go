package encoding

import (
	"testing"
	"time"

	"ffjob/internal/job"
	"ffjob/internal/media/ffprobe"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
		ok    bool
	}{
		{"30", 30 * time.Second, true},
		{"1.5", 1500 * time.Millisecond, true},
		{"500ms", 500 * time.Millisecond, true},
		{"2s", 2 * time.Second, true},
		{"01:30", 90 * time.Second, true},
		{"01:00:05.5", time.Hour + 5500*time.Millisecond, true},
		{"-5", -5 * time.Second, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1:2:3:4", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseDuration(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("ParseDuration(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTotalsFromProbes(t *testing.T) {
	probe, err := ffprobe.Parse([]byte(`{
  "streams": [{"index": 0, "codec_type": "video", "nb_frames": "2400", "disposition": {"default": 1}}],
  "format": {"duration": "100.0"}
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	j := job.EncodeJob{
		Sources:    []string{"a.mkv"},
		SourceMaps: []job.SourceMap{{Source: 0}},
	}
	probes := map[int]ffprobe.Result{0: probe}

	totals := totalsFromProbes(j, probes)
	if totals.Frames != 2400 || totals.Duration != 100*time.Second {
		t.Fatalf("unexpected totals %+v", totals)
	}

	j.InputOptions.T = "25"
	totals = totalsFromProbes(j, probes)
	if totals.Frames != 600 || totals.Duration != 25*time.Second {
		t.Fatalf("expected -t to scale totals, got %+v", totals)
	}
}

func TestVerifyStreamsWholeSource(t *testing.T) {
	probe, err := ffprobe.Parse([]byte(`{"streams": [], "format": {}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	j := job.EncodeJob{
		Sources:    []string{"empty.mkv"},
		SourceMaps: []job.SourceMap{{Source: 0}},
	}
	if _, err := verifyStreams(j, map[int]ffprobe.Result{0: probe}); err == nil {
		t.Fatal("expected error for source without streams")
	}
	j.SourceMaps[0].Optional = true
	warnings, err := verifyStreams(j, map[int]ffprobe.Result{0: probe})
	if err != nil || len(warnings) != 1 {
		t.Fatalf("expected one warning, got %q err=%v", warnings, err)
	}
}

func TestTotalsFollowMappedVideoStream(t *testing.T) {
	withVideo, err := ffprobe.Parse([]byte(`{
  "streams": [
    {"index": 0, "codec_type": "video", "nb_frames": "1000", "disposition": {"default": 1}},
    {"index": 1, "codec_type": "audio"}
  ],
  "format": {"duration": "40.0"}
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	twoVideos, err := ffprobe.Parse([]byte(`{
  "streams": [
    {"index": 0, "codec_type": "video", "nb_frames": "500"},
    {"index": 1, "codec_type": "video", "nb_frames": "250"}
  ],
  "format": {"duration": "10.0"}
}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	probes := map[int]ffprobe.Result{0: withVideo, 1: twoVideos}

	j := job.EncodeJob{
		Sources: []string{"a.mkv", "b.mkv"},
		SourceMaps: []job.SourceMap{
			{Source: 0, Specifier: job.SpecifierAudio, Stream: job.Index(0)},
			{Source: 1, Specifier: job.SpecifierVideo, Stream: job.Index(1)},
		},
	}
	totals := totalsFromProbes(j, probes)
	if totals.Frames != 250 || totals.Duration != 10*time.Second {
		t.Fatalf("expected totals of b.mkv v:1, got %+v", totals)
	}

	j.SourceMaps[1] = job.SourceMap{Source: 1, Stream: job.Index(0)}
	if totals := totalsFromProbes(j, probes); totals.Frames != 500 {
		t.Fatalf("expected untyped index 0 to select the first video, got %+v", totals)
	}

	j.SourceMaps = j.SourceMaps[:1]
	totals = totalsFromProbes(j, probes)
	if totals.Frames != 0 || totals.Duration != 40*time.Second {
		t.Fatalf("audio-only mapping must not count frames, got %+v", totals)
	}
}
