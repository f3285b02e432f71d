package ffmpeg_test

import (
	"errors"
	"reflect"
	"testing"

	"ffjob/internal/ffmpeg"
	"ffjob/internal/job"
	"ffjob/internal/services"
)

func TestMapSelector(t *testing.T) {
	cases := []struct {
		name string
		sm   job.SourceMap
		want string
	}{
		{"whole source", job.SourceMap{Source: 1}, "1"},
		{"first audio", job.SourceMap{Source: 2, Specifier: job.SpecifierAudio, Stream: job.Index(0)}, "2:a:0"},
		{"all subtitles", job.SourceMap{Source: 0, Specifier: job.SpecifierSubtitle}, "0:s"},
		{"absolute index", job.SourceMap{Source: 3, Stream: job.Index(2)}, "3:2"},
		{"optional", job.SourceMap{Source: 1, Specifier: job.SpecifierAudio, Stream: job.Index(0), Optional: true}, "1:a:0?"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ffmpeg.MapSelector(tc.sm); got != tc.want {
				t.Fatalf("MapSelector = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMapArgsChecksSourceRange(t *testing.T) {
	args, err := ffmpeg.MapArgs(job.SourceMap{Source: 0, Specifier: job.SpecifierAudio, Stream: job.Index(0)}, 1)
	if err != nil {
		t.Fatalf("MapArgs returned error: %v", err)
	}
	if want := []string{"-map", "0:a:0"}; !reflect.DeepEqual(args, want) {
		t.Fatalf("got %q want %q", args, want)
	}

	if _, err := ffmpeg.MapArgs(job.SourceMap{Source: 5}, 2); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
