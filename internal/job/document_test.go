package job_test

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"ffjob/internal/job"
	"ffjob/internal/services"
)

const exampleDocument = `{
  "sources": ["a.mkv", "b.ac3"],
  "source_maps": [
    {"source": 0, "specifier": "video", "stream": 0},
    {"source": 1, "specifier": "a", "stream": 0, "optional": true}
  ],
  "output_maps": [
    {"specifier": "v", "stream": 0, "options": {"codec": "libx265", "crf": 20, "x265-params": {"aq-mode": 3, "no-sao": true}}},
    {"specifier": "audio", "stream": 0, "option_set": "aac-stereo"}
  ],
  "output_file": "/out.mkv",
  "overwrite": true,
  "input_options": {"stream_loop": 1, "ss": "00:00:10"}
}`

func TestParseDocument(t *testing.T) {
	j, err := job.Parse("example.json", []byte(exampleDocument))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(j.Sources, []string{"a.mkv", "b.ac3"}) {
		t.Fatalf("unexpected sources: %v", j.Sources)
	}
	if len(j.SourceMaps) != 2 {
		t.Fatalf("expected 2 source maps, got %d", len(j.SourceMaps))
	}
	if j.SourceMaps[0].Specifier != job.SpecifierVideo || j.SourceMaps[1].Specifier != job.SpecifierAudio {
		t.Fatalf("expected normalized specifiers, got %q and %q", j.SourceMaps[0].Specifier, j.SourceMaps[1].Specifier)
	}
	if j.SourceMaps[0].Stream == nil || *j.SourceMaps[0].Stream != 0 {
		t.Fatalf("expected explicit stream 0, got %v", j.SourceMaps[0].Stream)
	}
	if j.SourceMaps[0].Optional || !j.SourceMaps[1].Optional {
		t.Fatalf("unexpected optional flags: %+v", j.SourceMaps)
	}
	if j.OutputFile != "/out.mkv" || !j.Overwrite {
		t.Fatalf("unexpected output settings: %q overwrite=%v", j.OutputFile, j.Overwrite)
	}

	video := j.OutputMaps[0]
	if got := video.Options.Keys(); !reflect.DeepEqual(got, []string{"codec", "crf", "x265-params"}) {
		t.Fatalf("expected declaration order to survive, got %v", got)
	}
	crf, _ := video.Options.Get("crf")
	if crf.String() != "20" {
		t.Fatalf("expected numeric literal to be kept, got %q", crf.String())
	}
	params, _ := video.Options.Get("x265-params")
	if !params.IsMapping() {
		t.Fatal("expected x265-params to be a mapping")
	}
	if got := params.Nested().Keys(); !reflect.DeepEqual(got, []string{"aq-mode", "no-sao"}) {
		t.Fatalf("unexpected nested order: %v", got)
	}

	audio := j.OutputMaps[1]
	if audio.HasOptions() || audio.OptionSet != "aac-stereo" {
		t.Fatalf("expected option set reference only, got %+v", audio)
	}

	if j.InputOptions.StreamLoop == nil || *j.InputOptions.StreamLoop != 1 {
		t.Fatalf("unexpected stream_loop: %v", j.InputOptions.StreamLoop)
	}
	if j.InputOptions.SS != "00:00:10" {
		t.Fatalf("unexpected ss: %q", j.InputOptions.SS)
	}
}

func TestParseDefaultsOverwriteAndOptional(t *testing.T) {
	doc := `{"sources":["in.mkv"],"source_maps":[{"source":0}],"output_file":"out.mkv"}`
	j, err := job.Parse("", []byte(doc))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if j.Overwrite {
		t.Fatal("expected overwrite to default to false")
	}
	if j.SourceMaps[0].Optional || j.SourceMaps[0].Stream != nil || j.SourceMaps[0].Specifier != job.SpecifierNone {
		t.Fatalf("unexpected source map defaults: %+v", j.SourceMaps[0])
	}
	if len(j.OutputMaps) != 0 {
		t.Fatalf("expected no output maps, got %d", len(j.OutputMaps))
	}
	if !j.InputOptions.IsZero() {
		t.Fatalf("expected zero input options, got %+v", j.InputOptions)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"invalid json":         `{"sources":`,
		"missing sources":      `{"source_maps":[{"source":0}],"output_file":"o.mkv"}`,
		"empty sources":        `{"sources":[],"source_maps":[{"source":0}],"output_file":"o.mkv"}`,
		"duplicate sources":    `{"sources":["a","a"],"source_maps":[{"source":0}],"output_file":"o.mkv"}`,
		"empty source maps":    `{"sources":["a"],"source_maps":[],"output_file":"o.mkv"}`,
		"missing output file":  `{"sources":["a"],"source_maps":[{"source":0}]}`,
		"empty output file":    `{"sources":["a"],"source_maps":[{"source":0}],"output_file":""}`,
		"unknown top level":    `{"sources":["a"],"source_maps":[{"source":0}],"output_file":"o","extra":1}`,
		"unknown map key":      `{"sources":["a"],"source_maps":[{"source":0,"track":1}],"output_file":"o"}`,
		"negative stream":      `{"sources":["a"],"source_maps":[{"source":0,"stream":-1}],"output_file":"o"}`,
		"fractional source":    `{"sources":["a"],"source_maps":[{"source":0.5}],"output_file":"o"}`,
		"options and set":      `{"sources":["a"],"source_maps":[{"source":0}],"output_maps":[{"stream":0,"options":{},"option_set":"x"}],"output_file":"o"}`,
		"neither options":      `{"sources":["a"],"source_maps":[{"source":0}],"output_maps":[{"stream":0}],"output_file":"o"}`,
		"output stream absent": `{"sources":["a"],"source_maps":[{"source":0}],"output_maps":[{"options":{}}],"output_file":"o"}`,
		"array option":         `{"sources":["a"],"source_maps":[{"source":0}],"output_maps":[{"stream":0,"options":{"c":["x"]}}],"output_file":"o"}`,
		"unknown input option": `{"sources":["a"],"source_maps":[{"source":0}],"output_file":"o","input_options":{"sseof":"1"}}`,
		"trailing data":        `{"sources":["a"],"source_maps":[{"source":0}],"output_file":"o"} {}`,
	}
	for name, doc := range cases {
		_, err := job.Parse("job.json", []byte(doc))
		if err == nil {
			t.Fatalf("%s: expected schema error", name)
		}
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: expected validation marker, got %v", name, err)
		}
		var schemaErr *job.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Fatalf("%s: expected *job.SchemaError, got %T", name, err)
		}
		if len(schemaErr.Problems) == 0 {
			t.Fatalf("%s: expected at least one problem", name)
		}
		if !strings.Contains(err.Error(), "job.json") {
			t.Fatalf("%s: expected source name in error, got %q", name, err.Error())
		}
	}
}

func TestParseReportsModelErrorsAsConfiguration(t *testing.T) {
	cases := map[string]string{
		"source out of range":    `{"sources":["a","b"],"source_maps":[{"source":5}],"output_file":"o"}`,
		"unknown specifier":      `{"sources":["a"],"source_maps":[{"source":0,"specifier":"x"}],"output_file":"o"}`,
		"output out of range":    `{"sources":["a"],"source_maps":[{"source":0,"stream":0}],"output_maps":[{"stream":1,"options":{"c":"copy"}}],"output_file":"o"}`,
		"deep nesting":           `{"sources":["a"],"source_maps":[{"source":0}],"output_maps":[{"stream":0,"options":{"p":{"q":{"r":1}}}}],"output_file":"o"}`,
		"fractional stream loop": `{"sources":["a"],"source_maps":[{"source":0}],"output_file":"o","input_options":{"stream_loop":1.5}}`,
	}
	for name, doc := range cases {
		_, err := job.Parse("job.json", []byte(doc))
		if err == nil {
			t.Fatalf("%s: expected configuration error", name)
		}
		if !errors.Is(err, services.ErrConfiguration) {
			t.Fatalf("%s: expected configuration marker, got %v", name, err)
		}
		if errors.Is(err, services.ErrValidation) {
			t.Fatalf("%s: configuration failure must not be reported as schema failure: %v", name, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.json")
	if err := os.WriteFile(path, []byte(exampleDocument), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	j, err := job.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if len(j.Sources) != 2 {
		t.Fatalf("unexpected sources: %v", j.Sources)
	}
	if _, err := job.LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing document")
	}
}
