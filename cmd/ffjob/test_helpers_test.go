package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ffjob/internal/config"
	"ffjob/internal/testsupport"
)

const probeFixture = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "nb_frames": "48",
     "disposition": {"default": 1, "forced": 0}, "tags": {"language": "eng"}},
    {"index": 1, "codec_name": "ac3", "codec_type": "audio", "channels": 6, "bit_rate": "640000",
     "disposition": {"default": 1, "forced": 0}, "tags": {"language": "fre", "title": "VF"}}
  ],
  "format": {"filename": "in.mkv", "nb_streams": 2, "duration": "2.000000", "size": "2048", "bit_rate": "8192", "format_name": "matroska,webm"}
}`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	argsFile   string
	sources    []string
	output     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	argsFile := filepath.Join(base, "ffmpeg-args.txt")
	ffmpegStub := filepath.Join(binDir, "ffmpeg")
	testsupport.WriteScript(t, ffmpegStub, `if [ "$1" = "-version" ]; then echo "ffmpeg version 7.1-stub"; exit 0; fi
printf '%s\n' "$@" > '`+argsFile+`'
echo "frame=24"
echo "progress=continue"
echo "frame=48"
echo "progress=end"
echo "Output #0, matroska, to 'out.mkv':" >&2
for last; do :; done
: > "$last"
exit 0`)
	ffprobeStub := filepath.Join(binDir, "ffprobe")
	testsupport.WriteScript(t, ffprobeStub, `if [ "$1" = "-version" ]; then echo "ffprobe version 7.1-stub"; exit 0; fi
cat <<'JSON'
`+probeFixture+`
JSON`)
	cfg.FFmpeg.Binary = ffmpegStub
	cfg.FFmpeg.FFprobeBinary = ffprobeStub

	mediaDir := filepath.Join(base, "media")
	sources := []string{filepath.Join(mediaDir, "a.mkv"), filepath.Join(mediaDir, "b.ac3")}
	for _, source := range sources {
		testsupport.WriteFile(t, source, 128)
	}

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		argsFile:   argsFile,
		sources:    sources,
		output:     filepath.Join(mediaDir, "out.mkv"),
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeJob writes a job document that maps video from the first source and
// audio from the second.
func (env *cliTestEnv) writeJob(t *testing.T, mutate func(doc map[string]any)) string {
	t.Helper()
	doc := map[string]any{
		"sources": env.sources,
		"source_maps": []map[string]any{
			{"source": 0, "specifier": "video", "stream": 0},
			{"source": 1, "specifier": "audio", "stream": 0},
		},
		"output_maps": []map[string]any{
			{"specifier": "v", "stream": 0, "options": map[string]any{"codec": "copy"}},
			{"specifier": "a", "stream": 0, "options": map[string]any{"codec": "copy"}},
		},
		"output_file": env.output,
	}
	if mutate != nil {
		mutate(doc)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal job: %v", err)
	}
	path := filepath.Join(env.baseDir, "job.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}
	return path
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	flags := []string{"--config", env.configPath}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
