package preflight

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"ffjob/internal/config"
	"ffjob/internal/job"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckInputFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mkv")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if r := CheckInputFile("src", input); !r.Passed {
		t.Fatalf("expected readable input to pass: %s", r.Detail)
	}
	if r := CheckInputFile("src", filepath.Join(dir, "missing.mkv")); r.Passed {
		t.Fatal("expected missing input to fail")
	}
	if r := CheckInputFile("src", dir); r.Passed {
		t.Fatal("expected directory input to fail")
	}
	for _, remote := range []string{"https://example.com/a.m3u8", "pipe:0", "-"} {
		if r := CheckInputFile("src", remote); !r.Passed {
			t.Fatalf("expected %q to be skipped, got %s", remote, r.Detail)
		}
	}
}

func TestCheckOutputPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "out.mkv")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if r := CheckOutputPath("out", filepath.Join(dir, "new.mkv"), false); !r.Passed {
		t.Fatalf("expected new output to pass: %s", r.Detail)
	}
	if r := CheckOutputPath("out", existing, true); !r.Passed {
		t.Fatalf("expected overwrite to pass: %s", r.Detail)
	}
	r := CheckOutputPath("out", existing, false)
	if r.Passed {
		t.Fatal("expected existing output without overwrite to fail")
	}
	if !strings.Contains(r.Detail, "already exists") {
		t.Fatalf("unexpected detail %q", r.Detail)
	}
	if r := CheckOutputPath("out", filepath.Join(dir, "nope", "out.mkv"), true); r.Passed {
		t.Fatal("expected missing parent directory to fail")
	}
}

func TestCheckOutputPath_ReadOnlyDir(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for this user")
	}
	dir := t.TempDir()
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if r := CheckOutputPath("out", filepath.Join(dir, "out.mkv"), true); r.Passed {
		t.Fatal("expected read-only directory to fail")
	}
}

func TestCheckJob(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.mkv")
	if err := os.WriteFile(input, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	j := job.EncodeJob{
		Sources:    []string{input, filepath.Join(dir, "absent.mkv")},
		OutputFile: filepath.Join(dir, "out.mkv"),
	}

	results := CheckJob(j)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	failure, ok := FirstFailure(results)
	if !ok {
		t.Fatal("expected a failure for the absent source")
	}
	if failure.Name != "Source 1" {
		t.Fatalf("unexpected first failure %q", failure.Name)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.OptionSets.DBPath = filepath.Join(cfg.Paths.StateDir, "option_sets.db")
	cfg.FFmpeg.Binary = "clearly-not-present-ffmpeg"
	cfg.FFmpeg.FFprobeBinary = "clearly-not-present-ffprobe"
	t.Setenv("PATH", "")

	results := RunAll(context.Background(), &cfg)
	// log dir, state dir, ffmpeg, ffprobe
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for _, r := range results[:2] {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if results[2].Name != "FFmpeg" || results[2].Passed {
		t.Fatalf("expected failing FFmpeg check, got %#v", results[2])
	}
}

func TestRunAll_SeparateOptionSetDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()
	cfg.Paths.StateDir = t.TempDir()
	cfg.OptionSets.DBPath = filepath.Join(t.TempDir(), "sets.db")
	t.Setenv("PATH", "")

	found := false
	for _, r := range RunAll(context.Background(), &cfg) {
		if r.Name == "Option set directory" {
			found = true
			if !r.Passed {
				t.Errorf("option set directory check failed: %s", r.Detail)
			}
		}
	}
	if !found {
		t.Fatal("expected option set directory check in results")
	}
}

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/media/in.mkv", true},
		{"relative/in.mkv", true},
		{"./in:take2.mkv", true},
		{`C:\media\in.mkv`, true},
		{"in.mkv", true},
		{"", false},
		{"-", false},
		{"pipe:0", false},
		{"file:/media/in.mkv", false},
		{"https://example.com/in.mkv", false},
		{"concat:a.ts|b.ts", false},
		{"subfile:,start,100,end,200,:in.mkv", false},
		{"data:video/mp4;base64,AAAA", false},
	}
	for _, tt := range tests {
		if got := IsLocalPath(tt.path); got != tt.want {
			t.Fatalf("IsLocalPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
