package logs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ffjob/internal/services"
)

const transcriptStampLayout = "20060102T150405"

// Transcript is one run's stderr capture under the transcript directory.
type Transcript struct {
	Path    string    `json:"path"`
	RunID   string    `json:"run_id"`
	Started time.Time `json:"started"`
	Size    int64     `json:"size"`
}

// ListTranscripts returns the transcripts in dir, newest first. A missing
// directory yields an empty list.
func ListTranscripts(dir string) ([]Transcript, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read transcript directory: %w", err)
	}
	var out []Transcript
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		t, ok := parseTranscriptName(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		t.Path = filepath.Join(dir, entry.Name())
		t.Size = info.Size()
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Started.After(out[j].Started)
	})
	return out, nil
}

// FindTranscript resolves a run ID, or a unique prefix of one, to its
// transcript. An empty ID selects the newest transcript.
func FindTranscript(dir, runID string) (Transcript, error) {
	all, err := ListTranscripts(dir)
	if err != nil {
		return Transcript{}, err
	}
	runID = strings.ToLower(strings.TrimSpace(runID))
	if runID == "" {
		if len(all) == 0 {
			return Transcript{}, fmt.Errorf("%w: no run transcripts in %s", services.ErrNotFound, dir)
		}
		return all[0], nil
	}
	var matches []Transcript
	for _, t := range all {
		if strings.HasPrefix(t.RunID, runID) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Transcript{}, fmt.Errorf("%w: no transcript for run %q", services.ErrNotFound, runID)
	case 1:
		return matches[0], nil
	default:
		return Transcript{}, fmt.Errorf("%w: run ID prefix %q matches %d transcripts", services.ErrConfiguration, runID, len(matches))
	}
}

// parseTranscriptName splits "<stamp>-<run id>.log".
func parseTranscriptName(name string) (Transcript, bool) {
	base, ok := strings.CutSuffix(name, ".log")
	if !ok {
		return Transcript{}, false
	}
	stamp, runID, ok := strings.Cut(base, "-")
	if !ok || runID == "" {
		return Transcript{}, false
	}
	started, err := time.ParseInLocation(transcriptStampLayout, stamp, time.Local)
	if err != nil {
		return Transcript{}, false
	}
	return Transcript{RunID: strings.ToLower(runID), Started: started}, true
}
