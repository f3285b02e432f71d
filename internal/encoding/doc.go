// Package encoding runs assembled ffmpeg invocations for encode jobs.
//
// A Runner resolves option sets, validates and assembles the job, checks the
// sources and output location, optionally verifies every non-optional stream
// selection against ffprobe, and then executes ffmpeg under a per-output file
// lock. Progress blocks from `-progress pipe:1` drive a terminal progress bar
// or sampled log lines, and a failed run surfaces as an ffmpeg.ToolError with
// a classified reason and the tail of stderr.
//
// Keep process execution here so the CLI can stay a thin layer over Run.
package encoding
