// Package logs reads the files ffjob leaves in log_dir: the process log and
// the per-run ffmpeg transcripts.
//
// Tail returns the last lines of a file together with the byte offset where
// reading stopped, and Follow polls from that offset until its context ends.
// Transcripts are located by run ID (or prefix) so `ffjob logs RUN_ID` can
// show the stderr of a finished or failed encode.
package logs
