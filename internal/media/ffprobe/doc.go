// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: raw per-stream properties as reported by ffprobe
//   - StreamInfo: a flattened stream summary with bitrate and frame-count
//     fallbacks applied
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns the parsed Result
//   - Parse: decodes a captured ffprobe JSON payload
//
// Matroska muxers often omit bit_rate and nb_frames on the stream itself and
// record them as statistics tags instead (BPS, NUMBER_OF_FRAMES and their
// per-language variants). StreamInfo falls back to those tags.
package ffprobe
