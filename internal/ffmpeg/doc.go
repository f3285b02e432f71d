// Package ffmpeg turns an encode job into an ordered ffmpeg argument list and
// runs it.
//
// Assembly is pure and deterministic: the same job always yields the same
// token slice. The token order is fixed because ffmpeg is position sensitive:
//
//  1. input options (-stream_loop, -recast_media, -ss, -to, -t), once
//  2. -i <source> per source, in declaration order
//  3. -map <source>[:<type>][:<index>][?] per source map
//  4. -<key>[:<type>]:<index> <value> per output map option
//  5. -y when overwriting, then the output path
//
// Runtime-only flags (banner, stdin, progress reporting, log level) are kept
// out of the assembled arguments and added by Invocation so printed commands
// stay reproducible.
//
// Execution goes through the Executor interface; the default implementation
// streams stdout and stderr line by line so callers can parse progress.
package ffmpeg
