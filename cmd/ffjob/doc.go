// Package main hosts the ffjob CLI entrypoint and command graph.
//
// The Cobra-based command tree loads encode job documents and prints or runs
// the ffmpeg invocation they describe. Supporting commands inspect media with
// ffprobe, manage the named option-set store, show logs and run transcripts,
// and scaffold configuration. Configuration resolution and logging setup live
// in the shared command context so subcommands can focus on user experience.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
