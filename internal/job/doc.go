// Package job models an ffmpeg encode job: the ordered source registry, the
// stream mapping entries that select streams from those sources, and the
// output maps that attach per-stream options to the mapped streams.
//
// Jobs are either built directly in Go or loaded from a JSON document that is
// validated against the embedded JSON Schema before any model is created.
// Option values keep their declaration order from the document all the way to
// the generated command line, so identical documents always produce identical
// invocations.
//
// Named option sets are resolved through the Resolver interface before a job
// reaches the command assembler; this package never looks them up itself.
package job
