// Package optionset stores named bundles of per-stream ffmpeg options that
// encode jobs reference through option_set instead of repeating inline
// options.
//
// Store persists sets in SQLite with embedded, ordered migrations. Static is
// an in-memory resolver for programmatic use and tests. Both satisfy
// job.Resolver and report unknown names with services.ErrNotFound.
package optionset
