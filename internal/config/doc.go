// Package config loads, normalizes, and validates ffjob configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours the FFMPEG_PATH and FFPROBE_PATH environment
// fallbacks. Validation failures wrap services.ErrConfiguration so the CLI
// reports them with the configuration exit status.
package config
