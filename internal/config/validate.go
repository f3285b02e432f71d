package config

import (
	"fmt"

	"ffjob/internal/services"
)

var ffmpegLogLevels = map[string]struct{}{
	"quiet": {}, "panic": {}, "fatal": {}, "error": {}, "warning": {},
	"info": {}, "verbose": {}, "debug": {}, "trace": {},
}

func configurationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrConfiguration, fmt.Sprintf(format, args...))
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.LogLevel == "" {
		return nil
	}
	if _, ok := ffmpegLogLevels[c.FFmpeg.LogLevel]; !ok {
		return configurationError("ffmpeg.log_level %q is not an ffmpeg log level", c.FFmpeg.LogLevel)
	}
	return nil
}

func (c *Config) validateEncoding() error {
	switch c.Encoding.Progress {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return configurationError("encoding.progress must be one of auto, always, never (got %q)", c.Encoding.Progress)
	}
	if c.Encoding.TimeoutSeconds < 0 {
		return configurationError("encoding.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return configurationError("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return configurationError("logging.level must be debug, info, warn or error (got %q)", c.Logging.Level)
	}
	return nil
}
