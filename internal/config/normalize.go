package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeEncoding()
	if err := c.normalizeOptionSets(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	c.FFmpeg.Binary = strings.TrimSpace(c.FFmpeg.Binary)
	if c.FFmpeg.Binary == "" {
		if value, ok := os.LookupEnv("FFMPEG_PATH"); ok {
			c.FFmpeg.Binary = strings.TrimSpace(value)
		}
	}
	c.FFmpeg.FFprobeBinary = strings.TrimSpace(c.FFmpeg.FFprobeBinary)
	if c.FFmpeg.FFprobeBinary == "" {
		if value, ok := os.LookupEnv("FFPROBE_PATH"); ok {
			c.FFmpeg.FFprobeBinary = strings.TrimSpace(value)
		}
	}
	c.FFmpeg.LogLevel = strings.ToLower(strings.TrimSpace(c.FFmpeg.LogLevel))
}

func (c *Config) normalizeEncoding() {
	c.Encoding.Progress = strings.ToLower(strings.TrimSpace(c.Encoding.Progress))
	if c.Encoding.Progress == "" {
		c.Encoding.Progress = defaultProgressMode
	}
}

func (c *Config) normalizeOptionSets() error {
	path := strings.TrimSpace(c.OptionSets.DBPath)
	if path == "" {
		path = filepath.Join(c.Paths.StateDir, defaultOptionSetDBName)
	}
	expanded, err := expandPath(path)
	if err != nil {
		return fmt.Errorf("option_sets.db_path: %w", err)
	}
	c.OptionSets.DBPath = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
